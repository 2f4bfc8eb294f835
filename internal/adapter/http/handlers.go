package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/couchcryptid/restaurant-directory/internal/domain"
	"github.com/couchcryptid/restaurant-directory/internal/service"
)

type handler struct {
	dir    Directory
	logger *slog.Logger
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := h.dir.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	var input service.RestaurantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	restaurant, err := h.dir.Create(r.Context(), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, restaurant)
}

func (h *handler) get(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	view, err := h.dir.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) update(w http.ResponseWriter, r *http.Request) {
	var input service.RestaurantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	restaurant, err := h.dir.Update(r.Context(), pathID(r), input)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.dir.Delete(r.Context(), pathID(r)); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) addReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Comment string `json:"comment"`
		Rating  int    `json:"rating"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	review, err := h.dir.AddReview(r.Context(), domain.Review{
		RestaurantID: pathID(r),
		Comment:      body.Comment,
		Rating:       body.Rating,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

// writeError maps domain errors onto status codes: validation failures
// re-present the offending fields, missing records are 404, and a
// broken geocoder is a 502 so the client knows nothing was saved.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, domain.ErrGeocodingUnavailable):
		h.logger.Error("geocoding unavailable", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: "geocoding unavailable"})
	default:
		h.logger.Error("request failed", "error", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// pathID extracts the {id} route variable. The route pattern already
// constrains it to digits.
func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

// parseListFilter reads the listing query parameters. lat and lon must
// be given together; radius_km defaults to the nearby policy radius.
func parseListFilter(r *http.Request) (domain.ListFilter, error) {
	q := r.URL.Query()

	filter := domain.ListFilter{
		Search:   q.Get("q"),
		MenuType: q.Get("menu_type"),
	}

	switch q.Get("sort") {
	case "", string(domain.SortNameAsc):
		filter.Sort = domain.SortNameAsc
	case string(domain.SortNameDesc):
		filter.Sort = domain.SortNameDesc
	default:
		return domain.ListFilter{}, errors.New("sort must be name_asc or name_desc")
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" && lonStr == "" {
		return filter, nil
	}
	if latStr == "" || lonStr == "" {
		return domain.ListFilter{}, errors.New("lat and lon must be given together")
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return domain.ListFilter{}, errors.New("lat must be a number")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return domain.ListFilter{}, errors.New("lon must be a number")
	}

	radius := float64(domain.DefaultNearbyRadiusKm)
	if s := q.Get("radius_km"); s != "" {
		radius, err = strconv.ParseFloat(s, 64)
		if err != nil || radius < 0 {
			return domain.ListFilter{}, errors.New("radius_km must be a non-negative number")
		}
	}

	filter.Near = &domain.NearbyFilter{
		Center:   domain.GeoLocation{Latitude: lat, Longitude: lon},
		RadiusKm: radius,
	}
	return filter, nil
}
