// Package service orchestrates directory operations: it sequences
// coordinate resolution before every write and composes the listing
// pipeline over the store.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/restaurant-directory/internal/domain"
)

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, r *domain.Restaurant) error
	GetByID(ctx context.Context, id int64) (*domain.Restaurant, error)
	List(ctx context.Context) ([]domain.Restaurant, error)
	Update(ctx context.Context, r *domain.Restaurant) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
	MenuTypes(ctx context.Context) ([]string, error)
	AddReview(ctx context.Context, rv *domain.Review) error
}

// RestaurantInput carries the caller-editable fields of a restaurant.
type RestaurantInput struct {
	Name     string         `json:"name"`
	MenuType string         `json:"menu_type"`
	Address  domain.Address `json:"address"`
}

// RestaurantView is a restaurant annotated with its derived rating.
type RestaurantView struct {
	domain.Restaurant
	AverageRating float64 `json:"average_rating"`
}

// ListResult is the full listing payload handed to the presentation
// layer: the filtered restaurants, a rating per restaurant ID, and the
// distinct menu types for the filter control.
type ListResult struct {
	Restaurants []RestaurantView  `json:"restaurants"`
	Ratings     map[int64]float64 `json:"ratings"`
	MenuTypes   []string          `json:"menu_types"`
}

// Directory implements the directory use cases over a store and a
// geocoder.
type Directory struct {
	store    Store
	geocoder domain.Geocoder
	clock    clockwork.Clock
	logger   *slog.Logger
}

// New creates a Directory service.
func New(store Store, geocoder domain.Geocoder, clock clockwork.Clock, logger *slog.Logger) *Directory {
	return &Directory{
		store:    store,
		geocoder: geocoder,
		clock:    clock,
		logger:   logger,
	}
}

// Create validates the input, resolves coordinates from the address,
// and persists the record. A hard geocoder failure aborts the create;
// nothing is stored. A geocoder no-match stores the record without
// coordinates.
func (d *Directory) Create(ctx context.Context, input RestaurantInput) (*domain.Restaurant, error) {
	now := d.clock.Now()
	r := &domain.Restaurant{
		Name:      input.Name,
		MenuType:  input.MenuType,
		Address:   input.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ResolveCoordinates(ctx, r, d.geocoder); err != nil {
		return nil, err
	}

	if err := d.store.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("create restaurant: %w", err)
	}

	d.logger.Info("restaurant created",
		"id", r.ID,
		"name", r.Name,
		"resolved", r.Latitude != nil,
	)
	return r, nil
}

// Update applies new fields to an existing restaurant and re-resolves
// its coordinates from the submitted address, whether or not the
// address text changed. A no-match keeps the coordinates resolved for
// the previous address. If the record disappears between the read and
// the write, the zero-row update surfaces as domain.ErrNotFound.
func (d *Directory) Update(ctx context.Context, id int64, input RestaurantInput) (*domain.Restaurant, error) {
	r, err := d.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	r.Name = input.Name
	r.MenuType = input.MenuType
	r.Address = input.Address
	r.UpdatedAt = d.clock.Now()
	if err := r.Validate(); err != nil {
		return nil, err
	}

	if err := domain.ResolveCoordinates(ctx, r, d.geocoder); err != nil {
		return nil, err
	}

	if err := d.store.Update(ctx, r); err != nil {
		return nil, err
	}

	d.logger.Info("restaurant updated", "id", r.ID, "resolved", r.Latitude != nil)
	return r, nil
}

// Get loads one restaurant with its reviews and derived rating.
func (d *Directory) Get(ctx context.Context, id int64) (*RestaurantView, error) {
	r, err := d.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RestaurantView{Restaurant: *r, AverageRating: r.AverageRating()}, nil
}

// Delete removes a restaurant; the store cascades review deletion.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if err := d.store.Delete(ctx, id); err != nil {
		return err
	}
	d.logger.Info("restaurant deleted", "id", id)
	return nil
}

// AddReview validates and persists a review for an existing restaurant.
// The existence check is advisory; the store's foreign key still covers
// a restaurant deleted between the check and the insert.
func (d *Directory) AddReview(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	rv.CreatedAt = d.clock.Now()
	if err := rv.Validate(); err != nil {
		return nil, err
	}
	ok, err := d.store.Exists(ctx, rv.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("add review: %w", err)
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := d.store.AddReview(ctx, &rv); err != nil {
		return nil, err
	}
	d.logger.Info("review added", "restaurant_id", rv.RestaurantID, "rating", rv.Rating)
	return &rv, nil
}

// List loads every restaurant, runs the domain listing pipeline, and
// annotates each survivor with its average rating. The geo step, when
// present, uses the coordinates resolved at write time; no geocoder
// call happens on the read path.
func (d *Directory) List(ctx context.Context, filter domain.ListFilter) (*ListResult, error) {
	all, err := d.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}

	filtered := domain.ApplyListFilter(all, filter)

	views := make([]RestaurantView, 0, len(filtered))
	for _, r := range filtered {
		views = append(views, RestaurantView{Restaurant: r, AverageRating: r.AverageRating()})
	}

	menuTypes, err := d.store.MenuTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu types: %w", err)
	}

	return &ListResult{
		Restaurants: views,
		Ratings:     domain.AverageRatings(filtered),
		MenuTypes:   menuTypes,
	}, nil
}
