// Package postgres persists restaurants and reviews in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/couchcryptid/restaurant-directory/internal/domain"
)

// foreignKeyViolation is the PostgreSQL error code for a failed
// foreign key constraint.
const foreignKeyViolation = "23503"

// Store provides CRUD access to the restaurant and review tables.
type Store struct {
	db *sql.DB
}

// Open connects to PostgreSQL, verifies the connection, and ensures the
// schema exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// NewStore wraps an existing database handle. Used by tests.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create inserts a restaurant and fills in its generated ID.
func (s *Store) Create(ctx context.Context, r *domain.Restaurant) error {
	query := `
		INSERT INTO restaurants (name, menu_type, street, city, zip_code, latitude, longitude, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		r.Name, r.MenuType,
		r.Address.Street, r.Address.City, r.Address.ZipCode,
		r.Latitude, r.Longitude,
		r.CreatedAt, r.UpdatedAt,
	).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("insert restaurant: %w", err)
	}
	return nil
}

// GetByID loads a restaurant and its reviews. Returns
// domain.ErrNotFound when no such record exists.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Restaurant, error) {
	query := `
		SELECT id, name, menu_type, street, city, zip_code, latitude, longitude, created_at, updated_at
		FROM restaurants
		WHERE id = $1`

	var r domain.Restaurant
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.Name, &r.MenuType,
		&r.Address.Street, &r.Address.City, &r.Address.ZipCode,
		&r.Latitude, &r.Longitude,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select restaurant: %w", err)
	}

	reviews, err := s.reviewsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Reviews = reviews
	return &r, nil
}

// List loads every restaurant with its reviews attached. Filtering and
// ordering happen in the domain listing pipeline, not here.
func (s *Store) List(ctx context.Context) ([]domain.Restaurant, error) {
	query := `
		SELECT id, name, menu_type, street, city, zip_code, latitude, longitude, created_at, updated_at
		FROM restaurants
		ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("select restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []domain.Restaurant
	index := map[int64]int{}
	for rows.Next() {
		var r domain.Restaurant
		if err := rows.Scan(
			&r.ID, &r.Name, &r.MenuType,
			&r.Address.Street, &r.Address.City, &r.Address.ZipCode,
			&r.Latitude, &r.Longitude,
			&r.CreatedAt, &r.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		index[r.ID] = len(restaurants)
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate restaurants: %w", err)
	}

	reviewRows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, comment, rating, created_at
		FROM reviews
		ORDER BY restaurant_id, id`)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer reviewRows.Close()

	for reviewRows.Next() {
		var rv domain.Review
		if err := reviewRows.Scan(&rv.ID, &rv.RestaurantID, &rv.Comment, &rv.Rating, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		if i, ok := index[rv.RestaurantID]; ok {
			restaurants[i].Reviews = append(restaurants[i].Reviews, rv)
		}
	}
	if err := reviewRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}

	return restaurants, nil
}

// Update rewrites every mutable column of a restaurant. A zero-row
// update means the record vanished between read and write; that is
// reported as domain.ErrNotFound per the conflict policy.
func (s *Store) Update(ctx context.Context, r *domain.Restaurant) error {
	query := `
		UPDATE restaurants
		SET name = $1, menu_type = $2, street = $3, city = $4, zip_code = $5,
		    latitude = $6, longitude = $7, updated_at = $8
		WHERE id = $9`

	res, err := s.db.ExecContext(ctx, query,
		r.Name, r.MenuType,
		r.Address.Street, r.Address.City, r.Address.ZipCode,
		r.Latitude, r.Longitude,
		r.UpdatedAt, r.ID,
	)
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update restaurant: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a restaurant; its reviews go with it via the cascade.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete restaurant: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Exists reports whether a restaurant with the given ID exists.
func (s *Store) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM restaurants WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check restaurant exists: %w", err)
	}
	return exists, nil
}

// MenuTypes returns the distinct menu categories, for the listing
// filter control.
func (s *Store) MenuTypes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT menu_type FROM restaurants ORDER BY menu_type`)
	if err != nil {
		return nil, fmt.Errorf("select menu types: %w", err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var mt string
		if err := rows.Scan(&mt); err != nil {
			return nil, fmt.Errorf("scan menu type: %w", err)
		}
		types = append(types, mt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate menu types: %w", err)
	}
	return types, nil
}

// AddReview inserts a review and fills in its generated ID. A foreign
// key violation means the restaurant is gone and maps to
// domain.ErrNotFound.
func (s *Store) AddReview(ctx context.Context, rv *domain.Review) error {
	query := `
		INSERT INTO reviews (restaurant_id, comment, rating, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		rv.RestaurantID, rv.Comment, rv.Rating, rv.CreatedAt,
	).Scan(&rv.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *Store) reviewsFor(ctx context.Context, restaurantID int64) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, restaurant_id, comment, rating, created_at
		FROM reviews
		WHERE restaurant_id = $1
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("select reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.RestaurantID, &rv.Comment, &rv.Rating, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return reviews, nil
}
