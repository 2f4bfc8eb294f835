package postgres

import (
	"context"
	"fmt"
)

// schema is applied on startup. Statements are idempotent so restarts
// and rolling deploys are safe. The address lives in owned columns on
// the restaurant row; latitude/longitude are nullable because a record
// may never have resolved successfully.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS restaurants (
		id         BIGSERIAL PRIMARY KEY,
		name       VARCHAR(255) NOT NULL,
		menu_type  VARCHAR(100) NOT NULL,
		street     VARCHAR(255) NOT NULL,
		city       VARCHAR(255) NOT NULL,
		zip_code   VARCHAR(16)  NOT NULL,
		latitude   DOUBLE PRECISION,
		longitude  DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reviews (
		id            BIGSERIAL PRIMARY KEY,
		restaurant_id BIGINT NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		comment       VARCHAR(500) NOT NULL DEFAULT '',
		rating        INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_reviews_restaurant_id ON reviews (restaurant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_restaurants_menu_type ON restaurants (menu_type)`,
}

func (s *Store) initSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
