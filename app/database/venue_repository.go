package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ VenueRepository = (*VenueRepositoryImpl)(nil)

type VenueRepositoryImpl struct {
	db *DB
}

func NewVenueRepository(db *DB) *VenueRepositoryImpl {
	return &VenueRepositoryImpl{db: db}
}

// GetVenueByName matches venues by exact name. Repeated imports of the same
// venue reuse the existing row instead of accumulating duplicates.
func (r *VenueRepositoryImpl) GetVenueByName(tx *sql.Tx, name string) (*Venue, error) {
	var venue Venue
	err := tx.QueryRow(`
		SELECT id, name, address_line_1, city, state, postal_code, country, created_at
		FROM venues
		WHERE name = ?
		LIMIT 1
	`, name).Scan(
		&venue.ID, &venue.Name, &venue.AddressLine1, &venue.City,
		&venue.State, &venue.PostalCode, &venue.Country, &venue.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get venue by name: %w", err)
	}

	return &venue, nil
}

func (r *VenueRepositoryImpl) CreateVenue(tx *sql.Tx, venue Venue) (string, error) {
	id := uuid.New().String()

	_, err := tx.Exec(`
		INSERT INTO venues (id, name, address_line_1, city, state, postal_code, country, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, venue.Name, venue.AddressLine1, venue.City, venue.State,
		venue.PostalCode, venue.Country, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert venue: %w", err)
	}

	return id, nil
}
