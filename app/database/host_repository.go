package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ HostRepository = (*HostRepositoryImpl)(nil)

type HostRepositoryImpl struct {
	db *DB
}

func NewHostRepository(db *DB) *HostRepositoryImpl {
	return &HostRepositoryImpl{db: db}
}

// GetHostByNameAndSource matches hosts by exact name scoped by source, so a
// host named "X" from eventbrite stays distinct from one entered manually.
func (r *HostRepositoryImpl) GetHostByNameAndSource(tx *sql.Tx, name, source string) (*Host, error) {
	var host Host
	err := tx.QueryRow(`
		SELECT id, name, website_url, source, created_at
		FROM hosts
		WHERE name = ? AND source = ?
		LIMIT 1
	`, name, source).Scan(
		&host.ID, &host.Name, &host.WebsiteURL, &host.Source, &host.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get host by name and source: %w", err)
	}

	return &host, nil
}

func (r *HostRepositoryImpl) CreateHost(tx *sql.Tx, host Host) (string, error) {
	id := uuid.New().String()

	_, err := tx.Exec(`
		INSERT INTO hosts (id, name, website_url, source, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, host.Name, host.WebsiteURL, host.Source, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert host: %w", err)
	}

	return id, nil
}
