package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ EventRepository = (*EventRepositoryImpl)(nil)

type EventRepositoryImpl struct {
	db *DB
}

func NewEventRepository(db *DB) *EventRepositoryImpl {
	return &EventRepositoryImpl{db: db}
}

const eventColumns = `id, title, description, start_time, end_time, image_url,
       source_url, ticket_url, price_min, price_max, is_free,
       status, source, source_id, warning, venue_id, host_id,
       created_at, updated_at`

func (r *EventRepositoryImpl) GetEvent(id string) (*Event, error) {
	row := r.db.QueryRow(`
		SELECT `+eventColumns+`
		FROM events
		WHERE id = ?
	`, id)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return event, nil
}

func (r *EventRepositoryImpl) GetEventBySource(source, sourceID string) (*Event, error) {
	row := r.db.QueryRow(`
		SELECT `+eventColumns+`
		FROM events
		WHERE source = ? AND source_id = ?
	`, source, sourceID)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by source: %w", err)
	}

	return event, nil
}

func (r *EventRepositoryImpl) ListEvents(status string, limit int) ([]Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}

	query += ` ORDER BY start_time DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event rows: %w", err)
	}

	return events, nil
}

func (r *EventRepositoryImpl) GetEventCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get event count: %w", err)
	}
	return count, nil
}

func (r *EventRepositoryImpl) GetEventStats() (map[string]int, error) {
	rows, err := r.db.Query(`
		SELECT status, COUNT(*)
		FROM events
		GROUP BY status
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats[status] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}

	return stats, nil
}

func (r *EventRepositoryImpl) UpdateEventStatus(id string, status string) error {
	result, err := r.db.Exec(`
		UPDATE events
		SET status = ?, updated_at = ?
		WHERE id = ?
	`, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *EventRepositoryImpl) CreateEvent(tx *sql.Tx, event Event) (string, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := tx.Exec(`
		INSERT INTO events (id, title, description, start_time, end_time, image_url,
		                    source_url, ticket_url, price_min, price_max, is_free,
		                    status, source, source_id, warning, venue_id, host_id,
		                    created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, id, event.Title, event.Description, event.StartTime, nullTime(event.EndTime),
		event.ImageURL, event.SourceURL, event.TicketURL,
		nullFloat(event.PriceMin), nullFloat(event.PriceMax), event.IsFree,
		event.Status, event.Source, nullString(event.SourceID), event.Warning,
		nullString(event.VenueID), nullString(event.HostID), now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert event: %w", err)
	}

	return id, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var event Event
	var endTime sql.NullTime
	var priceMin, priceMax sql.NullFloat64
	var sourceID, venueID, hostID sql.NullString

	err := row.Scan(
		&event.ID, &event.Title, &event.Description, &event.StartTime, &endTime,
		&event.ImageURL, &event.SourceURL, &event.TicketURL,
		&priceMin, &priceMax, &event.IsFree,
		&event.Status, &event.Source, &sourceID, &event.Warning,
		&venueID, &hostID, &event.CreatedAt, &event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if endTime.Valid {
		t := endTime.Time
		event.EndTime = &t
	}
	if priceMin.Valid {
		v := priceMin.Float64
		event.PriceMin = &v
	}
	if priceMax.Valid {
		v := priceMax.Float64
		event.PriceMax = &v
	}
	event.SourceID = sourceID.String
	event.VenueID = venueID.String
	event.HostID = hostID.String

	return &event, nil
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func nullFloat(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
