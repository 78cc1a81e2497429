package database

import (
	"database/sql"
)

type EventRepository interface {
	GetEvent(id string) (*Event, error)
	GetEventBySource(source, sourceID string) (*Event, error)
	ListEvents(status string, limit int) ([]Event, error)
	GetEventCount() (int, error)
	GetEventStats() (map[string]int, error)
	UpdateEventStatus(id string, status string) error

	CreateEvent(tx *sql.Tx, event Event) (string, error)
}

// Venue and host rows are only ever written inside the commit transaction, so
// their write paths take the transaction explicitly.

type VenueRepository interface {
	GetVenueByName(tx *sql.Tx, name string) (*Venue, error)
	CreateVenue(tx *sql.Tx, venue Venue) (string, error)
}

type HostRepository interface {
	GetHostByNameAndSource(tx *sql.Tx, name, source string) (*Host, error)
	CreateHost(tx *sql.Tx, host Host) (string, error)
}
