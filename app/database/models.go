package database

import (
	"time"
)

// Event represents a persisted event record.
type Event struct {
	ID          string
	Title       string
	Description string
	StartTime   time.Time
	EndTime     *time.Time
	ImageURL    string
	SourceURL   string
	TicketURL   string
	PriceMin    *float64
	PriceMax    *float64
	IsFree      bool
	Status      string
	Source      string
	SourceID    string // empty means no platform-native identifier (stored as NULL)
	Warning     string
	VenueID     string // empty means no venue (stored as NULL)
	HostID      string // empty means no host (stored as NULL)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Venue struct {
	ID           string
	Name         string
	AddressLine1 string
	City         string
	State        string
	PostalCode   string
	Country      string
	CreatedAt    time.Time
}

type Host struct {
	ID         string
	Name       string
	WebsiteURL string
	Source     string
	CreatedAt  time.Time
}
