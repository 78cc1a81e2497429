package importer

import (
	"time"
)

// Event moderation states. The import pipeline only ever produces StatusDraft;
// promotion is a separate moderation action.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Draft is the normalized in-memory event record produced by an import. It is
// shown to the operator as a preview and persisted only on explicit commit.
type Draft struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	SourceURL   string     `json:"source_url"`
	TicketURL   string     `json:"ticket_url,omitempty"`
	PriceMin    *float64   `json:"price_min"`
	PriceMax    *float64   `json:"price_max"`
	IsFree      bool       `json:"is_free"`
	Status      Status     `json:"status"`
	Source      string     `json:"source"`
	SourceID    string     `json:"source_id,omitempty"`
	Warning     string     `json:"warning,omitempty"`
	Venue       *Venue     `json:"venue,omitempty"`
	Host        *Host      `json:"host,omitempty"`
}

type Venue struct {
	Name         string `json:"name"`
	AddressLine1 string `json:"address_line_1,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

type Host struct {
	Name       string `json:"name"`
	WebsiteURL string `json:"website_url,omitempty"`
}

type Offer struct {
	Price float64
}

// Extraction is the partial result of a single extraction strategy (structured
// data scrape or free-text parse) before normalization. Date fields stay raw
// so the normalizer owns parsing and its fallback behavior.
type Extraction struct {
	Title       string
	Description string
	ImageURL    string
	StartRaw    string
	EndRaw      string
	TicketURL   string
	PageURL     string
	Offers      []Offer
	HasOffers   bool
	Venue       *Venue
	Host        *Host
}
