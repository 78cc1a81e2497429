package api

import (
	"time"

	"github.com/okhotnik/eventscope/app/database"
	"github.com/okhotnik/eventscope/app/importer"
)

type Handler struct {
	importer  *importer.Importer
	eventRepo database.EventRepository
}

type scrapeRequest struct {
	URL string `json:"url" binding:"required"`
}

type textRequest struct {
	Text   string `json:"text" binding:"required"`
	Source string `json:"source"`
}

type feedRequest struct {
	URL string `json:"url" binding:"required"`
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

type eventResponse struct {
	ID          string     `json:"id"`
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
	Status      string     `json:"status"`
	Source      string     `json:"source"`
	SourceID    string     `json:"source_id,omitempty"`
	Warning     string     `json:"warning,omitempty"`
	VenueID     string     `json:"venue_id,omitempty"`
	HostID      string     `json:"host_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func newEventResponse(event database.Event) eventResponse {
	return eventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		ImageURL:    event.ImageURL,
		SourceURL:   event.SourceURL,
		TicketURL:   event.TicketURL,
		PriceMin:    event.PriceMin,
		PriceMax:    event.PriceMax,
		IsFree:      event.IsFree,
		Status:      event.Status,
		Source:      event.Source,
		SourceID:    event.SourceID,
		Warning:     event.Warning,
		VenueID:     event.VenueID,
		HostID:      event.HostID,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
}
