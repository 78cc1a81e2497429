package importer

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/okhotnik/eventscope/app/database"
)

// Committer persists an operator-approved draft. The duplicate guard runs
// first when a source identifier is available; the write itself resolves
// venue and host rows and inserts the event inside a single transaction, so a
// failed event insert never leaves orphaned venue or host rows behind.
type Committer struct {
	db        *database.DB
	eventRepo database.EventRepository
	venueRepo database.VenueRepository
	hostRepo  database.HostRepository
}

func NewCommitter(db *database.DB, eventRepo database.EventRepository,
	venueRepo database.VenueRepository, hostRepo database.HostRepository) *Committer {
	return &Committer{
		db:        db,
		eventRepo: eventRepo,
		venueRepo: venueRepo,
		hostRepo:  hostRepo,
	}
}

func (c *Committer) Run(draft *Draft) (string, error) {
	// Duplicate guard. Skipped entirely when no source identifier was
	// resolvable: duplicate prevention for those imports is an operator
	// responsibility.
	if draft.SourceID != "" {
		existing, err := c.eventRepo.GetEventBySource(draft.Source, draft.SourceID)
		if err != nil {
			return "", fmt.Errorf("failed to check for existing event: %w", err)
		}
		if existing != nil {
			return "", &DuplicateError{ExistingID: existing.ID}
		}
	}

	tx, err := c.db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var venueID string
	if draft.Venue != nil && draft.Venue.Name != "" {
		venueID, err = c.resolveVenue(tx, draft.Venue)
		if err != nil {
			return "", err
		}
	}

	var hostID string
	if draft.Host != nil && draft.Host.Name != "" {
		hostID, err = c.resolveHost(tx, draft.Host, draft.Source)
		if err != nil {
			return "", err
		}
	}

	event := database.Event{
		Title:       draft.Title,
		Description: draft.Description,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		ImageURL:    draft.ImageURL,
		SourceURL:   draft.SourceURL,
		TicketURL:   draft.TicketURL,
		PriceMin:    draft.PriceMin,
		PriceMax:    draft.PriceMax,
		IsFree:      draft.IsFree,
		Status:      string(StatusDraft),
		Source:      draft.Source,
		SourceID:    draft.SourceID,
		Warning:     draft.Warning,
		VenueID:     venueID,
		HostID:      hostID,
	}

	id, err := c.eventRepo.CreateEvent(tx, event)
	if err != nil {
		// The partial unique index on (source, source_id) closes the race two
		// near-simultaneous imports of the same event would otherwise win.
		if isUniqueViolation(err) {
			tx.Rollback()
			return "", c.duplicateFromIndex(draft)
		}
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit import: %w", err)
	}

	slog.Info("Event committed", "id", id, "title", event.Title, "source", event.Source)

	return id, nil
}

func (c *Committer) resolveVenue(tx *sql.Tx, venue *Venue) (string, error) {
	existing, err := c.venueRepo.GetVenueByName(tx, venue.Name)
	if err != nil {
		return "", fmt.Errorf("failed to resolve venue: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	id, err := c.venueRepo.CreateVenue(tx, database.Venue{
		Name:         venue.Name,
		AddressLine1: venue.AddressLine1,
		City:         venue.City,
		State:        venue.State,
		PostalCode:   venue.PostalCode,
		Country:      venue.Country,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create venue: %w", err)
	}

	return id, nil
}

func (c *Committer) resolveHost(tx *sql.Tx, host *Host, source string) (string, error) {
	existing, err := c.hostRepo.GetHostByNameAndSource(tx, host.Name, source)
	if err != nil {
		return "", fmt.Errorf("failed to resolve host: %w", err)
	}
	if existing != nil {
		return existing.ID, nil
	}

	id, err := c.hostRepo.CreateHost(tx, database.Host{
		Name:       host.Name,
		WebsiteURL: host.WebsiteURL,
		Source:     source,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create host: %w", err)
	}

	return id, nil
}

// duplicateFromIndex recovers the existing event id after the unique index
// rejected the insert.
func (c *Committer) duplicateFromIndex(draft *Draft) error {
	existing, err := c.eventRepo.GetEventBySource(draft.Source, draft.SourceID)
	if err != nil || existing == nil {
		return &DuplicateError{}
	}
	return &DuplicateError{ExistingID: existing.ID}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
