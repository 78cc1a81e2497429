package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func insertTestEvent(t *testing.T, db *DB, repo *EventRepositoryImpl, event Event) string {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	id, err := repo.CreateEvent(tx, event)
	if err != nil {
		tx.Rollback()
		t.Fatalf("Failed to insert event: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}

	return id
}

func baseEvent(sourceID string) Event {
	return Event{
		Title:     "Test Event",
		StartTime: time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC),
		SourceURL: "https://example.com/events/1",
		Status:    "draft",
		Source:    "eventbrite",
		SourceID:  sourceID,
	}
}

func TestCreateAndGetEvent(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	end := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	priceMin, priceMax := 10.0, 25.0

	event := baseEvent("123456789012")
	event.EndTime = &end
	event.PriceMin = &priceMin
	event.PriceMax = &priceMax

	id := insertTestEvent(t, db, repo, event)

	got, err := repo.GetEvent(id)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got == nil {
		t.Fatal("Event not found")
	}

	if got.Title != "Test Event" {
		t.Errorf("Expected title 'Test Event', got: %s", got.Title)
	}
	if !got.StartTime.Equal(event.StartTime) {
		t.Errorf("Expected start time %v, got: %v", event.StartTime, got.StartTime)
	}
	if got.EndTime == nil || !got.EndTime.Equal(end) {
		t.Errorf("Expected end time %v, got: %v", end, got.EndTime)
	}
	if got.PriceMin == nil || *got.PriceMin != 10.0 {
		t.Errorf("Expected priceMin 10.0, got: %v", got.PriceMin)
	}
	if got.PriceMax == nil || *got.PriceMax != 25.0 {
		t.Errorf("Expected priceMax 25.0, got: %v", got.PriceMax)
	}
	if got.SourceID != "123456789012" {
		t.Errorf("Expected source id, got: %s", got.SourceID)
	}
}

func TestGetEventNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	got, err := repo.GetEvent("missing-id")
	if err != nil {
		t.Fatalf("Expected no error for missing event, got: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for missing event")
	}
}

func TestGetEventBySource(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	id := insertTestEvent(t, db, repo, baseEvent("123456789012"))

	got, err := repo.GetEventBySource("eventbrite", "123456789012")
	if err != nil {
		t.Fatalf("GetEventBySource failed: %v", err)
	}
	if got == nil || got.ID != id {
		t.Errorf("Expected event %s, got: %+v", id, got)
	}

	got, err = repo.GetEventBySource("eventbrite", "999999999999")
	if err != nil {
		t.Fatalf("GetEventBySource failed: %v", err)
	}
	if got != nil {
		t.Error("Expected nil for unknown source id")
	}
}

func TestUniqueSourceIndex(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	insertTestEvent(t, db, repo, baseEvent("123456789012"))

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := repo.CreateEvent(tx, baseEvent("123456789012")); err == nil {
		t.Error("Expected unique index violation for duplicate (source, source_id)")
	}
}

func TestNullSourceIDNotUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	// The partial unique index ignores rows without a source id
	insertTestEvent(t, db, repo, baseEvent(""))
	insertTestEvent(t, db, repo, baseEvent(""))

	count, err := repo.GetEventCount()
	if err != nil {
		t.Fatalf("GetEventCount failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 events, got: %d", count)
	}
}

func TestListEventsAndStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	first := insertTestEvent(t, db, repo, baseEvent("111111111111"))
	insertTestEvent(t, db, repo, baseEvent("222222222222"))

	if err := repo.UpdateEventStatus(first, "approved"); err != nil {
		t.Fatalf("UpdateEventStatus failed: %v", err)
	}

	all, err := repo.ListEvents("", 50)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 events, got: %d", len(all))
	}

	drafts, err := repo.ListEvents("draft", 50)
	if err != nil {
		t.Fatalf("ListEvents(draft) failed: %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("Expected 1 draft, got: %d", len(drafts))
	}

	stats, err := repo.GetEventStats()
	if err != nil {
		t.Fatalf("GetEventStats failed: %v", err)
	}
	if stats["draft"] != 1 || stats["approved"] != 1 {
		t.Errorf("Unexpected stats: %v", stats)
	}
}

func TestUpdateEventStatusMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewEventRepository(db)

	err := repo.UpdateEventStatus("missing-id", "approved")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for missing event, got: %v", err)
	}
}

func TestVenueAndHostRepositories(t *testing.T) {
	db := newTestDB(t)
	venueRepo := NewVenueRepository(db)
	hostRepo := NewHostRepository(db)

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	venueID, err := venueRepo.CreateVenue(tx, Venue{Name: "Riverside Hall", City: "Springfield"})
	if err != nil {
		t.Fatalf("CreateVenue failed: %v", err)
	}

	venue, err := venueRepo.GetVenueByName(tx, "Riverside Hall")
	if err != nil {
		t.Fatalf("GetVenueByName failed: %v", err)
	}
	if venue == nil || venue.ID != venueID {
		t.Errorf("Expected venue %s, got: %+v", venueID, venue)
	}

	missing, err := venueRepo.GetVenueByName(tx, "Nowhere Hall")
	if err != nil {
		t.Fatalf("GetVenueByName failed: %v", err)
	}
	if missing != nil {
		t.Error("Expected nil for unknown venue name")
	}

	hostID, err := hostRepo.CreateHost(tx, Host{Name: "Riverside Productions", Source: "eventbrite"})
	if err != nil {
		t.Fatalf("CreateHost failed: %v", err)
	}

	host, err := hostRepo.GetHostByNameAndSource(tx, "Riverside Productions", "eventbrite")
	if err != nil {
		t.Fatalf("GetHostByNameAndSource failed: %v", err)
	}
	if host == nil || host.ID != hostID {
		t.Errorf("Expected host %s, got: %+v", hostID, host)
	}

	// Same name under a different source is a different host
	other, err := hostRepo.GetHostByNameAndSource(tx, "Riverside Productions", "manual")
	if err != nil {
		t.Fatalf("GetHostByNameAndSource failed: %v", err)
	}
	if other != nil {
		t.Error("Expected nil for same name under a different source")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}
