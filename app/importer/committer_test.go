package importer

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okhotnik/eventscope/app/database"
	"github.com/okhotnik/eventscope/app/sources"
)

func newTestCommitter(t *testing.T) (*Committer, database.EventRepository) {
	t.Helper()

	db, err := database.NewConnection(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, _, err := database.RunMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	eventRepo := database.NewEventRepository(db)
	venueRepo := database.NewVenueRepository(db)
	hostRepo := database.NewHostRepository(db)

	return NewCommitter(db, eventRepo, venueRepo, hostRepo), eventRepo
}

func testDraft(sourceID string) *Draft {
	return &Draft{
		Title:     "Summer Concert",
		StartTime: time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC),
		SourceURL: "https://www.eventbrite.com/e/summer-concert-" + sourceID,
		Source:    sources.SourceEventbrite,
		SourceID:  sourceID,
		Venue:     &Venue{Name: "Riverside Hall", City: "Springfield"},
		Host:      &Host{Name: "Riverside Productions"},
	}
}

func TestCommitPersistsDraft(t *testing.T) {
	committer, eventRepo := newTestCommitter(t)

	id, err := committer.Run(testDraft("123456789012"))
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated event id")
	}

	event, err := eventRepo.GetEvent(id)
	if err != nil {
		t.Fatalf("Failed to read back event: %v", err)
	}
	if event == nil {
		t.Fatal("Committed event not found")
	}

	if event.Title != "Summer Concert" {
		t.Errorf("Expected title 'Summer Concert', got: %s", event.Title)
	}
	if event.Status != string(StatusDraft) {
		t.Errorf("Expected status draft, got: %s", event.Status)
	}
	if event.SourceID != "123456789012" {
		t.Errorf("Expected source id, got: %s", event.SourceID)
	}
	if event.VenueID == "" {
		t.Error("Expected a venue row to be created and linked")
	}
	if event.HostID == "" {
		t.Error("Expected a host row to be created and linked")
	}
}

func TestCommitForcesDraftStatus(t *testing.T) {
	committer, eventRepo := newTestCommitter(t)

	draft := testDraft("123456789012")
	draft.Status = StatusApproved

	id, err := committer.Run(draft)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	event, err := eventRepo.GetEvent(id)
	if err != nil || event == nil {
		t.Fatalf("Failed to read back event: %v", err)
	}
	if event.Status != string(StatusDraft) {
		t.Errorf("Commit must force status draft, got: %s", event.Status)
	}
}

func TestCommitDuplicateGuard(t *testing.T) {
	committer, _ := newTestCommitter(t)

	firstID, err := committer.Run(testDraft("123456789012"))
	if err != nil {
		t.Fatalf("First commit failed: %v", err)
	}

	_, err = committer.Run(testDraft("123456789012"))
	if err == nil {
		t.Fatal("Expected a duplicate error on the second commit")
	}

	var dupErr *DuplicateError
	if !errors.As(err, &dupErr) {
		t.Fatalf("Expected a DuplicateError, got: %T %v", err, err)
	}
	if dupErr.ExistingID != firstID {
		t.Errorf("Expected existing id %s, got: %s", firstID, dupErr.ExistingID)
	}
}

func TestCommitWithoutSourceIDSkipsGuard(t *testing.T) {
	committer, eventRepo := newTestCommitter(t)

	first := testDraft("")
	second := testDraft("")

	if _, err := committer.Run(first); err != nil {
		t.Fatalf("First commit failed: %v", err)
	}
	if _, err := committer.Run(second); err != nil {
		t.Fatalf("Second commit without source id should not be blocked: %v", err)
	}

	count, err := eventRepo.GetEventCount()
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 events, got: %d", count)
	}
}

func TestCommitReusesVenueByName(t *testing.T) {
	committer, eventRepo := newTestCommitter(t)

	firstID, err := committer.Run(testDraft("111111111111"))
	if err != nil {
		t.Fatalf("First commit failed: %v", err)
	}

	secondID, err := committer.Run(testDraft("222222222222"))
	if err != nil {
		t.Fatalf("Second commit failed: %v", err)
	}

	first, _ := eventRepo.GetEvent(firstID)
	second, _ := eventRepo.GetEvent(secondID)
	if first == nil || second == nil {
		t.Fatal("Failed to read back events")
	}

	if first.VenueID == "" || first.VenueID != second.VenueID {
		t.Errorf("Expected same-name venue to be reused, got %s and %s", first.VenueID, second.VenueID)
	}
}

func TestCommitHostScopedBySource(t *testing.T) {
	committer, eventRepo := newTestCommitter(t)

	eventbrite := testDraft("111111111111")

	manual := testDraft("")
	manual.Source = sources.SourceManual

	firstID, err := committer.Run(eventbrite)
	if err != nil {
		t.Fatalf("First commit failed: %v", err)
	}
	secondID, err := committer.Run(manual)
	if err != nil {
		t.Fatalf("Second commit failed: %v", err)
	}

	first, _ := eventRepo.GetEvent(firstID)
	second, _ := eventRepo.GetEvent(secondID)
	if first == nil || second == nil {
		t.Fatal("Failed to read back events")
	}

	// Same host name from different sources stays distinct
	if first.HostID == second.HostID {
		t.Error("Expected hosts from different sources to be distinct rows")
	}
}

func TestCommitWithoutVenueOrHost(t *testing.T) {
	committer, eventRepo := newTestCommitter(t)

	draft := testDraft("123456789012")
	draft.Venue = nil
	draft.Host = nil

	id, err := committer.Run(draft)
	if err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	event, _ := eventRepo.GetEvent(id)
	if event == nil {
		t.Fatal("Committed event not found")
	}
	if event.VenueID != "" || event.HostID != "" {
		t.Errorf("Expected no venue/host links, got venue=%s host=%s", event.VenueID, event.HostID)
	}
}
