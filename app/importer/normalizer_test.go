package importer

import (
	"testing"
	"time"

	"github.com/okhotnik/eventscope/app/sources"
)

func TestNormalizeScrapeInfersSourceAndID(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromScrape(&Extraction{Title: "Foo"}, "https://www.eventbrite.com/e/some-event-123456789012")

	if draft.Source != sources.SourceEventbrite {
		t.Errorf("Expected source 'eventbrite', got: %s", draft.Source)
	}
	if draft.SourceID != "123456789012" {
		t.Errorf("Expected source ID '123456789012', got: %s", draft.SourceID)
	}
	if draft.SourceURL != "https://www.eventbrite.com/e/some-event-123456789012" {
		t.Errorf("Expected source URL to be the input URL, got: %s", draft.SourceURL)
	}
	if draft.Status != StatusDraft {
		t.Errorf("Expected status draft, got: %s", draft.Status)
	}
	// The page itself is the ticket page when no explicit ticket URL resolved
	if draft.TicketURL != draft.SourceURL {
		t.Errorf("Expected ticket URL to default to the page URL, got: %s", draft.TicketURL)
	}
}

func TestNormalizeTitlePlaceholder(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromScrape(&Extraction{}, "https://example.com/event")

	if draft.Title != "New Event" {
		t.Errorf("Expected placeholder title 'New Event', got: %s", draft.Title)
	}
}

func TestNormalizeStartDate(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromScrape(&Extraction{StartRaw: "2025-06-15T19:00:00Z"}, "https://example.com/e")

	want := time.Date(2025, 6, 15, 19, 0, 0, 0, time.UTC)
	if !draft.StartTime.Equal(want) {
		t.Errorf("Expected start time %v, got: %v", want, draft.StartTime)
	}
}

func TestNormalizeUnparseableDateFallsBackToNow(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	before := time.Now().UTC()
	draft := normalizer.FromScrape(&Extraction{StartRaw: "next Tuesday-ish, probably"}, "https://example.com/e")
	after := time.Now().UTC()

	if draft.StartTime.Before(before) || draft.StartTime.After(after) {
		t.Errorf("Expected fallback to now, got: %v", draft.StartTime)
	}
}

func TestNormalizeEndDate(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromScrape(&Extraction{EndRaw: "2025-06-15T23:00:00Z"}, "https://example.com/e")
	if draft.EndTime == nil {
		t.Fatal("Expected end time to be set")
	}

	draft = normalizer.FromScrape(&Extraction{EndRaw: "garbage"}, "https://example.com/e")
	if draft.EndTime != nil {
		t.Errorf("Unparseable end time should stay nil, got: %v", draft.EndTime)
	}
}

func TestNormalizePriceDerivation(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	// All-zero offers mean free
	draft := normalizer.FromScrape(&Extraction{
		HasOffers: true,
		Offers:    []Offer{{Price: 0}, {Price: 0}},
	}, "https://example.com/e")

	if !draft.IsFree {
		t.Error("Expected isFree=true for all-zero offers")
	}
	if draft.PriceMin == nil || *draft.PriceMin != 0 || draft.PriceMax == nil || *draft.PriceMax != 0 {
		t.Errorf("Expected zero price bounds, got min=%v max=%v", draft.PriceMin, draft.PriceMax)
	}

	// Mixed offers produce min/max bounds
	draft = normalizer.FromScrape(&Extraction{
		HasOffers: true,
		Offers:    []Offer{{Price: 25}, {Price: 10}},
	}, "https://example.com/e")

	if draft.IsFree {
		t.Error("Expected isFree=false for priced offers")
	}
	if draft.PriceMin == nil || *draft.PriceMin != 10 {
		t.Errorf("Expected priceMin=10, got: %v", draft.PriceMin)
	}
	if draft.PriceMax == nil || *draft.PriceMax != 25 {
		t.Errorf("Expected priceMax=25, got: %v", draft.PriceMax)
	}

	// No offer data: price unknown, which is distinct from free
	draft = normalizer.FromScrape(&Extraction{}, "https://example.com/e")

	if draft.IsFree {
		t.Error("Expected isFree=false without offer data")
	}
	if draft.PriceMin != nil || draft.PriceMax != nil {
		t.Errorf("Expected nil price bounds, got min=%v max=%v", draft.PriceMin, draft.PriceMax)
	}
}

func TestNormalizeTextPrefersPageURL(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromText(&Extraction{
		Title:     "Foo",
		PageURL:   "https://example.com/events/1",
		TicketURL: "https://tickets.example.com/e/1",
	}, sources.SourceMeetup)

	if draft.SourceURL != "https://example.com/events/1" {
		t.Errorf("Expected page URL as source URL, got: %s", draft.SourceURL)
	}
	if draft.TicketURL != "https://tickets.example.com/e/1" {
		t.Errorf("Ticket URL should be kept separately, got: %s", draft.TicketURL)
	}
	if draft.Source != sources.SourceMeetup {
		t.Errorf("Expected operator-chosen source, got: %s", draft.Source)
	}
}

func TestNormalizeTextUnknownSourceDegradesToManual(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromText(&Extraction{Title: "Foo"}, "somewhere-new")

	if draft.Source != sources.SourceManual {
		t.Errorf("Expected unknown source to degrade to manual, got: %s", draft.Source)
	}
}

func TestNormalizeTextHasNoSourceID(t *testing.T) {
	normalizer := NewNormalizer(sources.NewRegistry())

	draft := normalizer.FromText(&Extraction{
		Title:   "Foo",
		PageURL: "https://www.eventbrite.com/e/some-event-123456789012",
	}, sources.SourceEventbrite)

	if draft.SourceID != "" {
		t.Errorf("Free-text imports carry no source identifier, got: %s", draft.SourceID)
	}
}
