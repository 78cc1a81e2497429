package importer

import (
	"log/slog"
	"time"

	"github.com/araddon/dateparse"

	"github.com/okhotnik/eventscope/app/sources"
)

// placeholderTitle keeps the preview form from ever rendering with a blank
// required field.
const placeholderTitle = "New Event"

// Normalizer merges the result of whichever extraction path ran into the
// canonical draft shape shown to the operator.
type Normalizer struct {
	registry *sources.Registry
}

func NewNormalizer(registry *sources.Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// FromScrape normalizes a structured-data extraction for the given page URL.
func (n *Normalizer) FromScrape(extraction *Extraction, rawURL string) *Draft {
	platform := n.registry.Detect(rawURL)

	draft := n.base(extraction)
	draft.SourceURL = rawURL
	draft.Source = sources.StorableSource(platform.Name)
	draft.SourceID = n.registry.SourceID(platform, rawURL)

	if draft.TicketURL == "" {
		draft.TicketURL = rawURL
	}

	return draft
}

// FromText normalizes a free-text extraction with the operator's explicit
// platform choice. Free-text imports carry no source identifier, so the
// duplicate guard is skipped for them.
func (n *Normalizer) FromText(extraction *Extraction, source string) *Draft {
	draft := n.base(extraction)
	draft.Source = sources.StorableSource(n.registry.Lookup(source).Name)

	// The page URL is the canonical locator; the ticket URL is kept separately.
	if extraction.PageURL != "" {
		draft.SourceURL = extraction.PageURL
	} else {
		draft.SourceURL = extraction.TicketURL
	}

	return draft
}

func (n *Normalizer) base(extraction *Extraction) *Draft {
	draft := &Draft{
		Title:       extraction.Title,
		Description: extraction.Description,
		ImageURL:    extraction.ImageURL,
		TicketURL:   extraction.TicketURL,
		Status:      StatusDraft,
		Venue:       extraction.Venue,
		Host:        extraction.Host,
	}

	if draft.Title == "" {
		draft.Title = placeholderTitle
	}

	draft.StartTime = n.parseStart(extraction.StartRaw)

	if extraction.EndRaw != "" {
		if end, err := dateparse.ParseAny(extraction.EndRaw); err == nil {
			end = end.UTC()
			draft.EndTime = &end
		}
	}

	n.derivePrices(extraction, draft)

	return draft
}

// parseStart runs the captured start string through a lenient date parser.
// An unparseable date falls back to now; the preview step is the safety net
// where the operator corrects it before committing.
func (n *Normalizer) parseStart(raw string) time.Time {
	if raw == "" {
		return time.Now().UTC()
	}

	parsed, err := dateparse.ParseAny(raw)
	if err != nil {
		slog.Warn("Unparseable start date, defaulting to now", "value", raw, "error", err)
		return time.Now().UTC()
	}

	return parsed.UTC()
}

// derivePrices folds structured offer data into price bounds. Absent offer
// data leaves everything unset: price unknown is distinct from free.
func (n *Normalizer) derivePrices(extraction *Extraction, draft *Draft) {
	if !extraction.HasOffers || len(extraction.Offers) == 0 {
		return
	}

	min := extraction.Offers[0].Price
	max := extraction.Offers[0].Price
	for _, offer := range extraction.Offers[1:] {
		if offer.Price < min {
			min = offer.Price
		}
		if offer.Price > max {
			max = offer.Price
		}
	}

	draft.PriceMin = &min
	draft.PriceMax = &max
	draft.IsFree = min == 0 && max == 0
}
