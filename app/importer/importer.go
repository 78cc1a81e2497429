package importer

import (
	"context"
	"net/http"

	"github.com/okhotnik/eventscope/app/database"
	"github.com/okhotnik/eventscope/app/sources"
)

// Importer wires the pipeline components behind the operator-triggered
// operations. Scraping, text parsing, and feed preview all produce the same
// draft shape; commit persists an approved draft.
type Importer struct {
	fetcher      *Fetcher
	extractor    *Extractor
	textParser   *TextParser
	normalizer   *Normalizer
	feedImporter *FeedImporter
	committer    *Committer
}

func NewImporter(db *database.DB, eventRepo database.EventRepository,
	venueRepo database.VenueRepository, hostRepo database.HostRepository,
	httpClient *http.Client, registry *sources.Registry) *Importer {
	fetcher := NewFetcher(httpClient, registry)
	normalizer := NewNormalizer(registry)

	return &Importer{
		fetcher:      fetcher,
		extractor:    NewExtractor(),
		textParser:   NewTextParser(),
		normalizer:   normalizer,
		feedImporter: NewFeedImporter(fetcher, normalizer),
		committer:    NewCommitter(db, eventRepo, venueRepo, hostRepo),
	}
}

// Scrape fetches the page at rawURL and extracts a draft preview. Blocklisted
// platforms short-circuit to a manual-entry template with a warning.
func (i *Importer) Scrape(ctx context.Context, rawURL string) (*Draft, error) {
	data, template, err := i.fetcher.Run(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if template != nil {
		return template, nil
	}

	extraction, err := i.extractor.Run(data)
	if err != nil {
		return nil, err
	}

	return i.normalizer.FromScrape(extraction, rawURL), nil
}

// ParseText parses an operator-pasted block with an explicit platform choice.
// No network access is involved.
func (i *Importer) ParseText(text, source string) *Draft {
	extraction := i.textParser.Run(text)
	return i.normalizer.FromText(extraction, source)
}

// ImportFeed previews every entry of an RSS/Atom feed as a draft.
func (i *Importer) ImportFeed(ctx context.Context, rawURL string) ([]Draft, error) {
	return i.feedImporter.Run(ctx, rawURL)
}

// Commit persists an operator-approved draft and returns the new event id.
func (i *Importer) Commit(draft *Draft) (string, error) {
	return i.committer.Run(draft)
}
