package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// descriptionExcerptLimit caps the readability fallback so a whole article
// body never lands in the description field.
const descriptionExcerptLimit = 500

// Extractor pulls event fields out of raw HTML. Strategy order, applied
// independently per field: JSON-LD Event schema, then Open Graph / meta tags,
// then a readability excerpt for the description only.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ldEvent covers the schema.org Event shapes platforms actually emit. Fields
// that vary between string, object, and array forms stay raw.
type ldEvent struct {
	Type        json.RawMessage `json:"@type"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	Image       json.RawMessage `json:"image"`
	Offers      json.RawMessage `json:"offers"`
	Location    json.RawMessage `json:"location"`
	Organizer   json.RawMessage `json:"organizer"`
}

type ldPlace struct {
	Name    string          `json:"name"`
	Address json.RawMessage `json:"address"`
}

type ldAddress struct {
	StreetAddress   string          `json:"streetAddress"`
	AddressLocality string          `json:"addressLocality"`
	AddressRegion   string          `json:"addressRegion"`
	PostalCode      string          `json:"postalCode"`
	AddressCountry  json.RawMessage `json:"addressCountry"`
}

type ldOrganizer struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type ldOffer struct {
	Price json.RawMessage `json:"price"`
}

func (e *Extractor) Run(data []byte) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	extraction := &Extraction{}

	e.applyJSONLD(doc, extraction)
	e.applyMetaTags(doc, extraction)

	if extraction.Description == "" {
		extraction.Description = e.readableExcerpt(data)
	}

	return extraction, nil
}

// applyJSONLD scans every ld+json script block for an Event object. Malformed
// JSON in one block is skipped so it cannot abort the remaining blocks or the
// meta-tag fallback.
func (e *Extractor) applyJSONLD(doc *goquery.Document, extraction *Extraction) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		event, ok := e.parseEventBlock(s.Text())
		if !ok {
			return true
		}

		e.applyEvent(event, extraction)
		return false
	})
}

func (e *Extractor) parseEventBlock(text string) (*ldEvent, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		slog.Debug("Skipping malformed ld+json block", "error", err)
		return nil, false
	}

	var candidates []json.RawMessage
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) {
		if err := json.Unmarshal(raw, &candidates); err != nil {
			slog.Debug("Skipping malformed ld+json array", "error", err)
			return nil, false
		}
	} else {
		candidates = []json.RawMessage{raw}
	}

	for _, candidate := range candidates {
		var event ldEvent
		if err := json.Unmarshal(candidate, &event); err != nil {
			continue
		}
		if isEventType(event.Type) {
			return &event, true
		}
	}

	return nil, false
}

// isEventType accepts "Event" and schema.org subtypes such as "MusicEvent";
// the @type value itself may be a string or an array of strings.
func isEventType(raw json.RawMessage) bool {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single == "Event" || strings.HasSuffix(single, "Event")
	}

	var multiple []string
	if err := json.Unmarshal(raw, &multiple); err == nil {
		for _, t := range multiple {
			if t == "Event" || strings.HasSuffix(t, "Event") {
				return true
			}
		}
	}

	return false
}

func (e *Extractor) applyEvent(event *ldEvent, extraction *Extraction) {
	extraction.Title = event.Name
	extraction.Description = strings.TrimSpace(event.Description)
	extraction.StartRaw = event.StartDate
	extraction.EndRaw = event.EndDate
	extraction.ImageURL = parseImage(event.Image)

	if offers, ok := parseOffers(event.Offers); ok {
		extraction.Offers = offers
		extraction.HasOffers = true
	}

	extraction.Venue = parsePlace(event.Location)
	extraction.Host = parseOrganizer(event.Organizer)
}

// parseImage accepts a plain URL string, an ImageObject with a url field, or
// an array of either (first element wins).
func parseImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.URL != "" {
		return obj.URL
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return parseImage(list[0])
	}

	return ""
}

func parseOffers(raw json.RawMessage) ([]Offer, bool) {
	if len(raw) == 0 {
		return nil, false
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		list = []json.RawMessage{raw}
	}

	offers := make([]Offer, 0, len(list))
	for _, entry := range list {
		var offer ldOffer
		if err := json.Unmarshal(entry, &offer); err != nil {
			continue
		}
		if price, ok := parsePrice(offer.Price); ok {
			offers = append(offers, Offer{Price: price})
		}
	}

	if len(offers) == 0 {
		return nil, false
	}
	return offers, true
}

// parsePrice handles both numeric and string-typed price values.
func parsePrice(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number, true
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return parsed, true
		}
	}

	return 0, false
}

func parsePlace(raw json.RawMessage) *Venue {
	if len(raw) == 0 {
		return nil
	}

	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if name == "" {
			return nil
		}
		return &Venue{Name: name}
	}

	var place ldPlace
	if err := json.Unmarshal(raw, &place); err != nil || place.Name == "" {
		return nil
	}

	venue := &Venue{Name: place.Name}

	var addrStr string
	if err := json.Unmarshal(place.Address, &addrStr); err == nil {
		venue.AddressLine1 = addrStr
		return venue
	}

	var addr ldAddress
	if err := json.Unmarshal(place.Address, &addr); err == nil {
		venue.AddressLine1 = addr.StreetAddress
		venue.City = addr.AddressLocality
		venue.State = addr.AddressRegion
		venue.PostalCode = addr.PostalCode
		venue.Country = parseCountry(addr.AddressCountry)
	}

	return venue
}

// parseCountry accepts either a plain string or a Country object.
func parseCountry(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}

	return ""
}

func parseOrganizer(raw json.RawMessage) *Host {
	if len(raw) == 0 {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		raw = list[0]
	}

	var organizer ldOrganizer
	if err := json.Unmarshal(raw, &organizer); err != nil || organizer.Name == "" {
		return nil
	}

	return &Host{Name: organizer.Name, WebsiteURL: organizer.URL}
}

// applyMetaTags fills any field the JSON-LD pass left unresolved from Open
// Graph and standard meta tags, with the <title> element as a last-resort
// title.
func (e *Extractor) applyMetaTags(doc *goquery.Document, extraction *Extraction) {
	if extraction.Title == "" {
		extraction.Title = metaContent(doc, `meta[property="og:title"]`)
	}
	if extraction.Title == "" {
		extraction.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if extraction.Description == "" {
		extraction.Description = metaContent(doc, `meta[property="og:description"]`)
	}
	if extraction.Description == "" {
		extraction.Description = metaContent(doc, `meta[name="description"]`)
	}

	if extraction.ImageURL == "" {
		extraction.ImageURL = metaContent(doc, `meta[property="og:image"]`)
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// readableExcerpt is the last-resort description strategy: run the page
// through readability and take a short plain-text excerpt.
func (e *Extractor) readableExcerpt(data []byte) string {
	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		slog.Debug("Readability extraction failed", "error", err)
		return ""
	}

	text := strings.TrimSpace(article.Excerpt)
	if text == "" {
		text = strings.Join(strings.Fields(article.TextContent), " ")
	}

	return truncateExcerpt(text, descriptionExcerptLimit)
}

// truncateExcerpt caps text at limit bytes without splitting a UTF-8 rune.
func truncateExcerpt(text string, limit int) string {
	if len(text) <= limit {
		return text
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut]
}
