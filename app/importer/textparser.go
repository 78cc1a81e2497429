package importer

import (
	"strings"
)

// TextParser parses an operator-pasted block of labeled lines into an
// extraction, for platforms that cannot be scraped. Parsing is deliberately
// tolerant: any line that does not carry a recognized label becomes part of
// the description rather than an error.
type TextParser struct{}

func NewTextParser() *TextParser {
	return &TextParser{}
}

// Field labels the parser recognizes, lowercased. Several synonymous labels
// map to the same field so operators do not have to match an exact template.
var fieldLabels = map[string]string{
	"event name": "title",
	"title":      "title",
	"name":       "title",

	"start date": "start",
	"start time": "start",
	"date":       "start",
	"when":       "start",

	"ticket url":  "ticket_url",
	"ticket link": "ticket_url",
	"tickets":     "ticket_url",

	"page url":   "page_url",
	"source url": "page_url",
	"event url":  "page_url",
	"url":        "page_url",
	"link":       "page_url",

	"venue":    "venue",
	"location": "venue",
	"where":    "venue",

	"description": "description",
	"address":     "address",
}

func (p *TextParser) Run(text string) *Extraction {
	extraction := &Extraction{}

	var venueName, address string
	var description []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		field, value := splitLabeledLine(line)

		switch field {
		case "title":
			extraction.Title = value
		case "start":
			extraction.StartRaw = value
		case "ticket_url":
			extraction.TicketURL = value
		case "page_url":
			extraction.PageURL = value
		case "venue":
			venueName = value
		case "address":
			address = value
		case "description":
			if value != "" {
				description = append(description, value)
			}
		default:
			// Unlabeled continuation text accumulates into the description so
			// a pasted multi-line blurb survives without tagging every line.
			description = append(description, line)
		}
	}

	extraction.Description = strings.Join(description, "\n")

	if venueName != "" {
		extraction.Venue = &Venue{Name: venueName, AddressLine1: address}
	}

	return extraction
}

// splitLabeledLine splits "Label: value" and resolves the label. Lines without
// a recognized label (including bare URLs, whose scheme prefix looks like a
// label) return an empty field name.
func splitLabeledLine(line string) (string, string) {
	idx := strings.Index(line, ":")
	if idx <= 0 {
		return "", line
	}

	label := strings.ToLower(strings.TrimSpace(line[:idx]))
	field, ok := fieldLabels[label]
	if !ok {
		return "", line
	}

	return field, strings.TrimSpace(line[idx+1:])
}
