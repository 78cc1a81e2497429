package sources

import "regexp"

// Source enum values persisted with each event. Platforms the storage layer
// does not carry degrade to SourceManual rather than failing an import.
const (
	SourceManual      = "manual"
	SourceEventbrite  = "eventbrite"
	SourceMeetup      = "meetup"
	SourceTicketspice = "ticketspice"
	SourceFacebook    = "facebook"
	SourceTixr        = "tixr"
	SourceInstagram   = "instagram"
)

// Platform describes a known event-listing site.
type Platform struct {
	Name      string         // canonical source enum value
	Domains   []string       // host substrings used for detection
	Blocked   bool           // rejects automated fetches, routed to manual entry
	idPattern *regexp.Regexp // extracts the platform-native event identifier from a URL
}

// Override is a single entry in the operator-editable sources YAML file.
// Entries either extend a built-in platform (matched by name) or add a new one.
type Override struct {
	Name    string   `yaml:"name"`
	Domains []string `yaml:"domains"`
	Blocked *bool    `yaml:"blocked"`
}

type overridesFile struct {
	Platforms []Override `yaml:"platforms"`
}
