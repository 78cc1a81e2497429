package sources

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// eventbriteIDPattern matches the first run of 10+ consecutive digits anywhere
// in an Eventbrite URL, which is the platform-native event identifier.
var eventbriteIDPattern = regexp.MustCompile(`\d{10,}`)

// Registry resolves import URLs to source platforms.
type Registry struct {
	platforms []Platform
}

func NewRegistry() *Registry {
	return &Registry{
		platforms: []Platform{
			{Name: SourceEventbrite, Domains: []string{"eventbrite.com"}, idPattern: eventbriteIDPattern},
			{Name: SourceMeetup, Domains: []string{"meetup.com"}},
			{Name: SourceTicketspice, Domains: []string{"ticketspice.com"}},
			{Name: SourceFacebook, Domains: []string{"facebook.com", "fb.com"}, Blocked: true},
			{Name: SourceInstagram, Domains: []string{"instagram.com"}, Blocked: true},
			// Known platform the events table does not carry a source value
			// for yet; detection degrades to manual instead of failing.
			{Name: SourceManual, Domains: []string{"tixr.com"}},
		},
	}
}

// LoadOverrides applies an operator-provided YAML file on top of the built-in
// platform table. A missing path is not an error.
func (r *Registry) LoadOverrides(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read sources file: %w", err)
	}

	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse sources file: %w", err)
	}

	for _, o := range file.Platforms {
		if o.Name == "" {
			return fmt.Errorf("sources file entry is missing a name")
		}
		r.apply(o)
	}

	slog.Debug("Source platform overrides loaded", "file", path, "entries", len(file.Platforms))
	return nil
}

func (r *Registry) apply(o Override) {
	for i := range r.platforms {
		if r.platforms[i].Name != o.Name {
			continue
		}
		r.platforms[i].Domains = append(r.platforms[i].Domains, o.Domains...)
		if o.Blocked != nil {
			r.platforms[i].Blocked = *o.Blocked
		}
		return
	}

	p := Platform{Name: o.Name, Domains: o.Domains}
	if o.Blocked != nil {
		p.Blocked = *o.Blocked
	}
	r.platforms = append(r.platforms, p)
}

// Detect resolves a URL to its source platform by substring match against the
// host. Unknown hosts resolve to the manual platform.
func (r *Registry) Detect(rawURL string) Platform {
	host := hostOf(rawURL)

	for _, p := range r.platforms {
		for _, domain := range p.Domains {
			if strings.Contains(host, domain) {
				return p
			}
		}
	}

	return Platform{Name: SourceManual}
}

// SourceID extracts the platform-native event identifier from a URL. An empty
// result means no deduplication key is available for the import.
func (r *Registry) SourceID(platform Platform, rawURL string) string {
	if platform.idPattern == nil {
		return ""
	}
	return platform.idPattern.FindString(rawURL)
}

// Lookup returns the platform carrying the given source name, falling back to
// a bare manual platform. Used by the free-text path where the operator picks
// the platform explicitly.
func (r *Registry) Lookup(name string) Platform {
	for _, p := range r.platforms {
		if p.Name == name {
			return p
		}
	}
	return Platform{Name: SourceManual}
}

// storableSources are the source values the events table accepts. Platforms
// added through the overrides file still detect and block, but their drafts
// are stored under the manual source.
var storableSources = map[string]bool{
	SourceManual:      true,
	SourceEventbrite:  true,
	SourceMeetup:      true,
	SourceTicketspice: true,
	SourceFacebook:    true,
	SourceTixr:        true,
	SourceInstagram:   true,
}

// StorableSource maps a platform name to the source value persisted with a
// draft, degrading unknown names to manual.
func StorableSource(name string) string {
	if storableSources[name] {
		return name
	}
	return SourceManual
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return strings.ToLower(rawURL)
	}
	return strings.ToLower(u.Host)
}
