package importer

import "fmt"

// FetchError reports a non-2xx response from the source platform. Surfaced
// verbatim to the operator; never retried.
type FetchError struct {
	URL    string
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("could not access the URL (HTTP %d); the site may be blocking automated access", e.Status)
}

// DuplicateError reports that an event with the same source and source
// identifier is already persisted. Carries the existing record's id so the
// caller can offer "view existing" instead of creating a second copy.
type DuplicateError struct {
	ExistingID string
}

func (e *DuplicateError) Error() string {
	return "event already imported"
}
