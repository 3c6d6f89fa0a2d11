package crawler

import (
	"context"

	"sjsage522/orgcrawler/internal/models"
)

// Browser opens isolated page sessions. Implementations must allow
// concurrent NewSession calls.
type Browser interface {
	// NewSession opens a fresh session with its own cookies and form state
	NewSession(ctx context.Context) (Session, error)

	// Close releases the browser
	Close() error
}

// Session is a single stateful page. A Session is used by one goroutine.
type Session interface {
	// Navigate loads url and waits for the load event
	Navigate(url string) error

	// WaitForNetworkIdle blocks until the page has no network activity
	WaitForNetworkIdle() error

	// Content returns the current page markup
	Content() (string, error)

	// SelectOption selects value in the select element matched by selector
	SelectOption(selector, value string) error

	// SelectOptionByLabel selects value in the select element labelled label
	SelectOptionByLabel(label, value string) error

	// Click clicks the element matched by selector
	Click(selector string) error

	// Close ends the session
	Close() error
}

// SnapshotSaver persists raw page markup
type SnapshotSaver interface {
	Save(section models.Section, page int, markup string) error
}

// SnapshotLoader reads previously saved page markup
type SnapshotLoader interface {
	Load(section models.Section, page int) (string, error)
}
