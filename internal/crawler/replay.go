package crawler

import (
	"context"
	"fmt"

	"sjsage522/orgcrawler/internal/models"
)

// SnapshotBrowser replays saved page markup for one section. Form actions are
// no-ops and navigating to a page without a snapshot fails.
type SnapshotBrowser struct {
	Section models.Section
	Store   SnapshotLoader
}

// NewSnapshotBrowser creates a replay browser for section
func NewSnapshotBrowser(section models.Section, store SnapshotLoader) *SnapshotBrowser {
	return &SnapshotBrowser{Section: section, Store: store}
}

// NewSession opens a replay session
func (b *SnapshotBrowser) NewSession(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &snapshotSession{section: b.Section, store: b.Store}, nil
}

// Close is a no-op
func (b *SnapshotBrowser) Close() error { return nil }

type snapshotSession struct {
	section models.Section
	store   SnapshotLoader
	markup  string
}

func (s *snapshotSession) Navigate(url string) error {
	page, err := PageNumber(url)
	if err != nil {
		return fmt.Errorf("invalid page in %q: %w", url, err)
	}
	if page == 0 {
		// listing form
		s.markup = ""
		return nil
	}

	markup, err := s.store.Load(s.section, page)
	if err != nil {
		return fmt.Errorf("no snapshot of page %d: %w", page, err)
	}
	s.markup = markup
	return nil
}

func (s *snapshotSession) WaitForNetworkIdle() error { return nil }

func (s *snapshotSession) Content() (string, error) { return s.markup, nil }

func (s *snapshotSession) SelectOption(string, string) error { return nil }

func (s *snapshotSession) SelectOptionByLabel(string, string) error { return nil }

func (s *snapshotSession) Click(string) error { return nil }

func (s *snapshotSession) Close() error { return nil }
