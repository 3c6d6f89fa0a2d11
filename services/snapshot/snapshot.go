package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"sjsage522/orgcrawler/helpers"
	"sjsage522/orgcrawler/internal/models"
)

// Store persists raw listing markup, one file per (section, page)
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the snapshot file for a page, e.g. subsection_446_page3.html
func (s *Store) Path(section models.Section, page int) string {
	return filepath.Join(s.dir, fmt.Sprintf("subsection_%s_page%d.html", section, page))
}

// Save writes the page markup, creating the directory as needed
func (s *Store) Save(section models.Section, page int, markup string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return os.WriteFile(s.Path(section, page), []byte(markup), 0o644)
}

// Load reads a saved page. Files written by Save are already UTF-8 whatever
// their meta charset says; other bytes are decoded using the document's
// declared encoding.
func (s *Store) Load(section models.Section, page int) (string, error) {
	body, err := os.ReadFile(s.Path(section, page))
	if err != nil {
		return "", err
	}
	if utf8.Valid(body) {
		return string(body), nil
	}
	return helpers.ToUTF8(body, "text/html")
}

// Exists reports whether a snapshot of the page is on disk
func (s *Store) Exists(section models.Section, page int) bool {
	_, err := os.Stat(s.Path(section, page))
	return err == nil
}
