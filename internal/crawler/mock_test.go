package crawler

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/cache"
)

const testBaseURL = "https://example.test/senarai?jenis=446"

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	mu    sync.Mutex
	cache map[string][]byte
}

func NewMockCacheService() *MockCacheService {
	return &MockCacheService{
		cache: make(map[string][]byte),
	}
}

func (m *MockCacheService) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, cache.ErrMiss
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
	return nil
}

// fakeSession serves canned markup per URL and records every action
type fakeSession struct {
	pages     map[string]string
	navErrors map[string]error
	selectErr error
	current   string
	actions   []string
	closed    bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		pages:     map[string]string{testBaseURL: "<form></form>"},
		navErrors: map[string]error{},
	}
}

func (s *fakeSession) setPage(page int, markup string) {
	u, _ := PageURL(testBaseURL, page)
	s.pages[u] = markup
}

func (s *fakeSession) failPage(page int, err error) {
	u, _ := PageURL(testBaseURL, page)
	s.navErrors[u] = err
}

func (s *fakeSession) Navigate(url string) error {
	s.actions = append(s.actions, "navigate "+url)
	if err, ok := s.navErrors[url]; ok {
		return err
	}
	markup, ok := s.pages[url]
	if !ok {
		return fmt.Errorf("net::ERR_HTTP_RESPONSE_CODE_FAILURE at %s", url)
	}
	s.current = markup
	return nil
}

func (s *fakeSession) WaitForNetworkIdle() error {
	s.actions = append(s.actions, "idle")
	return nil
}

func (s *fakeSession) Content() (string, error) {
	return s.current, nil
}

func (s *fakeSession) SelectOption(selector, value string) error {
	s.actions = append(s.actions, "select "+selector+"="+value)
	return s.selectErr
}

func (s *fakeSession) SelectOptionByLabel(label, value string) error {
	s.actions = append(s.actions, "label "+label+"="+value)
	return s.selectErr
}

func (s *fakeSession) Click(selector string) error {
	s.actions = append(s.actions, "click "+selector)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeSnapshots struct {
	saved map[int]string
}

func (f *fakeSnapshots) Save(_ models.Section, page int, markup string) error {
	f.saved[page] = markup
	return nil
}

func standardRow(ref, name, address, category, start, end, status, remarks string) string {
	return fmt.Sprintf(`<tr><td>%s</td><td><strong>%s</strong><br/>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
		ref, name, address, category, start, end, status, remarks)
}

func puaRow(ref, name, address, start, end, status string) string {
	return fmt.Sprintf(`<tr><td>%s</td><td><strong>%s</strong><br/>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
		ref, name, address, start, end, status)
}

func standardPage(rows ...string) string {
	return `<html><body><table class="table">
<thead><tr><th>APPROVAL REFERENCE NO.</th><th>ORGANIZATION NAME &amp; ADDRESS</th><th>CATEGORY</th>
<th>START DATE</th><th>END DATE</th><th>STATUS</th><th>REMARKS</th><th>ACTION</th></tr></thead>
<tbody>` + strings.Join(rows, "\n") + `</tbody></table></body></html>`
}

func puaPage(rows ...string) string {
	return `<html><body><table class="table">
<thead><tr><th>APPROVAL REFERENCE NO.</th><th>ORGANIZATION NAME &amp; ADDRESS</th>
<th>START DATE</th><th>END DATE</th><th>STATUS</th><th>GAZETTE</th><th>ACTION</th></tr></thead>
<tbody>` + strings.Join(rows, "\n") + `</tbody></table></body></html>`
}

const errorPage = `<html><body><h1>500 Internal Server Error</h1><p>Sila cuba sebentar lagi.</p></body></html>`
