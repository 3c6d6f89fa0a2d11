package crawler

import (
	"fmt"
	"net/url"
	"strconv"
)

// PageParam is the listing's pagination query parameter
const PageParam = "page"

// PageURL returns base with its page parameter set to page
func PageURL(base string, page int) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid listing URL %q: %w", base, err)
	}
	q := u.Query()
	q.Set(PageParam, strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PageNumber returns the page parameter of a listing URL, or 0 when absent
func PageNumber(raw string) (int, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return 0, err
	}
	p := u.Query().Get(PageParam)
	if p == "" {
		return 0, nil
	}
	return strconv.Atoi(p)
}
