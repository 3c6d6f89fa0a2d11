package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents navigation and retrieval errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML layout errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeValidation represents row validation errors
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuthentication represents filter-form errors before pagination
	ErrorTypeAuthentication ErrorType = "authentication"
	// ErrorTypeStorage represents shard artifact write errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeMerge represents consolidation errors
	ErrorTypeMerge ErrorType = "merge"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Scope is the unit of work an error is contained to.
type Scope string

const (
	ScopeRow   Scope = "row"
	ScopePage  Scope = "page"
	ScopeShard Scope = "shard"
	ScopeJob   Scope = "job"
)

// Sentinel errors wrapped by CrawlerError.Err
var (
	ErrAnchorNotFound = stderrors.New("anchor header cell not found")
	ErrMissingCell    = stderrors.New("missing mandatory cell")
	ErrNoShardFiles   = stderrors.New("no shard files provided")
	ErrHeaderMismatch = stderrors.New("unexpected CSV header")
)

// CrawlerError represents a pipeline error with enough context for a targeted re-run
type CrawlerError struct {
	Type    ErrorType
	Section string
	Page    int
	Row     int
	Message string
	Raw     string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *CrawlerError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.Type)
	if e.Section != "" {
		fmt.Fprintf(&b, " %s", e.Section)
	}
	if e.Page > 0 {
		fmt.Fprintf(&b, " page %d", e.Page)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, " - %v", e.Err)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *CrawlerError) Unwrap() error {
	return e.Err
}

// Scope returns the unit of work this error aborts. Nothing is retried
// automatically; a re-run over the same page range is the retry mechanism.
func (e *CrawlerError) Scope() Scope {
	switch e.Type {
	case ErrorTypeValidation:
		return ScopeRow
	case ErrorTypeNetwork, ErrorTypeParsing:
		return ScopePage
	case ErrorTypeAuthentication, ErrorTypeStorage:
		return ScopeShard
	default:
		return ScopeJob
	}
}

// WithPage returns a copy of the error bound to a page number
func (e *CrawlerError) WithPage(page int) *CrawlerError {
	c := *e
	c.Page = page
	return &c
}

// IsType reports whether err is a CrawlerError of the given type
func IsType(err error, t ErrorType) bool {
	var ce *CrawlerError
	if stderrors.As(err, &ce) {
		return ce.Type == t
	}
	return false
}

// New creates a new CrawlerError
func New(errType ErrorType, section, message string, err error) *CrawlerError {
	return &CrawlerError{
		Type:    errType,
		Section: section,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(section string, page int, message string, err error) *CrawlerError {
	e := New(ErrorTypeNetwork, section, message, err)
	e.Page = page
	return e
}

// NewParsing creates a new parsing error carrying the raw page content
func NewParsing(section, message, raw string, err error) *CrawlerError {
	e := New(ErrorTypeParsing, section, message, err)
	e.Raw = raw
	return e
}

// NewValidation creates a new row validation error
func NewValidation(section string, row int, message, raw string, err error) *CrawlerError {
	e := New(ErrorTypeValidation, section, message, err)
	e.Row = row
	e.Raw = raw
	return e
}

// NewAuthentication creates a new authentication error
func NewAuthentication(section, message string, err error) *CrawlerError {
	return New(ErrorTypeAuthentication, section, message, err)
}

// NewStorage creates a new storage error
func NewStorage(section, message string, err error) *CrawlerError {
	return New(ErrorTypeStorage, section, message, err)
}

// NewMerge creates a new merge error
func NewMerge(section, message string, err error) *CrawlerError {
	return New(ErrorTypeMerge, section, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *CrawlerError {
	return New(ErrorTypeConfiguration, "", message, err)
}
