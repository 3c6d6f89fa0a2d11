package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrawlerErrorMessage(t *testing.T) {
	err := NewNetwork("446", 12, "navigation failed", stderrors.New("timeout"))
	assert.Equal(t, "[network] 446 page 12: navigation failed - timeout", err.Error())

	row := NewValidation("11D", 3, "bad start date", "31 Foo 2020", nil)
	row.Page = 7
	assert.Equal(t, "[validation] 11D page 7 row 3: bad start date", row.Error())
}

func TestCrawlerErrorScope(t *testing.T) {
	tests := []struct {
		err   *CrawlerError
		scope Scope
	}{
		{NewValidation("446", 1, "x", "", nil), ScopeRow},
		{NewNetwork("446", 1, "x", nil), ScopePage},
		{NewParsing("446", "x", "<html>", ErrAnchorNotFound), ScopePage},
		{NewAuthentication("446", "x", nil), ScopeShard},
		{NewStorage("446", "x", nil), ScopeShard},
		{NewMerge("446", "x", ErrNoShardFiles), ScopeJob},
		{NewConfiguration("x", nil), ScopeJob},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.scope, tt.err.Scope(), string(tt.err.Type))
	}
}

func TestIsTypeAndUnwrap(t *testing.T) {
	base := NewParsing("PUA", "results table missing", "<html></html>", ErrAnchorNotFound)
	wrapped := fmt.Errorf("page 4: %w", base.WithPage(4))

	assert.True(t, IsType(wrapped, ErrorTypeParsing))
	assert.False(t, IsType(wrapped, ErrorTypeNetwork))
	assert.True(t, stderrors.Is(wrapped, ErrAnchorNotFound))
	assert.False(t, IsType(stderrors.New("plain"), ErrorTypeParsing))

	var ce *CrawlerError
	assert.True(t, stderrors.As(wrapped, &ce))
	assert.Equal(t, 4, ce.Page)
	assert.Equal(t, 0, base.Page, "WithPage must not mutate the original")
}
