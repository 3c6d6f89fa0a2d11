package crawler

import (
	stderrors "errors"
	"testing"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticateStandardSection(t *testing.T) {
	session := newFakeSession()

	require.NoError(t, Authenticate(session, models.Section446))
	assert.Equal(t, []string{
		"select #DermaKategori=Semua",
		"label State=Semua",
		"click input[type='submit']",
		"idle",
	}, session.actions)
}

func TestAuthenticatePUASkipsCategory(t *testing.T) {
	session := newFakeSession()

	require.NoError(t, Authenticate(session, models.SectionPUA))
	assert.Equal(t, []string{
		"label State=Semua",
		"click input[type='submit']",
		"idle",
	}, session.actions)
}

func TestAuthenticateFailure(t *testing.T) {
	session := newFakeSession()
	session.selectErr = stderrors.New("Timeout 60000ms exceeded")

	err := Authenticate(session, models.Section11D)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeAuthentication))

	var ce *errors.CrawlerError
	require.True(t, stderrors.As(err, &ce))
	assert.Equal(t, errors.ScopeShard, ce.Scope())
	assert.Equal(t, "11D", ce.Section)
}
