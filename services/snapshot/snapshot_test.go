package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"sjsage522/orgcrawler/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	store := NewStore(dir)

	assert.False(t, store.Exists(models.Section11D, 4))
	require.NoError(t, store.Save(models.Section11D, 4, "<table><th>APPROVAL REFERENCE NO.</th></table>"))
	assert.True(t, store.Exists(models.Section11D, 4))
	assert.Equal(t, filepath.Join(dir, "subsection_11D_page4.html"), store.Path(models.Section11D, 4))

	markup, err := store.Load(models.Section11D, 4)
	require.NoError(t, err)
	assert.Contains(t, markup, "APPROVAL REFERENCE NO.")
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(t.TempDir())

	_, err := store.Load(models.SectionPUA, 1)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreLoadKeepsSavedUTF8(t *testing.T) {
	store := NewStore(t.TempDir())
	markup := `<html><head><meta charset="windows-1252"></head><body><strong>CAFÉ – “AMAL”</strong></body></html>`

	require.NoError(t, store.Save(models.Section446, 2, markup))

	loaded, err := store.Load(models.Section446, 2)
	require.NoError(t, err)
	assert.Equal(t, markup, loaded)
}

func TestStoreLoadDecodesLegacyEncoding(t *testing.T) {
	store := NewStore(t.TempDir())
	body := []byte(`<html><head><meta charset="windows-1252"></head><body>CAF` + "\xc9" + `</body></html>`)
	require.NoError(t, os.WriteFile(store.Path(models.SectionPUA, 1), body, 0o644))

	loaded, err := store.Load(models.SectionPUA, 1)
	require.NoError(t, err)
	assert.Contains(t, loaded, "CAFÉ")
}
