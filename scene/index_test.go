package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndexBareList(t *testing.T) {
	entries, err := ParseIndex([]byte(`[
		{"id": "intro", "name": "Intro"},
		{"id": "hub", "path": "maps/hub.json"}
	]`), "index.json")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "scenes/intro.json", entries[0].Path)
	assert.Equal(t, "Intro", entries[0].Name)
	assert.Equal(t, "maps/hub.json", entries[1].Path)
	assert.Equal(t, "hub", entries[1].Name)
}

func TestParseIndexWrapped(t *testing.T) {
	entries, err := ParseIndex([]byte(`{"scenes":[{"id":"a"}]}`), "index.json")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "scenes/a.json", entries[0].Path)
}

func TestParseIndexRejectsDuplicates(t *testing.T) {
	_, err := ParseIndex([]byte(`[{"id":"a"},{"id":"a"}]`), "index.json")
	assert.Error(t, err)
}

func TestParseIndexRejectsMissingID(t *testing.T) {
	_, err := ParseIndex([]byte(`[{"name":"x"}]`), "index.json")
	assert.Error(t, err)
}

func TestParseIndexRejectsUnsafePath(t *testing.T) {
	_, err := ParseIndex([]byte(`[{"id":"a","path":"../a.json"}]`), "index.json")
	assert.Error(t, err)
}

func TestLoadIndexFromRoots(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "index.json"),
		[]byte(`[{"id":"demo"}]`), 0o644))

	entries, err := LoadIndex([]string{root}, "index.json")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e, ok := FindEntry(entries, "demo")
	assert.True(t, ok)
	assert.Equal(t, "scenes/demo.json", e.Path)

	_, ok = FindEntry(entries, "missing")
	assert.False(t, ok)
}
