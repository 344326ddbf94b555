package scene

import (
	"encoding/json"
	"fmt"

	"github.com/hollowmoor/scenery/pathutil"
)

// IndexEntry names one loadable scene. Path is relative to the asset roots
// and defaults to the conventional per-id location when omitted.
type IndexEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// DefaultScenePath is the conventional location for a scene file.
func DefaultScenePath(id string) string {
	return "scenes/" + id + ".json"
}

// LoadIndex reads a scene index file. The file is either a bare list of
// entries or a record with a "scenes" list. Entries with empty or duplicate
// ids are rejected.
func LoadIndex(roots []string, ref string) ([]IndexEntry, error) {
	data, path, err := pathutil.ReadFirst(roots, ref)
	if err != nil {
		return nil, fmt.Errorf("load scene index %s: %w", ref, err)
	}
	return ParseIndex(data, path)
}

// ParseIndex decodes index bytes. Split from LoadIndex so in-memory indexes
// can be validated the same way.
func ParseIndex(data []byte, source string) ([]IndexEntry, error) {
	var entries []IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		var wrapper struct {
			Scenes []IndexEntry `json:"scenes"`
		}
		if err2 := json.Unmarshal(data, &wrapper); err2 != nil {
			return nil, fmt.Errorf("parse scene index %s: %w", source, err)
		}
		entries = wrapper.Scenes
	}

	seen := map[string]bool{}
	for i := range entries {
		e := &entries[i]
		if e.ID == "" {
			return nil, fmt.Errorf("scene index %s: entry %d has no id", source, i)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("scene index %s: duplicate scene id %q", source, e.ID)
		}
		seen[e.ID] = true
		if e.Path == "" {
			e.Path = DefaultScenePath(e.ID)
		}
		if !pathutil.Safe(e.Path) {
			return nil, fmt.Errorf("scene index %s: unsafe path %q for scene %q", source, e.Path, e.ID)
		}
		if e.Name == "" {
			e.Name = e.ID
		}
	}
	return entries, nil
}

// FindEntry returns the entry with the given id.
func FindEntry(entries []IndexEntry, id string) (IndexEntry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	return IndexEntry{}, false
}
