// Package pathutil resolves project-relative asset and script references.
// Every reference coming out of scene data goes through Safe before it
// touches the filesystem.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Safe reports whether ref may be resolved against a project root. Absolute
// paths (leading separator or a drive letter) and any path containing a ".."
// segment are rejected. Backslashes are treated as separators so Windows-style
// references from authoring tools are judged the same way.
func Safe(ref string) bool {
	if ref == "" {
		return false
	}
	norm := strings.ReplaceAll(ref, `\`, "/")
	if strings.HasPrefix(norm, "/") {
		return false
	}
	// Drive letter, e.g. "C:/..." or "C:".
	if len(norm) >= 2 && norm[1] == ':' {
		return false
	}
	for _, seg := range strings.Split(norm, "/") {
		if seg == ".." {
			return false
		}
	}
	return true
}

// Resolve returns the first existing candidate for ref among roots. The ref
// must pass Safe; callers validating scene data should have rejected unsafe
// references already, so an unsafe ref here is an error, not a panic.
func Resolve(roots []string, ref string) (string, error) {
	if !Safe(ref) {
		return "", fmt.Errorf("unsafe path reference %q", ref)
	}
	norm := filepath.FromSlash(strings.ReplaceAll(ref, `\`, "/"))
	for _, root := range roots {
		candidate := filepath.Join(root, norm)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%q not found under roots %v", ref, roots)
}

// ReadFirst reads the first existing candidate for ref among roots and
// returns its contents together with the path that was read.
func ReadFirst(roots []string, ref string) ([]byte, string, error) {
	path, err := Resolve(roots, ref)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", path, err)
	}
	return data, path, nil
}
