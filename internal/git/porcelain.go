package git

import (
	"bufio"
	"io"
	"path/filepath"
	"strconv"
	"strings"
)

// minLineLen is the length of "XY " plus at least one path byte.
const minLineLen = 4

// ParsePorcelain reads `git status --porcelain` output line by line until
// EOF and returns the codes keyed by base joined with each path. Lines too
// short to carry a path are skipped.
func ParsePorcelain(base string, r io.Reader) (StatusMap, error) {
	status := StatusMap{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if len(line) < minLineLen {
			continue
		}

		code := Code(line[:2])
		path := line[3:]

		// Renames and copies: "R  old -> new"
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+len(" -> "):]
		}
		path = unquote(path)
		if path == "" {
			continue
		}

		status[filepath.Join(base, filepath.FromSlash(path))] = code
	}
	return status, sc.Err()
}

// unquote removes the C-style quoting git applies to unusual paths.
func unquote(path string) string {
	if len(path) < 2 || path[0] != '"' || path[len(path)-1] != '"' {
		return path
	}
	if s, err := strconv.Unquote(path); err == nil {
		return s
	}
	return path
}
