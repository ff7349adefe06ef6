package state

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avitaltamir/quill/internal/debug"
)

// DefaultRecentMax is how many folders the recent list keeps.
const DefaultRecentMax = 10

const recentFileName = "recent_folders"

// RecentPath returns the recent-folders file under the user cache directory.
func RecentPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoHome, err)
	}
	return filepath.Join(dir, appDirName, recentFileName), nil
}

// LoadRecent returns the recent folders, most recent first. A missing or
// unreadable file yields an empty list.
func LoadRecent() []string {
	path, err := RecentPath()
	if err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var out []string
	seen := map[string]bool{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	return out
}

// AddRecent moves folder to the front of the recent list, drops duplicates,
// trims the list to max entries and writes it back. It returns the new list.
func AddRecent(folder string, max int) ([]string, error) {
	if max <= 0 {
		max = DefaultRecentMax
	}

	list := []string{folder}
	for _, p := range LoadRecent() {
		if p != folder {
			list = append(list, p)
		}
	}
	if len(list) > max {
		list = list[:max]
	}

	path, err := RecentPath()
	if err != nil {
		return list, err
	}
	if err := writeFile(path, []byte(strings.Join(list, "\n")+"\n")); err != nil {
		return list, err
	}

	debug.Log(debug.STORE, "recent folders updated", "folder", folder, "count", len(list))
	return list, nil
}
