package git

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Hunk is one "@@ -a,b +c,d @@" header of a zero-context diff.
type Hunk struct {
	OldStart, OldCount int
	NewStart, NewCount int
}

// LineMark is the gutter marker of a buffer line.
type LineMark uint8

const (
	MarkNone LineMark = iota
	MarkAdded
	MarkModified
	MarkDeleted // lines were removed just below this one
)

// ParseHunks extracts hunk headers from unified diff output.
func ParseHunks(r io.Reader) ([]Hunk, error) {
	var hunks []Hunk
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "@@ ") {
			continue
		}
		if h, ok := parseHunkHeader(line); ok {
			hunks = append(hunks, h)
		}
	}
	return hunks, sc.Err()
}

func parseHunkHeader(line string) (Hunk, bool) {
	// @@ -12,3 +12,4 @@ optional section heading
	fields := strings.Fields(line)
	if len(fields) < 4 || !strings.HasPrefix(fields[3], "@@") {
		return Hunk{}, false
	}
	oldStart, oldCount, ok1 := parseRange(fields[1], '-')
	newStart, newCount, ok2 := parseRange(fields[2], '+')
	if !ok1 || !ok2 {
		return Hunk{}, false
	}
	return Hunk{OldStart: oldStart, OldCount: oldCount, NewStart: newStart, NewCount: newCount}, true
}

func parseRange(s string, prefix byte) (start, count int, ok bool) {
	if len(s) < 2 || s[0] != prefix {
		return 0, 0, false
	}
	s = s[1:]
	count = 1
	if i := strings.IndexByte(s, ','); i >= 0 {
		c, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, false
		}
		count = c
		s = s[:i]
	}
	start, err := strconv.Atoi(s)
	if err != nil {
		return 0, 0, false
	}
	return start, count, true
}

// LineMarks converts hunks into per-line gutter marks keyed by 1-based line
// number in the new file.
func LineMarks(hunks []Hunk) map[int]LineMark {
	marks := make(map[int]LineMark)
	for _, h := range hunks {
		switch {
		case h.NewCount == 0:
			// Pure deletion: NewStart is the line before the removed block.
			line := h.NewStart
			if line < 1 {
				line = 1
			}
			if _, taken := marks[line]; !taken {
				marks[line] = MarkDeleted
			}
		case h.OldCount == 0:
			for l := h.NewStart; l < h.NewStart+h.NewCount; l++ {
				marks[l] = MarkAdded
			}
		default:
			for l := h.NewStart; l < h.NewStart+h.NewCount; l++ {
				marks[l] = MarkModified
			}
		}
	}
	return marks
}
