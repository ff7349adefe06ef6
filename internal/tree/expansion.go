package tree

import "sort"

// PathSet is a set of absolute directory paths that were expanded at
// snapshot time.
type PathSet map[string]struct{}

// NewPathSet builds a set from paths.
func NewPathSet(paths ...string) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s[p] = struct{}{}
	}
	return s
}

// Has reports whether p is in the set.
func (s PathSet) Has(p string) bool {
	_, ok := s[p]
	return ok
}

// Sorted returns the paths in lexical order.
func (s PathSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// SnapshotExpanded records the path of every expanded node, including
// expanded folders hidden under a collapsed ancestor.
func (m *Model) SnapshotExpanded() PathSet {
	set := PathSet{}
	m.Walk(func(id NodeID) bool {
		if m.nodes[id].Expanded {
			set[m.nodes[id].Path] = struct{}{}
		}
		return true
	})
	return set
}

// RestoreExpanded expands each node whose path is in set and returns how
// many were expanded. Paths that no longer exist are ignored.
func (m *Model) RestoreExpanded(set PathSet) int {
	if len(set) == 0 {
		return 0
	}
	n := 0
	m.Walk(func(id NodeID) bool {
		if set.Has(m.nodes[id].Path) && m.nodes[id].IsDir() {
			m.nodes[id].Expanded = true
			n++
		}
		return true
	})
	return n
}
