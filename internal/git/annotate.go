package git

import "github.com/avitaltamir/quill/internal/tree"

// Flag is the display class of a status code. Flags combine as a bitmask
// so a folder can carry the union of its descendants.
type Flag uint8

const (
	FlagModified Flag = 1 << iota
	FlagAdded
	FlagUntracked
)

// Decoration colors.
const (
	ColorModified = "#E2C08D"
	ColorAdded    = "#73C991"
)

// Classify maps a porcelain code to its display class. Modified wins over
// added, which wins over untracked.
func Classify(code Code) Flag {
	switch {
	case code.Has(StatusModified):
		return FlagModified
	case code.Has(StatusAdded):
		return FlagAdded
	case code.Has(StatusUntracked):
		return FlagUntracked
	}
	return 0
}

// Letter returns the status letter shown next to a changed file.
func (f Flag) Letter() string {
	switch {
	case f&FlagModified != 0:
		return "M"
	case f&FlagAdded != 0:
		return "A"
	case f&FlagUntracked != 0:
		return "U"
	}
	return ""
}

// Color returns the decoration color of the strongest flag in f.
func (f Flag) Color() string {
	switch {
	case f&FlagModified != 0:
		return ColorModified
	case f&(FlagAdded|FlagUntracked) != 0:
		return ColorAdded
	}
	return ""
}

// Annotate recolors every node of m from status. A node with its own status
// gets that color and letter; a node without one but with changed
// descendants gets the strongest descendant color and no letter; every other
// node is cleared. It returns the union of all flags in the tree.
func Annotate(m *tree.Model, status StatusMap) Flag {
	n := m.Len()
	if n == 0 {
		return 0
	}

	// Pre-order puts every parent before its children, so walking the order
	// backwards sees each child's aggregate before its parent needs it.
	order := make([]tree.NodeID, 0, n)
	m.Walk(func(id tree.NodeID) bool {
		order = append(order, id)
		return true
	})

	agg := make([]Flag, n)
	var all Flag
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		own := Classify(status[m.Path(id)])

		var below Flag
		for _, child := range m.Children(id) {
			below |= agg[child]
		}
		agg[id] = own | below

		switch {
		case own != 0:
			m.SetDecoration(id, tree.Decoration{Color: own.Color(), Letter: own.Letter()})
		case below != 0:
			m.SetDecoration(id, tree.Decoration{Color: below.Color()})
		default:
			m.SetDecoration(id, tree.Decoration{})
		}

		if m.Parent(id) == tree.Root {
			all |= agg[id]
		}
	}
	return all
}

// ClearDecorations removes every git decoration from m.
func ClearDecorations(m *tree.Model) {
	Annotate(m, nil)
}
