// Package tree is the sidebar's tree model: an arena of nodes addressed by
// index, with durable references that survive unrelated insertions and are
// invalidated by Clear.
package tree

import (
	"path/filepath"
	"strings"
)

// NodeID indexes a node in the arena. IDs are only meaningful until the next
// Clear; hold a Ref for anything that outlives a population.
type NodeID int32

// Root is the absent parent: nodes appended under Root are top-level rows.
const Root NodeID = -1

// Kind is the icon kind of a node.
type Kind uint8

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Decoration is the git-derived presentation of a node. The zero value
// means "unannotated".
type Decoration struct {
	Color  string // hex color, empty for none
	Letter string // single status letter, empty for none
}

// Node is a filesystem entry shown in the sidebar.
type Node struct {
	Kind     Kind
	Name     string // display label, may carry a transient suffix
	Path     string // absolute path, immutable once created
	Parent   NodeID
	Children []NodeID
	Expanded bool
	Deco     Decoration
}

// IsDir reports whether the node is a folder.
func (n Node) IsDir() bool {
	return n.Kind == KindFolder
}

// BaseName returns the last path element, ignoring any label suffix.
func (n Node) BaseName() string {
	return filepath.Base(n.Path)
}

// Extension returns the lowercased file extension (empty for folders).
func (n Node) Extension() string {
	if n.IsDir() {
		return ""
	}
	return strings.ToLower(filepath.Ext(n.Path))
}
