package tree

// Model holds every node in a flat slice. Children are referenced by index,
// so walks are explicit loops over slices rather than pointer recursion.
type Model struct {
	nodes []Node
	roots []NodeID
	epoch uint64
}

// Ref is a durable handle to a row. It stays valid across appends and is
// invalidated by Clear. The zero Ref is never valid.
type Ref struct {
	id    NodeID
	epoch uint64
}

// New returns an empty model.
func New() *Model {
	return &Model{epoch: 1}
}

// Clear removes every node and invalidates all outstanding refs.
func (m *Model) Clear() {
	m.nodes = m.nodes[:0]
	m.roots = m.roots[:0]
	m.epoch++
}

// Len returns the number of nodes.
func (m *Model) Len() int {
	return len(m.nodes)
}

// Epoch identifies the current generation of the model.
func (m *Model) Epoch() uint64 {
	return m.epoch
}

// Append adds a node under parent (Root for a top-level row) and returns
// its id. Appending to an invalid parent attaches to Root.
func (m *Model) Append(parent NodeID, kind Kind, name, path string) NodeID {
	id := NodeID(len(m.nodes))
	if !m.valid(parent) {
		parent = Root
	}
	m.nodes = append(m.nodes, Node{
		Kind:   kind,
		Name:   name,
		Path:   path,
		Parent: parent,
	})
	if parent == Root {
		m.roots = append(m.roots, id)
	} else {
		m.nodes[parent].Children = append(m.nodes[parent].Children, id)
	}
	return id
}

func (m *Model) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(m.nodes)
}

// Node returns a copy of the node. ok is false for an unknown id.
func (m *Model) Node(id NodeID) (Node, bool) {
	if !m.valid(id) {
		return Node{}, false
	}
	return m.nodes[id], true
}

// Children returns the child ids of parent, or the top-level rows for Root.
// The returned slice must not be modified.
func (m *Model) Children(parent NodeID) []NodeID {
	if parent == Root {
		return m.roots
	}
	if !m.valid(parent) {
		return nil
	}
	return m.nodes[parent].Children
}

// Parent returns the parent of id, Root for top-level rows.
func (m *Model) Parent(id NodeID) NodeID {
	if !m.valid(id) {
		return Root
	}
	return m.nodes[id].Parent
}

// Path returns the absolute path of id.
func (m *Model) Path(id NodeID) string {
	if !m.valid(id) {
		return ""
	}
	return m.nodes[id].Path
}

// SetLabel replaces the display label of id.
func (m *Model) SetLabel(id NodeID, label string) {
	if m.valid(id) {
		m.nodes[id].Name = label
	}
}

// SetDecoration replaces the git decoration of id.
func (m *Model) SetDecoration(id NodeID, d Decoration) {
	if m.valid(id) {
		m.nodes[id].Deco = d
	}
}

// IsExpanded reports whether id is an expanded folder.
func (m *Model) IsExpanded(id NodeID) bool {
	return m.valid(id) && m.nodes[id].Expanded
}

// Expand expands a single folder; it does not touch descendants.
func (m *Model) Expand(id NodeID) {
	if m.valid(id) && m.nodes[id].IsDir() {
		m.nodes[id].Expanded = true
	}
}

// Collapse collapses a single folder.
func (m *Model) Collapse(id NodeID) {
	if m.valid(id) {
		m.nodes[id].Expanded = false
	}
}

// Toggle flips the expansion of a folder.
func (m *Model) Toggle(id NodeID) {
	if m.IsExpanded(id) {
		m.Collapse(id)
	} else {
		m.Expand(id)
	}
}

// CollapseAll collapses every folder.
func (m *Model) CollapseAll() {
	for i := range m.nodes {
		m.nodes[i].Expanded = false
	}
}

// ExpandTo expands every ancestor of id so the row becomes visible.
func (m *Model) ExpandTo(id NodeID) {
	for p := m.Parent(id); p != Root; p = m.Parent(p) {
		m.Expand(p)
	}
}

// Ref returns a durable handle to id.
func (m *Model) Ref(id NodeID) Ref {
	if !m.valid(id) {
		return Ref{}
	}
	return Ref{id: id, epoch: m.epoch}
}

// Resolve returns the node id behind ref if the ref is still valid.
func (m *Model) Resolve(ref Ref) (NodeID, bool) {
	if ref.epoch != m.epoch || !m.valid(ref.id) {
		return Root, false
	}
	return ref.id, true
}

// Walk visits every node depth-first in display order. Returning false from
// fn skips the node's children.
func (m *Model) Walk(fn func(id NodeID) bool) {
	stack := make([]NodeID, 0, 64)
	pushReversed := func(ids []NodeID) {
		for i := len(ids) - 1; i >= 0; i-- {
			stack = append(stack, ids[i])
		}
	}
	pushReversed(m.roots)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fn(id) {
			pushReversed(m.nodes[id].Children)
		}
	}
}

// Find returns the node with the given path by searching the whole tree.
func (m *Model) Find(path string) (NodeID, bool) {
	found := Root
	m.Walk(func(id NodeID) bool {
		if found != Root {
			return false
		}
		if m.nodes[id].Path == path {
			found = id
			return false
		}
		return true
	})
	return found, found != Root
}

// Row is one visible line of the tree.
type Row struct {
	ID    NodeID
	Depth int
}

// Visible flattens the rows reachable through expanded folders.
func (m *Model) Visible() []Row {
	rows := make([]Row, 0, len(m.roots))
	type item struct {
		id    NodeID
		depth int
	}
	stack := make([]item, 0, 64)
	for i := len(m.roots) - 1; i >= 0; i-- {
		stack = append(stack, item{m.roots[i], 0})
	}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		rows = append(rows, Row{ID: it.id, Depth: it.depth})

		n := m.nodes[it.id]
		if !n.Expanded {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, item{n.Children[i], it.depth + 1})
		}
	}
	return rows
}
