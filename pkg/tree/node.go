package tree

import (
	"errors"
	"fmt"
	"sync"
)

// Leaf errors.
var (
	ErrValueType = errors.New("invalid value type for leaf")
	ErrNoValue   = errors.New("leaf has no value yet")
)

// ValueKind is the type of value a leaf holds.
type ValueKind uint8

const (
	// ValueString holds a text value.
	ValueString ValueKind = iota

	// ValueBool holds a boolean value.
	ValueBool
)

// String returns the value kind name.
func (k ValueKind) String() string {
	switch k {
	case ValueString:
		return "string"
	case ValueBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Path is a node's position in the hierarchy: the sequence of sibling
// indices from the root down to the node.
type Path []uint16

// String returns the path as dot-separated indices.
func (p Path) String() string {
	s := ""
	for i, idx := range p {
		if i > 0 {
			s += "."
		}
		s += fmt.Sprintf("%d", idx)
	}
	return s
}

// Equal reports whether two paths are identical.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// clone returns a copy so callers cannot mutate a node's path.
func (p Path) clone() Path {
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// Node is a position in the published hierarchy, either a Group or a Leaf.
type Node interface {
	// Path returns the node's position.
	Path() Path

	// Label returns the human-readable node label.
	Label() string

	// Description returns the node description.
	Description() string
}

// Group is an interior node owning an ordered list of children.
type Group struct {
	path        Path
	label       string
	description string
	children    []Node
}

// NewGroup creates a group node.
func NewGroup(path Path, label, description string) *Group {
	return &Group{path: path.clone(), label: label, description: description}
}

// Path returns the group's position.
func (g *Group) Path() Path { return g.path.clone() }

// Label returns the group label.
func (g *Group) Label() string { return g.label }

// Description returns the group description.
func (g *Group) Description() string { return g.description }

// Children returns the group's children in sibling order.
func (g *Group) Children() []Node {
	result := make([]Node, len(g.children))
	copy(result, g.children)
	return result
}

// addChild appends a child. Only the builder calls this; the tree shape
// is immutable once built.
func (g *Group) addChild(n Node) {
	g.children = append(g.children, n)
}

// Leaf is a terminal node holding exactly one typed value, addressed by
// its owning quantity's key.
type Leaf struct {
	mu sync.RWMutex

	path        Path
	key         string
	label       string
	description string
	kind        ValueKind

	value    any
	hasValue bool
	dirty    bool
}

// NewLeaf creates a leaf node with no value set.
func NewLeaf(path Path, key, label, description string, kind ValueKind) *Leaf {
	return &Leaf{
		path:        path.clone(),
		key:         key,
		label:       label,
		description: description,
		kind:        kind,
	}
}

// Path returns the leaf's position.
func (l *Leaf) Path() Path { return l.path.clone() }

// Key returns the owning quantity's key.
func (l *Leaf) Key() string { return l.key }

// Label returns the leaf label.
func (l *Leaf) Label() string { return l.label }

// Description returns the leaf description.
func (l *Leaf) Description() string { return l.description }

// Kind returns the leaf's value kind.
func (l *Leaf) Kind() ValueKind { return l.kind }

// Value returns the current value. ok is false until the first Set.
func (l *Leaf) Value() (value any, ok bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.value, l.hasValue
}

// Set stores a new value. The value must match the leaf's kind.
// Set is atomic: a concurrent Value call observes either the old or the
// new value, never a partial write.
func (l *Leaf) Set(value any) error {
	switch l.kind {
	case ValueString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("%w: leaf %s expects string, got %T", ErrValueType, l.key, value)
		}
	case ValueBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%w: leaf %s expects bool, got %T", ErrValueType, l.key, value)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.hasValue || l.value != value {
		l.value = value
		l.dirty = true
	}
	l.hasValue = true
	return nil
}

// IsDirty returns true if the value changed since the last ClearDirty.
func (l *Leaf) IsDirty() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.dirty
}

// ClearDirty clears the dirty flag.
func (l *Leaf) ClearDirty() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dirty = false
}
