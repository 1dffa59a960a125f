package tree

import (
	"errors"
	"fmt"
	"sync"
)

// Tree errors.
var (
	ErrLeafNotFound = errors.New("leaf not found")
)

// Subscriber is notified after a leaf value changes.
type Subscriber interface {
	// OnLeafChanged is called with the leaf key and the new value.
	// Implementations must be safe for concurrent calls on distinct keys.
	OnLeafChanged(key string, value any)
}

// Tree is the published parameter tree. The group/leaf structure is
// fixed after Build; only leaf values mutate.
type Tree struct {
	mu sync.RWMutex

	root   *Group
	leaves map[string]*Leaf

	subscribers []Subscriber
}

// Root returns the root group.
func (t *Tree) Root() *Group {
	return t.root
}

// Leaf returns the leaf owned by the given quantity key.
func (t *Tree) Leaf(key string) (*Leaf, error) {
	leaf, exists := t.leaves[key]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrLeafNotFound, key)
	}
	return leaf, nil
}

// Keys returns all leaf keys. Order is unspecified.
func (t *Tree) Keys() []string {
	keys := make([]string, 0, len(t.leaves))
	for key := range t.leaves {
		keys = append(keys, key)
	}
	return keys
}

// UpdateLeaf stores a new value in the leaf owned by key and notifies
// subscribers. Safe to call concurrently for distinct keys; each leaf
// write is atomic.
func (t *Tree) UpdateLeaf(key string, value any) error {
	leaf, err := t.Leaf(key)
	if err != nil {
		return err
	}
	if err := leaf.Set(value); err != nil {
		return err
	}

	t.mu.RLock()
	subs := make([]Subscriber, len(t.subscribers))
	copy(subs, t.subscribers)
	t.mu.RUnlock()

	for _, sub := range subs {
		sub.OnLeafChanged(key, value)
	}
	return nil
}

// Subscribe adds a subscriber for leaf change notifications.
func (t *Tree) Subscribe(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, sub)
}

// Unsubscribe removes a subscriber.
func (t *Tree) Unsubscribe(sub Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, s := range t.subscribers {
		if s == sub {
			t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
			return
		}
	}
}

// Walk visits every node depth-first in sibling order, groups before
// their children.
func (t *Tree) Walk(fn func(Node)) {
	walk(t.root, fn)
}

func walk(n Node, fn func(Node)) {
	fn(n)
	if g, ok := n.(*Group); ok {
		for _, child := range g.children {
			walk(child, fn)
		}
	}
}
