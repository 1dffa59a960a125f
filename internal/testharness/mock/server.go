package mock

import (
	"sync"

	"github.com/snmptree/snmptree-go/pkg/serve"
	"github.com/snmptree/snmptree-go/pkg/tree"
)

// Update is one recorded leaf write.
type Update struct {
	Key   string
	Value any
}

// Server records everything published to it. It applies updates to the
// published tree so tests can assert on leaf values as well as on the
// write sequence.
type Server struct {
	mu sync.Mutex

	tree    *tree.Tree
	updates []Update

	// UpdateErr, when set, is returned by every UpdateLeaf call.
	UpdateErr error
}

// NewServer creates an empty recording server.
func NewServer() *Server {
	return &Server{}
}

var _ serve.TreeServer = (*Server)(nil)

// Publish stores the tree.
func (s *Server) Publish(t *tree.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree = t
	return nil
}

// UpdateLeaf records the write and applies it to the published tree.
func (s *Server) UpdateLeaf(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return s.UpdateErr
	}
	s.updates = append(s.updates, Update{Key: key, Value: value})
	if s.tree != nil {
		return s.tree.UpdateLeaf(key, value)
	}
	return nil
}

// Close is a no-op.
func (s *Server) Close() error {
	return nil
}

// Tree returns the published tree, or nil.
func (s *Server) Tree() *tree.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tree
}

// Updates returns all recorded writes in order.
func (s *Server) Updates() []Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Update(nil), s.updates...)
}

// UpdatesFor returns the recorded values written to one key, in order.
func (s *Server) UpdatesFor(key string) []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []any
	for _, u := range s.updates {
		if u.Key == key {
			out = append(out, u.Value)
		}
	}
	return out
}
