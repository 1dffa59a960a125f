package serve

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/snmptree/snmptree-go/pkg/log"
	"github.com/snmptree/snmptree-go/pkg/tree"
)

// Publisher errors.
var (
	ErrAlreadyPublished = errors.New("tree already published")
	ErrNotPublished     = errors.New("no tree published")
	ErrServerClosed     = errors.New("server closed")
)

// TreeServer is the boundary the synchronization engine publishes through.
type TreeServer interface {
	// Publish exposes the tree. Called once at startup.
	Publish(t *tree.Tree) error

	// UpdateLeaf stores a new value in the leaf owned by key.
	// Safe to call concurrently for distinct keys.
	UpdateLeaf(key string, value any) error

	// Close stops serving.
	Close() error
}

// Config configures the Publisher.
type Config struct {
	// ListenAddress is the TCP address clients connect to.
	// Empty disables the read path (in-memory tree only).
	ListenAddress string

	// Advertise enables mDNS advertisement of the serving port.
	Advertise bool

	// InstanceName is the mDNS instance name.
	InstanceName string

	// Logger receives session events. nil disables event logging.
	Logger log.Logger
}

// Publisher is the built-in TreeServer. It applies leaf updates to the
// published tree and streams snapshot and update frames to connected
// clients.
type Publisher struct {
	mu sync.Mutex

	config Config
	logger log.Logger

	tree     *tree.Tree
	listener net.Listener
	sessions map[string]*session
	mdns     mdnsServer
	closed   bool

	wg sync.WaitGroup
}

// NewPublisher creates a publisher. Serving starts on Publish.
func NewPublisher(config Config) *Publisher {
	logger := config.Logger
	if logger == nil {
		logger = log.NoopLogger{}
	}
	return &Publisher{
		config:   config,
		logger:   logger,
		sessions: make(map[string]*session),
	}
}

// Publish implements TreeServer. It stores the tree and, when a listen
// address is configured, starts accepting client connections and
// advertising the service.
func (p *Publisher) Publish(t *tree.Tree) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrServerClosed
	}
	if p.tree != nil {
		return ErrAlreadyPublished
	}
	p.tree = t

	if p.config.ListenAddress == "" {
		return nil
	}

	listener, err := net.Listen("tcp", p.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("listen on %s failed: %w", p.config.ListenAddress, err)
	}
	p.listener = listener

	if p.config.Advertise {
		port := listener.Addr().(*net.TCPAddr).Port
		mdns, err := advertise(p.config.InstanceName, port)
		if err != nil {
			listener.Close()
			p.listener = nil
			return err
		}
		p.mdns = mdns
	}

	p.wg.Add(1)
	go p.acceptLoop(listener)

	return nil
}

// UpdateLeaf implements TreeServer. The tree write is atomic per leaf;
// connected clients receive one update frame per change.
func (p *Publisher) UpdateLeaf(key string, value any) error {
	p.mu.Lock()
	t := p.tree
	p.mu.Unlock()

	if t == nil {
		return ErrNotPublished
	}
	if err := t.UpdateLeaf(key, value); err != nil {
		return err
	}

	data, err := EncodeMessage(Message{
		Type:   MessageUpdate,
		Update: &LeafUpdate{Key: key, Value: value},
	})
	if err != nil {
		return fmt.Errorf("failed to encode update for %s: %w", key, err)
	}

	for _, s := range p.snapshotSessions() {
		// A send failure means the client is gone; the session's read
		// loop notices and removes it.
		_ = s.send(data)
	}
	return nil
}

// Addr returns the listening address, or nil when the read path is
// disabled or not yet published.
func (p *Publisher) Addr() net.Addr {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// Close implements TreeServer. It stops advertising, closes the
// listener and all client sessions, and waits for the accept and read
// loops to finish.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true

	if p.mdns != nil {
		p.mdns.Shutdown()
		p.mdns = nil
	}
	if p.listener != nil {
		p.listener.Close()
	}
	sessions := make([]*session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	p.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
	p.wg.Wait()
	return nil
}

// acceptLoop accepts client connections until the listener closes.
func (p *Publisher) acceptLoop(listener net.Listener) {
	defer p.wg.Done()

	for {
		conn, err := listener.Accept()
		if err != nil {
			return
		}

		s, err := p.startSession(conn)
		if err != nil {
			conn.Close()
			continue
		}

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			s.readLoop()
			p.removeSession(s)
		}()
	}
}

// startSession primes a new client with a full tree snapshot and
// registers the session.
func (p *Publisher) startSession(conn net.Conn) (*session, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrServerClosed
	}
	t := p.tree
	p.mu.Unlock()

	data, err := EncodeMessage(Message{
		Type:     MessageSnapshot,
		Snapshot: BuildSnapshot(t),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s := newSession(conn)
	if err := s.send(data); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.sessions[s.id] = s
	p.mu.Unlock()

	p.logger.Log(log.Event{
		Timestamp: time.Now(),
		Category:  log.CategorySession,
		Session: &log.SessionEvent{
			SessionID:  s.id,
			RemoteAddr: conn.RemoteAddr().String(),
			Connected:  true,
		},
	})
	return s, nil
}

// removeSession drops a finished session and logs the disconnect.
func (p *Publisher) removeSession(s *session) {
	p.mu.Lock()
	_, registered := p.sessions[s.id]
	delete(p.sessions, s.id)
	p.mu.Unlock()

	s.close()
	if !registered {
		return
	}

	p.logger.Log(log.Event{
		Timestamp: time.Now(),
		Category:  log.CategorySession,
		Session: &log.SessionEvent{
			SessionID:  s.id,
			RemoteAddr: s.remoteAddr,
			Connected:  false,
		},
	})
}

// snapshotSessions returns the current sessions without holding the lock
// during sends.
func (p *Publisher) snapshotSessions() []*session {
	p.mu.Lock()
	defer p.mu.Unlock()

	result := make([]*session, 0, len(p.sessions))
	for _, s := range p.sessions {
		result = append(result, s)
	}
	return result
}

// Compile-time interface satisfaction check.
var _ TreeServer = (*Publisher)(nil)
