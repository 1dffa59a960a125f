package serve

import (
	"net"
	"sync"

	"github.com/google/uuid"
)

// session is one connected read-only client.
type session struct {
	id         string
	remoteAddr string

	conn   net.Conn
	framer *Framer

	closeOnce sync.Once
}

func newSession(conn net.Conn) *session {
	return &session{
		id:         uuid.NewString(),
		remoteAddr: conn.RemoteAddr().String(),
		conn:       conn,
		framer:     NewFramer(conn),
	}
}

// send writes one frame to the client.
func (s *session) send(data []byte) error {
	return s.framer.WriteFrame(data)
}

// readLoop consumes inbound frames until the connection fails. Clients
// are read-only; anything they send is discarded. The loop exists to
// detect disconnects promptly.
func (s *session) readLoop() {
	for {
		if _, err := s.framer.ReadFrame(); err != nil {
			return
		}
	}
}

// close closes the connection. Safe to call multiple times.
func (s *session) close() {
	s.closeOnce.Do(func() {
		s.conn.Close()
	})
}
