package serve

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
)

// Framing constants.
const (
	// LengthPrefixSize is the size of the length prefix in bytes.
	LengthPrefixSize = 4

	// DefaultMaxFrameSize is the default maximum frame size (64 KB).
	DefaultMaxFrameSize = 65536
)

// Framing errors.
var (
	// ErrFrameTooLarge indicates the frame exceeds the maximum size.
	ErrFrameTooLarge = errors.New("frame too large")

	// ErrFrameEmpty indicates an empty frame.
	ErrFrameEmpty = errors.New("frame is empty")
)

// Framer reads and writes length-prefixed frames over an underlying
// stream. Writes are serialized; a frame is either fully written or the
// connection is considered broken.
type Framer struct {
	mu           sync.Mutex
	rw           io.ReadWriter
	maxFrameSize uint32
}

// NewFramer creates a framer with the default maximum frame size.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{rw: rw, maxFrameSize: DefaultMaxFrameSize}
}

// WriteFrame writes a length-prefixed frame.
// Thread-safe: can be called from multiple goroutines.
func (f *Framer) WriteFrame(data []byte) error {
	if len(data) == 0 {
		return ErrFrameEmpty
	}
	if uint32(len(data)) > f.maxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(data), f.maxFrameSize)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	var lengthBuf [LengthPrefixSize]byte
	binary.BigEndian.PutUint32(lengthBuf[:], uint32(len(data)))

	if _, err := f.rw.Write(lengthBuf[:]); err != nil {
		return fmt.Errorf("failed to write length prefix: %w", err)
	}
	if _, err := f.rw.Write(data); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame.
func (f *Framer) ReadFrame() ([]byte, error) {
	var lengthBuf [LengthPrefixSize]byte
	if _, err := io.ReadFull(f.rw, lengthBuf[:]); err != nil {
		return nil, err
	}

	length := binary.BigEndian.Uint32(lengthBuf[:])
	if length == 0 {
		return nil, ErrFrameEmpty
	}
	if length > f.maxFrameSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, length, f.maxFrameSize)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(f.rw, data); err != nil {
		return nil, err
	}
	return data, nil
}
