package serve

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/snmptree/snmptree-go/pkg/tree"
)

// MessageType distinguishes the frames sent to clients.
type MessageType uint8

const (
	// MessageSnapshot carries the full tree on connect.
	MessageSnapshot MessageType = 1

	// MessageUpdate carries one leaf value change.
	MessageUpdate MessageType = 2
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageSnapshot:
		return "SNAPSHOT"
	case MessageUpdate:
		return "UPDATE"
	default:
		return "UNKNOWN"
	}
}

// Message is one frame sent to a client.
// CBOR encoding uses integer keys for compactness.
type Message struct {
	// Type distinguishes snapshot and update frames.
	Type MessageType `cbor:"1,keyasint"`

	// Snapshot is set on MessageSnapshot frames.
	Snapshot *Snapshot `cbor:"2,keyasint,omitempty"`

	// Update is set on MessageUpdate frames.
	Update *LeafUpdate `cbor:"3,keyasint,omitempty"`
}

// Snapshot is the complete tree state sent when a client connects.
type Snapshot struct {
	// Nodes lists every node depth-first in sibling order.
	Nodes []NodeSnapshot `cbor:"1,keyasint"`
}

// NodeSnapshot describes one tree node.
type NodeSnapshot struct {
	// Path is the node's position in the hierarchy.
	Path []uint16 `cbor:"1,keyasint"`

	// Label is the human-readable node label.
	Label string `cbor:"2,keyasint"`

	// Group is true for interior nodes.
	Group bool `cbor:"3,keyasint,omitempty"`

	// Key is the owning quantity key (leaves only).
	Key string `cbor:"4,keyasint,omitempty"`

	// Kind is the leaf's value kind (leaves only).
	Kind uint8 `cbor:"5,keyasint,omitempty"`

	// Value is the current leaf value, if one has been set.
	Value any `cbor:"6,keyasint,omitempty"`

	// HasValue is true once the leaf has received its first value.
	HasValue bool `cbor:"7,keyasint,omitempty"`
}

// LeafUpdate carries one leaf value change.
type LeafUpdate struct {
	// Key is the owning quantity key.
	Key string `cbor:"1,keyasint"`

	// Value is the new leaf value.
	Value any `cbor:"2,keyasint"`
}

// wireEncMode is the CBOR encoder mode for client frames.
var wireEncMode cbor.EncMode

// wireDecMode is the CBOR decoder mode for client frames.
var wireDecMode cbor.DecMode

func init() {
	var err error

	wireEncMode, err = cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create wire CBOR encoder mode: %v", err))
	}

	wireDecMode, err = cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyQuiet,
		IndefLength: cbor.IndefLengthAllowed,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create wire CBOR decoder mode: %v", err))
	}
}

// EncodeMessage encodes a message to CBOR bytes.
func EncodeMessage(msg Message) ([]byte, error) {
	return wireEncMode.Marshal(msg)
}

// DecodeMessage decodes CBOR bytes into a message.
func DecodeMessage(data []byte) (Message, error) {
	var msg Message
	if err := wireDecMode.Unmarshal(data, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}

// BuildSnapshot captures the complete tree state for a priming frame.
// Output is deterministic: nodes appear depth-first in sibling order.
func BuildSnapshot(t *tree.Tree) *Snapshot {
	snap := &Snapshot{}

	t.Walk(func(n tree.Node) {
		ns := NodeSnapshot{
			Path:  n.Path(),
			Label: n.Label(),
		}
		switch node := n.(type) {
		case *tree.Group:
			ns.Group = true
		case *tree.Leaf:
			ns.Key = node.Key()
			ns.Kind = uint8(node.Kind())
			if v, ok := node.Value(); ok {
				ns.Value = v
				ns.HasValue = true
			}
		}
		snap.Nodes = append(snap.Nodes, ns)
	})

	return snap
}
