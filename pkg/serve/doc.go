// Package serve provides the tree-serving boundary.
//
// The synchronization engine publishes through the TreeServer interface
// and never talks to clients directly. Publisher is the built-in
// implementation: it holds the published tree, applies leaf updates,
// and streams the tree read-only to downstream TCP clients as
// length-prefixed CBOR frames - a full snapshot on connect, then one
// update frame per leaf change. Clients cannot write.
package serve
