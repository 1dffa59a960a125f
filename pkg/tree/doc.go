// Package tree implements the published parameter tree.
//
// The tree is the in-memory representation of what the bridge serves to
// downstream clients: a fixed hierarchy of groups and typed leaves built
// once at startup from the quantity registry. The shape never changes
// for the lifetime of the process; only leaf values mutate, and each
// leaf update is atomic with respect to concurrent readers.
package tree
