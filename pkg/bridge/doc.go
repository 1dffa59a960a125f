// Package bridge implements the tree-state synchronization engine.
//
// The engine has three parts. The Mapper executes one poll cycle:
// a single batch read against the monitoring client, per-quantity
// decoding, and leaf updates through the tree-serving boundary. The
// Availability tracker derives the connected/disconnected signal and
// the last-success timestamp from each cycle's outcome and republishes
// both as ordinary status leaves. The Scheduler drives cycles at a
// fixed period with at most one cycle in flight.
//
// Failure policy: a failed batch read is a total cycle failure - no
// leaf is touched and the tree keeps its last good values. Individual
// item failures within a successful batch are isolated to their own
// leaf and do not affect the cycle outcome.
package bridge
