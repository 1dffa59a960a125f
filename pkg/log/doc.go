// Package log provides structured event logging for the bridge.
//
// This package defines the Logger interface and Event types for
// capturing bridge-level events: poll cycle outcomes, item failures,
// availability transitions, and client session lifecycle. It is
// separate from operational logging (slog) - event capture provides a
// machine-readable trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/snmptree/bridge.tlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with .tlog extension.
package log
