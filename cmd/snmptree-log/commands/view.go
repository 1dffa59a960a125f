// Package commands implements the snmptree-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/snmptree/snmptree-go/pkg/log"
)

// ParseCategoryFlag converts a category flag value to a log.Category.
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "cycle":
		return log.CategoryCycle, nil
	case "error":
		return log.CategoryError, nil
	case "state":
		return log.CategoryState, nil
	case "session":
		return log.CategorySession, nil
	default:
		return 0, fmt.Errorf("unknown category %q (want cycle, error, state or session)", s)
	}
}

// RunView prints events matching the filter in human-readable format.
func RunView(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z")
	fmt.Fprintf(w, "%s %-7s ", ts, event.Category)

	switch {
	case event.Cycle != nil:
		status := "ok"
		if !event.Cycle.Success {
			status = "FAILED"
		}
		fmt.Fprintf(w, "cycle %s items=%d duration=%s", status,
			event.Cycle.ItemCount, event.Cycle.Duration.Round(time.Microsecond))
		if len(event.Cycle.FailedKeys) > 0 {
			fmt.Fprintf(w, " failed=%s", strings.Join(event.Cycle.FailedKeys, ","))
		}
	case event.PollError != nil:
		fmt.Fprintf(w, "poll error: %s", event.PollError.Message)
	case event.ItemError != nil:
		fmt.Fprintf(w, "item error key=%s oid=%s: %s",
			event.ItemError.Key, event.ItemError.OID, event.ItemError.Message)
	case event.Availability != nil:
		fmt.Fprintf(w, "connected=%t", event.Availability.Connected)
		if event.Availability.LastSuccess != nil {
			fmt.Fprintf(w, " lastSuccess=%s",
				event.Availability.LastSuccess.UTC().Format(time.RFC3339))
		}
	case event.Session != nil:
		verb := "connected"
		if !event.Session.Connected {
			verb = "disconnected"
		}
		fmt.Fprintf(w, "client %s %s (%s)", shortenID(event.Session.SessionID), verb,
			event.Session.RemoteAddr)
	default:
		fmt.Fprint(w, "unknown event")
	}
	fmt.Fprintln(w)
}

// shortenID abbreviates a session UUID for display.
func shortenID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
