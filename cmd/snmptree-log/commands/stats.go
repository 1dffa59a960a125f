package commands

import (
	"fmt"
	"io"
	"time"

	"github.com/snmptree/snmptree-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int

	Cycles       int
	FailedCycles int
	ItemErrors   map[string]int

	Disconnects int

	TimeRange struct {
		Start time.Time
		End   time.Time
	}
}

// CollectStats reads the whole log file and aggregates statistics.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		ItemErrors:       make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		switch {
		case event.Cycle != nil:
			stats.Cycles++
			if !event.Cycle.Success {
				stats.FailedCycles++
			}
		case event.ItemError != nil:
			stats.ItemErrors[event.ItemError.Key]++
		case event.Availability != nil:
			if !event.Availability.Connected {
				stats.Disconnects++
			}
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total events:  %d\n", stats.TotalEvents)
	if !stats.TimeRange.Start.IsZero() {
		fmt.Fprintf(w, "Time range:    %s .. %s\n",
			stats.TimeRange.Start.UTC().Format(time.RFC3339),
			stats.TimeRange.End.UTC().Format(time.RFC3339))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "By category:")
	for _, cat := range []log.Category{log.CategoryCycle, log.CategoryError, log.CategoryState, log.CategorySession} {
		if n := stats.EventsByCategory[cat]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", cat, n)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Cycles:        %d (%d failed)\n", stats.Cycles, stats.FailedCycles)
	fmt.Fprintf(w, "Disconnects:   %d\n", stats.Disconnects)

	if len(stats.ItemErrors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Item errors by key:")
		for key, n := range stats.ItemErrors {
			fmt.Fprintf(w, "  %-20s %d\n", key, n)
		}
	}
	return nil
}
