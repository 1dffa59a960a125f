package log

import (
	"context"
	"log/slog"
)

// SlogAdapter writes bridge events to an slog.Logger.
// Useful for development when you want to see bridge events in console.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter creates a new SlogAdapter that writes to the given slog.Logger.
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	return &SlogAdapter{logger: logger}
}

// Log writes the event to the slog logger. Errors and state changes are
// logged at Warn and Info; everything else at Debug.
func (a *SlogAdapter) Log(event Event) {
	attrs := []slog.Attr{
		slog.String("category", event.Category.String()),
	}

	level := slog.LevelDebug

	switch {
	case event.Cycle != nil:
		attrs = append(attrs,
			slog.Bool("success", event.Cycle.Success),
			slog.Duration("duration", event.Cycle.Duration),
			slog.Int("items", event.Cycle.ItemCount),
		)
		if len(event.Cycle.FailedKeys) > 0 {
			attrs = append(attrs, slog.Any("failed_keys", event.Cycle.FailedKeys))
		}
	case event.PollError != nil:
		level = slog.LevelWarn
		attrs = append(attrs, slog.String("error", event.PollError.Message))
	case event.ItemError != nil:
		level = slog.LevelWarn
		attrs = append(attrs,
			slog.String("key", event.ItemError.Key),
			slog.String("oid", event.ItemError.OID),
			slog.String("error", event.ItemError.Message),
		)
	case event.Availability != nil:
		level = slog.LevelInfo
		attrs = append(attrs, slog.Bool("connected", event.Availability.Connected))
		if event.Availability.LastSuccess != nil {
			attrs = append(attrs, slog.Time("last_success", *event.Availability.LastSuccess))
		}
	case event.Session != nil:
		level = slog.LevelInfo
		attrs = append(attrs,
			slog.String("session_id", event.Session.SessionID),
			slog.String("remote_addr", event.Session.RemoteAddr),
			slog.Bool("connected", event.Session.Connected),
		)
	}

	a.logger.LogAttrs(context.Background(), level, "bridge", attrs...)
}

// Compile-time interface satisfaction check.
var _ Logger = (*SlogAdapter)(nil)
