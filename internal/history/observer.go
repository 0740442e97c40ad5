package history

import (
	"context"
	"log/slog"

	"ntfydispatch/internal/logging"
	"ntfydispatch/internal/notifications"
	"ntfydispatch/internal/services"
)

// Recorder journals dispatch events. Write failures are logged and never
// change the dispatch outcome.
type Recorder struct {
	store  *Store
	logger *slog.Logger
}

// NewRecorder wraps store as a notifications.Observer.
func NewRecorder(store *Store, logger *slog.Logger) *Recorder {
	return &Recorder{store: store, logger: logging.NewComponentLogger(logger, "history")}
}

// EntryFromEvent converts a dispatch event into a journal entry.
func EntryFromEvent(event notifications.Event) Entry {
	entry := Entry{
		RequestID:  event.RequestID,
		CreatedAt:  event.Started,
		URL:        event.URL,
		Outcome:    OutcomeOK,
		RelayID:    event.RelayID,
		RelayEvent: event.RelayEvent,
		Duration:   event.Duration,
	}
	if event.Err != nil {
		entry.Outcome = OutcomeFailed
		entry.ErrorKind = services.Kind(event.Err)
		entry.ErrorMessage = event.Err.Error()
	}
	return entry
}

// ObserveDispatch implements notifications.Observer.
func (r *Recorder) ObserveDispatch(ctx context.Context, event notifications.Event) {
	if r == nil || r.store == nil {
		return
	}
	if _, err := r.store.Record(context.WithoutCancel(ctx), EntryFromEvent(event)); err != nil {
		logging.WithContext(ctx, r.logger).Warn("failed to record dispatch history",
			logging.String("path", r.store.Path()),
			logging.Error(err),
		)
	}
}
