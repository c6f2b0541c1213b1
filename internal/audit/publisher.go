package audit

import (
	"context"
	"log/slog"
	"time"

	id "lexscreen/pkg/domain"
)

// Publisher captures structured audit events. Emit is non-blocking: events go
// through a bounded inbox drained by the Worker, so a slow store never stalls
// a screening run. A full inbox drops the event with a log line.
type Publisher struct {
	inbox  chan<- Event
	logger *slog.Logger
	now    func() time.Time
}

func NewPublisher(inbox chan<- Event, logger *slog.Logger) *Publisher {
	return &Publisher{inbox: inbox, logger: logger, now: time.Now}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = p.now()
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			slog.String("action", event.Action),
			slog.String("organization_id", event.OrgID.String()),
		)
	}
}

// Reader serves audit queries straight from the store.
type Reader struct {
	store Store
}

func NewReader(store Store) *Reader {
	return &Reader{store: store}
}

func (r *Reader) ListByOrg(ctx context.Context, orgID id.OrgID) ([]Event, error) {
	return r.store.ListByOrg(ctx, orgID)
}
