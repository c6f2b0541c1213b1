package audit

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "lexscreen/pkg/domain"
)

func TestPublisherStampsTimestampAndDelivers(t *testing.T) {
	inbox := make(chan Event, 4)
	p := NewPublisher(inbox, slog.New(slog.DiscardHandler))

	orgID := id.NewOrgID()
	p.Emit(context.Background(), Event{OrgID: orgID, Action: ActionRunStarted, Trigger: "manual"})

	select {
	case got := <-inbox:
		assert.Equal(t, ActionRunStarted, got.Action)
		assert.Equal(t, orgID, got.OrgID)
		assert.False(t, got.Timestamp.IsZero())
	default:
		t.Fatal("expected event in inbox")
	}
}

func TestPublisherDropsWhenInboxFull(t *testing.T) {
	inbox := make(chan Event, 1)
	p := NewPublisher(inbox, slog.New(slog.DiscardHandler))

	p.Emit(context.Background(), Event{Action: ActionRunStarted})
	p.Emit(context.Background(), Event{Action: ActionRunCompleted})

	assert.Len(t, inbox, 1)
	got := <-inbox
	assert.Equal(t, ActionRunStarted, got.Action)
}

func TestWorkerPersistsEventsUntilContextEnds(t *testing.T) {
	store := NewInMemoryStore()
	inbox := make(chan Event, 4)
	w := NewWorker(store, inbox, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	orgID := id.NewOrgID()
	inbox <- Event{OrgID: orgID, Action: ActionRunStarted, Timestamp: time.Now()}
	inbox <- Event{OrgID: orgID, Action: ActionRunCompleted, Timestamp: time.Now()}

	require.Eventually(t, func() bool {
		events, err := store.ListByOrg(context.Background(), orgID)
		return err == nil && len(events) == 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	events, err := store.ListByOrg(context.Background(), orgID)
	require.NoError(t, err)
	assert.Equal(t, ActionRunStarted, events[0].Action)
	assert.Equal(t, ActionRunCompleted, events[1].Action)
}

func TestStoreFiltersByOrganization(t *testing.T) {
	store := NewInMemoryStore()
	a, b := id.NewOrgID(), id.NewOrgID()

	require.NoError(t, store.Append(context.Background(), Event{OrgID: a, Action: ActionRunStarted}))
	require.NoError(t, store.Append(context.Background(), Event{OrgID: b, Action: ActionProfileAnalyzed}))

	events, err := store.ListByOrg(context.Background(), a)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ActionRunStarted, events[0].Action)
}
