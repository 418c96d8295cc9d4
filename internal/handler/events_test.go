package handler_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"tasktracker/internal/queue"
)

// recordingPublisher captures published events instead of dialing a broker.
type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.TaskEvent
}

func (p *recordingPublisher) PublishTaskEvent(_ context.Context, ev queue.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) snapshot() []queue.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.TaskEvent(nil), p.events...)
}

func TestTaskMutationsPublishEvents(t *testing.T) {
	t.Parallel()

	pub := &recordingPublisher{}
	e := newTestServerWith(pub)
	user, cookie := register(t, e, "Ada", "ada@example.com", "hunter22")

	created := decode(t, doJSON(e, http.MethodPost, "/api/v1/task", map[string]any{"task": "work"}, cookie))
	id := created["id"].(string)

	rec := doJSON(e, http.MethodPatch, "/api/v1/task/"+id,
		map[string]any{"task": "work harder", "urgency": "medium", "completed": true}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/api/v1/task/"+id, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	events := pub.snapshot()
	require.Len(t, events, 3)
	require.Equal(t, queue.TaskCreated, events[0].Type)
	require.Equal(t, queue.TaskUpdated, events[1].Type)
	require.Equal(t, queue.TaskDeleted, events[2].Type)
	for _, ev := range events {
		require.Equal(t, id, ev.TaskID)
		require.Equal(t, user["userId"], ev.UserID)
		require.NotEmpty(t, ev.OccurredAt)
	}

	// A failed request must not publish.
	rec = doJSON(e, http.MethodDelete, "/api/v1/task/"+id, nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Len(t, pub.snapshot(), 3)
}
