package service_test

import (
	"context"
	"sync"

	"shortlink/backend/internal/model"
	"shortlink/backend/internal/service/notify"
	"shortlink/backend/internal/worker"
)

// inlineSubmitter runs tasks on Submit so follow-up effects are observable.
type inlineSubmitter struct {
	mu    sync.Mutex
	names []string
}

func (s *inlineSubmitter) Submit(name string, task worker.Task) bool {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()
	_ = task(context.Background())
	return true
}

func (s *inlineSubmitter) submitted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

type stubEnricher struct {
	loc   *model.Location
	calls []string
}

func (e *stubEnricher) Enrich(_ context.Context, ip string) *model.Location {
	e.calls = append(e.calls, ip)
	return e.loc
}

type sentMessage struct {
	owner string
	msg   model.NotificationMessage
}

// recordingNotifier embeds the registry for the methods the resolver never calls.
type recordingNotifier struct {
	*notify.Registry
	sent []sentMessage
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{Registry: notify.NewRegistry(0)}
}

func (n *recordingNotifier) Send(_ context.Context, ownerID string, msg model.NotificationMessage) bool {
	n.sent = append(n.sent, sentMessage{owner: ownerID, msg: msg})
	return true
}
