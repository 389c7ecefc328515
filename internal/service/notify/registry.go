// Package notify pushes ephemeral messages to connected link owners.
package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shortlink/backend/internal/model"
	"shortlink/backend/pkg/logger"
)

// Channel is one live push connection.
type Channel interface {
	ID() string
	Send(ctx context.Context, msg model.NotificationMessage) error
	Close() error
}

// Notifier tracks at most one live channel per owner.
type Notifier interface {
	// Register installs ch for ownerID, closing any channel it replaces.
	Register(ownerID string, ch Channel)
	Unregister(ownerID string)
	// Release removes ownerID's channel only while it is still channelID, so a
	// closing connection cannot evict its replacement.
	Release(ownerID, channelID string)
	// Send delivers msg to ownerID's channel and reports whether it was delivered.
	Send(ctx context.Context, ownerID string, msg model.NotificationMessage) bool
	// Broadcast delivers msg to every live channel and returns the delivered count.
	Broadcast(ctx context.Context, msg model.NotificationMessage) int
	Count() int
	CloseAll()
}

type Registry struct {
	mu          sync.RWMutex
	channels    map[string]Channel
	sendTimeout time.Duration
}

func NewRegistry(sendTimeout time.Duration) *Registry {
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}
	return &Registry{
		channels:    make(map[string]Channel),
		sendTimeout: sendTimeout,
	}
}

func (r *Registry) Register(ownerID string, ch Channel) {
	r.mu.Lock()
	old := r.channels[ownerID]
	r.channels[ownerID] = ch
	r.mu.Unlock()

	if old != nil && old.ID() != ch.ID() {
		_ = old.Close()
	}
	logger.Info("channel registered", "module", "notify", "action", "register", "resource", "channel", "result", "ok", "owner_id", ownerID, "channel_id", ch.ID())
}

func (r *Registry) Unregister(ownerID string) {
	r.mu.Lock()
	ch := r.channels[ownerID]
	delete(r.channels, ownerID)
	r.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
	}
}

func (r *Registry) Release(ownerID, channelID string) {
	r.mu.Lock()
	ch, ok := r.channels[ownerID]
	if ok && ch.ID() == channelID {
		delete(r.channels, ownerID)
	} else {
		ch = nil
	}
	r.mu.Unlock()

	if ch != nil {
		_ = ch.Close()
	}
}

func (r *Registry) Send(ctx context.Context, ownerID string, msg model.NotificationMessage) bool {
	r.mu.RLock()
	ch := r.channels[ownerID]
	r.mu.RUnlock()
	if ch == nil {
		return false
	}
	return r.deliver(ctx, ownerID, ch, msg)
}

func (r *Registry) Broadcast(ctx context.Context, msg model.NotificationMessage) int {
	r.mu.RLock()
	snapshot := make(map[string]Channel, len(r.channels))
	for owner, ch := range r.channels {
		snapshot[owner] = ch
	}
	r.mu.RUnlock()

	var (
		wg        sync.WaitGroup
		delivered atomic.Int32
	)
	for owner, ch := range snapshot {
		wg.Add(1)
		go func(owner string, ch Channel) {
			defer wg.Done()
			if r.deliver(ctx, owner, ch, msg) {
				delivered.Add(1)
			}
		}(owner, ch)
	}
	wg.Wait()
	return int(delivered.Load())
}

// deliver runs without any registry lock held; a failing channel is dropped.
func (r *Registry) deliver(ctx context.Context, ownerID string, ch Channel, msg model.NotificationMessage) bool {
	ctx, cancel := context.WithTimeout(ctx, r.sendTimeout)
	defer cancel()

	if err := ch.Send(ctx, msg); err != nil {
		logger.Warn("notification send failed", "module", "notify", "action", "send", "resource", "channel", "result", "failed",
			"owner_id", ownerID, "channel_id", ch.ID(), "type", msg.Type, "error", err)
		r.Release(ownerID, ch.ID())
		return false
	}
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	channels := r.channels
	r.channels = make(map[string]Channel)
	r.mu.Unlock()

	for _, ch := range channels {
		_ = ch.Close()
	}
}
