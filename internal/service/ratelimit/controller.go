package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"shortlink/backend/internal/clock"
	"shortlink/backend/internal/scheduler"
	"shortlink/backend/pkg/logger"
)

var ErrUnknownPolicy = errors.New("unknown rate limit policy")

// Controller answers admission checks against named policies and owns the
// periodic sweep of its store.
type Controller struct {
	store    Store
	clock    clock.Clock
	policies map[string]Policy

	mu      sync.Mutex
	sweeper *scheduler.Scheduler
}

func NewController(store Store, clk clock.Clock, policies ...Policy) *Controller {
	if clk == nil {
		clk = clock.New()
	}
	byName := make(map[string]Policy, len(policies))
	for _, p := range policies {
		byName[p.Name] = p
	}
	return &Controller{store: store, clock: clk, policies: byName}
}

func (c *Controller) Policy(name string) (Policy, bool) {
	p, ok := c.policies[name]
	return p, ok
}

// Check counts one request of id against the named policy.
func (c *Controller) Check(ctx context.Context, policyName string, id Identity) (Result, error) {
	p, ok := c.policies[policyName]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownPolicy, policyName)
	}
	return c.CheckPolicy(ctx, p, id)
}

func (c *Controller) CheckPolicy(ctx context.Context, p Policy, id Identity) (Result, error) {
	now := c.clock.Now()
	rec, allowed, err := c.store.Hit(ctx, p.KeyFor(id), p.Limit, p.Window, now)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Allowed:   allowed,
		Limit:     p.Limit,
		Remaining: p.Limit - rec.Count,
		ResetAt:   rec.WindowResetAt,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !allowed {
		res.Remaining = 0
		res.RetryAfter = rec.WindowResetAt.Sub(now)
		if res.RetryAfter < 0 {
			res.RetryAfter = 0
		}
	}
	return res, nil
}

// Sweep removes expired records once.
func (c *Controller) Sweep(ctx context.Context) error {
	removed, err := c.store.Sweep(ctx, c.clock.Now())
	if removed > 0 {
		logger.Debug("rate limit sweep", "module", "ratelimit", "action", "sweep", "resource", "record", "result", "ok", "removed", removed)
	}
	return err
}

// StartSweeper runs Sweep every interval until StopSweeper.
func (c *Controller) StartSweeper(interval time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sweeper != nil || interval <= 0 {
		return
	}
	c.sweeper = scheduler.New(scheduler.TaskFunc{TaskName: "ratelimit-sweep", Fn: c.Sweep}, interval)
	c.sweeper.Start()
}

func (c *Controller) StopSweeper() {
	c.mu.Lock()
	s := c.sweeper
	c.sweeper = nil
	c.mu.Unlock()
	if s != nil {
		s.Stop()
	}
}
