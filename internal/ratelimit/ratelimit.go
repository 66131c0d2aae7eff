// Package ratelimit implements fixed-window request counters shared by the
// HTTP limiter middleware.
//
// A window for (limit name, key) opens on the first hit and lasts
// Limit.Window. Within it at most Limit.Max hits are allowed; later hits are
// denied until the window closes, at which point the count starts over.
// Denied hits do not extend the window.
//
// Two stores implement Store:
//
//   - Memory: process-local map guarded by a mutex, with opportunistic
//     eviction of closed windows. Suitable for a single instance.
//   - Redis: atomic INCR/PEXPIRE via a Lua script, so several API instances
//     share one budget per client.
package ratelimit

import (
	"context"
	"time"
)

// Limit describes one limiter class.
type Limit struct {
	Name   string
	Max    int
	Window time.Duration
}

// Result is the outcome of a single Allow call.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is how long a denied caller should wait. Zero when allowed.
	RetryAfter time.Duration
	// ResetAfter is the time until the current window closes.
	ResetAfter time.Duration
}

// Store counts hits per (limit, key) window.
type Store interface {
	// Allow records a hit for key under l and reports whether it fits.
	Allow(ctx context.Context, key string, l Limit) (Result, error)
	// Release gives back one previously allowed hit, e.g. for a request whose
	// outcome should not count against the caller.
	Release(ctx context.Context, key string, l Limit) error
}

func result(l Limit, count int, resetAfter time.Duration) Result {
	if resetAfter < 0 {
		resetAfter = 0
	}
	r := Result{Limit: l.Max, ResetAfter: resetAfter}
	if count <= l.Max {
		r.Allowed = true
		r.Remaining = l.Max - count
		return r
	}
	r.RetryAfter = resetAfter
	if r.RetryAfter < time.Second {
		r.RetryAfter = time.Second
	}
	return r
}

func storeKey(l Limit, key string) string {
	return "rl:" + l.Name + ":" + key
}
