package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newMemoryAt(t0 time.Time) (*Memory, *fakeClock) {
	clk := &fakeClock{t: t0}
	return NewMemoryWithClock(clk.Now), clk
}

func TestMemory_FixedWindow_DeniesUntilWindowCloses(t *testing.T) {
	m, clk := newMemoryAt(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	l := Limit{Name: "contact", Max: 3, Window: time.Hour}
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		r, err := m.Allow(ctx, "ip:1", l)
		if err != nil || !r.Allowed {
			t.Fatalf("hit %d should be allowed: %+v %v", i, r, err)
		}
		if r.Remaining != 3-i || r.Limit != 3 {
			t.Fatalf("hit %d: remaining=%d limit=%d", i, r.Remaining, r.Limit)
		}
	}

	// Every further hit inside the window is denied.
	for _, step := range []time.Duration{0, 10 * time.Minute, 40 * time.Minute} {
		clk.Advance(step)
		r, _ := m.Allow(ctx, "ip:1", l)
		if r.Allowed {
			t.Fatalf("hit after %v should be denied", step)
		}
		if r.RetryAfter <= 0 || r.RetryAfter > time.Hour {
			t.Fatalf("unexpected RetryAfter %v", r.RetryAfter)
		}
	}

	// Denied hits must not extend the window: 50m elapsed, 10m left.
	r, _ := m.Allow(ctx, "ip:1", l)
	if r.ResetAfter != 10*time.Minute {
		t.Fatalf("ResetAfter = %v; want 10m", r.ResetAfter)
	}

	clk.Advance(10 * time.Minute)
	r, _ = m.Allow(ctx, "ip:1", l)
	if !r.Allowed || r.Remaining != 2 {
		t.Fatalf("new window should allow: %+v", r)
	}
}

func TestMemory_KeysAndLimitsAreIndependent(t *testing.T) {
	m, _ := newMemoryAt(time.Now())
	ctx := context.Background()
	strict := Limit{Name: "strict", Max: 1, Window: time.Minute}
	general := Limit{Name: "general", Max: 1, Window: time.Minute}

	if r, _ := m.Allow(ctx, "a", strict); !r.Allowed {
		t.Fatal("a/strict first hit")
	}
	if r, _ := m.Allow(ctx, "b", strict); !r.Allowed {
		t.Fatal("b/strict first hit")
	}
	if r, _ := m.Allow(ctx, "a", general); !r.Allowed {
		t.Fatal("a/general first hit")
	}
	if r, _ := m.Allow(ctx, "a", strict); r.Allowed {
		t.Fatal("a/strict second hit should be denied")
	}
}

func TestMemory_Release(t *testing.T) {
	m, clk := newMemoryAt(time.Now())
	ctx := context.Background()
	l := Limit{Name: "contact", Max: 1, Window: time.Minute}

	if r, _ := m.Allow(ctx, "k", l); !r.Allowed {
		t.Fatal("first hit")
	}
	if err := m.Release(ctx, "k", l); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if r, _ := m.Allow(ctx, "k", l); !r.Allowed {
		t.Fatal("released slot should be reusable")
	}

	// Releasing an unknown or closed window is a no-op.
	if err := m.Release(ctx, "missing", l); err != nil {
		t.Fatalf("Release missing: %v", err)
	}
	clk.Advance(2 * time.Minute)
	_ = m.Release(ctx, "k", l)
	if r, _ := m.Allow(ctx, "k", l); !r.Allowed || r.Remaining != 0 {
		t.Fatalf("expected fresh window: %+v", r)
	}
}

func TestMemory_GCEvictsClosedWindows(t *testing.T) {
	m, clk := newMemoryAt(time.Now())
	ctx := context.Background()
	l := Limit{Name: "g", Max: 10, Window: time.Second}

	_, _ = m.Allow(ctx, "old", l)
	clk.Advance(time.Minute)

	m.mu.Lock()
	m.cleanupN = 4999
	m.mu.Unlock()
	_, _ = m.Allow(ctx, "new", l)

	if n := m.Len(); n != 1 {
		t.Fatalf("expected only the new window to remain, got %d", n)
	}
}

func TestMemory_ConcurrentAllowNeverOvershoots(t *testing.T) {
	m := NewMemory()
	l := Limit{Name: "c", Max: 50, Window: time.Hour}
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r, _ := m.Allow(context.Background(), "shared", l); r.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 50 {
		t.Fatalf("allowed = %d; want 50", allowed)
	}
}
