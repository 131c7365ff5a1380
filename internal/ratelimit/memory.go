package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SweepInterval is how often expired windows are dropped from memory
const SweepInterval = time.Minute

type window struct {
	count int
	end   time.Time
}

// MemoryLimiter keeps counters in process memory
type MemoryLimiter struct {
	limit  int
	period time.Duration

	mu      sync.Mutex
	windows map[string]window
	now     func() time.Time

	stopSweep chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewMemoryLimiter(limit int, period time.Duration) *MemoryLimiter {
	if period <= 0 {
		period = time.Minute
	}
	l := &MemoryLimiter{
		limit:     limit,
		period:    period,
		windows:   make(map[string]window),
		now:       time.Now,
		stopSweep: make(chan struct{}),
	}

	l.wg.Add(1)
	go l.sweepLoop()

	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.end) {
		w = window{end: now.Add(l.period)}
	}
	w.count++
	l.windows[key] = w

	return Decision{
		Allowed: w.count <= l.limit,
		Count:   w.count,
		ResetAt: w.end,
	}
}

func (l *MemoryLimiter) Peek(_ context.Context, key string) Decision {
	if l.limit <= 0 {
		return Decision{Allowed: true}
	}

	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.end) {
		return Decision{Allowed: true}
	}
	return Decision{
		Allowed: w.count < l.limit,
		Count:   w.count,
		ResetAt: w.end,
	}
}

func (l *MemoryLimiter) sweepLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stopSweep:
			return
		}
	}
}

func (l *MemoryLimiter) sweep() {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, w := range l.windows {
		if !now.Before(w.end) {
			delete(l.windows, key)
		}
	}
}

// Close stops the background sweep and waits for it to finish
func (l *MemoryLimiter) Close() error {
	l.closeOnce.Do(func() {
		close(l.stopSweep)
	})
	l.wg.Wait()
	return nil
}
