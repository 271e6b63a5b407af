package schedule

import (
	"log/slog"
	"sync"
	"time"

	"liveclass-service/internal/events"
	"liveclass-service/internal/model"
)

// Watcher keeps a keyed registry of sessions and re-derives their phase on a
// fixed tick. When a tracked session crosses from upcoming to live a
// session.live event is published. Entries that reach the past phase are
// dropped so the registry never grows without bound.
type Watcher struct {
	mu      sync.Mutex
	entries map[string]*watchEntry

	now       func() time.Time
	interval  time.Duration
	publisher events.EventPublisher

	stop     chan struct{}
	stopOnce sync.Once
}

type watchEntry struct {
	session model.Session
	phase   Phase
}

// NewWatcher builds a watcher with an injectable time source so tests can
// drive ticks deterministically. The publisher may be nil, in which case
// transitions are only reflected in the registry.
func NewWatcher(now func() time.Time, interval time.Duration, publisher events.EventPublisher) *Watcher {
	if now == nil {
		now = time.Now
	}
	if interval <= 0 {
		interval = time.Second
	}
	return &Watcher{
		entries:   make(map[string]*watchEntry),
		now:       now,
		interval:  interval,
		publisher: publisher,
		stop:      make(chan struct{}),
	}
}

// Register starts tracking a session, replacing any previous entry with the
// same id. It returns a cancel func that deregisters the entry.
func (w *Watcher) Register(s model.Session) func() {
	w.mu.Lock()
	w.entries[s.ID] = &watchEntry{
		session: s,
		phase:   ResolvePhase(w.now(), s.StartTime, s.EndTime, s.Duration),
	}
	w.mu.Unlock()

	id := s.ID
	return func() { w.Deregister(id) }
}

// Deregister removes a session from the registry. Unknown ids are ignored.
func (w *Watcher) Deregister(id string) {
	w.mu.Lock()
	delete(w.entries, id)
	w.mu.Unlock()
}

// Len reports how many sessions are currently tracked.
func (w *Watcher) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.entries)
}

// Tick re-evaluates every tracked session once. It is exported so the run
// loop and tests share the same code path.
func (w *Watcher) Tick() {
	now := w.now()

	w.mu.Lock()
	var wentLive []model.Session
	for id, entry := range w.entries {
		phase := ResolvePhase(now, entry.session.StartTime, entry.session.EndTime, entry.session.Duration)
		if entry.phase == PhaseUpcoming && phase == PhaseLive {
			wentLive = append(wentLive, entry.session)
		}
		if phase == PhasePast {
			delete(w.entries, id)
			continue
		}
		entry.phase = phase
	}
	w.mu.Unlock()

	// Publish outside the lock; a slow broker must not stall registration.
	for _, s := range wentLive {
		if w.publisher == nil {
			continue
		}
		if err := w.publisher.PublishSessionLive(s); err != nil {
			slog.Error("Failed to publish session.live event", slog.String("session_id", s.ID), slog.String("error", err.Error()))
		}
	}
}

// Start launches the tick loop in its own goroutine.
func (w *Watcher) Start() {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				w.Tick()
			}
		}
	}()
}

// Stop halts the tick loop. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}
