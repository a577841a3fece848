// Package timer implements the core's monotonic clock and scheduled-callback
// wheel: a single process-wide second counter advanced by the main loop, and
// an ordered-by-trigger-time multimap of callbacks ticked at second
// boundaries.
package timer

import "sort"

// Callback runs when a Timer fires. The bool return controls whether the
// timer continues to exist: a one-shot timer can return true to ask to be
// kept (re-armed by the caller), and a repeating timer can return false to
// cancel itself early.
type Callback func(now int64) bool

// Timer is a single scheduled callback.
type Timer struct {
	id       uint64
	trigger  int64
	interval int64
	repeat   bool
	cb       Callback
}

// ID identifies a Timer for later Remove calls.
func (t *Timer) ID() uint64 { return t.id }

// Manager keeps all scheduled timers ordered by trigger time. It is not
// safe for concurrent use: per spec §5, the core is single-threaded and the
// Manager is only ever touched from the main loop.
type Manager struct {
	now     int64
	nextID  uint64
	entries []*Timer // kept sorted by (trigger, insertion order)
}

// NewManager returns a Manager with the clock initialized to start.
func NewManager(start int64) *Manager {
	return &Manager{now: start}
}

// Now returns the manager's current monotonic second counter.
func (m *Manager) Now() int64 { return m.now }

// Advance moves the clock to now, without ticking. Tick should be called
// separately so callers can observe the new value before callbacks run.
func (m *Manager) Advance(now int64) { m.now = now }

// Schedule adds a new timer to fire at trigger (in the same units as Now),
// optionally repeating every interval seconds thereafter.
func (m *Manager) Schedule(trigger int64, interval int64, repeat bool, cb Callback) *Timer {
	m.nextID++
	t := &Timer{id: m.nextID, trigger: trigger, interval: interval, repeat: repeat, cb: cb}
	m.insert(t)
	return t
}

// After is a convenience wrapper scheduling relative to the current clock.
func (m *Manager) After(delay int64, interval int64, repeat bool, cb Callback) *Timer {
	return m.Schedule(m.now+delay, interval, repeat, cb)
}

func (m *Manager) insert(t *Timer) {
	// Insertion point is found by trigger time only; entries with equal
	// trigger keep insertion order because sort.Search returns the first
	// index with trigger > t.trigger, i.e. the position right after any
	// equal-trigger run already present.
	idx := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].trigger > t.trigger
	})
	m.entries = append(m.entries, nil)
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = t
}

// Remove cancels a timer before it fires. O(log n) to locate the
// equal-range of the trigger time, then a linear scan within that range for
// identity, mirroring the multimap::equal_range idiom in timer.cpp.
func (m *Manager) Remove(t *Timer) bool {
	lo := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].trigger >= t.trigger
	})
	hi := sort.Search(len(m.entries), func(i int) bool {
		return m.entries[i].trigger > t.trigger
	})
	for i := lo; i < hi; i++ {
		if m.entries[i] == t {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Tick advances the clock to now and fires every timer with trigger <= now,
// in ascending-trigger then insertion order. Callbacks that return true and
// are repeating are re-inserted at now + interval.
func (m *Manager) Tick(now int64) {
	m.now = now

	due := 0
	for due < len(m.entries) && m.entries[due].trigger <= now {
		due++
	}
	if due == 0 {
		return
	}

	firing := m.entries[:due]
	m.entries = m.entries[due:]

	var rearm []*Timer
	for _, t := range firing {
		keep := t.cb(now)
		if keep && t.repeat {
			t.trigger = now + t.interval
			rearm = append(rearm, t)
		}
	}
	for _, t := range rearm {
		m.insert(t)
	}
}

// Pending reports how many timers are currently scheduled.
func (m *Manager) Pending() int { return len(m.entries) }
