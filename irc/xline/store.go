// Package xline implements the core's X-line subsystem (spec §4.6): a
// pluggable, expirable, string-matched access-control store applied to
// connecting and acting users. Grounded on ergochat/ergo's per-kind ban
// managers (dline.go, kline.go, uban.go's tagged-union dispatch) but
// unified into one generic Store parameterised by the spec's kind-tag enum
// instead of one hardcoded Go type per kind.
package xline

import (
	"fmt"
	"strings"

	"github.com/coregate/ircd/irc/logger"
	"github.com/coregate/ircd/irc/timer"
)

// Kind is an X-line category letter/name, per spec §3's X-Line kind-tag.
type Kind string

const (
	KindK       Kind = "K"       // ident@host ban
	KindZ       Kind = "Z"       // IP/CIDR ban
	KindE       Kind = "E"       // ident@host exception
	KindG       Kind = "G"       // global (network-wide) ident@host ban
	KindShun    Kind = "SHUN"    // gags most commands without disconnecting
	KindSVSHOLD Kind = "SVSHOLD" // services-reserved nickname
	KindELine   Kind = "ELINE"   // exempts a mask from other X-lines
)

// Subject is what a connecting/acting user presents for matching.
type Subject struct {
	IdentHost string // "ident@host"
	Full      string // "nick!ident@host"
	IP        string
	Nick      string
	Server    string
}

// Entry is one matched-set record (spec §3's X-Line data model).
type Entry struct {
	Kind     Kind
	Pattern  string // the kind-specific matching pattern, as displayed
	SetTime  int64
	Duration int64 // 0 => permanent
	Setter   string
	Reason   string

	matches func(Subject) bool
	timer   *timer.Timer
}

// Displayable is the string identity used for duplicate-detection and
// DelLine lookup — AddLine rejects a second entry with the same kind and
// displayable.
func (e *Entry) Displayable() string { return e.Pattern }

// Expired reports whether e's lifetime has elapsed as of now.
func (e *Entry) Expired(now int64) bool {
	return e.Duration > 0 && e.SetTime+e.Duration <= now
}

// Factory builds Entries of one Kind and reports whether adding one should
// retroactively recheck every existing user (spec §3: "a flag declaring
// whether adding one should retroactively apply to existing users").
type Factory struct {
	Build        func(setTime, duration int64, setter, reason, pattern string) (*Entry, error)
	AutoApply    bool
}

// Store holds the active entries and expiry schedule for every registered
// Kind.
type Store struct {
	factories map[Kind]*Factory
	entries   map[Kind][]*Entry
	timers    *timer.Manager
	log       *logger.Manager

	// OnAutoApply is invoked for every existing user a newly-added
	// auto-applying line matches (typically: disconnect them).
	OnAutoApply func(kind Kind, e *Entry, subject Subject)
	// OnExpire is invoked when an entry's scheduled expiry fires.
	OnExpire func(kind Kind, e *Entry)

	// Subjects enumerates the currently-connected users to recheck when an
	// auto-applying line is added.
	Subjects func() []Subject
}

// NewStore returns an empty Store backed by timers for scheduled expiry.
func NewStore(timers *timer.Manager, log *logger.Manager) *Store {
	return &Store{
		factories: make(map[Kind]*Factory),
		entries:   make(map[Kind][]*Entry),
		timers:    timers,
		log:       log,
	}
}

// RegisterFactory installs the builder for kind.
func (s *Store) RegisterFactory(kind Kind, f *Factory) {
	s.factories[kind] = f
}

// AddLine builds and inserts a new entry of kind. It fails if an entry with
// the same displayable pattern already exists for that kind.
func (s *Store) AddLine(kind Kind, setTime, duration int64, setter, reason, pattern string) (*Entry, error) {
	f, ok := s.factories[kind]
	if !ok {
		return nil, fmt.Errorf("xline: no factory registered for kind %s", kind)
	}
	for _, existing := range s.entries[kind] {
		if existing.Displayable() == pattern {
			return nil, fmt.Errorf("xline: %s line for %q already exists", kind, pattern)
		}
	}

	e, err := f.Build(setTime, duration, setter, reason, pattern)
	if err != nil {
		return nil, err
	}
	e.Kind = kind

	s.entries[kind] = append(s.entries[kind], e)
	if s.log != nil {
		s.log.Info("XLINE", fmt.Sprintf("%s line added on %s by %s: %s", kind, pattern, setter, reason))
	}

	if duration > 0 && s.timers != nil {
		e.timer = s.timers.Schedule(setTime+duration, 0, false, func(now int64) bool {
			s.expireOne(kind, e)
			return false
		})
	}

	if f.AutoApply && s.Subjects != nil && s.OnAutoApply != nil {
		for _, subj := range s.Subjects() {
			if e.matches(subj) {
				s.OnAutoApply(kind, e, subj)
			}
		}
	}

	return e, nil
}

// DelLine removes the entry matching pattern for kind.
func (s *Store) DelLine(kind Kind, pattern, setter string) (bool, string) {
	entries := s.entries[kind]
	for i, e := range entries {
		if e.Displayable() == pattern {
			s.entries[kind] = append(entries[:i], entries[i+1:]...)
			if e.timer != nil && s.timers != nil {
				s.timers.Remove(e.timer)
			}
			if s.log != nil {
				s.log.Info("XLINE", fmt.Sprintf("%s line removed on %s by %s", kind, pattern, setter))
			}
			return true, ""
		}
	}
	return false, fmt.Sprintf("no such %s line: %s", kind, pattern)
}

// MatchesLine returns the first entry of kind matching subject, or nil.
// Linear scan, per spec §4.6 ("typical small N").
func (s *Store) MatchesLine(kind Kind, subject Subject) *Entry {
	for _, e := range s.entries[kind] {
		if e.matches != nil && e.matches(subject) {
			return e
		}
	}
	return nil
}

func (s *Store) expireOne(kind Kind, target *Entry) {
	entries := s.entries[kind]
	for i, e := range entries {
		if e == target {
			s.entries[kind] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	if s.log != nil {
		s.log.Info("XLINE", fmt.Sprintf("%s line on %s expired", kind, target.Pattern))
	}
	if s.OnExpire != nil {
		s.OnExpire(kind, target)
	}
}

// Expire drains any entries whose expiry has passed as of now without
// waiting for the timer manager's own Tick — used by callers that want an
// immediate sweep (e.g. at startup after loading a persisted — in this
// core's case, config-seeded — set).
func (s *Store) Expire(now int64) {
	for kind, entries := range s.entries {
		var due []*Entry
		for _, e := range entries {
			if e.Expired(now) {
				due = append(due, e)
			}
		}
		for _, e := range due {
			s.expireOne(kind, e)
		}
	}
}

// InvokeStats enumerates every active entry of kind for a STATS reply.
func (s *Store) InvokeStats(kind Kind) []string {
	out := make([]string, 0, len(s.entries[kind]))
	for _, e := range s.entries[kind] {
		out = append(out, fmt.Sprintf("%s %s %s :%s", kind, e.Pattern, e.Setter, e.Reason))
	}
	return out
}

// All returns every currently-active entry across all kinds.
func (s *Store) All() []*Entry {
	var out []*Entry
	for _, entries := range s.entries {
		out = append(out, entries...)
	}
	return out
}

// splitIdentHost splits "ident@host" into its two halves, returning "*" as
// the ident when there is no '@'.
func splitIdentHost(s string) (ident, host string) {
	if i := strings.IndexByte(s, '@'); i >= 0 {
		return s[:i], s[i+1:]
	}
	return "*", s
}
