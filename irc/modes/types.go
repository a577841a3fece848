// Package modes implements the core's mode registry and processor (spec
// §4.4): a typed dispatch table of single-character user/channel modes with
// parameter, list and prefix variants, conflict resolution on
// server-to-server merges, and the "TryMode" per-change ACL/watcher
// pipeline. Grounded on original_source/src/mode.cpp's ModeParser,
// translated from virtual inheritance to a tagged-union Handler interface
// (one concrete type per Variant) plus ergochat/ergo's ModeSet bitset
// (irc/modes/modes.go) for O(1) flag storage.
package modes

import "github.com/coregate/ircd/irc/utils"

// TargetKind is whether a mode applies to users or channels.
type TargetKind int

const (
	TargetUser TargetKind = iota
	TargetChannel
)

// Variant is which of the four mode shapes a ModeHandler implements.
type Variant int

const (
	VariantSimple Variant = iota // plain flag, no parameter
	VariantParam                 // takes a parameter when set (and when unset if AlwaysParam)
	VariantList                  // a set of {mask, setter, time} entries
	VariantPrefix                // channel-only: attaches a sigil + rank to a membership
)

// minMode/maxMode bound the ASCII letters ('A'..'z') a mode can occupy,
// matching ergo's modes.ModeSet range (includes a few unused code points
// between 'Z' and 'a' for simplicity, same tradeoff ergo makes).
const (
	minMode = 'A'
	maxMode = 'z'
	numMode = maxMode - minMode + 1
)

// ModeSet is a dense bitset of which mode letters are currently active on a
// User or Channel, mirroring ergochat/ergo's modes.ModeSet but without the
// atomic operations ergo needs for its per-connection-goroutine concurrency
// model — the core here is single-threaded (spec §5).
type ModeSet [(numMode + 31) / 32]uint32

// Has reports whether letter is set.
func (s *ModeSet) Has(letter byte) bool {
	return utils.BitsetGet(s[:], uint(letter-minMode))
}

// Set sets or clears letter, returning whether it changed.
func (s *ModeSet) Set(letter byte, on bool) bool {
	return utils.BitsetSet(s[:], uint(letter-minMode), on)
}

// Clear removes every set mode.
func (s *ModeSet) Clear() {
	utils.BitsetClear(s[:])
}

// Copy overwrites s with other's bits.
func (s *ModeSet) Copy(other *ModeSet) {
	utils.BitsetCopy(s[:], other[:])
}

// Union ORs other's bits into s, used when merging two servers' prefix sets
// (spec §4.4 "prefix modes: both prefixes accrete").
func (s *ModeSet) Union(other *ModeSet) {
	utils.BitsetUnion(s[:], other[:])
}

// Letters returns every currently-set mode letter, in ascending order.
func (s *ModeSet) Letters() []byte {
	var out []byte
	for l := minMode; l <= maxMode; l++ {
		if s.Has(byte(l)) {
			out = append(out, byte(l))
		}
	}
	return out
}

// ListEntry is one entry of a list mode (ban, exception, invite, ...).
type ListEntry struct {
	Mask   string
	Setter string
	Time   int64
}

// FlagTarget is the capability every mode target (User or Channel) provides:
// access to its own bitset of active simple/param/prefix-owning modes.
type FlagTarget interface {
	Modes() *ModeSet
}

// ParamTarget is implemented by targets of parameter modes, to store and
// retrieve the mode's current parameter string.
type ParamTarget interface {
	FlagTarget
	GetParam(letter byte) (string, bool)
	SetParam(letter byte, value string)
	ClearParam(letter byte)
}

// ListTarget is implemented by channels, for list-mode (ban/except/invite)
// storage.
type ListTarget interface {
	FlagTarget
	ListEntries(letter byte) []ListEntry
	AddListEntry(letter byte, e ListEntry, limit int) bool
	RemoveListEntry(letter byte, mask string) bool
}

// PrefixMembership is one User's membership-edge view for prefix-mode
// purposes: its currently-held prefix letters and its highest rank.
type PrefixMembership interface {
	Prefixes() *ModeSet
	HighestRank(reg *Registry) int
}

// PrefixTarget is implemented by channels, to resolve a nick parameter to
// the membership a prefix mode change should act on.
type PrefixTarget interface {
	FlagTarget
	MembershipFor(nick string) (PrefixMembership, bool)
}

// Handler is the common contract every mode variant satisfies; the
// processor applies a change by a type switch on the concrete handler type
// (*SimpleMode, *ParamMode, *ListMode, *PrefixMode), the idiomatic-Go
// replacement for mode.cpp's virtual ModeHandler hierarchy.
type Handler interface {
	Name() string
	Letter() byte
	Target() TargetKind
	Variant() Variant
	ID() int // dense small integer; -1 for list/prefix modes, which don't need one
	MinRankSet() int
	MinRankUnset() int
	OperOnly() bool
}

// PrefixHandler is the extra contract a VariantPrefix Handler also
// satisfies.
type PrefixHandler interface {
	Handler
	PrefixChar() byte
	Rank() int
	SelfRemoveAllowed() bool
}
