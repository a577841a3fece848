package modes

import (
	"fmt"
)

// reserved prefix characters, per spec §4.4's Add invariants: "," ":" "#"
// any channel-name prefix, or any char > 126.
var reservedPrefixChars = map[byte]bool{',': true, ':': true, '#': true}

// Registry is the character<->handler dispatch table for one running
// server: two parallel tables (by letter, by name) per target kind, plus
// ordered lists of prefix and list modes, grounded on mode.cpp's
// ModeParser.
type Registry struct {
	byLetter map[TargetKind]map[byte]Handler
	byName   map[TargetKind]map[string]Handler
	prefixes []PrefixHandler // ordered by descending rank
	lists    []*ListMode

	usedIDs  map[TargetKind]map[int]bool
	maxID    int // size of the dense ID space, fixed by NewRegistry
}

// NewRegistry returns an empty mode registry. maxID bounds the dense
// numeric-ID space shared by user modes, simple channel modes and
// parameter channel modes (spec §4.4: "fixed at registration time").
func NewRegistry(maxID int) *Registry {
	return &Registry{
		byLetter: map[TargetKind]map[byte]Handler{TargetUser: {}, TargetChannel: {}},
		byName:   map[TargetKind]map[string]Handler{TargetUser: {}, TargetChannel: {}},
		usedIDs:  map[TargetKind]map[int]bool{TargetUser: {}, TargetChannel: {}},
		maxID:    maxID,
	}
}

// Structured registration failures per spec
// §4.4's Add invariants.
var (
	ErrNotAlpha          = fmt.Errorf("modes: letter is not alphabetic")
	ErrPrefixCollision   = fmt.Errorf("modes: prefix character collides with an existing or reserved one")
	ErrLetterOccupied    = fmt.Errorf("modes: (target, letter) slot already occupied")
	ErrNameOccupied      = fmt.Errorf("modes: (target, name) slot already occupied")
	ErrNoFreeID          = fmt.Errorf("modes: no free mode ID slot")
)

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// allocateID finds the lowest unused ID in [0, maxID) for target, or -1 if
// the space is full.
func (r *Registry) allocateID(target TargetKind) int {
	for id := 0; id < r.maxID; id++ {
		if !r.usedIDs[target][id] {
			return id
		}
	}
	return -1
}

// Add registers handler, validating the uniqueness invariants from spec
// §4.4 and assigning a dense ID when the variant needs one (user modes,
// simple channel modes, and parameter channel modes all take an ID; list
// and prefix modes do not).
func (r *Registry) Add(h Handler) error {
	if !isAlpha(h.Letter()) {
		return ErrNotAlpha
	}
	if _, exists := r.byLetter[h.Target()][h.Letter()]; exists {
		return ErrLetterOccupied
	}
	if _, exists := r.byName[h.Target()][h.Name()]; exists {
		return ErrNameOccupied
	}
	if ph, ok := h.(PrefixHandler); ok {
		if reservedPrefixChars[ph.PrefixChar()] || ph.PrefixChar() > 126 {
			return ErrPrefixCollision
		}
		for _, existing := range r.prefixes {
			if existing.PrefixChar() == ph.PrefixChar() {
				return ErrPrefixCollision
			}
		}
	}

	needsID := h.Variant() == VariantSimple || h.Variant() == VariantParam
	if needsID {
		switch v := h.(type) {
		case *SimpleMode:
			id := r.allocateID(h.Target())
			if id < 0 {
				return ErrNoFreeID
			}
			v.id = id
			r.usedIDs[h.Target()][id] = true
		case *ParamMode:
			id := r.allocateID(h.Target())
			if id < 0 {
				return ErrNoFreeID
			}
			v.id = id
			r.usedIDs[h.Target()][id] = true
		}
	}

	r.byLetter[h.Target()][h.Letter()] = h
	r.byName[h.Target()][h.Name()] = h
	if ph, ok := h.(PrefixHandler); ok {
		r.insertPrefix(ph)
	}
	if lm, ok := h.(*ListMode); ok {
		r.lists = append(r.lists, lm)
	}
	return nil
}

func (r *Registry) insertPrefix(ph PrefixHandler) {
	i := 0
	for ; i < len(r.prefixes); i++ {
		if r.prefixes[i].Rank() < ph.Rank() {
			break
		}
	}
	r.prefixes = append(r.prefixes, nil)
	copy(r.prefixes[i+1:], r.prefixes[i:])
	r.prefixes[i] = ph
}

// Delete unregisters handler. targets enumerates every live User (for user
// modes) or Channel (for channel modes); the mode's state is cleared on
// each target directly before the slot is freed. No mode change is emitted
// or announced for these removals.
func (r *Registry) Delete(h Handler, targets []FlagTarget) {
	for _, t := range targets {
		switch h.Variant() {
		case VariantSimple:
			t.Modes().Set(h.Letter(), false)
		case VariantParam:
			if pt, ok := t.(ParamTarget); ok {
				pt.ClearParam(h.Letter())
			}
		case VariantList:
			if lt, ok := t.(ListTarget); ok {
				for _, e := range lt.ListEntries(h.Letter()) {
					lt.RemoveListEntry(h.Letter(), e.Mask)
				}
			}
		case VariantPrefix:
			t.Modes().Set(h.Letter(), false)
		}
	}

	delete(r.byLetter[h.Target()], h.Letter())
	delete(r.byName[h.Target()], h.Name())
	if id := h.ID(); id >= 0 {
		delete(r.usedIDs[h.Target()], id)
	}
	if ph, ok := h.(PrefixHandler); ok {
		for i, existing := range r.prefixes {
			if existing.PrefixChar() == ph.PrefixChar() {
				r.prefixes = append(r.prefixes[:i], r.prefixes[i+1:]...)
				break
			}
		}
	}
	if lm, ok := h.(*ListMode); ok {
		for i, existing := range r.lists {
			if existing == lm {
				r.lists = append(r.lists[:i], r.lists[i+1:]...)
				break
			}
		}
	}
}

// FindMode looks up a handler by (target, letter).
func (r *Registry) FindMode(target TargetKind, letter byte) (Handler, bool) {
	h, ok := r.byLetter[target][letter]
	return h, ok
}

// FindModeByName looks up a handler by (target, name).
func (r *Registry) FindModeByName(target TargetKind, name string) (Handler, bool) {
	h, ok := r.byName[target][name]
	return h, ok
}

// FindPrefix looks up a registered prefix mode by its sigil character.
func (r *Registry) FindPrefix(prefixChar byte) (PrefixHandler, bool) {
	for _, p := range r.prefixes {
		if p.PrefixChar() == prefixChar {
			return p, true
		}
	}
	return nil, false
}

// Prefixes returns every registered prefix mode, ordered by descending
// rank (highest-privilege first).
func (r *Registry) Prefixes() []PrefixHandler {
	return r.prefixes
}

// RankOf returns a prefix mode's rank by letter, or 0 (the reserved "no
// rank") if letter does not name a registered prefix mode.
func (r *Registry) RankOf(letter byte) int {
	for _, p := range r.prefixes {
		if p.Letter() == letter {
			return p.Rank()
		}
	}
	return 0
}
