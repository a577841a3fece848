package modes

// SimpleMode is a plain flag mode: no parameter, just a bit toggle.
type SimpleMode struct {
	name         string
	letter       byte
	target       TargetKind
	id           int
	minRankSet   int
	minRankUnset int
	operOnly     bool
	// OnChange is invoked after ACL/watcher checks pass; it may veto by
	// returning false (e.g. a mode that's a no-op when already in the
	// requested state).
	OnChange func(adding bool, target FlagTarget) bool
}

// NewSimpleMode returns a flag ModeHandler for target with the given ACL
// ranks (0 means "anyone may set/unset").
func NewSimpleMode(name string, letter byte, target TargetKind, minRankSet, minRankUnset int, operOnly bool) *SimpleMode {
	return &SimpleMode{
		name: name, letter: letter, target: target,
		minRankSet: minRankSet, minRankUnset: minRankUnset, operOnly: operOnly,
	}
}

func (h *SimpleMode) Name() string       { return h.name }
func (h *SimpleMode) Letter() byte       { return h.letter }
func (h *SimpleMode) Target() TargetKind { return h.target }
func (h *SimpleMode) Variant() Variant   { return VariantSimple }
func (h *SimpleMode) ID() int            { return h.id }
func (h *SimpleMode) MinRankSet() int    { return h.minRankSet }
func (h *SimpleMode) MinRankUnset() int  { return h.minRankUnset }
func (h *SimpleMode) OperOnly() bool     { return h.operOnly }

// ParamMode takes a parameter when set (and also when unset if AlwaysParam
// is true), stored verbatim on the target; the
// state machine in spec §4.4 (unset -> set(p) -> set(p') -> unset) is
// implemented by the processor calling SetParam/ClearParam directly, with
// ResolveConflict used only during a server-to-server merge.
type ParamMode struct {
	name         string
	letter       byte
	target       TargetKind
	id           int
	minRankSet   int
	minRankUnset int
	operOnly     bool
	// AlwaysParam distinguishes the "parameter-always" variant (spec §3's
	// ModeHandler.variant) from the far more common "parameter-on-set"
	// one: when false (the default, e.g. +k key), removing the mode takes
	// no parameter; when true, both directions require one.
	AlwaysParam bool
	// Validate may reject a candidate parameter (return false) before it is
	// stored, e.g. range-checking a numeric limit mode.
	Validate func(param string) bool
	// ResolveConflict decides which of two differing parameters wins during
	// a merge; defaults to "theirs < ours" lexicographically when nil,
	// matching mode.cpp's default ResolveModeConflict.
	ResolveConflict func(theirs, ours string) string
}

// NewParamMode returns a parameter ModeHandler. alwaysParam is the
// AlwaysParam field (see above); the caller may still set Validate and
// ResolveConflict on the returned handler before registering it.
func NewParamMode(name string, letter byte, target TargetKind, minRankSet, minRankUnset int, operOnly, alwaysParam bool) *ParamMode {
	return &ParamMode{
		name: name, letter: letter, target: target,
		minRankSet: minRankSet, minRankUnset: minRankUnset, operOnly: operOnly,
		AlwaysParam: alwaysParam,
	}
}

func (h *ParamMode) Name() string       { return h.name }
func (h *ParamMode) Letter() byte       { return h.letter }
func (h *ParamMode) Target() TargetKind { return h.target }
func (h *ParamMode) Variant() Variant   { return VariantParam }
func (h *ParamMode) ID() int            { return h.id }
func (h *ParamMode) MinRankSet() int    { return h.minRankSet }
func (h *ParamMode) MinRankUnset() int  { return h.minRankUnset }
func (h *ParamMode) OperOnly() bool     { return h.operOnly }

func (h *ParamMode) resolve(theirs, ours string) string {
	if h.ResolveConflict != nil {
		return h.ResolveConflict(theirs, ours)
	}
	if theirs < ours {
		return theirs
	}
	return ours
}

// ListMode is a set-valued mode (ban, exception, invite, ...).
type ListMode struct {
	name         string
	letter       byte
	target       TargetKind
	minRankSet   int
	minRankUnset int
	operOnly     bool
	limit        int
	// Clean normalizes a raw mask before storage/lookup, e.g. CleanMask for
	// +b/+e/+I.
	Clean func(raw string) string
}

// NewListMode returns a list ModeHandler (ban/except/invite-style). limit
// <= 0 means unbounded.
func NewListMode(name string, letter byte, minRankSet, minRankUnset, limit int, operOnly bool) *ListMode {
	return &ListMode{
		name: name, letter: letter, target: TargetChannel,
		minRankSet: minRankSet, minRankUnset: minRankUnset, operOnly: operOnly,
		limit: limit,
	}
}

func (h *ListMode) Name() string       { return h.name }
func (h *ListMode) Letter() byte       { return h.letter }
func (h *ListMode) Target() TargetKind { return h.target }
func (h *ListMode) Variant() Variant   { return VariantList }
func (h *ListMode) ID() int            { return -1 }
func (h *ListMode) MinRankSet() int    { return h.minRankSet }
func (h *ListMode) MinRankUnset() int  { return h.minRankUnset }
func (h *ListMode) OperOnly() bool     { return h.operOnly }
func (h *ListMode) Limit() int         { return h.limit }

// PrefixMode attaches a displayed sigil and ACL rank to a membership.
type PrefixMode struct {
	name               string
	letter             byte
	prefixChar         byte
	rank               int
	minRankSet         int
	minRankUnset       int
	operOnly           bool
	selfRemoveAllowed  bool
}

// NewPrefixMode returns a prefix ModeHandler.
func NewPrefixMode(name string, letter, prefixChar byte, rank, minRankSet, minRankUnset int, operOnly, selfRemoveAllowed bool) *PrefixMode {
	return &PrefixMode{
		name: name, letter: letter, prefixChar: prefixChar, rank: rank,
		minRankSet: minRankSet, minRankUnset: minRankUnset, operOnly: operOnly,
		selfRemoveAllowed: selfRemoveAllowed,
	}
}

func (h *PrefixMode) Name() string       { return h.name }
func (h *PrefixMode) Letter() byte       { return h.letter }
func (h *PrefixMode) Target() TargetKind { return TargetChannel }
func (h *PrefixMode) Variant() Variant   { return VariantPrefix }
func (h *PrefixMode) ID() int            { return -1 }
func (h *PrefixMode) MinRankSet() int    { return h.minRankSet }
func (h *PrefixMode) MinRankUnset() int  { return h.minRankUnset }
func (h *PrefixMode) OperOnly() bool     { return h.operOnly }
func (h *PrefixMode) PrefixChar() byte   { return h.prefixChar }
func (h *PrefixMode) Rank() int          { return h.rank }
func (h *PrefixMode) SelfRemoveAllowed() bool { return h.selfRemoveAllowed }

// Watcher is registered per mode name (a multimap keyed by name, as
// modewatchermap is in the original) and can veto a change both before and
// observe it after.
type Watcher interface {
	ModeName() string
	BeforeMode(change *Change, ctx *ApplyContext) bool
	AfterMode(change *Change, ctx *ApplyContext)
}
