package modes

import "strings"

// Change is one requested mode toggle: {handler, adding?, param}. For
// prefix modes Param carries the target nick; for list modes it carries
// the raw mask; for param modes the new parameter value.
type Change struct {
	Handler Handler
	Adding  bool
	Param   string
}

// ChangeList is an ordered sequence of requested Changes.
type ChangeList []Change

// Limits bounds a single Process call, per spec §4.4's "hard cap" and list
// length limit.
type Limits struct {
	MaxModes int // config <limits:maxmodes>; 0 means unbounded
}

// ApplyContext carries everything TryMode needs about the actor and the
// target besides the Change itself. It is built fresh for every Process
// call by the caller (the command dispatcher or the merge engine), per
// spec §9's "pass a context value into every handler" design note.
type ApplyContext struct {
	Registry *Registry

	Flag   FlagTarget
	Param  ParamTarget
	List   ListTarget
	Prefix PrefixTarget

	ActorRank  int
	ActorOper  bool
	ActorLocal bool
	Merge      bool
	Now        int64

	Watchers []Watcher

	// RawVeto lets a raw-mode listener reject a locally-originated change
	// outright (spec §4.4 step 4); nil means no listeners are registered.
	RawVeto func(*Change) bool

	// Feedback reports a rejection reason for one Change back to the
	// caller, who translates it into the appropriate wire numeric (spec
	// §7: the dispatcher is the single point that does this translation).
	Feedback func(reason string, change *Change)
}

func (ctx *ApplyContext) feedback(reason string, c *Change) {
	if ctx.Feedback != nil {
		ctx.Feedback(reason, c)
	}
}

func (ctx *ApplyContext) watchersFor(name string) []Watcher {
	var out []Watcher
	for _, w := range ctx.Watchers {
		if w.ModeName() == name {
			out = append(out, w)
		}
	}
	return out
}

// Process runs every Change in list through TryMode, stopping once
// limits.MaxModes changes have been applied (the rest are silently
// dropped, per spec §4.4, and are expected to be retried on a later call).
// It returns the Changes that were actually applied, in order.
func Process(ctx *ApplyContext, list ChangeList, limits Limits) ChangeList {
	var applied ChangeList
	for i := range list {
		if limits.MaxModes > 0 && len(applied) >= limits.MaxModes {
			break
		}
		c := list[i]
		if tryMode(ctx, &c) {
			applied = append(applied, c)
		}
	}
	return applied
}

// tryMode implements the ten-step pipeline from spec §4.4, grounded on
// mode.cpp's ModeParser::TryMode.
func tryMode(ctx *ApplyContext, c *Change) bool {
	h := c.Handler

	needsParam := h.Variant() == VariantList || h.Variant() == VariantPrefix
	if pm, ok := h.(*ParamMode); ok {
		needsParam = c.Adding || pm.AlwaysParam
	}
	if needsParam && c.Param == "" && !ctx.Merge {
		ctx.feedback("missing parameter", c)
		return false
	}
	if strings.HasPrefix(c.Param, ":") || strings.ContainsAny(c.Param, " \t") {
		ctx.feedback("invalid parameter", c)
		return false
	}

	if pm, ok := h.(*ParamMode); ok && ctx.Merge && c.Adding {
		if existing, has := ctx.Param.GetParam(h.Letter()); has {
			if pm.resolve(c.Param, existing) == existing {
				return false // ours wins; skip silently
			}
		}
	}

	if ctx.RawVeto != nil && ctx.ActorLocal && ctx.RawVeto(c) {
		return false
	}

	if ctx.ActorLocal {
		required := h.MinRankSet()
		if !c.Adding {
			required = h.MinRankUnset()
		}
		if required > 0 && ctx.ActorRank < required {
			ctx.feedback(minRankName(ctx.Registry, required), c)
			return false
		}
	}

	for _, w := range ctx.watchersFor(h.Name()) {
		if !w.BeforeMode(c, ctx) {
			return false
		}
	}

	if h.OperOnly() && !ctx.ActorOper {
		ctx.feedback("no privileges", c)
		return false
	}

	ok := applyChange(ctx, h, c)
	if !ok {
		return false
	}

	for _, w := range ctx.watchersFor(h.Name()) {
		w.AfterMode(c, ctx)
	}
	return true
}

// minRankName finds the lowest-ranked prefix mode whose rank is >= required,
// for the ERR_CHANOPRIVSNEEDED feedback naming "the minimum-ranked mode
// that would suffice" (spec §4.4 step 5).
func minRankName(reg *Registry, required int) string {
	best := ""
	bestRank := -1
	for _, p := range reg.Prefixes() {
		if p.Rank() >= required && (bestRank == -1 || p.Rank() < bestRank) {
			best = p.Name()
			bestRank = p.Rank()
		}
	}
	return best
}

func applyChange(ctx *ApplyContext, h Handler, c *Change) bool {
	switch v := h.(type) {
	case *SimpleMode:
		if v.OnChange != nil && !v.OnChange(c.Adding, ctx.Flag) {
			return false
		}
		ctx.Flag.Modes().Set(v.Letter(), c.Adding)
		return true

	case *ParamMode:
		if c.Adding {
			if v.Validate != nil && !v.Validate(c.Param) {
				return false
			}
			existing, has := ctx.Param.GetParam(v.Letter())
			if has && existing == c.Param {
				return false // no-op, denied per the state machine
			}
			ctx.Param.SetParam(v.Letter(), c.Param)
			ctx.Param.Modes().Set(v.Letter(), true)
			if got, _ := ctx.Param.GetParam(v.Letter()); got == "" {
				return false // post-change param empty when one was needed
			}
		} else {
			ctx.Param.ClearParam(v.Letter())
			ctx.Param.Modes().Set(v.Letter(), false)
		}
		return true

	case *ListMode:
		if ctx.List == nil {
			return false
		}
		mask := c.Param
		if v.Clean != nil {
			mask = v.Clean(mask)
		}
		if c.Adding {
			return ctx.List.AddListEntry(v.Letter(), ListEntry{Mask: mask, Setter: "", Time: ctx.Now}, v.Limit())
		}
		return ctx.List.RemoveListEntry(v.Letter(), mask)

	case *PrefixMode:
		if ctx.Prefix == nil {
			return false
		}
		member, ok := ctx.Prefix.MembershipFor(c.Param)
		if !ok {
			return false
		}
		return member.Prefixes().Set(v.Letter(), c.Adding)
	}
	return false
}
