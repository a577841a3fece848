package irc

import (
	"github.com/coregate/ircd/irc/extensible"
	"github.com/coregate/ircd/irc/modes"
)

// Membership is the (User, Channel) edge (spec §3): it is a first-class
// type rather than ergo's approach of folding prefix bits directly into
// the Channel's member map, because the spec requires its own attachment
// map. Lifetime equals presence in the owning Channel's members map.
type Membership struct {
	User    *Client
	Channel *Channel

	JoinedAt int64
	prefixes modes.ModeSet

	Attachments *extensible.Registry
}

func newMembership(u *Client, c *Channel, now int64) *Membership {
	return &Membership{
		User:        u,
		Channel:     c,
		JoinedAt:    now,
		Attachments: extensible.NewRegistry(),
	}
}

// Prefixes implements modes.PrefixMembership.
func (m *Membership) Prefixes() *modes.ModeSet { return &m.prefixes }

// HighestRank implements modes.PrefixMembership: the greatest rank among
// the membership's currently-held prefix letters, or 0 (spec §3's
// "reserved" rank) if it holds none.
func (m *Membership) HighestRank(reg *modes.Registry) int {
	best := 0
	for _, letter := range m.prefixes.Letters() {
		if r := reg.RankOf(letter); r > best {
			best = r
		}
	}
	return best
}

// PrefixString renders the highest-ranked held prefix's sigil for display
// in NAMES/WHO, or "" if none. reg.Prefixes() is ordered highest-rank
// first, so the first held one found is the one to display.
func (m *Membership) PrefixString(reg *modes.Registry) string {
	for _, p := range reg.Prefixes() {
		if m.prefixes.Has(p.Letter()) {
			return string(p.PrefixChar())
		}
	}
	return ""
}
