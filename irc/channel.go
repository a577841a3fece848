package irc

import (
	"fmt"

	"github.com/coregate/ircd/irc/extensible"
	"github.com/coregate/ircd/irc/modes"
)

// Channel is a joined conversation (spec §3).
type Channel struct {
	name           string
	nameCasefolded string

	createdAt int64

	topic      string
	topicBy    string
	topicSetAt int64

	modeSet modes.ModeSet
	params  map[byte]string
	lists   map[byte][]modes.ListEntry

	members map[*Client]*Membership

	// BanRedirects maps a cleaned ban mask on this channel to the channel
	// name it redirects to (spec §8 S3 / SPEC_FULL.md §3.8 banredirect).
	BanRedirects map[string]string

	Attachments *extensible.Registry

	clients *ClientManager // for prefix-mode nick resolution
}

// NewChannel returns a freshly created, empty Channel.
func NewChannel(name, nameCasefolded string, now int64, clients *ClientManager) *Channel {
	return &Channel{
		name:           name,
		nameCasefolded: nameCasefolded,
		createdAt:      now,
		params:         make(map[byte]string),
		lists:          make(map[byte][]modes.ListEntry),
		members:        make(map[*Client]*Membership),
		BanRedirects:   make(map[string]string),
		Attachments:    extensible.NewRegistry(),
		clients:        clients,
	}
}

func (c *Channel) Name() string           { return c.name }
func (c *Channel) NameCasefolded() string { return c.nameCasefolded }
func (c *Channel) CreatedAt() int64       { return c.createdAt }
func (c *Channel) Topic() (text, setter string, at int64) {
	return c.topic, c.topicBy, c.topicSetAt
}

func (c *Channel) SetTopic(text, setter string, now int64) {
	c.topic = text
	c.topicBy = setter
	c.topicSetAt = now
}

// IsEmpty reports whether the channel has no members (ChannelManager uses
// this after the pending-join refcount reaches zero, per spec §3.6's
// grounding on ergo's channelmanager.go).
func (c *Channel) IsEmpty() bool { return len(c.members) == 0 }

// Members returns every current Membership, in no particular order.
func (c *Channel) Members() []*Membership {
	out := make([]*Membership, 0, len(c.members))
	for _, m := range c.members {
		out = append(out, m)
	}
	return out
}

// MembershipOf looks up a client's own membership.
func (c *Channel) MembershipOf(cli *Client) (*Membership, bool) {
	m, ok := c.members[cli]
	return m, ok
}

// addMember inserts a new Membership; callers (Server.join) are
// responsible for the ACL checks this does not perform itself.
func (c *Channel) addMember(cli *Client, now int64) *Membership {
	m := newMembership(cli, c, now)
	c.members[cli] = m
	return m
}

// removeMember deletes cli's Membership, per spec §3 "lifetime equals
// presence in the channel's membership map".
func (c *Channel) removeMember(cli *Client) {
	delete(c.members, cli)
}

// Modes implements modes.FlagTarget.
func (c *Channel) Modes() *modes.ModeSet { return &c.modeSet }

// GetParam/SetParam/ClearParam implement modes.ParamTarget (+k, +l, ...).
func (c *Channel) GetParam(letter byte) (string, bool) {
	v, ok := c.params[letter]
	return v, ok
}
func (c *Channel) SetParam(letter byte, value string) { c.params[letter] = value }
func (c *Channel) ClearParam(letter byte)             { delete(c.params, letter) }

// ListEntries/AddListEntry/RemoveListEntry implement modes.ListTarget
// (+b, +e, +I).
func (c *Channel) ListEntries(letter byte) []modes.ListEntry {
	return c.lists[letter]
}

func (c *Channel) AddListEntry(letter byte, e modes.ListEntry, limit int) bool {
	existing := c.lists[letter]
	if limit > 0 && len(existing) >= limit {
		return false
	}
	for _, have := range existing {
		if have.Mask == e.Mask {
			return false
		}
	}
	c.lists[letter] = append(existing, e)
	return true
}

func (c *Channel) RemoveListEntry(letter byte, mask string) bool {
	existing := c.lists[letter]
	for i, have := range existing {
		if have.Mask == mask {
			c.lists[letter] = append(existing[:i], existing[i+1:]...)
			return true
		}
	}
	return false
}

// MembershipFor implements modes.PrefixTarget: resolves a nick parameter
// (as a prefix-mode Change carries it) to the membership a +o/+v-style
// change should act on.
func (c *Channel) MembershipFor(nick string) (modes.PrefixMembership, bool) {
	if c.clients == nil {
		return nil, false
	}
	cli := c.clients.Get(nick)
	if cli == nil {
		return nil, false
	}
	m, ok := c.members[cli]
	if !ok {
		return nil, false
	}
	return m, true
}

// NamesLine renders one NAMES-reply token ("@nick") for membership m.
func (c *Channel) NamesLine(m *Membership, reg *modes.Registry) string {
	return fmt.Sprintf("%s%s", m.PrefixString(reg), m.User.Nick())
}
