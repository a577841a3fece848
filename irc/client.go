// Package irc implements the core's User/Channel store and command
// dispatcher (spec §4.5, §3.6): the parts of the protocol engine that sit
// on top of irc/modes, irc/xline, irc/config, irc/logger and irc/timer.
// Grounded on ergochat/ergo's irc/client_lookup_set.go and
// irc/channelmanager.go, adapted from ergo's goroutine-per-connection +
// sync.RWMutex concurrency model to the single-threaded cooperative event
// loop spec §5 mandates: no locks anywhere in this package.
package irc

import (
	"fmt"

	"github.com/coregate/ircd/irc/extensible"
	"github.com/coregate/ircd/irc/modes"
	"github.com/coregate/ircd/irc/oper"
)

// RegistrationPhase tracks a connection's progress through the
// NICK/USER handshake (spec §3: "NONE→NICK→USER→ALL").
type RegistrationPhase int

const (
	PhaseNone RegistrationPhase = iota
	PhaseNick
	PhaseUser
	PhaseAll
)

// Writer is the minimal egress capability a Client needs; the socket
// engine (out of scope per spec §1) implements it. Kept as a capability
// interface so this package never depends on a concrete transport.
type Writer interface {
	SendLine(line string) error
}

// Client is a connected identity, local or remote (spec §3 "User").
type Client struct {
	UUID string

	nick           string
	nickCasefolded string
	skeleton       string

	username    string
	realHost    string
	displayHost string
	ip          string

	phase RegistrationPhase

	modeSet modes.ModeSet
	params  map[byte]string

	connectedAt  int64
	lastActivity int64

	awayMsg  string
	awayTime int64

	oper *oper.Oper

	shunned bool

	local   bool
	dead    bool
	session Writer

	// Channels indexes this client's current memberships by the channel's
	// casefolded name, so the cull pass (spec §5) can walk them without a
	// full scan of every channel.
	Channels map[string]*Channel

	Attachments *extensible.Registry
}

// NewClient returns a freshly accepted, unregistered local client.
func NewClient(uuid, ip string, session Writer, now int64) *Client {
	return &Client{
		UUID:         uuid,
		ip:           ip,
		phase:        PhaseNone,
		params:       make(map[byte]string),
		connectedAt:  now,
		lastActivity: now,
		local:        true,
		session:      session,
		Channels:     make(map[string]*Channel),
		Attachments:  extensible.NewRegistry(),
	}
}

func (c *Client) Nick() string           { return c.nick }
func (c *Client) NickCasefolded() string { return c.nickCasefolded }
func (c *Client) HasNick() bool          { return c.nickCasefolded != "" }
func (c *Client) Username() string       { return c.username }
func (c *Client) DisplayHost() string    { return c.displayHost }
func (c *Client) RealHost() string       { return c.realHost }
func (c *Client) IP() string             { return c.ip }
func (c *Client) Phase() RegistrationPhase { return c.phase }
func (c *Client) IsLocal() bool          { return c.local }
func (c *Client) IsDead() bool           { return c.dead }
func (c *Client) IsShunned() bool        { return c.shunned }
func (c *Client) Oper() *oper.Oper       { return c.oper }
func (c *Client) IsOper() bool           { return c.oper != nil }
func (c *Client) AwayMessage() string    { return c.awayMsg }
func (c *Client) IsAway() bool           { return c.awayMsg != "" }

// Mask returns the nick!user@host triple used for ban matching and
// wire-prefix construction.
func (c *Client) Mask() string {
	return fmt.Sprintf("%s!%s@%s", c.nick, c.username, c.displayHost)
}

// Send writes a fully-formed line to the client's session, a no-op for
// dead or remote clients.
func (c *Client) Send(line string) {
	if c.dead || c.session == nil {
		return
	}
	_ = c.session.SendLine(line)
}

// Modes implements modes.FlagTarget.
func (c *Client) Modes() *modes.ModeSet { return &c.modeSet }

// GetParam/SetParam/ClearParam implement modes.ParamTarget, for user
// parameter modes (e.g. a snomask-letters parameter).
func (c *Client) GetParam(letter byte) (string, bool) {
	v, ok := c.params[letter]
	return v, ok
}

func (c *Client) SetParam(letter byte, value string) { c.params[letter] = value }
func (c *Client) ClearParam(letter byte)             { delete(c.params, letter) }
