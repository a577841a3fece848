package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/coregate/ircd/irc/utils"
)

// HandlerFunc executes one command against an already-validated message,
// returning whether it succeeded (spec §4.5 step 6: "the handler returns
// SUCCESS or FAILURE").
type HandlerFunc func(s *Server, c *Client, msg ircmsg.Message) bool

// Routing is a command's forwarding descriptor (spec §4.5); the core
// publishes the intent but the spanning-tree transport that would act on
// it is out of scope (spec §1), so non-LocalOnly commands simply aren't
// forwarded anywhere yet. Kept as a typed field so a future link module
// has something to dispatch on.
type Routing int

const (
	LocalOnly Routing = iota
	Broadcast
	UnicastToTargetServer
)

// Command is one registered verb (spec §4.5: "verb, min/max argument
// counts, required access level, a works-before-registration flag, a
// translation vector, a routing descriptor"), grounded on ergo's
// commands.go Command struct.
type Command struct {
	Verb      string
	Handler   HandlerFunc
	MinParams int
	// MaxParams bounds the number of params Dispatch accepts before
	// rejecting the message with ERR_NEEDMOREPARAMS; 0 means
	// unbounded (most verbs take a free-form trailing parameter).
	MaxParams    int
	UsablePreReg bool
	OperOnly     bool
	Routing      Routing
	// CommaParam is the index into msg.Params that accepts a comma list
	// (spec §4.5 step 5, "loop-call"); -1 means the verb never does.
	CommaParam int
}

// PreCommandHook runs before verb lookup for every incoming message; it
// may short-circuit the whole pipeline by returning false (spec §4.5 step
// 1), which is how SHUN is wired in without a dispatcher-internal carve-out
// (SPEC_FULL.md §3.7).
type PreCommandHook func(s *Server, c *Client, msg *ircmsg.Message) bool

// Dispatcher is the command-registry + pipeline runner.
type Dispatcher struct {
	commands map[string]*Command
	hooks    []PreCommandHook
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{commands: make(map[string]*Command)}
}

// Register installs cmd, keyed by its upper-cased verb.
func (d *Dispatcher) Register(cmd *Command) {
	d.commands[strings.ToUpper(cmd.Verb)] = cmd
}

// AddPreCommandHook appends a pre-command hook, run in registration order
// (spec §5 "Events observed by ... module hooks ... are delivered in
// registration order").
func (d *Dispatcher) AddPreCommandHook(h PreCommandHook) {
	d.hooks = append(d.hooks, h)
}

// Dispatch parses one raw wire line and runs the full per-message pipeline
// from spec §4.5 against it.
func (d *Dispatcher) Dispatch(s *Server, c *Client, rawLine string) bool {
	msg, err := ircmsg.ParseLineStrict(rawLine, true, 512)
	if err != nil || msg.Command == "" {
		return false
	}

	for _, hook := range d.hooks {
		if !hook(s, c, &msg) {
			return false
		}
	}

	verb := strings.ToUpper(msg.Command)
	cmd, ok := d.commands[verb]
	if !ok {
		s.numeric(c, ERR_UNKNOWNCOMMAND, verb, "Unknown command")
		return false
	}

	if len(msg.Params) < cmd.MinParams || (cmd.MaxParams > 0 && len(msg.Params) > cmd.MaxParams) {
		s.numeric(c, ERR_NEEDMOREPARAMS, verb, "Not enough parameters")
		return false
	}

	if !cmd.UsablePreReg && c.Phase() != PhaseAll {
		s.numeric(c, ERR_NOTREGISTERED, "*", "You have not registered")
		return false
	}

	if cmd.OperOnly && !c.IsOper() {
		s.numeric(c, ERR_NOPRIVILEGES, "Permission Denied - You're not an IRC operator")
		return false
	}

	if cmd.CommaParam >= 0 && cmd.CommaParam < len(msg.Params) {
		tokens := utils.SplitCommaList(msg.Params[cmd.CommaParam])
		if len(tokens) > 1 {
			allOK := true
			for _, tok := range tokens {
				sub := msg
				subParams := append([]string(nil), msg.Params...)
				subParams[cmd.CommaParam] = tok
				sub.Params = subParams
				if !cmd.Handler(s, c, sub) {
					allOK = false
				}
			}
			return allOK
		}
	}

	return cmd.Handler(s, c, msg)
}
