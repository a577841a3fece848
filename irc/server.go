package irc

import (
	"fmt"

	"github.com/coregate/ircd/irc/config"
	"github.com/coregate/ircd/irc/logger"
	"github.com/coregate/ircd/irc/modes"
	"github.com/coregate/ircd/irc/oper"
	"github.com/coregate/ircd/irc/snomask"
	"github.com/coregate/ircd/irc/timer"
	"github.com/coregate/ircd/irc/xline"
)

// Server is the process-wide instance (spec §9's "process-wide state...
// explicit: pass a context value into every handler rather than relying
// on a global singleton"). It is passed explicitly to every command
// handler rather than referenced through a package-level global.
type Server struct {
	Name    string
	Created int64

	Config *config.Config
	Log    *logger.Manager
	Clock  *timer.Manager

	Modes    *modes.Registry
	Xlines   *xline.Store
	Snomasks *snomask.Registry

	Clients  *ClientManager
	Channels *ChannelManager

	Limits Limits

	Classes map[string]*oper.Class
	Opers   map[string]*oper.Oper
	Vhosts  map[string]*vhostRecord

	shun     *shunEngine
	hostname *hostnameEngine

	Dispatcher *Dispatcher
}

// NewServer assembles a Server from a loaded config, registering every
// standard mode, command, and x-line factory the core ships with. The
// caller (cmd/ircd) owns the socket engine; this only builds the
// in-memory protocol engine (spec §1).
func NewServer(cfg *config.Config, name string, now int64) (*Server, error) {
	s := &Server{
		Name:     name,
		Created:  now,
		Config:   cfg,
		Log:      logger.NewManager(),
		Clock:    timer.NewManager(now),
		Snomasks: snomask.NewRegistry(),
		Vhosts:   loadVhostConfig(cfg),
	}

	s.Limits = LoadLimits(cfg)
	s.Clients = NewClientManager()
	s.Channels = NewChannelManager(s.Clients)

	s.Modes = modes.NewRegistry(32)
	if err := SetupStandardModes(s.Modes, s.Limits); err != nil {
		return nil, fmt.Errorf("irc: setting up standard modes: %w", err)
	}

	s.Xlines = xline.NewStore(s.Clock, s.Log)
	xline.RegisterDefaults(s.Xlines)
	s.Xlines.Subjects = s.xlineSubjects
	s.Xlines.OnAutoApply = s.onXlineAutoApply

	classes, err := oper.LoadClasses(cfg)
	if err != nil {
		return nil, fmt.Errorf("irc: loading operator classes: %w", err)
	}
	s.Classes = classes
	opers, err := oper.LoadOpers(cfg, classes)
	if err != nil {
		return nil, fmt.Errorf("irc: loading operators: %w", err)
	}
	s.Opers = opers

	for _, letter := range []byte{'c', 'k', 'o', 'x', 'a'} {
		_ = s.Snomasks.Register(letter, snomaskDescription(letter))
	}

	s.shun = loadShunConfig(cfg)
	s.hostname = loadHostnameConfig(cfg)

	if _, ok := cfg.Tag("restrictchans"); ok {
		s.Channels.RestrictCreation(true)
	}
	for _, t := range cfg.Tags("allowchannel") {
		s.Channels.AllowChannel(t.GetString("name", ""))
	}

	s.Dispatcher = NewDispatcher()
	s.Dispatcher.AddPreCommandHook(s.shun.Hook)
	s.registerCoreCommands()

	return s, nil
}

func snomaskDescription(letter byte) string {
	switch letter {
	case 'c':
		return "client connects/disconnects"
	case 'k':
		return "K/Z-line activity"
	case 'o':
		return "oper actions"
	case 'x':
		return "x-line expiry"
	case 'a':
		return "SETHOST/SETIDENT/VHOST changes"
	default:
		return "uncategorized"
	}
}

// xlineSubjects implements the callback xline.Store.Subjects needs to
// recheck every connected user when an auto-applying line is added.
func (s *Server) xlineSubjects() []xline.Subject {
	clients := s.Clients.All()
	out := make([]xline.Subject, 0, len(clients))
	for _, c := range clients {
		out = append(out, xline.Subject{
			IdentHost: c.Username() + "@" + c.RealHost(),
			Full:      c.Nick() + "!" + c.Username() + "@" + c.RealHost(),
			IP:        c.IP(),
			Nick:      c.Nick(),
		})
	}
	return out
}

// onXlineAutoApply disconnects any already-connected user a newly added
// K/Z-line matches.
func (s *Server) onXlineAutoApply(kind xline.Kind, e *xline.Entry, subject xline.Subject) {
	for _, c := range s.Clients.All() {
		if c.Username()+"@"+c.RealHost() == subject.IdentHost || c.IP() == subject.IP {
			s.Disconnect(c, fmt.Sprintf("%s-Lined: %s", kind, e.Reason))
		}
	}
}

// Disconnect marks c dead and removes it from every channel and the nick
// index; the socket engine (out of scope) is responsible for actually
// closing the connection after observing the dead flag, per spec §5's
// cull-pass model.
func (s *Server) Disconnect(c *Client, reason string) {
	if c.dead {
		return
	}
	c.dead = true
	s.broadcastQuit(c, reason)
	for _, ch := range c.Channels {
		ch.removeMember(c)
		s.Channels.Cleanup(ch)
	}
	c.Channels = make(map[string]*Channel)
	s.Snomasks.UnsubscribeAll(c.UUID)
	s.Clients.Remove(c)
}

func (s *Server) broadcastQuit(c *Client, reason string) {
	seen := make(map[*Client]bool)
	for _, ch := range c.Channels {
		for _, m := range ch.Members() {
			if m.User == c || seen[m.User] {
				continue
			}
			seen[m.User] = true
			s.sendFrom(m.User, c.Mask(), "QUIT", reason)
		}
	}
}
