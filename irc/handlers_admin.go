package irc

import (
	"fmt"
	"strconv"

	"github.com/ergochat/irc-go/ircmsg"
	"golang.org/x/crypto/bcrypt"

	"github.com/coregate/ircd/irc/xline"
)

// cmdSethost implements SETHOST, validating the new host against the
// configured charmap before applying it (spec §8 scenario S4).
func cmdSethost(s *Server, c *Client, msg ircmsg.Message) bool {
	return s.applySethost(c, c, msg.Params[0])
}

func cmdSetident(s *Server, c *Client, msg ircmsg.Message) bool {
	return s.applySetident(c, c, msg.Params[0])
}

func cmdChghost(s *Server, c *Client, msg ircmsg.Message) bool {
	target := s.Clients.Get(msg.Params[0])
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, msg.Params[0], "No such nick/channel")
		return false
	}
	return s.applySethost(c, target, msg.Params[1])
}

func cmdChgident(s *Server, c *Client, msg ircmsg.Message) bool {
	target := s.Clients.Get(msg.Params[0])
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, msg.Params[0], "No such nick/channel")
		return false
	}
	return s.applySetident(c, target, msg.Params[1])
}

func (s *Server) applySethost(actor, target *Client, newHost string) bool {
	if !s.hostname.Valid(newHost) || int64(len(newHost)) > s.Limits.MaxHost {
		s.notice(actor, "*** SETHOST: Invalid characters in hostname")
		return false
	}
	target.displayHost = newHost
	s.snotice('a', fmt.Sprintf("%s used SETHOST to change %s's host to %s", actor.Mask(), target.Nick(), newHost))
	return true
}

func (s *Server) applySetident(actor, target *Client, newIdent string) bool {
	if !s.hostname.ValidIdent(newIdent) || int64(len(newIdent)) > s.Limits.MaxUser {
		s.notice(actor, "*** SETIDENT: Invalid characters in ident")
		return false
	}
	target.username = newIdent
	s.snotice('a', fmt.Sprintf("%s used SETIDENT to change %s's ident to %s", actor.Mask(), target.Nick(), newIdent))
	return true
}

// cmdVhost implements VHOST <user> <password>, claiming the persistent
// vhost configured for that account (spec §3.8, m_vhost.cpp).
func cmdVhost(s *Server, c *Client, msg ircmsg.Message) bool {
	rec, ok := s.Vhosts[msg.Params[0]]
	if !ok || bcrypt.CompareHashAndPassword(rec.hash, []byte(msg.Params[1])) != nil {
		s.notice(c, "*** VHOST: Invalid credentials")
		return false
	}
	c.displayHost = rec.host
	s.notice(c, fmt.Sprintf("*** VHOST: Your host is now %s", rec.host))
	return true
}

// cmdShun implements SHUN <mask> [<duration>] [:<reason>], oper-only,
// applying to currently connected users matching mask immediately since
// KindShun is not an auto-applying factory kind (spec §8 scenario S2:
// shunning gates future commands, it does not disconnect).
func cmdShun(s *Server, c *Client, msg ircmsg.Message) bool {
	_, duration, reason := parseXlineArgs(msg.Params[1:])
	e, err := s.Xlines.AddLine(xline.KindShun, s.Clock.Now(), duration, c.Mask(), reason, msg.Params[0])
	if err != nil {
		s.notice(c, fmt.Sprintf("*** SHUN: %s", err))
		return false
	}
	for _, target := range s.Clients.All() {
		subj := xline.Subject{
			IdentHost: target.Username() + "@" + target.RealHost(),
			Full:      target.Nick() + "!" + target.Username() + "@" + target.RealHost(),
			IP:        target.IP(),
			Nick:      target.Nick(),
		}
		if s.Xlines.MatchesLine(xline.KindShun, subj) == e {
			target.shunned = true
		}
	}
	s.snotice('o', fmt.Sprintf("%s added a shun on %s: %s", c.Mask(), e.Pattern, e.Reason))
	return true
}

// cmdSvshold implements SVSHOLD <nick> [<duration>] [:<reason>], blocking
// the nickname from use (spec §8 scenario S5).
func cmdSvshold(s *Server, c *Client, msg ircmsg.Message) bool {
	_, duration, reason := parseXlineArgs(msg.Params[1:])
	e, err := s.Xlines.AddLine(xline.KindSVSHOLD, s.Clock.Now(), duration, c.Mask(), reason, msg.Params[0])
	if err != nil {
		s.notice(c, fmt.Sprintf("*** SVSHOLD: %s", err))
		return false
	}
	s.snotice('o', fmt.Sprintf("%s added an SVSHOLD on %s: %s", c.Mask(), e.Pattern, e.Reason))
	return true
}

// parseXlineArgs splits the trailing [<duration>] [:<reason>] arguments
// shared by SHUN/SVSHOLD, grounded on InspIRCd's AddLine command family.
func parseXlineArgs(rest []string) (mask string, duration int64, reason string) {
	reason = "No reason given"
	if len(rest) == 0 {
		return "", 0, reason
	}
	if d, err := strconv.ParseInt(rest[0], 10, 64); err == nil {
		duration = d
		if len(rest) > 1 {
			reason = rest[1]
		}
		return "", duration, reason
	}
	reason = rest[0]
	return "", 0, reason
}

// cmdSaquit implements SAQUIT <nick> [:<reason>], an oper-forced QUIT.
func cmdSaquit(s *Server, c *Client, msg ircmsg.Message) bool {
	target := s.Clients.Get(msg.Params[0])
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, msg.Params[0], "No such nick/channel")
		return false
	}
	reason := "Services Quit"
	if len(msg.Params) > 1 {
		reason = msg.Params[1]
	}
	s.snotice('o', fmt.Sprintf("%s used SAQUIT on %s (%s)", c.Mask(), target.Nick(), reason))
	s.Disconnect(target, reason)
	return true
}

// cmdSapart implements SAPART <nick> <channel>[,<channel>...], an
// oper-forced PART; the comma-list splitting happens in the dispatcher
// (CommaParam: 1), so this handler sees a single channel per call.
func cmdSapart(s *Server, c *Client, msg ircmsg.Message) bool {
	target := s.Clients.Get(msg.Params[0])
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, msg.Params[0], "No such nick/channel")
		return false
	}
	ch := s.Channels.Get(msg.Params[1])
	if ch == nil {
		s.numeric(c, ERR_NOSUCHCHANNEL, msg.Params[1], "No such channel")
		return false
	}
	if _, ok := ch.MembershipOf(target); !ok {
		return false
	}
	s.broadcastToChannel(ch, target.Mask(), "PART", ch.Name(), "Services forced part")
	ch.removeMember(target)
	delete(target.Channels, ch.NameCasefolded())
	s.Channels.Cleanup(ch)
	s.snotice('o', fmt.Sprintf("%s used SAPART to remove %s from %s", c.Mask(), target.Nick(), ch.Name()))
	return true
}

// cmdSakick implements SAKICK <channel> <nick> [:<reason>], an oper-forced
// KICK bypassing the normal ACL check.
func cmdSakick(s *Server, c *Client, msg ircmsg.Message) bool {
	ch := s.Channels.Get(msg.Params[0])
	if ch == nil {
		s.numeric(c, ERR_NOSUCHCHANNEL, msg.Params[0], "No such channel")
		return false
	}
	target := s.Clients.Get(msg.Params[1])
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, msg.Params[1], "No such nick/channel")
		return false
	}
	if _, ok := ch.MembershipOf(target); !ok {
		s.numeric(c, ERR_USERNOTINCHANNEL, target.Nick(), ch.Name(), "They aren't on that channel")
		return false
	}
	reason := "Services Kick"
	if len(msg.Params) > 2 {
		reason = msg.Params[2]
	}
	s.broadcastToChannel(ch, c.Mask(), "KICK", ch.Name(), target.Nick(), reason)
	ch.removeMember(target)
	delete(target.Channels, ch.NameCasefolded())
	s.Channels.Cleanup(ch)
	return true
}
