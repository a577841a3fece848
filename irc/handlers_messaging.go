package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

func cmdPrivmsg(s *Server, c *Client, msg ircmsg.Message) bool {
	return s.sendMessage(c, msg, "PRIVMSG")
}

func cmdNotice(s *Server, c *Client, msg ircmsg.Message) bool {
	return s.sendMessage(c, msg, "NOTICE")
}

// sendMessage implements the shared PRIVMSG/NOTICE delivery path (spec §4.6):
// a channel target is broadcast to every member but the sender; a user
// target is relayed 1:1, with an away-message reply sent back for PRIVMSG
// only (NOTICE never triggers an automatic reply, to avoid notice loops).
func (s *Server) sendMessage(c *Client, msg ircmsg.Message, verb string) bool {
	target, text := msg.Params[0], msg.Params[1]

	if strings.HasPrefix(target, "#") {
		ch := s.Channels.Get(target)
		if ch == nil {
			if verb == "PRIVMSG" {
				s.numeric(c, ERR_NOSUCHCHANNEL, target, "No such channel")
			}
			return false
		}
		m, onChan := ch.MembershipOf(c)
		if ch.Modes().Has('n') && !onChan {
			s.numeric(c, ERR_CANNOTSENDTOCHAN, ch.Name(), "Cannot send to channel")
			return false
		}
		if ch.Modes().Has('m') && (!onChan || m.HighestRank(s.Modes) == 0) && !c.IsOper() {
			s.numeric(c, ERR_CANNOTSENDTOCHAN, ch.Name(), "Cannot send to channel")
			return false
		}
		s.broadcastToChannelExcept(ch, c, c.Mask(), verb, ch.Name(), text)
		return true
	}

	dest := s.Clients.Get(target)
	if dest == nil {
		s.numeric(c, ERR_NOSUCHNICK, target, "No such nick/channel")
		return false
	}
	s.sendFrom(dest, c.Mask(), verb, dest.Nick(), text)
	if verb == "PRIVMSG" && dest.IsAway() {
		s.numeric(c, RPL_AWAY, dest.Nick(), dest.AwayMessage())
	}
	return true
}

// cmdAway implements AWAY: an absent or empty parameter clears it (305
// "UNAWAY"), a non-empty one sets it (306 "NOWAWAY"), per spec §8
// scenario S1.
func cmdAway(s *Server, c *Client, msg ircmsg.Message) bool {
	text := ""
	if len(msg.Params) > 0 {
		text = msg.Params[0]
	}
	if int64(len(text)) > s.Limits.MaxAway {
		text = text[:s.Limits.MaxAway]
	}

	if text == "" {
		c.awayMsg = ""
		c.awayTime = 0
		s.numeric(c, RPL_UNAWAY, "You are no longer marked as being away")
		return true
	}

	c.awayMsg = text
	c.awayTime = s.Clock.Now()
	s.numeric(c, RPL_NOWAWAY, "You have been marked as being away")
	return true
}

// cmdWhois implements a minimal WHOIS burst for one target nick.
func cmdWhois(s *Server, c *Client, msg ircmsg.Message) bool {
	nick := msg.Params[len(msg.Params)-1]
	target := s.Clients.Get(nick)
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, nick, "No such nick/channel")
		s.numeric(c, RPL_ENDOFWHOIS, nick, "End of /WHOIS list")
		return false
	}

	s.numeric(c, RPL_WHOISUSER, target.Nick(), target.Username(), target.DisplayHost(), "*", "")
	s.numeric(c, RPL_WHOISSERVER, target.Nick(), s.Name, "the coregate test network")

	var chanNames []string
	for _, ch := range target.Channels {
		if m, ok := ch.MembershipOf(target); ok {
			chanNames = append(chanNames, m.PrefixString(s.Modes)+ch.Name())
		}
	}
	if len(chanNames) > 0 {
		s.numeric(c, RPL_WHOISCHANNELS, target.Nick(), strings.Join(chanNames, " "))
	}

	if target.IsAway() {
		s.numeric(c, RPL_AWAY, target.Nick(), target.AwayMessage())
	}
	if target.IsOper() {
		s.numeric(c, RPL_WHOISOPERATOR, target.Nick(), fmt.Sprintf("is an IRC operator (%s)", target.Oper().Class.Name))
	}
	s.numeric(c, RPL_ENDOFWHOIS, target.Nick(), "End of /WHOIS list")
	return true
}
