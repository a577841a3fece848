package irc

import (
	"fmt"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/coregate/ircd/irc/utils"
	"github.com/coregate/ircd/irc/xline"
)

func cmdPing(s *Server, c *Client, msg ircmsg.Message) bool {
	token := "*"
	if len(msg.Params) > 0 {
		token = msg.Params[0]
	}
	s.sendFrom(c, s.Name, "PONG", s.Name, token)
	return true
}

func cmdPong(s *Server, c *Client, msg ircmsg.Message) bool {
	c.lastActivity = s.Clock.Now()
	return true
}

// cmdNick implements NICK, wiring the SVSHOLD check (spec §8 S5) and the
// NICK-in-use / confusable-name rejections before handing off to
// ClientManager.SetNick.
func cmdNick(s *Server, c *Client, msg ircmsg.Message) bool {
	newNick := msg.Params[0]
	if newNick == "" {
		s.numeric(c, ERR_NONICKNAMEGIVEN, "No nickname given")
		return false
	}

	if e := s.Xlines.MatchesLine(xline.KindSVSHOLD, xline.Subject{Nick: newNick}); e != nil {
		s.numeric(c, ERR_ERRONEUSNICKNAME, newNick, fmt.Sprintf("Services reserved nickname: %s", e.Reason))
		return false
	}

	oldMask := ""
	hadNick := c.HasNick()
	if hadNick {
		oldMask = c.Mask()
	}

	if err := s.Clients.SetNick(c, newNick); err != nil {
		switch err {
		case errNicknameInUse:
			s.numeric(c, ERR_NICKNAMEINUSE, newNick, "Nickname is already in use")
		default:
			s.numeric(c, ERR_ERRONEUSNICKNAME, newNick, "Erroneous nickname")
		}
		return false
	}

	if c.phase == PhaseNone {
		c.phase = PhaseNick
	}

	if hadNick {
		s.announceNickChange(c, oldMask)
	}

	s.tryRegister(c)
	return true
}

func (s *Server) announceNickChange(c *Client, oldMask string) {
	seen := map[*Client]bool{c: true}
	for _, ch := range c.Channels {
		for _, m := range ch.Members() {
			if seen[m.User] {
				continue
			}
			seen[m.User] = true
			s.sendFrom(m.User, oldMask, "NICK", c.Nick())
		}
	}
}

func cmdUser(s *Server, c *Client, msg ircmsg.Message) bool {
	if c.phase == PhaseUser || c.phase == PhaseAll {
		s.numeric(c, ERR_ALREADYREGISTRED, "You may not reregister")
		return false
	}
	c.username = msg.Params[0]
	if int64(len(c.username)) > s.Limits.MaxUser {
		c.username = c.username[:s.Limits.MaxUser]
	}
	c.realHost = c.ip
	c.displayHost = c.ip
	if c.phase == PhaseNone {
		c.phase = PhaseUser
	}
	s.tryRegister(c)
	return true
}

// tryRegister promotes c to PhaseAll and sends the welcome burst once
// both NICK and USER have been received.
func (s *Server) tryRegister(c *Client) {
	if c.phase == PhaseAll {
		return
	}
	if !c.HasNick() || c.username == "" {
		return
	}
	c.phase = PhaseAll
	s.numeric(c, RPL_WELCOME, fmt.Sprintf("Welcome to the Internet Relay Network %s", c.Mask()))
	s.numeric(c, RPL_YOURHOST, fmt.Sprintf("Your host is %s", s.Name))
	s.numeric(c, RPL_CREATED, fmt.Sprintf("This server was created %d", s.Created))
	s.numeric(c, RPL_MYINFO, s.Name, "UNKNOWN", "Are supported by this server")
}

func cmdQuit(s *Server, c *Client, msg ircmsg.Message) bool {
	reason := "Client Quit"
	if len(msg.Params) > 0 {
		reason = msg.Params[0]
	}
	s.Disconnect(c, reason)
	return true
}

func cmdOper(s *Server, c *Client, msg ircmsg.Message) bool {
	name, pass := msg.Params[0], msg.Params[1]
	o, ok := s.Opers[nameKey(name)]
	if !ok || !o.CheckPassword(pass) {
		s.numeric(c, ERR_PASSWDMISMATCH, "Password incorrect")
		return false
	}
	c.oper = o
	c.modeSet.Set('o', true)
	s.numeric(c, RPL_YOUREOPER, "You are now an IRC operator")
	s.snotice('o', fmt.Sprintf("%s became an operator (%s)", c.Mask(), o.Class.Name))
	return true
}

func nameKey(name string) string {
	cf, err := utils.CasefoldName(name)
	if err != nil {
		return name
	}
	return cf
}
