package irc

import (
	"strings"

	"github.com/ergochat/irc-go/ircmsg"
)

// sendFrom builds a message with the given source and writes it to c.
func (s *Server) sendFrom(c *Client, source, command string, params ...string) {
	msg := ircmsg.MakeMessage(nil, source, command, params...)
	line, err := msg.Line()
	if err != nil {
		return
	}
	c.Send(strings.TrimRight(line, "\r\n"))
}

// numeric sends a numeric reply to c, prefixed with the server name and
// the client's displayed nick (or "*" pre-registration), per spec §6.
func (s *Server) numeric(c *Client, code string, params ...string) {
	target := c.Nick()
	if target == "" {
		target = "*"
	}
	full := append([]string{target}, params...)
	s.sendFrom(c, s.Name, code, full...)
}

// notice sends a NOTICE from the server to c, the vehicle for SHUN/SETHOST
// rejection messages and similar operational feedback (spec §8 S2/S4).
func (s *Server) notice(c *Client, text string) {
	s.sendFrom(c, s.Name, "NOTICE", c.displayTarget(), text)
}

func (c *Client) displayTarget() string {
	if c.nick != "" {
		return c.nick
	}
	return "*"
}

// broadcastToChannel sends a message, sourced from `source`, to every
// member of ch (spec §5: "outbound protocol events to multiple recipients
// of the same operation share a single constructed message").
func (s *Server) broadcastToChannel(ch *Channel, source, command string, params ...string) {
	msg := ircmsg.MakeMessage(nil, source, command, params...)
	line, err := msg.Line()
	if err != nil {
		return
	}
	line = strings.TrimRight(line, "\r\n")
	for _, m := range ch.Members() {
		m.User.Send(line)
	}
}

// broadcastToChannelExcept is broadcastToChannel but skips except.
func (s *Server) broadcastToChannelExcept(ch *Channel, except *Client, source, command string, params ...string) {
	msg := ircmsg.MakeMessage(nil, source, command, params...)
	line, err := msg.Line()
	if err != nil {
		return
	}
	line = strings.TrimRight(line, "\r\n")
	for _, m := range ch.Members() {
		if m.User == except {
			continue
		}
		m.User.Send(line)
	}
}

// snotice sends a server notice to every local oper subscribed to letter
// (spec GLOSSARY "Snomask").
func (s *Server) snotice(letter byte, text string) {
	for _, key := range s.Snomasks.Subscribers(letter) {
		if c := s.Clients.GetByUUID(key); c != nil {
			s.notice(c, text)
		}
	}
}
