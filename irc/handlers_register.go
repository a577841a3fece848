package irc

// registerCoreCommands installs every command this core ships with.
// Grounded on ergo's commands.go init(), one Command literal per verb.
func (s *Server) registerCoreCommands() {
	d := s.Dispatcher

	d.Register(&Command{Verb: "PING", Handler: cmdPing, MinParams: 0, UsablePreReg: true, Routing: LocalOnly})
	d.Register(&Command{Verb: "PONG", Handler: cmdPong, MinParams: 0, UsablePreReg: true, Routing: LocalOnly})
	d.Register(&Command{Verb: "NICK", Handler: cmdNick, MinParams: 1, UsablePreReg: true, Routing: Broadcast})
	d.Register(&Command{Verb: "USER", Handler: cmdUser, MinParams: 4, MaxParams: 4, UsablePreReg: true, Routing: LocalOnly})
	d.Register(&Command{Verb: "QUIT", Handler: cmdQuit, MinParams: 0, UsablePreReg: true, Routing: Broadcast})
	d.Register(&Command{Verb: "JOIN", Handler: cmdJoin, MinParams: 1, Routing: Broadcast, CommaParam: 0})
	d.Register(&Command{Verb: "PART", Handler: cmdPart, MinParams: 1, Routing: Broadcast, CommaParam: 0})
	d.Register(&Command{Verb: "TOPIC", Handler: cmdTopic, MinParams: 1, Routing: Broadcast})
	d.Register(&Command{Verb: "PRIVMSG", Handler: cmdPrivmsg, MinParams: 2, Routing: Broadcast})
	d.Register(&Command{Verb: "NOTICE", Handler: cmdNotice, MinParams: 2, Routing: Broadcast})
	d.Register(&Command{Verb: "MODE", Handler: cmdMode, MinParams: 1, Routing: Broadcast})
	d.Register(&Command{Verb: "AWAY", Handler: cmdAway, MinParams: 0, Routing: LocalOnly})
	d.Register(&Command{Verb: "WHOIS", Handler: cmdWhois, MinParams: 1, Routing: LocalOnly})
	d.Register(&Command{Verb: "KICK", Handler: cmdKick, MinParams: 2, Routing: Broadcast, CommaParam: 1})
	d.Register(&Command{Verb: "OPER", Handler: cmdOper, MinParams: 2, MaxParams: 2, Routing: LocalOnly})

	d.Register(&Command{Verb: "SETHOST", Handler: cmdSethost, MinParams: 1, MaxParams: 1, OperOnly: true, Routing: LocalOnly})
	d.Register(&Command{Verb: "SETIDENT", Handler: cmdSetident, MinParams: 1, MaxParams: 1, OperOnly: true, Routing: LocalOnly})
	d.Register(&Command{Verb: "CHGHOST", Handler: cmdChghost, MinParams: 2, MaxParams: 2, OperOnly: true, Routing: Broadcast})
	d.Register(&Command{Verb: "CHGIDENT", Handler: cmdChgident, MinParams: 2, MaxParams: 2, OperOnly: true, Routing: Broadcast})
	d.Register(&Command{Verb: "VHOST", Handler: cmdVhost, MinParams: 2, MaxParams: 2, UsablePreReg: true, Routing: LocalOnly})

	d.Register(&Command{Verb: "SHUN", Handler: cmdShun, MinParams: 1, MaxParams: 3, OperOnly: true, Routing: Broadcast})
	d.Register(&Command{Verb: "SVSHOLD", Handler: cmdSvshold, MinParams: 1, MaxParams: 3, OperOnly: true, Routing: Broadcast})
	d.Register(&Command{Verb: "SAQUIT", Handler: cmdSaquit, MinParams: 1, MaxParams: 2, OperOnly: true, Routing: Broadcast})
	d.Register(&Command{Verb: "SAPART", Handler: cmdSapart, MinParams: 2, MaxParams: 3, OperOnly: true, Routing: Broadcast, CommaParam: 1})
	d.Register(&Command{Verb: "SAKICK", Handler: cmdSakick, MinParams: 2, MaxParams: 3, OperOnly: true, Routing: Broadcast})
}
