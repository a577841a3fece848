package irc

import (
	"fmt"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/coregate/ircd/irc/config"
)

// shunEngine gates commands for a shunned user (spec §3.8, m_shun.cpp):
// most verbs are dropped (with a notice to the user when notifyuser is on),
// a configurable allowlist still works normally, and a second list is
// allowed through but has its trailing parameter cleared first.
type shunEngine struct {
	enabled map[string]bool
	cleaned map[string]bool
	notify  bool
}

// loadShunConfig reads the first <shun> tag, per spec §6's
// "<shun cleanedcommands=… enabledcommands=… allowtags=… allowconnect=…
// notifyuser=…>".
func loadShunConfig(cfg *config.Config) *shunEngine {
	se := &shunEngine{enabled: make(map[string]bool), cleaned: make(map[string]bool), notify: true}
	enabled, cleaned := "ADMIN OPER PING PONG QUIT", "AWAY PART QUIT"
	if t, ok := cfg.Tag("shun"); ok {
		enabled = t.GetString("enabledcommands", enabled)
		cleaned = t.GetString("cleanedcommands", cleaned)
		se.notify = t.GetBool("notifyuser", true)
	}
	for _, v := range strings.Fields(enabled) {
		se.enabled[strings.ToUpper(v)] = true
	}
	for _, v := range strings.Fields(cleaned) {
		se.cleaned[strings.ToUpper(v)] = true
	}
	return se
}

// Hook is registered as a PreCommandHook (SPEC_FULL.md §3.7: "this is how
// SHUN is wired in without a bespoke carve-out in the dispatcher itself").
func (se *shunEngine) Hook(s *Server, c *Client, msg *ircmsg.Message) bool {
	if !c.IsShunned() {
		return true
	}
	verb := strings.ToUpper(msg.Command)
	if se.enabled[verb] {
		return true
	}
	if se.cleaned[verb] {
		if cmd, ok := s.Dispatcher.commands[verb]; ok && len(msg.Params) > cmd.MinParams {
			msg.Params = msg.Params[:len(msg.Params)-1]
		}
		return true
	}
	if se.notify {
		s.notice(c, fmt.Sprintf("*** %s command not processed since you have been blocked from using this server", verb))
	}
	return false
}
