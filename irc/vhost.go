package irc

import (
	"github.com/coregate/ircd/irc/config"
)

// vhostRecord is one <vhost user= pass= hash= host=> entry (spec §3.8,
// m_vhost.cpp): an oper-settable persistent virtual host a client can
// claim by re-authenticating with the same credentials the VHOST command
// checks against.
type vhostRecord struct {
	user string
	host string
	hash []byte // bcrypt, matching irc/oper's password storage convention
}

// loadVhostConfig reads every <vhost> tag into a user-keyed map.
func loadVhostConfig(cfg *config.Config) map[string]*vhostRecord {
	out := make(map[string]*vhostRecord)
	for _, t := range cfg.Tags("vhost") {
		user := t.GetString("user", "")
		if user == "" {
			continue
		}
		out[user] = &vhostRecord{
			user: user,
			host: t.GetString("host", ""),
			hash: []byte(t.GetString("pass", "")),
		}
	}
	return out
}
