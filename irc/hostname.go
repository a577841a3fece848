package irc

import "github.com/coregate/ircd/irc/config"

// hostnameEngine enforces the <hostname charmap=…> allowed-character set
// for SETHOST/CHGHOST (spec §3.8, m_sethost.cpp/m_chghost.cpp), grounded
// on spec §8 scenario S4.
type hostnameEngine struct {
	charmap map[byte]bool
}

// loadHostnameConfig reads <hostname charmap=…>, defaulting to RFC 952's
// hostname charset plus underscore.
func loadHostnameConfig(cfg *config.Config) *hostnameEngine {
	he := &hostnameEngine{charmap: make(map[byte]bool)}
	def := "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-_"
	charmap := def
	if t, ok := cfg.Tag("hostname"); ok {
		charmap = t.GetString("charmap", def)
	}
	for i := 0; i < len(charmap); i++ {
		he.charmap[charmap[i]] = true
	}
	return he
}

// Valid reports whether every byte of host is in the configured charmap.
func (he *hostnameEngine) Valid(host string) bool {
	if host == "" {
		return false
	}
	for i := 0; i < len(host); i++ {
		if !he.charmap[host[i]] {
			return false
		}
	}
	return true
}

// ValidIdent applies the same charmap to a username/ident string.
func (he *hostnameEngine) ValidIdent(ident string) bool {
	return he.Valid(ident)
}
