// Package oper assembles operator classes and operator records from
// config tags and verifies operator passwords, grounded on
// ergochat/ergo's irc/config.go OperatorClasses/Operators assembly cascade
// (extends-chain resolution, WHOIS-line defaulting) but reading from this
// core's custom config grammar (irc/config.Tag) instead of YAML, and using
// bcrypt instead of ergo's legacy hash formats.
package oper

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/coregate/ircd/irc/config"
	"github.com/coregate/ircd/irc/utils"
)

// Class is an assembled operator class: a set of named capabilities plus a
// display title/whois-line, after resolving any <class extends=...> chain.
type Class struct {
	Name         string
	Title        string
	WhoisLine    string
	Capabilities map[string]bool
}

// Can reports whether the class grants capability.
func (c *Class) Can(capability string) bool {
	return c.Capabilities["*"] || c.Capabilities[capability]
}

// Oper is one assembled operator account.
type Oper struct {
	Name      string
	Class     *Class
	WhoisLine string
	Vhost     string
	PassHash  []byte // bcrypt hash; empty means the account cannot log in by password
}

// CheckPassword reports whether candidate matches the stored bcrypt hash.
func (o *Oper) CheckPassword(candidate string) bool {
	if len(o.PassHash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(o.PassHash, []byte(candidate)) == nil
}

// HashPassword bcrypt-hashes a plaintext operator password at the given
// cost for storage in <oper password=...> (as produced by an offline
// "ircd mkpasswd"-equivalent tool).
func HashPassword(plaintext string, cost int) ([]byte, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(plaintext), cost)
}

// LoadClasses assembles every <class name=... extends=...> tag in cfg into
// a name-keyed map, resolving the extends chain breadth-first the way
// ergo's OperatorClasses does (repeatedly sweeping until nothing new can be
// added, erroring if a cycle or missing parent stalls progress).
func LoadClasses(cfg *config.Config) (map[string]*Class, error) {
	raw := cfg.Tags("class")
	pending := make(map[string]*config.Tag, len(raw))
	for _, t := range raw {
		name := t.GetString("name", "")
		if name == "" {
			return nil, fmt.Errorf("oper: <class> tag missing name")
		}
		pending[name] = t
	}

	out := make(map[string]*Class)
	for len(out) < len(pending) {
		progressed := false
		for name, t := range pending {
			if _, done := out[name]; done {
				continue
			}
			extends := t.GetString("extends", "")
			var base *Class
			if extends != "" {
				b, ok := out[extends]
				if !ok {
					if _, exists := pending[extends]; !exists {
						return nil, fmt.Errorf("oper: class %q extends %q, which doesn't exist", name, extends)
					}
					continue // parent not assembled yet
				}
				base = b
			}

			c := &Class{Name: name, Capabilities: make(map[string]bool)}
			if base != nil {
				for cap := range base.Capabilities {
					c.Capabilities[cap] = true
				}
			}
			for _, cap := range splitWords(t.GetString("commands", "")) {
				c.Capabilities[cap] = true
			}
			c.Title = t.GetString("title", "IRC Operator")
			if wl := t.GetString("whoisline", ""); wl != "" {
				c.WhoisLine = wl
			} else {
				c.WhoisLine = "is an " + c.Title
			}
			out[name] = c
			progressed = true
		}
		if !progressed {
			return nil, fmt.Errorf("oper: class dependency cycle or missing parent")
		}
	}
	return out, nil
}

// LoadOpers assembles every <oper name=... class=... password=...> tag,
// casefolding names for case-insensitive lookup the way the User store
// does for nicknames.
func LoadOpers(cfg *config.Config, classes map[string]*Class) (map[string]*Oper, error) {
	out := make(map[string]*Oper)
	for _, t := range cfg.Tags("oper") {
		rawName := t.GetString("name", "")
		if rawName == "" {
			return nil, fmt.Errorf("oper: <oper> tag missing name")
		}
		name, err := utils.CasefoldName(rawName)
		if err != nil {
			return nil, fmt.Errorf("oper: could not casefold oper name %q: %w", rawName, err)
		}

		className := t.GetString("class", "")
		class, ok := classes[className]
		if !ok {
			return nil, fmt.Errorf("oper: operator %q uses class %q, which does not exist", rawName, className)
		}

		hashStr := t.GetString("password", "")
		var hash []byte
		if hashStr != "" {
			hash = []byte(hashStr)
		}

		whois := t.GetString("whoisline", "")
		if whois == "" {
			whois = class.WhoisLine
		}

		out[name] = &Oper{
			Name:      name,
			Class:     class,
			WhoisLine: whois,
			Vhost:     t.GetString("vhost", ""),
			PassHash:  hash,
		}
	}
	return out, nil
}

func splitWords(s string) []string {
	var out []string
	start := -1
	for i := 0; i <= len(s); i++ {
		if i < len(s) && s[i] != ' ' {
			if start == -1 {
				start = i
			}
		} else if start != -1 {
			out = append(out, s[start:i])
			start = -1
		}
	}
	return out
}
