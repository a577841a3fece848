package xline

import (
	"fmt"
	"net"
	"strings"

	"github.com/coregate/ircd/irc/modes"
	"github.com/coregate/ircd/irc/utils"
)

// NewMaskFactory builds a Factory for any kind whose pattern is an
// ident@host-style glob matched against Subject.IdentHost (K, E, G lines).
func NewMaskFactory(autoApply bool, matchField func(Subject) string) *Factory {
	return &Factory{
		AutoApply: autoApply,
		Build: func(setTime, duration int64, setter, reason, pattern string) (*Entry, error) {
			cleaned := normalizeIdentHost(pattern)
			re, err := utils.CompileMask(cleaned)
			if err != nil {
				return nil, fmt.Errorf("xline: invalid mask %q: %w", pattern, err)
			}
			e := &Entry{Pattern: cleaned, SetTime: setTime, Duration: duration, Setter: setter, Reason: reason}
			e.matches = func(s Subject) bool { return re.MatchString(matchField(s)) }
			return e, nil
		},
	}
}

func normalizeIdentHost(pattern string) string {
	if strings.Contains(pattern, "@") {
		return pattern
	}
	return "*@" + pattern
}

// NewCIDRFactory builds a Factory for Z-lines: pattern is an IP or CIDR,
// matched against Subject.IP.
func NewCIDRFactory(autoApply bool) *Factory {
	return &Factory{
		AutoApply: autoApply,
		Build: func(setTime, duration int64, setter, reason, pattern string) (*Entry, error) {
			cidrStr := pattern
			if !strings.Contains(cidrStr, "/") {
				if strings.Contains(cidrStr, ":") {
					cidrStr += "/128"
				} else {
					cidrStr += "/32"
				}
			}
			_, ipnet, err := net.ParseCIDR(cidrStr)
			if err != nil {
				return nil, fmt.Errorf("xline: invalid CIDR %q: %w", pattern, err)
			}
			e := &Entry{Pattern: pattern, SetTime: setTime, Duration: duration, Setter: setter, Reason: reason}
			e.matches = func(s Subject) bool {
				ip := net.ParseIP(s.IP)
				return ip != nil && ipnet.Contains(ip)
			}
			return e, nil
		},
	}
}

// NewNickMaskFactory builds a Factory for SHUN: InspIRCd's real syntax is a
// nick!user@host mask (m_shun.cpp), so the pattern is run through the same
// modes.CleanMask normalization the channel ban list uses and matched
// against Subject.Full rather than Subject.IdentHost.
func NewNickMaskFactory(autoApply bool) *Factory {
	return &Factory{
		AutoApply: autoApply,
		Build: func(setTime, duration int64, setter, reason, pattern string) (*Entry, error) {
			cleaned := modes.CleanMask(pattern)
			re, err := utils.CompileMask(cleaned)
			if err != nil {
				return nil, fmt.Errorf("xline: invalid mask %q: %w", pattern, err)
			}
			e := &Entry{Pattern: cleaned, SetTime: setTime, Duration: duration, Setter: setter, Reason: reason}
			e.matches = func(s Subject) bool { return re.MatchString(s.Full) }
			return e, nil
		},
	}
}

// NewGlobFactory builds a Factory matching an arbitrary glob against a
// single Subject field, used for SVSHOLD (matches nick on pre-nick).
func NewGlobFactory(autoApply bool, matchField func(Subject) string) *Factory {
	return &Factory{
		AutoApply: autoApply,
		Build: func(setTime, duration int64, setter, reason, pattern string) (*Entry, error) {
			re, err := utils.CompileMask(pattern)
			if err != nil {
				return nil, fmt.Errorf("xline: invalid pattern %q: %w", pattern, err)
			}
			e := &Entry{Pattern: pattern, SetTime: setTime, Duration: duration, Setter: setter, Reason: reason}
			e.matches = func(s Subject) bool { return re.MatchString(matchField(s)) }
			return e, nil
		},
	}
}

// RegisterDefaults installs the standard K/Z/E/G/Shun/SVSHOLD/ELine
// factories, matching spec §3's "each kind has a factory" and §4.6's
// per-kind match specializations (K matches ident@host, Z matches IP, SHUN
// matches nick!ident@host, SVSHOLD matches nick on pre-nick).
func RegisterDefaults(s *Store) {
	s.RegisterFactory(KindK, NewMaskFactory(true, func(sub Subject) string { return sub.IdentHost }))
	s.RegisterFactory(KindG, NewMaskFactory(true, func(sub Subject) string { return sub.IdentHost }))
	s.RegisterFactory(KindE, NewMaskFactory(false, func(sub Subject) string { return sub.IdentHost }))
	s.RegisterFactory(KindZ, NewCIDRFactory(true))
	s.RegisterFactory(KindShun, NewNickMaskFactory(false))
	s.RegisterFactory(KindSVSHOLD, NewGlobFactory(false, func(sub Subject) string { return sub.Nick }))
	s.RegisterFactory(KindELine, NewMaskFactory(false, func(sub Subject) string { return sub.IdentHost }))
}
