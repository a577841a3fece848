package irc

import "github.com/coregate/ircd/irc/config"

// Limits holds the <limits> config tag's bounds (spec §6: "<limits
// maxaway=… maxmodes=… maxhost=… maxuser=…>").
type Limits struct {
	MaxAway    int64
	MaxModes   int64
	MaxHost    int64
	MaxUser    int64
	MaxNick    int64
	MaxChannel int64
	MaxBanList int64
}

// defaultLimits mirrors InspIRCd's compiled-in defaults.
var defaultLimits = Limits{
	MaxAway:    200,
	MaxModes:   20,
	MaxHost:    64,
	MaxUser:    10,
	MaxNick:    30,
	MaxChannel: 64,
	MaxBanList: 60,
}

// LoadLimits reads the first <limits> tag in cfg, defaulting any absent
// or out-of-range field via irc/config's typed accessors.
func LoadLimits(cfg *config.Config) Limits {
	l := defaultLimits
	t, ok := cfg.Tag("limits")
	if !ok {
		return l
	}
	l.MaxAway = t.GetInt("maxaway", l.MaxAway, 0, 10000)
	l.MaxModes = t.GetInt("maxmodes", l.MaxModes, 1, 100)
	l.MaxHost = t.GetInt("maxhost", l.MaxHost, 4, 512)
	l.MaxUser = t.GetInt("maxuser", l.MaxUser, 1, 512)
	l.MaxNick = t.GetInt("maxnick", l.MaxNick, 1, 512)
	l.MaxChannel = t.GetInt("maxchannel", l.MaxChannel, 1, 512)
	l.MaxBanList = t.GetInt("maxbans", l.MaxBanList, 0, 10000)
	return l
}
