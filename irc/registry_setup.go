package irc

import "github.com/coregate/ircd/irc/modes"

// halfopRank is the rank carried by the +o prefix mode (see
// SetupStandardModes), used as the "ops and above" threshold for the
// baseline channel modes, matching mode.cpp's default ACL.
const halfopRank = 20000

// SetupStandardModes registers the baseline user and channel modes every
// server needs, grounded on mode.cpp's core mode set (umode i/o/s/w,
// cmode n/t/s/m/i/k/l, list b/e/I, prefix @/+) expressed through this
// core's Handler variants (irc/modes/handlers.go).
func SetupStandardModes(reg *modes.Registry, limits Limits) error {
	userModes := []*modes.SimpleMode{
		modes.NewSimpleMode("invisible", 'i', modes.TargetUser, 0, 0, false),
		modes.NewSimpleMode("oper", 'o', modes.TargetUser, 0, 0, true),
		modes.NewSimpleMode("serverNotice", 's', modes.TargetUser, 0, 0, false),
		modes.NewSimpleMode("wallops", 'w', modes.TargetUser, 0, 0, false),
	}
	for _, h := range userModes {
		if err := reg.Add(h); err != nil {
			return err
		}
	}

	channelSimple := []*modes.SimpleMode{
		modes.NewSimpleMode("noExternalMessages", 'n', modes.TargetChannel, halfopRank, halfopRank, false),
		modes.NewSimpleMode("topicLock", 't', modes.TargetChannel, halfopRank, halfopRank, false),
		modes.NewSimpleMode("secret", 's', modes.TargetChannel, halfopRank, halfopRank, false),
		modes.NewSimpleMode("moderated", 'm', modes.TargetChannel, halfopRank, halfopRank, false),
		modes.NewSimpleMode("inviteOnly", 'i', modes.TargetChannel, halfopRank, halfopRank, false),
	}
	for _, h := range channelSimple {
		if err := reg.Add(h); err != nil {
			return err
		}
	}

	key := modes.NewParamMode("key", 'k', modes.TargetChannel, halfopRank, halfopRank, false, false)
	key.Validate = func(param string) bool { return param != "" && len(param) <= 32 }
	if err := reg.Add(key); err != nil {
		return err
	}

	limitMode := modes.NewParamMode("limit", 'l', modes.TargetChannel, halfopRank, halfopRank, false, false)
	limitMode.Validate = func(param string) bool { return param != "" }
	if err := reg.Add(limitMode); err != nil {
		return err
	}

	lists := []*modes.ListMode{
		modes.NewListMode("ban", 'b', halfopRank, halfopRank, int(limits.MaxBanList), false),
		modes.NewListMode("except", 'e', halfopRank, halfopRank, int(limits.MaxBanList), false),
		modes.NewListMode("invex", 'I', halfopRank, halfopRank, int(limits.MaxBanList), false),
	}
	for _, h := range lists {
		h.Clean = modes.CleanMask
		if err := reg.Add(h); err != nil {
			return err
		}
	}

	prefixes := []*modes.PrefixMode{
		modes.NewPrefixMode("op", 'o', '@', halfopRank, halfopRank, halfopRank, false, true),
		modes.NewPrefixMode("voice", 'v', '+', 10000, halfopRank, halfopRank, false, true),
	}
	for _, h := range prefixes {
		if err := reg.Add(h); err != nil {
			return err
		}
	}

	return nil
}
