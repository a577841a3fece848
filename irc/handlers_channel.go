package irc

import (
	"strconv"
	"strings"

	"github.com/ergochat/irc-go/ircmsg"

	"github.com/coregate/ircd/irc/modes"
	"github.com/coregate/ircd/irc/utils"
)

func cmdJoin(s *Server, c *Client, msg ircmsg.Message) bool {
	key := ""
	if len(msg.Params) > 1 {
		key = msg.Params[1]
	}
	return s.joinChannel(c, msg.Params[0], key, make(map[string]bool))
}

// joinChannel implements JOIN, including the banredirect re-entry guard
// from spec §8 S3 ("issues JOIN #b with re-entry guard").
func (s *Server) joinChannel(c *Client, name, key string, visited map[string]bool) bool {
	now := s.Clock.Now()
	ch, created, err := s.Channels.BeginJoin(name, now)
	if err != nil {
		switch err {
		case errRestrictedChan:
			s.numeric(c, ERR_RESTRICTED, name, "Restricted: creation of new channels is restricted")
		default:
			s.numeric(c, ERR_NOSUCHCHANNEL, name, "No such channel")
		}
		return false
	}
	defer s.Channels.EndJoin(ch)
	visited[ch.NameCasefolded()] = true

	if !created {
		if mask, redirect, banned := checkBanRedirect(ch, c); banned {
			s.numeric(c, ERR_BANNEDFROMCHAN, ch.Name(), "Cannot join channel (+b)")
			_ = mask
			if redirect == "" {
				return false
			}
			redirectCf, err := utils.CasefoldChannel(redirect)
			if err != nil || visited[redirectCf] {
				return false
			}
			s.numeric(c, ERR_LINKCHANNEL, ch.Name(), redirect, "Forwarding to another channel")
			return s.joinChannel(c, redirect, "", visited)
		}

		if ch.Modes().Has('i') {
			s.numeric(c, ERR_INVITEONLYCHAN, ch.Name(), "Cannot join channel (+i)")
			return false
		}
		if wantKey, has := ch.GetParam('k'); has && wantKey != key {
			s.numeric(c, ERR_BADCHANNELKEY, ch.Name(), "Cannot join channel (+k)")
			return false
		}
		if limStr, has := ch.GetParam('l'); has {
			if lim, convErr := strconv.Atoi(limStr); convErr == nil && len(ch.Members()) >= lim {
				s.numeric(c, ERR_CHANNELISFULL, ch.Name(), "Cannot join channel (+l)")
				return false
			}
		}
	}

	if _, already := ch.MembershipOf(c); already {
		return true
	}

	m := ch.addMember(c, now)
	c.Channels[ch.NameCasefolded()] = ch
	if created {
		m.Prefixes().Set('o', true)
	}

	s.broadcastToChannel(ch, c.Mask(), "JOIN", ch.Name())
	s.sendNames(c, ch)
	return true
}

// checkBanRedirect reports whether c matches a ban entry on ch and, if
// so, the redirect channel configured for that exact mask (spec §8 S3).
func checkBanRedirect(ch *Channel, c *Client) (mask, redirect string, banned bool) {
	for _, e := range ch.ListEntries('b') {
		re, err := caseInsensitiveMask(e.Mask)
		if err != nil {
			continue
		}
		if re.MatchString(c.Mask()) {
			return e.Mask, ch.BanRedirects[e.Mask], true
		}
	}
	return "", "", false
}

func cmdPart(s *Server, c *Client, msg ircmsg.Message) bool {
	ch := s.Channels.Get(msg.Params[0])
	if ch == nil {
		s.numeric(c, ERR_NOSUCHCHANNEL, msg.Params[0], "No such channel")
		return false
	}
	if _, ok := ch.MembershipOf(c); !ok {
		s.numeric(c, ERR_NOTONCHANNEL, ch.Name(), "You're not on that channel")
		return false
	}
	reason := ""
	if len(msg.Params) > 1 {
		reason = msg.Params[1]
	}
	s.broadcastToChannel(ch, c.Mask(), "PART", ch.Name(), reason)
	ch.removeMember(c)
	delete(c.Channels, ch.NameCasefolded())
	s.Channels.Cleanup(ch)
	return true
}

func cmdTopic(s *Server, c *Client, msg ircmsg.Message) bool {
	ch := s.Channels.Get(msg.Params[0])
	if ch == nil {
		s.numeric(c, ERR_NOSUCHCHANNEL, msg.Params[0], "No such channel")
		return false
	}
	if len(msg.Params) == 1 {
		text, setter, _ := ch.Topic()
		if text == "" {
			s.numeric(c, RPL_NOTOPIC, ch.Name(), "No topic is set")
		} else {
			s.numeric(c, RPL_TOPIC, ch.Name(), text)
			_ = setter
		}
		return true
	}

	m, ok := ch.MembershipOf(c)
	if !ok {
		s.numeric(c, ERR_NOTONCHANNEL, ch.Name(), "You're not on that channel")
		return false
	}
	if ch.Modes().Has('t') && m.HighestRank(s.Modes) < halfopRank && !c.IsOper() {
		s.numeric(c, ERR_CHANOPRIVSNEEDED, ch.Name(), "You're not a channel operator")
		return false
	}
	ch.SetTopic(msg.Params[1], c.Nick(), s.Clock.Now())
	s.broadcastToChannel(ch, c.Mask(), "TOPIC", ch.Name(), msg.Params[1])
	return true
}

func cmdKick(s *Server, c *Client, msg ircmsg.Message) bool {
	ch := s.Channels.Get(msg.Params[0])
	if ch == nil {
		s.numeric(c, ERR_NOSUCHCHANNEL, msg.Params[0], "No such channel")
		return false
	}
	actorM, ok := ch.MembershipOf(c)
	if !ok {
		s.numeric(c, ERR_NOTONCHANNEL, ch.Name(), "You're not on that channel")
		return false
	}
	if actorM.HighestRank(s.Modes) < halfopRank && !c.IsOper() {
		s.numeric(c, ERR_CHANOPRIVSNEEDED, ch.Name(), "You're not a channel operator")
		return false
	}
	target := s.Clients.Get(msg.Params[1])
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, msg.Params[1], "No such nick/channel")
		return false
	}
	if _, ok := ch.MembershipOf(target); !ok {
		s.numeric(c, ERR_USERNOTINCHANNEL, target.Nick(), ch.Name(), "They aren't on that channel")
		return false
	}
	reason := c.Nick()
	if len(msg.Params) > 2 {
		reason = msg.Params[2]
	}
	s.broadcastToChannel(ch, c.Mask(), "KICK", ch.Name(), target.Nick(), reason)
	ch.removeMember(target)
	delete(target.Channels, ch.NameCasefolded())
	s.Channels.Cleanup(ch)
	return true
}

// sendNames sends the NAMES burst that follows a successful JOIN.
func (s *Server) sendNames(c *Client, ch *Channel) {
	var names []string
	for _, m := range ch.Members() {
		names = append(names, ch.NamesLine(m, s.Modes))
	}
	s.numeric(c, RPL_NAMREPLY, "=", ch.Name(), strings.Join(names, " "))
	s.numeric(c, RPL_ENDOFNAMES, ch.Name(), "End of /NAMES list")
}

func cmdMode(s *Server, c *Client, msg ircmsg.Message) bool {
	target := msg.Params[0]
	if strings.HasPrefix(target, "#") {
		return s.channelMode(c, target, msg.Params[1:])
	}
	return s.userMode(c, target, msg.Params[1:])
}

func (s *Server) channelMode(c *Client, name string, rest []string) bool {
	ch := s.Channels.Get(name)
	if ch == nil {
		s.numeric(c, ERR_NOSUCHCHANNEL, name, "No such channel")
		return false
	}
	if len(rest) == 0 {
		s.numeric(c, RPL_CHANNELMODEIS, ch.Name(), "+"+string(ch.Modes().Letters()))
		return true
	}

	m, onChan := ch.MembershipOf(c)
	rank := 0
	if onChan {
		rank = m.HighestRank(s.Modes)
	}

	changes := parseModeChanges(s.Modes, modes.TargetChannel, rest)
	redirects := extractBanRedirects(changes)
	ctx := &modes.ApplyContext{
		Registry:   s.Modes,
		Flag:       ch,
		Param:      ch,
		List:       ch,
		Prefix:     ch,
		ActorRank:  rank,
		ActorOper:  c.IsOper(),
		ActorLocal: true,
		Now:        s.Clock.Now(),
		Feedback:   s.modeFeedback(c, ch.Name()),
	}
	applied := modes.Process(ctx, changes, modes.Limits{MaxModes: int(s.Limits.MaxModes)})
	if len(applied) == 0 {
		return false
	}
	applyBanRedirects(ch, applied, redirects)
	s.broadcastToChannel(ch, c.Mask(), "MODE", append([]string{ch.Name()}, renderModeChanges(applied)...)...)
	return true
}

// extractBanRedirects splits InspIRCd's banredirect suffix syntax
// ("nick!ident@host#target") out of any +b changes before they reach the
// mode processor, stripping it from the Change's Param so the ban mask
// itself stores and matches normally, and returning the cleaned-mask ->
// target map to apply once Process confirms the ban was actually accepted
// (spec §3.8, m_banredirect.cpp).
func extractBanRedirects(changes modes.ChangeList) map[string]string {
	redirects := make(map[string]string)
	for i := range changes {
		c := &changes[i]
		if c.Handler.Letter() != 'b' || !c.Adding {
			continue
		}
		mask, target := splitBanRedirect(c.Param)
		if target == "" {
			continue
		}
		c.Param = mask
		redirects[modes.CleanMask(mask)] = target
	}
	return redirects
}

// splitBanRedirect splits "nick!*@*#target" into ("nick!*@*", "#target") at
// the first '#'; masks with no '#' come back unchanged with an empty target.
func splitBanRedirect(raw string) (mask, target string) {
	idx := strings.IndexByte(raw, '#')
	if idx < 0 {
		return raw, ""
	}
	return raw[:idx], raw[idx:]
}

// applyBanRedirects records or clears ch.BanRedirects for every ban change
// Process actually applied, keyed by the same cleaned mask the ban list
// itself stores.
func applyBanRedirects(ch *Channel, applied modes.ChangeList, redirects map[string]string) {
	for _, c := range applied {
		if c.Handler.Letter() != 'b' {
			continue
		}
		cleaned := modes.CleanMask(c.Param)
		if c.Adding {
			if target, ok := redirects[cleaned]; ok {
				ch.BanRedirects[cleaned] = target
			}
		} else {
			delete(ch.BanRedirects, cleaned)
		}
	}
}

func (s *Server) userMode(c *Client, nick string, rest []string) bool {
	target := s.Clients.Get(nick)
	if target == nil {
		s.numeric(c, ERR_NOSUCHNICK, nick, "No such nick/channel")
		return false
	}
	if target != c && !c.IsOper() {
		s.numeric(c, ERR_USERSDONTMATCH, "Cannot change mode for other users")
		return false
	}
	if len(rest) == 0 {
		s.numeric(c, RPL_UMODEIS, "+"+string(target.Modes().Letters()))
		return true
	}
	changes := parseModeChanges(s.Modes, modes.TargetUser, rest)
	ctx := &modes.ApplyContext{
		Registry:   s.Modes,
		Flag:       target,
		Param:      target,
		ActorOper:  c.IsOper(),
		ActorLocal: true,
		Now:        s.Clock.Now(),
		Feedback:   s.modeFeedback(c, target.Nick()),
	}
	applied := modes.Process(ctx, changes, modes.Limits{MaxModes: int(s.Limits.MaxModes)})
	if len(applied) == 0 {
		return false
	}
	s.sendFrom(target, c.Mask(), "MODE", append([]string{target.Nick()}, renderModeChanges(applied)...)...)
	return true
}

// modeFeedback translates a TryMode rejection reason into the wire
// numeric spec §7 requires the dispatcher to produce.
func (s *Server) modeFeedback(c *Client, context string) func(reason string, change *modes.Change) {
	return func(reason string, change *modes.Change) {
		switch reason {
		case "missing parameter", "invalid parameter":
			s.numeric(c, ERR_NEEDMOREPARAMS, "MODE", "Not enough parameters")
		case "no privileges":
			s.numeric(c, ERR_NOPRIVILEGES, "Permission Denied - You're not an IRC operator")
		default:
			s.numeric(c, ERR_CHANOPRIVSNEEDED, context, "You're not a channel operator")
		}
	}
}

// parseModeChanges turns a "+o-b" style token plus its trailing
// parameters into a ChangeList, grounded on mode.cpp's ModeParser
// argument-consuming loop.
func parseModeChanges(reg *modes.Registry, target modes.TargetKind, tokens []string) modes.ChangeList {
	if len(tokens) == 0 {
		return nil
	}
	modeStr := tokens[0]
	args := tokens[1:]
	argIdx := 0
	adding := true
	var list modes.ChangeList

	for i := 0; i < len(modeStr); i++ {
		switch modeStr[i] {
		case '+':
			adding = true
			continue
		case '-':
			adding = false
			continue
		}
		h, ok := reg.FindMode(target, modeStr[i])
		if !ok {
			continue
		}

		needsArg := false
		switch h.Variant() {
		case modes.VariantParam:
			pm := h.(*modes.ParamMode)
			needsArg = adding || pm.AlwaysParam
		case modes.VariantList, modes.VariantPrefix:
			needsArg = true
		}

		param := ""
		if needsArg && argIdx < len(args) {
			param = args[argIdx]
			argIdx++
		}
		list = append(list, modes.Change{Handler: h, Adding: adding, Param: param})
	}
	return list
}

// renderModeChanges re-derives a "+o-b" token plus trailing parameters
// from the Changes Process actually applied, for the broadcast line.
func renderModeChanges(applied modes.ChangeList) []string {
	var letters strings.Builder
	var params []string
	lastAdding := true
	first := true
	for _, c := range applied {
		if first || c.Adding != lastAdding {
			if c.Adding {
				letters.WriteByte('+')
			} else {
				letters.WriteByte('-')
			}
			lastAdding = c.Adding
			first = false
		}
		letters.WriteByte(c.Handler.Letter())
		if c.Param != "" {
			params = append(params, c.Param)
		}
	}
	return append([]string{letters.String()}, params...)
}
