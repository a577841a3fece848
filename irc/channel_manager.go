package irc

import "github.com/coregate/ircd/irc/utils"

// channelManagerEntry pairs a Channel with a join refcount, so the
// manager can tell "empty because everyone parted" apart from "empty
// because nobody has finished joining yet" without holding a lock across
// the whole join sequence — grounded on ergochat/ergo's
// channelmanager.go, minus the mutex this single-threaded core doesn't
// need.
type channelManagerEntry struct {
	channel      *Channel
	pendingJoins int
	skeleton     string
}

// ChannelManager owns every live Channel, keyed by casefolded name, and
// creates/destroys them around the join/part lifecycle.
type ChannelManager struct {
	chans          map[string]*channelManagerEntry
	skeletons      map[string]bool
	clients        *ClientManager
	opOnlyCreation bool
	allowedNames   map[string]bool // <allowchannel> allowlist when opOnlyCreation-style restriction is active
}

// NewChannelManager returns an empty ChannelManager. clients is used to
// resolve prefix-mode nick parameters on channels it creates.
func NewChannelManager(clients *ClientManager) *ChannelManager {
	return &ChannelManager{
		chans:        make(map[string]*channelManagerEntry),
		skeletons:    make(map[string]bool),
		clients:      clients,
		allowedNames: make(map[string]bool),
	}
}

// RestrictCreation turns on RESTRICTCHANS gating (spec §3.8): once set,
// BeginJoin on a not-yet-existing channel fails with errRestrictedChan
// unless its name is in AllowChannel's allowlist.
func (cm *ChannelManager) RestrictCreation(on bool) { cm.opOnlyCreation = on }

// AllowChannel adds name to the RESTRICTCHANS allowlist.
func (cm *ChannelManager) AllowChannel(name string) {
	cf, err := utils.CasefoldChannel(name)
	if err == nil {
		cm.allowedNames[cf] = true
	}
}

// Get returns an existing channel by name, or nil.
func (cm *ChannelManager) Get(name string) *Channel {
	cf, err := utils.CasefoldChannel(name)
	if err != nil {
		return nil
	}
	if e := cm.chans[cf]; e != nil {
		return e.channel
	}
	return nil
}

// Channels returns every live channel.
func (cm *ChannelManager) Channels() []*Channel {
	out := make([]*Channel, 0, len(cm.chans))
	for _, e := range cm.chans {
		out = append(out, e.channel)
	}
	return out
}

// BeginJoin resolves name to a Channel, creating it if it doesn't exist,
// and bumps its pending-join refcount so a concurrent part elsewhere in
// the same event-loop tick cannot observe it as empty and delete it out
// from under the in-progress join. The caller must call EndJoin exactly
// once afterward, whether or not the join itself succeeded.
func (cm *ChannelManager) BeginJoin(name string, now int64) (*Channel, bool, error) {
	cf, err := utils.CasefoldChannel(name)
	if err != nil {
		return nil, false, errInvalidChanname
	}
	skel, err := utils.Skeleton(name)
	if err != nil {
		return nil, false, errInvalidChanname
	}

	entry, ok := cm.chans[cf]
	created := false
	if !ok {
		if cm.opOnlyCreation && !cm.allowedNames[cf] {
			return nil, false, errRestrictedChan
		}
		if cm.skeletons[skel] {
			return nil, false, errConfusableName
		}
		entry = &channelManagerEntry{
			channel:  NewChannel(name, cf, now, cm.clients),
			skeleton: skel,
		}
		cm.chans[cf] = entry
		cm.skeletons[skel] = true
		created = true
	}
	entry.pendingJoins++
	return entry.channel, created, nil
}

// EndJoin releases the pending-join refcount BeginJoin took, deleting the
// channel if it ended up empty with no other pending joins (spec §3:
// "Destroyed when the last user parts and no sticky mode retains it" —
// "sticky mode" is a Non-goal here, so emptiness alone decides it).
func (cm *ChannelManager) EndJoin(ch *Channel) {
	entry, ok := cm.chans[ch.NameCasefolded()]
	if !ok || entry.channel != ch {
		return
	}
	entry.pendingJoins--
	cm.cleanupIfEmpty(ch.NameCasefolded(), entry)
}

// Cleanup removes ch if it is empty and has no pending joins, called
// after a part/kick/quit empties it.
func (cm *ChannelManager) Cleanup(ch *Channel) {
	entry, ok := cm.chans[ch.NameCasefolded()]
	if !ok || entry.channel != ch {
		return
	}
	cm.cleanupIfEmpty(ch.NameCasefolded(), entry)
}

func (cm *ChannelManager) cleanupIfEmpty(cf string, entry *channelManagerEntry) {
	if entry.pendingJoins <= 0 && entry.channel.IsEmpty() {
		delete(cm.chans, cf)
		delete(cm.skeletons, entry.skeleton)
	}
}
