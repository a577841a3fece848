package irc

import (
	"regexp"

	"github.com/coregate/ircd/irc/utils"
)

// ClientManager indexes every connected Client by casefolded nickname and
// by UUID, enforcing nick uniqueness (spec §3 invariant: "if registered,
// nick → User is injective (case-insensitive)"). Grounded on
// ergochat/ergo's client_lookup_set.go's ClientManager, with its
// sync.RWMutex dropped — this core is single-threaded (spec §5).
type ClientManager struct {
	byNick    map[string]*Client
	byUUID    map[string]*Client
	skeletons map[string]*Client
}

// NewClientManager returns an empty ClientManager.
func NewClientManager() *ClientManager {
	return &ClientManager{
		byNick:    make(map[string]*Client),
		byUUID:    make(map[string]*Client),
		skeletons: make(map[string]*Client),
	}
}

// Add registers a freshly accepted client by UUID only; it has no nick
// yet.
func (cm *ClientManager) Add(c *Client) {
	cm.byUUID[c.UUID] = c
}

// Count returns the number of currently-tracked clients.
func (cm *ClientManager) Count() int { return len(cm.byUUID) }

// Get retrieves a client by nickname (case-insensitive), or nil.
func (cm *ClientManager) Get(nick string) *Client {
	cf, err := utils.CasefoldName(nick)
	if err != nil {
		return nil
	}
	return cm.byNick[cf]
}

// GetByUUID retrieves a client by its stable UUID, or nil.
func (cm *ClientManager) GetByUUID(uuid string) *Client {
	return cm.byUUID[uuid]
}

func (cm *ClientManager) removeInternal(c *Client) error {
	if !c.HasNick() {
		return errNickMissing
	}
	if current, present := cm.byNick[c.nickCasefolded]; present {
		if current == c {
			delete(cm.byNick, c.nickCasefolded)
		} else {
			return errNickMissing
		}
	}
	if c.skeleton != "" && cm.skeletons[c.skeleton] == c {
		delete(cm.skeletons, c.skeleton)
	}
	return nil
}

// SetNick assigns newNick to c, failing if it is already held by a
// different client (spec §3's nick-uniqueness invariant), is a confusable
// homoglyph of one already in use (same defense as ChannelManager.BeginJoin,
// grounded on the same ergo skeleton-index pattern), or reserved by an
// SVSHOLD x-line (wired by the caller, not here — see Server.handleNick).
func (cm *ClientManager) SetNick(c *Client, newNick string) error {
	cf, err := utils.CasefoldName(newNick)
	if err != nil {
		return errInvalidNickname
	}
	if current := cm.byNick[cf]; current != nil && current != c {
		return errNicknameInUse
	}

	skel, err := utils.Skeleton(newNick)
	if err != nil {
		return errInvalidNickname
	}
	if holder := cm.skeletons[skel]; holder != nil && holder != c {
		return errConfusableName
	}

	cm.removeInternal(c)
	c.nick = newNick
	c.nickCasefolded = cf
	c.skeleton = skel
	cm.byNick[cf] = c
	cm.skeletons[skel] = c
	return nil
}

// Remove removes c from the nick index (on quit).
func (cm *ClientManager) Remove(c *Client) {
	cm.removeInternal(c)
	delete(cm.byUUID, c.UUID)
}

// caseInsensitiveMask compiles pattern the way Find/FindAll need it: IRC
// masks are matched case-insensitively against nick!user@host.
func caseInsensitiveMask(pattern string) (*regexp.Regexp, error) {
	re, err := utils.CompileMask(pattern)
	if err != nil {
		return nil, err
	}
	return regexp.Compile("(?i)" + re.String())
}

// Find returns the first connected client whose nick!user@host mask
// matches pattern, grounded on ergo's wildcard lookup via
// irc/utils.CompileMask.
func (cm *ClientManager) Find(pattern string) *Client {
	re, err := caseInsensitiveMask(pattern)
	if err != nil {
		return nil
	}
	for _, c := range cm.byNick {
		if re.MatchString(c.Mask()) {
			return c
		}
	}
	return nil
}

// FindAll returns every connected client whose mask matches pattern.
func (cm *ClientManager) FindAll(pattern string) []*Client {
	re, err := caseInsensitiveMask(pattern)
	if err != nil {
		return nil
	}
	var out []*Client
	for _, c := range cm.byNick {
		if re.MatchString(c.Mask()) {
			out = append(out, c)
		}
	}
	return out
}

// All returns every tracked client (registered or not), for iteration by
// the cull pass and by xline.Store.Subjects.
func (cm *ClientManager) All() []*Client {
	out := make([]*Client, 0, len(cm.byUUID))
	for _, c := range cm.byUUID {
		out = append(out, c)
	}
	return out
}
