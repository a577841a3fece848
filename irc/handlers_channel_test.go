package irc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesChannelAndGrantsFounderOp(t *testing.T) {
	s := newTestServer(t, "")
	alice, w := connectClient(t, s, "alice", "alice")

	require.True(t, dispatch(s, alice, "JOIN #test"))

	ch := s.Channels.Get("#test")
	require.NotNil(t, ch)
	m, ok := ch.MembershipOf(alice)
	require.True(t, ok)
	assert.Equal(t, halfopRank, m.HighestRank(s.Modes))
	assert.Contains(t, w.lines[len(w.lines)-2], "353") // RPL_NAMREPLY
}

func TestJoinInviteOnlyRejected(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	require.True(t, dispatch(s, alice, "JOIN #test"))
	require.True(t, dispatch(s, alice, "MODE #test +i"))

	bob, w := connectClient(t, s, "bob", "bob")
	assert.False(t, dispatch(s, bob, "JOIN #test"))
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_INVITEONLYCHAN)
}

func TestJoinBadKeyRejected(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	require.True(t, dispatch(s, alice, "JOIN #test"))
	require.True(t, dispatch(s, alice, "MODE #test +k secret"))

	bob, w := connectClient(t, s, "bob", "bob")
	assert.False(t, dispatch(s, bob, "JOIN #test wrong"))
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_BADCHANNELKEY)

	carol, _ := connectClient(t, s, "carol", "carol")
	assert.True(t, dispatch(s, carol, "JOIN #test secret"))
}

func TestJoinChannelFullRejected(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	require.True(t, dispatch(s, alice, "JOIN #test"))
	require.True(t, dispatch(s, alice, "MODE #test +l 1"))

	bob, w := connectClient(t, s, "bob", "bob")
	assert.False(t, dispatch(s, bob, "JOIN #test"))
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_CHANNELISFULL)
}

// TestBanRedirect exercises spec scenario S3: a banned user's JOIN
// forwards them to the ban's redirect target, with a re-entry guard
// against forwarding back into an already-visited channel.
func TestBanRedirect(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	require.True(t, dispatch(s, alice, "JOIN #a"))
	require.True(t, dispatch(s, alice, "JOIN #b"))
	require.True(t, dispatch(s, alice, "MODE #a +b bob!*@*#b"))

	bob, w := connectClient(t, s, "bob", "bob")
	assert.True(t, dispatch(s, bob, "JOIN #a"))

	foundLinkChannel := false
	for _, line := range w.lines {
		if strings.Contains(line, ERR_LINKCHANNEL) && strings.Contains(line, "#a") && strings.Contains(line, "#b") {
			foundLinkChannel = true
		}
	}
	assert.True(t, foundLinkChannel, "expected an ERR_LINKCHANNEL numeric forwarding to #b, got %v", w.lines)

	chB := s.Channels.Get("#b")
	require.NotNil(t, chB)
	_, onB := chB.MembershipOf(bob)
	assert.True(t, onB, "bob should have ended up on #b")

	chA := s.Channels.Get("#a")
	_, onA := chA.MembershipOf(bob)
	assert.False(t, onA, "bob should not be a member of the banning channel")
}

// TestBanRedirectLoopGuard checks that a redirect cycle (#a -> #b -> #a)
// does not infinite-loop; the second hop is refused once #a has already
// been visited.
func TestBanRedirectLoopGuard(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	require.True(t, dispatch(s, alice, "JOIN #a"))
	require.True(t, dispatch(s, alice, "JOIN #b"))
	require.True(t, dispatch(s, alice, "MODE #a +b bob!*@*#b"))
	require.True(t, dispatch(s, alice, "MODE #b +b bob!*@*#a"))

	bob, _ := connectClient(t, s, "bob", "bob")
	assert.False(t, dispatch(s, bob, "JOIN #a"))

	chA := s.Channels.Get("#a")
	chB := s.Channels.Get("#b")
	_, onA := chA.MembershipOf(bob)
	_, onB := chB.MembershipOf(bob)
	assert.False(t, onA)
	assert.False(t, onB)
}

func TestBanWithoutRedirectJustRejects(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	require.True(t, dispatch(s, alice, "JOIN #a"))
	require.True(t, dispatch(s, alice, "MODE #a +b bob!*@*"))

	bob, w := connectClient(t, s, "bob", "bob")
	assert.False(t, dispatch(s, bob, "JOIN #a"))
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_BANNEDFROMCHAN)
}

func TestPartAndKick(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	bob, bobW := connectClient(t, s, "bob", "bob")
	require.True(t, dispatch(s, alice, "JOIN #test"))
	require.True(t, dispatch(s, bob, "JOIN #test"))

	require.True(t, dispatch(s, alice, "KICK #test bob :be gone"))
	ch := s.Channels.Get("#test")
	_, onChan := ch.MembershipOf(bob)
	assert.False(t, onChan)
	assert.Contains(t, bobW.lines[len(bobW.lines)-1], "KICK")

	require.True(t, dispatch(s, alice, "PART #test :done"))
	assert.Nil(t, s.Channels.Get("#test"), "channel should be destroyed once empty")
}

func TestTopicRequiresOpWhenLocked(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	bob, w := connectClient(t, s, "bob", "bob")
	require.True(t, dispatch(s, alice, "JOIN #test"))
	require.True(t, dispatch(s, bob, "JOIN #test"))
	require.True(t, dispatch(s, alice, "MODE #test +t"))

	assert.False(t, dispatch(s, bob, "TOPIC #test :new topic"))
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_CHANOPRIVSNEEDED)

	require.True(t, dispatch(s, alice, "TOPIC #test :new topic"))
	text, setter, _ := s.Channels.Get("#test").Topic()
	assert.Equal(t, "new topic", text)
	assert.Equal(t, alice.Nick(), setter)
}
