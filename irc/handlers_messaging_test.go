package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAwayToggle exercises spec scenario S1: AWAY with a message marks
// the client away and triggers an automatic reply on a subsequent
// PRIVMSG; AWAY with no parameter clears it.
func TestAwayToggle(t *testing.T) {
	s := newTestServer(t, "")
	alice, aliceW := connectClient(t, s, "alice", "alice")
	bob, bobW := connectClient(t, s, "bob", "bob")

	require.True(t, dispatch(s, bob, "AWAY :gone fishing"))
	assert.True(t, bob.IsAway())
	assert.Equal(t, "gone fishing", bob.AwayMessage())
	assert.Contains(t, bobW.lines[len(bobW.lines)-1], RPL_NOWAWAY)

	require.True(t, dispatch(s, alice, "PRIVMSG bob :hello"))
	assert.Contains(t, aliceW.lines[len(aliceW.lines)-1], RPL_AWAY)

	require.True(t, dispatch(s, bob, "AWAY"))
	assert.False(t, bob.IsAway())
	assert.Contains(t, bobW.lines[len(bobW.lines)-1], RPL_UNAWAY)
}

func TestAwayMessageTruncatedToLimit(t *testing.T) {
	s := newTestServer(t, "<limits maxaway=\"5\">")
	alice, _ := connectClient(t, s, "alice", "alice")

	require.True(t, dispatch(s, alice, "AWAY :0123456789"))
	assert.Equal(t, "01234", alice.AwayMessage())
}

func TestPrivmsgToModeratedChannelRequiresVoice(t *testing.T) {
	s := newTestServer(t, "")
	alice, _ := connectClient(t, s, "alice", "alice")
	bob, bobW := connectClient(t, s, "bob", "bob")
	require.True(t, dispatch(s, alice, "JOIN #test"))
	require.True(t, dispatch(s, bob, "JOIN #test"))
	require.True(t, dispatch(s, alice, "MODE #test +m"))

	assert.False(t, dispatch(s, bob, "PRIVMSG #test :hi"))
	assert.Contains(t, bobW.lines[len(bobW.lines)-1], ERR_CANNOTSENDTOCHAN)

	require.True(t, dispatch(s, alice, "MODE #test +v bob"))
	assert.True(t, dispatch(s, bob, "PRIVMSG #test :hi"))
}

func TestWhoisReportsAwayAndChannels(t *testing.T) {
	s := newTestServer(t, "")
	alice, aliceW := connectClient(t, s, "alice", "alice")
	bob, _ := connectClient(t, s, "bob", "bob")
	require.True(t, dispatch(s, bob, "JOIN #test"))
	require.True(t, dispatch(s, bob, "AWAY :brb"))

	require.True(t, dispatch(s, alice, "WHOIS bob"))
	joined := ""
	for _, l := range aliceW.lines {
		joined += l + "\n"
	}
	assert.Contains(t, joined, RPL_WHOISUSER)
	assert.Contains(t, joined, RPL_WHOISCHANNELS)
	assert.Contains(t, joined, RPL_AWAY)
	assert.Contains(t, joined, RPL_ENDOFWHOIS)
}
