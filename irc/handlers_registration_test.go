package irc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNickConfusableRejected exercises the confusables defense wired into
// ClientManager.SetNick: a nick that skeletonizes to the same identity as
// one already in use is rejected even though it casefolds differently.
func TestNickConfusableRejected(t *testing.T) {
	s := newTestServer(t, "")
	_, _ = connectClient(t, s, "admin", "admin")

	w := &recordingWriter{}
	c := NewClient("uuid-lookalike", "127.0.0.1", w, s.Clock.Now())
	s.Clients.Add(c)

	// U+0430 CYRILLIC SMALL LETTER A in place of the Latin 'a'.
	require.False(t, dispatch(s, c, "NICK аdmin"))
	require.True(t, dispatch(s, c, "USER lookalike 0 * :real name"))
	assert.NotEqual(t, PhaseAll, c.Phase())
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_ERRONEUSNICKNAME)
	assert.False(t, c.HasNick())
}
