package irc

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregate/ircd/irc/oper"
)

// operConfig bcrypt-hashes password and returns the <class>/<oper> config
// snippet plus the plaintext an OPER command can log in with.
func operConfig(t *testing.T, name, password string) string {
	t.Helper()
	hash, err := oper.HashPassword(password, 4)
	require.NoError(t, err)
	return fmt.Sprintf(`
<class name="admin" commands="*">
<oper name="%s" class="admin" password="%s">
`, name, hash)
}

func opUp(t *testing.T, s *Server, c *Client, name, password string) {
	t.Helper()
	require.True(t, dispatch(s, c, fmt.Sprintf("OPER %s %s", name, password)))
	require.True(t, c.IsOper())
}

// TestSethostValidatesCharmap exercises spec scenario S4: SETHOST is
// rejected when the requested host contains a character outside the
// configured charmap, and accepted otherwise.
func TestSethostValidatesCharmap(t *testing.T) {
	conf := operConfig(t, "root", "hunter2") + "\n<hostname charmap=\"abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-\">"
	s := newTestServer(t, conf)
	c, w := connectClient(t, s, "root", "root")
	opUp(t, s, c, "root", "hunter2")

	assert.False(t, dispatch(s, c, "SETHOST bad_host!"))
	assert.Contains(t, w.lines[len(w.lines)-1], "Invalid characters in hostname")
	assert.NotEqual(t, "bad_host!", c.DisplayHost())

	assert.True(t, dispatch(s, c, "SETHOST cool.host.example"))
	assert.Equal(t, "cool.host.example", c.DisplayHost())
}

// TestShunGatesCommands exercises spec scenario S2: a shunned user's
// commands are dropped unless allowlisted, and PART/QUIT still go through
// cleaned of their trailing parameter.
func TestShunGatesCommands(t *testing.T) {
	conf := operConfig(t, "root", "hunter2")
	s := newTestServer(t, conf)
	root, _ := connectClient(t, s, "root", "root")
	opUp(t, s, root, "root", "hunter2")

	target, targetW := connectClient(t, s, "target", "target")
	require.True(t, dispatch(s, target, "JOIN #test"))

	require.True(t, dispatch(s, root, "SHUN target!*@* 0 :testing"))
	assert.True(t, target.IsShunned())

	before := len(targetW.lines)
	assert.False(t, dispatch(s, target, "PRIVMSG root :hello"))
	assert.Greater(t, len(targetW.lines), before) // gets the "not processed" notice

	assert.True(t, dispatch(s, target, "PING"))

	ch := s.Channels.Get("#test")
	require.True(t, dispatch(s, target, "PART #test :should be cleaned"))
	_, onChan := ch.MembershipOf(target)
	assert.False(t, onChan)
}

// TestSvsholdBlocksNick exercises spec scenario S5: a nickname reserved
// by SVSHOLD cannot be claimed by NICK.
func TestSvsholdBlocksNick(t *testing.T) {
	conf := operConfig(t, "root", "hunter2")
	s := newTestServer(t, conf)
	root, _ := connectClient(t, s, "root", "root")
	opUp(t, s, root, "root", "hunter2")

	require.True(t, dispatch(s, root, "SVSHOLD reserved 0 :services account"))

	w := &recordingWriter{}
	c := NewClient("uuid-newcomer", "127.0.0.1", w, s.Clock.Now())
	s.Clients.Add(c)
	assert.False(t, dispatch(s, c, "NICK reserved"))
	assert.Contains(t, w.lines[len(w.lines)-1], ERR_ERRONEUSNICKNAME)
	assert.False(t, c.HasNick())
}

func TestVhostClaim(t *testing.T) {
	hash, err := oper.HashPassword("topsecret", 4)
	require.NoError(t, err)
	conf := fmt.Sprintf("<vhost user=\"alice\" pass=\"%s\" host=\"alice.users.example\">", hash)
	s := newTestServer(t, conf)
	c, w := connectClient(t, s, "alice", "alice")

	assert.False(t, dispatch(s, c, "VHOST alice wrongpass"))
	assert.Contains(t, w.lines[len(w.lines)-1], "Invalid credentials")

	assert.True(t, dispatch(s, c, "VHOST alice topsecret"))
	assert.Equal(t, "alice.users.example", c.DisplayHost())
}

func TestSakickBypassesChannelACL(t *testing.T) {
	conf := operConfig(t, "root", "hunter2")
	s := newTestServer(t, conf)
	root, _ := connectClient(t, s, "root", "root")
	opUp(t, s, root, "root", "hunter2")

	target, _ := connectClient(t, s, "target", "target")
	require.True(t, dispatch(s, target, "JOIN #test"))

	ch := s.Channels.Get("#test")
	require.True(t, dispatch(s, root, "SAKICK #test target :be gone"))
	_, onChan := ch.MembershipOf(target)
	assert.False(t, onChan)
}
