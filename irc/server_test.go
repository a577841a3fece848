package irc

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coregate/ircd/irc/config"
)

// recordingWriter is a fake Writer that captures every line sent to it,
// standing in for the socket engine in tests.
type recordingWriter struct {
	lines []string
}

func (w *recordingWriter) SendLine(line string) error {
	w.lines = append(w.lines, line)
	return nil
}

func newTestServer(t *testing.T, conf string) *Server {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.conf")
	require.NoError(t, os.WriteFile(path, []byte(conf), 0644))

	cfg, err := config.Load(path, config.Options{})
	require.NoError(t, err)

	s, err := NewServer(cfg, "irc.test", 1000)
	require.NoError(t, err)
	return s
}

// connectClient registers a fresh local client via NICK/USER, the same
// path a real connection takes, returning it alongside its writer so
// assertions can inspect what it was sent.
func connectClient(t *testing.T, s *Server, nick, user string) (*Client, *recordingWriter) {
	t.Helper()
	w := &recordingWriter{}
	c := NewClient(fmt.Sprintf("uuid-%s", nick), "127.0.0.1", w, s.Clock.Now())
	s.Clients.Add(c)

	require.True(t, s.Dispatcher.Dispatch(s, c, fmt.Sprintf("NICK %s", nick)))
	require.True(t, s.Dispatcher.Dispatch(s, c, fmt.Sprintf("USER %s 0 * :%s real name", user, user)))
	require.Equal(t, PhaseAll, c.Phase())
	return c, w
}

func dispatch(s *Server, c *Client, line string) bool {
	return s.Dispatcher.Dispatch(s, c, line)
}
