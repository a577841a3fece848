package xline

import (
	"testing"

	"github.com/coregate/ircd/irc/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *timer.Manager) {
	tm := timer.NewManager(0)
	s := NewStore(tm, nil)
	RegisterDefaults(s)
	return s, tm
}

func TestAddLineDuplicateRejected(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.AddLine(KindK, 0, 0, "oper", "spam", "*@bad.example.com")
	require.NoError(t, err)
	_, err = s.AddLine(KindK, 0, 0, "oper", "spam again", "*@bad.example.com")
	assert.Error(t, err)
}

func TestKLineMatchesIdentHost(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.AddLine(KindK, 0, 0, "oper", "spam", "*@bad.example.com")
	require.NoError(t, err)

	e := s.MatchesLine(KindK, Subject{IdentHost: "user@bad.example.com"})
	require.NotNil(t, e)
	assert.Nil(t, s.MatchesLine(KindK, Subject{IdentHost: "user@good.example.com"}))
}

func TestExpiryRemovesEntry(t *testing.T) {
	s, tm := newTestStore()
	_, err := s.AddLine(KindK, 0, 5, "oper", "temp", "*@temp.example.com")
	require.NoError(t, err)

	tm.Tick(4)
	assert.NotNil(t, s.MatchesLine(KindK, Subject{IdentHost: "x@temp.example.com"}))

	tm.Tick(6)
	assert.Nil(t, s.MatchesLine(KindK, Subject{IdentHost: "x@temp.example.com"}))
}

func TestPermanentLineNeverExpires(t *testing.T) {
	s, tm := newTestStore()
	_, err := s.AddLine(KindK, 0, 0, "oper", "perm", "*@perm.example.com")
	require.NoError(t, err)

	tm.Tick(1_000_000)
	assert.NotNil(t, s.MatchesLine(KindK, Subject{IdentHost: "x@perm.example.com"}))
}

func TestShunMatchesNickUserHost(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.AddLine(KindShun, 0, 0, "oper", "spammer", "bad!*@*.example.com")
	require.NoError(t, err)

	e := s.MatchesLine(KindShun, Subject{Full: "bad!ident@host.example.com"})
	require.NotNil(t, e)
	assert.Equal(t, "bad!*@*.example.com", e.Pattern)

	assert.Nil(t, s.MatchesLine(KindShun, Subject{Full: "good!ident@host.example.com"}))
	// SHUN matches Subject.Full, not IdentHost; a subject built with only
	// the latter set must not match even with the right ident@host.
	assert.Nil(t, s.MatchesLine(KindShun, Subject{IdentHost: "bad!ident@host.example.com"}))
}

func TestSVSHOLDMatchesNick(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.AddLine(KindSVSHOLD, 0, 3600, "services", "reserved", "Alice")
	require.NoError(t, err)

	e := s.MatchesLine(KindSVSHOLD, Subject{Nick: "Alice"})
	require.NotNil(t, e)
	assert.Equal(t, "reserved", e.Reason)
}

func TestDelLine(t *testing.T) {
	s, _ := newTestStore()
	_, err := s.AddLine(KindZ, 0, 0, "oper", "botnet", "10.0.0.0/8")
	require.NoError(t, err)

	ok, _ := s.DelLine(KindZ, "10.0.0.0/8", "oper")
	assert.True(t, ok)
	assert.Nil(t, s.MatchesLine(KindZ, Subject{IP: "10.1.2.3"}))
}
