package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStream struct {
	entries [][]string
	reentry *Manager
}

func (r *recordingStream) OnLog(level Level, logType string, parts []string) {
	r.entries = append(r.entries, append([]string{logType}, parts...))
	if r.reentry != nil {
		r.reentry.Info("REENTRANT", "should be dropped")
	}
}

func TestLevelFiltering(t *testing.T) {
	m := NewManager()
	rec := &recordingStream{}
	m.AddLogTypes(rec, []string{"CONFIG"}, nil, LevelDefault)

	m.Debug("CONFIG", "too noisy")
	m.Info("CONFIG", "just right")

	require.Len(t, rec.entries, 1)
	assert.Equal(t, []string{"CONFIG", "just right"}, rec.entries[0])
}

func TestGlobalExclusion(t *testing.T) {
	m := NewManager()
	rec := &recordingStream{}
	m.AddLogTypes(rec, []string{"*"}, []string{"CULLLIST"}, LevelDefault)

	m.Info("CONFIG", "seen")
	m.Info("CULLLIST", "not seen")

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "CONFIG", rec.entries[0][0])
}

func TestReentrancyGuard(t *testing.T) {
	m := NewManager()
	rec := &recordingStream{reentry: m}
	m.AddLogTypes(rec, []string{"*"}, nil, LevelDefault)

	m.Info("CONFIG", "outer")

	require.Len(t, rec.entries, 1, "the reentrant call made from inside OnLog must be suppressed")
}

func TestDelLogTypeRemovesEmptySubscription(t *testing.T) {
	m := NewManager()
	rec := &recordingStream{}
	m.AddLogTypes(rec, []string{"CONFIG"}, nil, LevelDefault)
	m.DelLogType(rec, "CONFIG")

	m.Info("CONFIG", "gone")
	assert.Empty(t, rec.entries)
}
