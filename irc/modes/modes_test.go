package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTarget implements FlagTarget/ParamTarget/ListTarget for tests.
type fakeTarget struct {
	modes  ModeSet
	params map[byte]string
	lists  map[byte][]ListEntry
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{params: map[byte]string{}, lists: map[byte][]ListEntry{}}
}

func (f *fakeTarget) Modes() *ModeSet { return &f.modes }
func (f *fakeTarget) GetParam(letter byte) (string, bool) {
	v, ok := f.params[letter]
	return v, ok
}
func (f *fakeTarget) SetParam(letter byte, value string) { f.params[letter] = value }
func (f *fakeTarget) ClearParam(letter byte)              { delete(f.params, letter) }
func (f *fakeTarget) ListEntries(letter byte) []ListEntry { return f.lists[letter] }
func (f *fakeTarget) AddListEntry(letter byte, e ListEntry, limit int) bool {
	if limit > 0 && len(f.lists[letter]) >= limit {
		return false
	}
	f.lists[letter] = append(f.lists[letter], e)
	return true
}
func (f *fakeTarget) RemoveListEntry(letter byte, mask string) bool {
	entries := f.lists[letter]
	for i, e := range entries {
		if e.Mask == mask {
			f.lists[letter] = append(entries[:i], entries[i+1:]...)
			return true
		}
	}
	return false
}

func TestModeLetterUniqueness(t *testing.T) {
	reg := NewRegistry(32)
	m := &SimpleMode{name: "invisible", letter: 'i', target: TargetUser}
	require.NoError(t, reg.Add(m))

	dup := &SimpleMode{name: "other", letter: 'i', target: TargetUser}
	err := reg.Add(dup)
	assert.ErrorIs(t, err, ErrLetterOccupied)

	found, ok := reg.FindMode(TargetUser, 'i')
	assert.True(t, ok)
	assert.Same(t, Handler(m), found)
}

func TestModeIDStability(t *testing.T) {
	reg := NewRegistry(4)
	m := &SimpleMode{name: "invisible", letter: 'i', target: TargetUser}
	require.NoError(t, reg.Add(m))
	id := m.ID()
	assert.GreaterOrEqual(t, id, 0)

	reg.Delete(m, nil)
	m2 := &SimpleMode{name: "other", letter: 'x', target: TargetUser}
	require.NoError(t, reg.Add(m2))
	assert.Equal(t, id, m2.ID(), "freed slot should be reused")
}

func TestParamModeRoundTrip(t *testing.T) {
	reg := NewRegistry(32)
	pm := &ParamMode{name: "key", letter: 'k', target: TargetChannel}
	require.NoError(t, reg.Add(pm))

	target := newFakeTarget()
	ctx := &ApplyContext{Registry: reg, Flag: target, Param: target, ActorLocal: false}

	applied := Process(ctx, ChangeList{{Handler: pm, Adding: true, Param: "secret"}}, Limits{})
	require.Len(t, applied, 1)
	v, ok := target.GetParam('k')
	require.True(t, ok)
	assert.Equal(t, "secret", v)

	applied = Process(ctx, ChangeList{{Handler: pm, Adding: false}}, Limits{})
	require.Len(t, applied, 1)
	_, ok = target.GetParam('k')
	assert.False(t, ok)
	assert.False(t, target.Modes().Has('k'))
}

func TestACLMonotonicity(t *testing.T) {
	reg := NewRegistry(32)
	op := &PrefixMode{name: "op", letter: 'o', prefixChar: '@', rank: 2}
	require.NoError(t, reg.Add(op))
	sm := &SimpleMode{name: "moderated", letter: 'm', target: TargetChannel, minRankSet: 2, minRankUnset: 2}

	var rejected bool
	target := newFakeTarget()
	ctx := &ApplyContext{
		Registry: reg, Flag: target, ActorLocal: true, ActorRank: 1,
		Feedback: func(reason string, c *Change) { rejected = true },
	}
	Process(ctx, ChangeList{{Handler: sm, Adding: true}}, Limits{})
	assert.True(t, rejected, "rank 1 must not satisfy minRankSet=2")

	rejected = false
	ctx.ActorRank = 2
	applied := Process(ctx, ChangeList{{Handler: sm, Adding: true}}, Limits{})
	assert.False(t, rejected)
	require.Len(t, applied, 1)
}

func TestMaskCleaningIdempotence(t *testing.T) {
	cases := []string{"nick", "host.example.com", "nick!ident", "nick@host", "nick!ident@host", "X:opaque"}
	for _, c := range cases {
		once := CleanMask(c)
		twice := CleanMask(once)
		assert.Equal(t, once, twice, "CleanMask should be idempotent for %q", c)
	}
}

func TestModeCap(t *testing.T) {
	reg := NewRegistry(32)
	sm := &SimpleMode{name: "flag", letter: 'f', target: TargetChannel}
	require.NoError(t, reg.Add(sm))

	target := newFakeTarget()
	ctx := &ApplyContext{Registry: reg, Flag: target}

	var list ChangeList
	for i := 0; i < 10; i++ {
		list = append(list, Change{Handler: sm, Adding: true})
	}
	applied := Process(ctx, list, Limits{MaxModes: 6})
	assert.Len(t, applied, 6)
}

func TestPrefixCollisionRejected(t *testing.T) {
	reg := NewRegistry(32)
	op := &PrefixMode{name: "op", letter: 'o', prefixChar: '@', rank: 2}
	require.NoError(t, reg.Add(op))
	dup := &PrefixMode{name: "admin", letter: 'a', prefixChar: '@', rank: 3}
	assert.ErrorIs(t, reg.Add(dup), ErrPrefixCollision)
}
