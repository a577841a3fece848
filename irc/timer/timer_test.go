package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderingSameSecond(t *testing.T) {
	m := NewManager(0)
	var order []string
	m.Schedule(5, 0, false, func(now int64) bool { order = append(order, "A"); return false })
	m.Schedule(5, 0, false, func(now int64) bool { order = append(order, "B"); return false })

	m.Tick(5)
	assert.Equal(t, []string{"A", "B"}, order)
}

func TestRepeatingRearms(t *testing.T) {
	m := NewManager(0)
	fires := 0
	m.Schedule(1, 1, true, func(now int64) bool { fires++; return true })

	m.Tick(1)
	m.Tick(2)
	m.Tick(3)
	require.Equal(t, 3, fires)
	assert.Equal(t, 1, m.Pending())
}

func TestOneShotCanAskToBeKept(t *testing.T) {
	m := NewManager(0)
	calls := 0
	tmr := m.Schedule(1, 0, false, func(now int64) bool { calls++; return true })
	m.Tick(1)
	assert.Equal(t, 1, calls)
	// one-shot returning true is not repeating, so it is not re-armed by Tick itself
	assert.Equal(t, 0, m.Pending())
	_ = tmr
}

func TestRemove(t *testing.T) {
	m := NewManager(0)
	fired := false
	t1 := m.Schedule(10, 0, false, func(now int64) bool { fired = true; return false })
	m.Schedule(10, 0, false, func(now int64) bool { return false })

	ok := m.Remove(t1)
	require.True(t, ok)

	m.Tick(10)
	assert.False(t, fired)
}

func TestPendingDueNotPopped(t *testing.T) {
	m := NewManager(0)
	m.Schedule(100, 0, false, func(now int64) bool { return false })
	m.Tick(5)
	assert.Equal(t, 1, m.Pending())
}
