package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileMask(t *testing.T) {
	re, err := CompileMask("nick!*@*.example.com")
	require.NoError(t, err)
	assert.True(t, re.MatchString("nick!ident@host.example.com"))
	assert.False(t, re.MatchString("other!ident@host.example.com"))
}

func TestCompileMaskSetEmpty(t *testing.T) {
	re, err := CompileMaskSet(nil)
	require.NoError(t, err)
	assert.Nil(t, re)
}

func TestParseDurationComposite(t *testing.T) {
	secs, err := ParseDuration("1w2d3h")
	require.NoError(t, err)
	assert.EqualValues(t, 7*86400+2*86400+3*3600, secs)
}

func TestParseDurationBareNumber(t *testing.T) {
	secs, err := ParseDuration("3600")
	require.NoError(t, err)
	assert.EqualValues(t, 3600, secs)
}

func TestCheckMagnitude(t *testing.T) {
	assert.EqualValues(t, 4*1024, CheckMagnitude(4, 0, 'K'))
	assert.EqualValues(t, 99, CheckMagnitude(4, 99, 'x'))
	assert.EqualValues(t, 4, CheckMagnitude(4, 99, 0))
}

func TestCheckRange(t *testing.T) {
	assert.EqualValues(t, 5, CheckRange(5, 1, 0, 10))
	assert.EqualValues(t, 1, CheckRange(50, 1, 0, 10))
}

func TestBitsetRoundTrip(t *testing.T) {
	set := make([]uint32, 2)
	changed := BitsetSet(set, 5, true)
	assert.True(t, changed)
	assert.True(t, BitsetGet(set, 5))
	changed = BitsetSet(set, 5, true)
	assert.False(t, changed)
}
