package extensible

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateGetUnset(t *testing.T) {
	var r Registry
	r.Create("account", "shivaram")

	v, ok := r.Get("account")
	assert.True(t, ok)
	assert.Equal(t, "shivaram", v)

	assert.True(t, r.Unset("account"))
	_, ok = r.Get("account")
	assert.False(t, ok)
}

func TestDestroyClearsEverything(t *testing.T) {
	var r Registry
	r.Create("a", 1)
	r.Create("b", 2)
	r.Destroy()
	assert.Empty(t, r.Names())
}
