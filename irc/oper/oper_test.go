package oper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/coregate/ircd/irc/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadConfig(t *testing.T, contents string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	cfg, err := config.Load(path, config.Options{})
	require.NoError(t, err)
	return cfg
}

func TestClassExtendsChain(t *testing.T) {
	cfg := loadConfig(t, `
<class name="base" commands="WHOIS STATS" title="IRC Operator">
<class name="admin" extends="base" commands="KILL REHASH" title="Server Admin">
`)
	classes, err := LoadClasses(cfg)
	require.NoError(t, err)

	admin := classes["admin"]
	require.NotNil(t, admin)
	assert.True(t, admin.Can("WHOIS"))
	assert.True(t, admin.Can("KILL"))
	assert.Equal(t, "Server Admin", admin.Title)
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2", 4)
	require.NoError(t, err)

	o := &Oper{PassHash: hash}
	assert.True(t, o.CheckPassword("hunter2"))
	assert.False(t, o.CheckPassword("wrong"))
}

func TestLoadOpersMissingClassErrors(t *testing.T) {
	cfg := loadConfig(t, `<oper name="alice" class="nope" password="x">`)
	_, err := LoadOpers(cfg, map[string]*Class{})
	assert.Error(t, err)
}
