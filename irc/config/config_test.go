package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestEntityExpansion(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XYZ", "envval")
	path := writeFile(t, dir, "main.conf", `
<define name="foo" value="barval">
<thing a="&#65;&#x41;&amp;&quot;" b="&env.XYZ;" c="&foo;">
`)
	cfg, err := Load(path, Options{})
	require.NoError(t, err)

	tag, ok := cfg.Tag("thing")
	require.True(t, ok)
	assert.Equal(t, "AA&\"", tag.GetString("a", ""))
	assert.Equal(t, "envval", tag.GetString("b", ""))
	assert.Equal(t, "barval", tag.GetString("c", ""))
}

func TestIncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.conf")
	bPath := filepath.Join(dir, "b.conf")
	writeFile(t, dir, "a.conf", `<include file="b.conf">`)
	writeFile(t, dir, "b.conf", `<include file="a.conf">`)

	_, err := Load(aPath, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "included recursively")
	_ = bPath
}

func TestIncludeAndTypedAccessors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "inc.conf", `<limits maxmodes="20" maxaway="10K">`)
	path := writeFile(t, dir, "main.conf", `<include file="inc.conf">`)

	cfg, err := Load(path, Options{})
	require.NoError(t, err)

	tag, ok := cfg.Tag("limits")
	require.True(t, ok)
	assert.EqualValues(t, 20, tag.GetInt("maxmodes", 6, 0, 1000))
	assert.EqualValues(t, 10*1024, tag.GetInt("maxaway", 0, 0, 1<<30))
}

func TestMandatoryTagMissing(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.conf", `<other a="1">`)
	_, err := Load(path, Options{MandatoryTag: "welcome"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mandatory tag")
}

func TestDuplicateKeyIsError(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.conf", `<tag a="1" a="2">`)
	_, err := Load(path, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestGetDurationComposite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.conf", `<svshold duration="1h30m">`)
	cfg, err := Load(path, Options{})
	require.NoError(t, err)
	tag, _ := cfg.Tag("svshold")
	assert.EqualValues(t, 3600+1800, tag.GetDuration("duration", 0, 0, 1<<30))
}
