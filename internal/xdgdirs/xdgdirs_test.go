package xdgdirs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/programme-lv/templategen/internal/xdgdirs"
)

func TestEnvOverrides(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	t.Setenv("XDG_CONFIG_DIRS", "/etc/one"+string(filepath.ListSeparator)+"/etc/two")

	d := xdgdirs.New("templategen")
	assert.Equal(t, "/custom/config/templategen", d.ConfigDir())
	assert.Equal(t, "/custom/state/templategen", d.StateDir())
	assert.Equal(t, "/custom/cache/templategen", d.CacheDir())
	assert.Equal(t, []string{
		"/custom/config/templategen",
		"/etc/one/templategen",
		"/etc/two/templategen",
	}, d.ConfigSearchPath())
}

func TestHomeFallbacks(t *testing.T) {
	t.Setenv("HOME", "/home/alice")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("XDG_CONFIG_DIRS", "")

	d := xdgdirs.New("templategen")
	assert.Equal(t, "/home/alice/.config/templategen", d.ConfigDir())
	assert.Equal(t, "/home/alice/.local/state/templategen", d.StateDir())
	assert.Equal(t, "/home/alice/.cache/templategen", d.CacheDir())
	assert.Equal(t, []string{
		"/home/alice/.config/templategen",
		"/etc/xdg/templategen",
	}, d.ConfigSearchPath())
}

func TestEnsureDir(t *testing.T) {
	d := xdgdirs.New("templategen")
	dir := filepath.Join(t.TempDir(), "a", "b")
	assert.NoError(t, d.EnsureDir(dir))
	assert.DirExists(t, dir)
}
