package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gotest.tools/v3/assert"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "world.toml")
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sim]
tick_rate = "50ms"
max_ticks = 10

[logging]
level = "debug"
`)
	cfg, err := Load(path)
	assert.NilError(t, err)

	assert.Equal(t, cfg.Sim.TickRate, 50*time.Millisecond)
	assert.Equal(t, cfg.Sim.MaxTicks, uint64(10))
	assert.Equal(t, cfg.Logging.Level, "debug")
	// Untouched sections keep their defaults.
	assert.Equal(t, cfg.Sim.Name, "tickworld")
	assert.Equal(t, cfg.Logging.Format, "console")
	assert.Equal(t, cfg.Database.ConnMaxLifetime, 30*time.Minute)
	assert.Check(t, !cfg.Journal.Enabled)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero tick rate", "[sim]\ntick_rate = \"0s\"\n", "tick_rate must be positive"},
		{"journal without dsn", "[journal]\nenabled = true\n[database]\ndsn = \"\"\n", "database.dsn is empty"},
		{"journal interval", "[journal]\nenabled = true\ninterval_ticks = 0\n", "interval_ticks must be positive"},
		{"syntax", "[sim\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Check(t, errors.Is(err, fs.ErrNotExist))
}
