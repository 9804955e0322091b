package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robosim-backend/simulation"
)

func TestDefaultsMatchEngineDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, simulation.DefaultParams(), cfg.Engine.Params())
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "", cfg.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Results.FlushInterval())
	assert.Equal(t, 1500*time.Millisecond, cfg.Announcer.Cooldown())
	assert.Equal(t, 10.0, cfg.Engine.PlanningCell)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robosim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine:\n  tick_ms: 20\n  resume_policy: cursor\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	p := cfg.Engine.Params()
	assert.Equal(t, 20*time.Millisecond, p.TickPeriod)
	assert.Equal(t, simulation.ResumeFromCursor, p.Resume)
	assert.Equal(t, 35.0, p.RobotRadius)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("engine: [1, 2"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("engine:\n  resume_policy: rewind\n"), 0o644))
	_, err = Load(invalid)
	assert.ErrorContains(t, err, "resume_policy")
}

func TestApplyEnv(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	env := map[string]string{
		"ROBOSIM_ADDR":    ":8080",
		"DB_DRIVER":       "mysql",
		"MYSQL_HOST":      "db",
		"MYSQL_PORT":      "3307",
		"MYSQL_USER":      "sim",
		"MYSQL_PASSWORD":  "secret",
		"MYSQL_DATABASE":  "robosim",
		"ROBOSIM_TICK_MS": "notanumber",
	}
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.Engine.TickMs)
	assert.Equal(t, "sim:secret@tcp(db:3307)/robosim?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.DSN())
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Database.Driver = "postgres"
	assert.ErrorContains(t, cfg.Validate(), "database.driver")

	cfg.Database.Driver = "sqlite"
	cfg.Engine.TickMs = 0
	assert.ErrorContains(t, cfg.Validate(), "tick_ms")
}
