package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/rentalmngr/internal/document"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Positive(t, cfg.ReminderInterval)
	assert.Positive(t, cfg.AlertConcurrency)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("REMINDER_INTERVAL", "15m")
	t.Setenv("ALERT_CONCURRENCY", "8")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 15*time.Minute, cfg.ReminderInterval)
	assert.Equal(t, 8, cfg.AlertConcurrency)
}

func TestLoadInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REMINDER_INTERVAL", "soon")
	t.Setenv("ALERT_CONCURRENCY", "-2")

	cfg := Load()

	assert.Equal(t, time.Hour, cfg.ReminderInterval)
	assert.Equal(t, 4, cfg.AlertConcurrency)
}

func TestLoadProfileEmptyPath(t *testing.T) {
	p, err := LoadProfile("")
	require.NoError(t, err)
	assert.Equal(t, document.DefaultProfile(), p)
}

func TestLoadProfileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("landlord_name: Carmen López\nlandlord_dni: 00000000T\ncity: Toledo\n"), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Carmen López", p.LandlordName)
	assert.Equal(t, "00000000T", p.LandlordDNI)
	assert.Equal(t, "Toledo", p.City)
	assert.Equal(t, document.DefaultProfile().AppName, p.AppName)
	assert.Equal(t, document.DefaultProfile().HouseRules, p.HouseRules)
}

func TestLoadProfileReplacesRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("house_rules:\n  - No fumar.\n"), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"No fumar."}, p.HouseRules)
}

func TestLoadProfileErrors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("city: [unclosed"), 0o600))
	_, err = LoadProfile(path)
	assert.Error(t, err)
}
