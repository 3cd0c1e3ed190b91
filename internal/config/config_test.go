package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"HTTP_ADDR", "ALLOWED_ORIGINS", "REDIS_ADDR", "REDIS_DB", "MAX_PLAYERS", "ROOM_CODE_LENGTH", "SPIN_DELAY", "PHRASES_FILE", "EVENT_RATE", "EVENT_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 10, cfg.MaxPlayers)
	assert.Equal(t, 6, cfg.RoomCodeLength)
	assert.Equal(t, 2*time.Second, cfg.SpinDelay)
	assert.Empty(t, cfg.PhrasesFile)
	assert.Equal(t, 5.0, cfg.EventRate)
	assert.Equal(t, 10, cfg.EventBurst)
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ALLOWED_ORIGINS", "https://4tuna.pl, http://localhost:5173")
	t.Setenv("ROOM_CODE_LENGTH", "4")
	t.Setenv("SPIN_DELAY", "1500ms")
	t.Setenv("MAX_PLAYERS", "6")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://4tuna.pl", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, 4, cfg.RoomCodeLength)
	assert.Equal(t, 1500*time.Millisecond, cfg.SpinDelay)
	assert.Equal(t, 6, cfg.MaxPlayers)
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())

	t.Setenv("ROOM_CODE_LENGTH", "9")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("ROOM_CODE_LENGTH", "6")
	t.Setenv("SPIN_DELAY", "soon")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SPIN_DELAY", "2s")
	t.Setenv("EVENT_RATE", "-1")
	_, err = Load()
	assert.Error(t, err)
}
