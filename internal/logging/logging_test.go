package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFromEnv(t *testing.T) {
	cases := map[string]slog.Level{
		"":      slog.LevelInfo,
		"debug": slog.LevelDebug,
		"WARN":  slog.LevelWarn,
		"error": slog.LevelError,
		"bogus": slog.LevelInfo,
	}
	for in, want := range cases {
		t.Setenv("LOG_LEVEL", in)
		assert.Equal(t, want, LevelFromEnv(), "LOG_LEVEL=%q", in)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, slog.LevelWarn)

	log.Info("hidden")
	assert.Zero(t, buf.Len())

	log.Warn("shown", "name", "Ninja")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "Ninja")
}
