package logger

import (
	"testing"

	"esports-schedule/internal/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "debug", level: "debug", want: zerolog.DebugLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
		{name: "error", level: "error", want: zerolog.ErrorLevel},
		{name: "mixed case", level: "Debug", want: zerolog.DebugLevel},
		{name: "unknown falls back to info", level: "verbose", want: zerolog.InfoLevel},
		{name: "empty falls back to info", level: "", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNew_UsesConfiguredLevel(t *testing.T) {
	t.Parallel()

	log := New(&config.Config{LogLevel: "debug"})
	assert.Equal(t, zerolog.DebugLevel, log.GetLevel())

	log = New(&config.Config{LogLevel: "nonsense"})
	assert.Equal(t, zerolog.InfoLevel, log.GetLevel())
}
