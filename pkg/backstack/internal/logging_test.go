package internal

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"warn", slog.LevelWarn},
		{"Error", slog.LevelError},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, ParseLevel(tt.raw), "level %q", tt.raw)
	}
}

func TestInternalLoggerDefaultsToError(t *testing.T) {
	ctx := context.Background()
	l := GetInternalLogger()

	require.False(t, l.Enabled(ctx, slog.LevelWarn))
	require.True(t, l.Enabled(ctx, slog.LevelError))

	SetInternalLogLevel(slog.LevelDebug)
	t.Cleanup(func() { SetInternalLogLevel(slog.LevelError) })
	require.True(t, l.Enabled(ctx, slog.LevelDebug))
}

func TestSetRawLogLevel(t *testing.T) {
	ctx := context.Background()
	SetRawLogLevel("warn")
	t.Cleanup(func() { SetLogLevel(slog.LevelInfo) })

	require.False(t, GetLogger().Enabled(ctx, slog.LevelInfo))
	require.True(t, GetLogger().Enabled(ctx, slog.LevelWarn))
}
