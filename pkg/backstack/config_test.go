package backstack_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BrandonKowalski/backstack/pkg/backstack"
)

func TestParseOptions(t *testing.T) {
	opts, err := backstack.ParseOptions(`
guard_window = "750ms"
log_level = "warn"
flip_face_buttons = true
back_device = "/dev/input/event3"
back_keys = ["BTN_SELECT"]
`)
	require.NoError(t, err)
	require.Equal(t, 750*time.Millisecond, opts.GuardWindow)
	require.Equal(t, "warn", opts.LogLevel)
	require.True(t, opts.FlipFaceButtons)
	require.Equal(t, "/dev/input/event3", opts.BackDevice)
	require.Equal(t, []string{"BTN_SELECT"}, opts.BackKeys)
}

func TestParseOptionsEmpty(t *testing.T) {
	opts, err := backstack.ParseOptions("")
	require.NoError(t, err)
	require.Equal(t, backstack.Options{}, opts)
}

func TestParseOptionsRejects(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"unknown key", `guard = "1s"`, "unknown keys: guard"},
		{"bad duration", `guard_window = "soon"`, "guard_window"},
		{"bad key name", `back_keys = ["KEY_WHATEVER"]`, "KEY_WHATEVER"},
		{"not toml", `guard_window = `, "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := backstack.ParseOptions(tt.data)
			require.Error(t, err)
			require.True(t, backstack.IsConfigError(err))
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backstack.toml")
	require.NoError(t, os.WriteFile(path, []byte("guard_window = \"2s\"\nlog_path = \"/tmp/bs.log\"\n"), 0o644))

	opts, err := backstack.LoadOptions(path)
	require.NoError(t, err)
	require.Equal(t, 2*time.Second, opts.GuardWindow)
	require.Equal(t, "/tmp/bs.log", opts.LogPath)
}

func TestLoadOptionsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	_, err := backstack.LoadOptions(path)

	var cfgErr *backstack.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	require.Equal(t, path, cfgErr.Path)
	require.ErrorIs(t, err, os.ErrNotExist)
}
