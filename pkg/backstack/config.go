package backstack

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/BrandonKowalski/backstack/pkg/backstack/input"
)

// fileOptions is the TOML shape of Options.
//
//	guard_window = "1s"
//	log_path = "logs/backstack.log"
//	log_level = "info"
//	flip_face_buttons = false
//	back_device = "/dev/input/event1"
//	back_keys = ["KEY_BACK", "KEY_ESC"]
type fileOptions struct {
	GuardWindow     string   `toml:"guard_window"`
	LogPath         string   `toml:"log_path"`
	LogLevel        string   `toml:"log_level"`
	FlipFaceButtons bool     `toml:"flip_face_buttons"`
	BackDevice      string   `toml:"back_device"`
	BackKeys        []string `toml:"back_keys"`
}

// LoadOptions reads Options from a TOML file. Unknown keys are rejected.
func LoadOptions(path string) (Options, error) {
	var f fileOptions
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return Options{}, &ConfigError{Path: path, Err: err}
	}
	return f.options(path, md)
}

// ParseOptions reads Options from TOML text.
func ParseOptions(data string) (Options, error) {
	var f fileOptions
	md, err := toml.Decode(data, &f)
	if err != nil {
		return Options{}, &ConfigError{Err: err}
	}
	return f.options("", md)
}

func (f fileOptions) options(path string, md toml.MetaData) (Options, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Options{}, &ConfigError{Path: path, Err: fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))}
	}

	opts := Options{
		LogPath:         f.LogPath,
		LogLevel:        f.LogLevel,
		FlipFaceButtons: f.FlipFaceButtons,
		BackDevice:      f.BackDevice,
		BackKeys:        f.BackKeys,
	}

	if f.GuardWindow != "" {
		d, err := time.ParseDuration(f.GuardWindow)
		if err != nil {
			return Options{}, &ConfigError{Path: path, Err: fmt.Errorf("guard_window: %w", err)}
		}
		opts.GuardWindow = d
	}

	if _, err := input.ParseEvdevKeys(f.BackKeys); err != nil {
		return Options{}, &ConfigError{Path: path, Err: fmt.Errorf("back_keys: %w", err)}
	}

	return opts, nil
}
