//go:build linux

package executor

import (
	"testing"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain/mocks"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestDetectCommand(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		available []string
		expected  string
	}{
		{
			name:      "Hyprland Prefers swww",
			env:       map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc"},
			available: []string{"feh", "swww", "hyprctl"},
			expected:  "swww",
		},
		{
			name:      "Hyprland Falls Back To hyprpaper",
			env:       map[string]string{"HYPRLAND_INSTANCE_SIGNATURE": "abc"},
			available: []string{"hyprctl"},
			expected:  "hyprpaper",
		},
		{
			name:      "GNOME Uses gsettings",
			env:       map[string]string{"XDG_CURRENT_DESKTOP": "ubuntu:GNOME"},
			available: []string{"gsettings", "feh"},
			expected:  "gnome",
		},
		{
			name:      "X11 Prefers feh",
			env:       map[string]string{"XDG_SESSION_TYPE": "x11"},
			available: []string{"nitrogen", "feh", "gsettings"},
			expected:  "feh",
		},
		{
			name:      "Nothing Installed",
			env:       map[string]string{},
			available: nil,
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"XDG_CURRENT_DESKTOP", "XDG_SESSION_TYPE", "WAYLAND_DISPLAY", "HYPRLAND_INSTANCE_SIGNATURE"} {
				t.Setenv(key, tt.env[key])
			}

			ctrl := gomock.NewController(t)
			runner := mocks.NewMockRunner(ctrl)
			runner.EXPECT().Exists(gomock.Any()).DoAndReturn(func(name string) bool {
				for _, a := range tt.available {
					if a == name {
						return true
					}
				}
				return false
			}).AnyTimes()

			exec := NewExecutor(zap.NewNop(), runner, config.WallpaperConfig{})
			if got := exec.Command().Name; got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}
