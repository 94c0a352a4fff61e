//go:build linux
// +build linux

package executor

import (
	"os"
	"strings"

	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

var (
	// Ordered list of wallpaper commands to try (highest priority first).
	// Every entry must exit once the wallpaper is applied; daemons like
	// swaybg would be killed by the setter timeout.
	wallpaperCommands = []WallpaperCommand{
		// Hyprland - swww (recommended)
		{Name: "swww", Binary: "swww", Args: []string{"img", "%s"}},
		// Hyprland - hyprpaper
		{Name: "hyprpaper", Binary: "hyprctl", Args: []string{"hyprpaper", "wallpaper", ",%s"}},
		// GNOME (dark theme)
		{Name: "gnome", Binary: "gsettings", Args: []string{"set", "org.gnome.desktop.background", "picture-uri-dark", "file://%s"}},
		// Generic X11 - feh
		{Name: "feh", Binary: "feh", Args: []string{"--bg-scale", "%s"}},
		// Generic X11 - nitrogen
		{Name: "nitrogen", Binary: "nitrogen", Args: []string{"--set-zoom-fill", "%s"}},
	}
)

// detectCommand analyzes the environment to choose the best wallpaper command
func detectCommand(logger *zap.Logger, runner domain.Runner) WallpaperCommand {
	// Check environment variables for hints
	desktop := os.Getenv("XDG_CURRENT_DESKTOP")
	session := os.Getenv("XDG_SESSION_TYPE")
	wayland := os.Getenv("WAYLAND_DISPLAY")
	hyprland := os.Getenv("HYPRLAND_INSTANCE_SIGNATURE")

	logger.Debug("Detecting wallpaper command",
		zap.String("desktop", desktop),
		zap.String("session", session),
		zap.String("wayland", wayland),
		zap.String("hyprland", hyprland))

	pick := func(names ...string) (WallpaperCommand, bool) {
		for _, cmd := range wallpaperCommands {
			for _, name := range names {
				if cmd.Name == name && runner.Exists(cmd.Binary) {
					return cmd, true
				}
			}
		}
		return WallpaperCommand{}, false
	}

	// Priority-based detection
	if hyprland != "" {
		if cmd, ok := pick("swww", "hyprpaper"); ok {
			return cmd
		}
	}

	if strings.Contains(strings.ToLower(desktop), "gnome") {
		if cmd, ok := pick("gnome"); ok {
			return cmd
		}
	}

	if wayland != "" || session == "wayland" {
		if cmd, ok := pick("swww"); ok {
			return cmd
		}
	}

	// Fallback: X11 setters first, then anything available
	if cmd, ok := pick("feh", "nitrogen"); ok {
		return cmd
	}
	for _, cmd := range wallpaperCommands {
		if runner.Exists(cmd.Binary) {
			logger.Debug("Using fallback wallpaper command", zap.String("name", cmd.Name))
			return cmd
		}
	}

	return WallpaperCommand{} // No command found
}
