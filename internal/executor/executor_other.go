//go:build !linux
// +build !linux

package executor

import (
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

// detectCommand finds nothing on platforms without a known setter.
// A configured wallpaper.command still works there.
func detectCommand(logger *zap.Logger, _ domain.Runner) WallpaperCommand {
	logger.Warn("Wallpaper setter detection is not implemented for this platform, set wallpaper.command")
	return WallpaperCommand{}
}
