package executor

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

const (
	// pathPlaceholder is replaced with the image path in command arguments
	pathPlaceholder = "%s"
	defaultTimeout  = 5 * time.Second
)

// ErrNoSetter is returned when neither a configured nor a detected setter exists
var ErrNoSetter = errors.New("no supported wallpaper command found on this system")

// WallpaperCommand represents a detected wallpaper setter command
type WallpaperCommand struct {
	Name   string
	Binary string
	Args   []string // %s will be replaced with image path
}

// CommandExecutor sets the wallpaper by running an external setter
type CommandExecutor struct {
	logger  *zap.Logger
	runner  domain.Runner
	timeout time.Duration
	command WallpaperCommand
}

// NewExecutor creates a wallpaper executor. A configured command wins over
// platform detection. A missing setter is only reported when SetWallpaper runs,
// so modules that never touch the wallpaper are unaffected.
func NewExecutor(logger *zap.Logger, runner domain.Runner, cfg config.WallpaperConfig) *CommandExecutor {
	cmd, ok := parseCommand(cfg.Command)
	if ok {
		logger.Debug("Using configured wallpaper command",
			zap.String("binary", cmd.Binary),
			zap.Strings("args", cmd.Args))
	} else {
		cmd = detectCommand(logger, runner)
		if cmd.Binary != "" {
			logger.Debug("Wallpaper setter detected",
				zap.String("name", cmd.Name),
				zap.String("binary", cmd.Binary))
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &CommandExecutor{
		logger:  logger,
		runner:  runner,
		timeout: timeout,
		command: cmd,
	}
}

// Command returns the setter this executor will run
func (e *CommandExecutor) Command() WallpaperCommand {
	return e.command
}

// parseCommand turns a configured line like "feh --bg-fill %s" into a command.
// The image path is appended when the line has no placeholder.
func parseCommand(line string) (WallpaperCommand, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return WallpaperCommand{}, false
	}

	args := fields[1:]
	hasPlaceholder := false
	for _, arg := range args {
		if strings.Contains(arg, pathPlaceholder) {
			hasPlaceholder = true
			break
		}
	}
	if !hasPlaceholder {
		args = append(args, pathPlaceholder)
	}

	return WallpaperCommand{
		Name:   filepath.Base(fields[0]),
		Binary: fields[0],
		Args:   args,
	}, true
}

// SetWallpaper sets the desktop wallpaper to the specified image
func (e *CommandExecutor) SetWallpaper(ctx context.Context, imagePath string) error {
	if e.command.Binary == "" {
		return ErrNoSetter
	}

	args := make([]string, len(e.command.Args))
	for i, arg := range e.command.Args {
		args[i] = strings.ReplaceAll(arg, pathPlaceholder, imagePath)
	}

	e.logger.Debug("Setting wallpaper",
		zap.String("command", e.command.Binary),
		zap.Strings("args", args),
		zap.String("path", imagePath))

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	if _, err := e.runner.Output(ctx, domain.Command{Name: e.command.Binary, Args: args}); err != nil {
		return fmt.Errorf("failed to set wallpaper with %s: %w", e.command.Name, err)
	}

	e.logger.Info("Wallpaper set successfully",
		zap.String("command", e.command.Name),
		zap.String("path", imagePath))

	return nil
}
