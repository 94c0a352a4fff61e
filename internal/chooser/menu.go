package chooser

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// ErrNoSelection is returned when no menu produced a selection
var ErrNoSelection = errors.New("no selection")

// MenuChooser delegates to rofi, falling back to dmenu
type MenuChooser struct {
	logger  *zap.Logger
	runner  domain.Runner
	timeout time.Duration
}

// NewMenuChooser creates a chooser bounded by the configured timeout
func NewMenuChooser(logger *zap.Logger, runner domain.Runner, cfg config.WallpaperConfig) *MenuChooser {
	timeout := cfg.ChooserTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &MenuChooser{
		logger:  logger,
		runner:  runner,
		timeout: timeout,
	}
}

// Choose shows lines in the first menu that answers and returns the picked line
func (c *MenuChooser) Choose(ctx context.Context, prompt string, lines []string) (string, error) {
	input := strings.Join(lines, "\n")

	menus := []domain.Command{
		{Name: "rofi", Args: []string{"-dmenu", "-p", prompt, "-i"}, Stdin: input},
		{Name: "dmenu", Args: []string{"-l", strconv.Itoa(len(lines)), "-p", prompt}, Stdin: input},
	}

	for _, menu := range menus {
		selected, err := c.run(ctx, menu)
		if err != nil {
			c.logger.Debug("Menu gave no selection",
				zap.String("menu", menu.Name),
				zap.Error(err))
			continue
		}
		if selected != "" {
			return selected, nil
		}
	}

	return "", ErrNoSelection
}

func (c *MenuChooser) run(ctx context.Context, menu domain.Command) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.runner.Output(ctx, menu)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
