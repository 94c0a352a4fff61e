package wallpaper

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

// Actions accepted by Controller.Run
const (
	ActionDisplay    = ""
	ActionNext       = "next"
	ActionPrev       = "prev"
	ActionScrollUp   = "scroll-up"
	ActionScrollDown = "scroll-down"
	ActionSelect     = "select"
	ActionSetPrefix  = "set:"
)

const (
	selectPrompt    = "Select Wallpaper:"
	currentMarker   = "✓ "
	otherMarker     = "  "
	maxNameDistance = 2
)

var firstDigits = regexp.MustCompile(`\d+`)

// Controller combines the directory ordering with the persisted CycleState
type Controller struct {
	logger  *zap.Logger
	dir     string
	icon    string
	store   domain.StateStore
	setter  domain.Executor
	chooser domain.Chooser
}

// NewController creates the wallpaper cycle controller
func NewController(
	logger *zap.Logger,
	cfg config.WallpaperConfig,
	store domain.StateStore,
	setter domain.Executor,
	chooser domain.Chooser,
) *Controller {
	return &Controller{
		logger:  logger,
		dir:     cfg.Dir,
		icon:    cfg.Icon,
		store:   store,
		setter:  setter,
		chooser: chooser,
	}
}

// Run performs one action and returns the status line.
// It never fails: every error path degrades to reporting the current position.
func (c *Controller) Run(ctx context.Context, action string) string {
	entries, err := List(c.dir)
	if err != nil {
		c.logger.Warn("Could not read wallpaper directory", zap.String("dir", c.dir), zap.Error(err))
	}
	if len(entries) == 0 {
		return c.prefix("No wallpapers")
	}

	st, found := c.store.Load()
	current := resolveIndex(entries, st)

	c.logger.Debug("Wallpaper action",
		zap.String("action", action),
		zap.Int("current", current),
		zap.Int("count", len(entries)),
		zap.Bool("stateFound", found))

	switch {
	case action == ActionNext || action == ActionScrollUp:
		return c.apply(ctx, entries, wrap(current+1, len(entries)), current)
	case action == ActionPrev || action == ActionScrollDown:
		return c.apply(ctx, entries, wrap(current-1, len(entries)), current)
	case strings.HasPrefix(action, ActionSetPrefix):
		return c.set(ctx, entries, current, strings.TrimPrefix(action, ActionSetPrefix))
	case action == ActionSelect:
		return c.selectInteractive(ctx, entries, current)
	case action == ActionDisplay:
		if !found {
			// First run: bind the state to the first entry
			return c.apply(ctx, entries, 0, 0)
		}
		return c.report(entries, current)
	default:
		c.logger.Debug("Unknown wallpaper action, reporting position", zap.String("action", action))
		return c.report(entries, current)
	}
}

func (c *Controller) set(ctx context.Context, entries []domain.WallpaperEntry, current int, raw string) string {
	target, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		c.logger.Debug("Invalid set target", zap.String("target", raw))
		return c.report(entries, current)
	}

	idx, ok := MatchTarget(entries, target)
	if !ok {
		c.logger.Debug("No wallpaper matches target", zap.Int("target", target))
		return c.report(entries, current)
	}

	return c.apply(ctx, entries, idx, current)
}

func (c *Controller) selectInteractive(ctx context.Context, entries []domain.WallpaperEntry, current int) string {
	selected, err := c.chooser.Choose(ctx, selectPrompt, Menu(entries, current))
	if err != nil {
		c.logger.Debug("Wallpaper selection aborted", zap.Error(err))
		return c.report(entries, current)
	}

	idx, ok := resolveSelection(entries, selected)
	if !ok {
		c.logger.Debug("Selection matches no wallpaper", zap.String("selected", selected))
		return c.report(entries, current)
	}

	return c.apply(ctx, entries, idx, current)
}

// apply sets entries[target] and persists it. On setter failure nothing is
// persisted and the previous position is reported.
func (c *Controller) apply(ctx context.Context, entries []domain.WallpaperEntry, target, current int) string {
	entry := entries[target]

	if err := c.setter.SetWallpaper(ctx, entry.Path); err != nil {
		c.logger.Warn("Failed to set wallpaper", zap.String("path", entry.Path), zap.Error(err))
		return c.report(entries, current)
	}

	if err := c.store.Save(domain.CycleState{Index: target, Path: entry.Path}); err != nil {
		c.logger.Warn("Failed to persist wallpaper state", zap.Error(err))
	}

	return c.report(entries, target)
}

func (c *Controller) report(entries []domain.WallpaperEntry, index int) string {
	return c.prefix(fmt.Sprintf("%d/%d", entries[index].DisplayNumber, len(entries)))
}

func (c *Controller) prefix(text string) string {
	if c.icon == "" {
		return text
	}
	return c.icon + " " + text
}

// Menu renders one chooser line per entry, marking the current one
func Menu(entries []domain.WallpaperEntry, current int) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		marker := otherMarker
		if i == current {
			marker = currentMarker
		}
		lines[i] = marker + menuLabel(e)
	}
	return lines
}

func menuLabel(e domain.WallpaperEntry) string {
	return fmt.Sprintf("%d. %s", e.DisplayNumber, e.Name)
}

// resolveIndex maps persisted state onto the current ordering. The stored path
// wins so the pointer follows its file when the directory changes; otherwise
// the stored index is clamped.
func resolveIndex(entries []domain.WallpaperEntry, st domain.CycleState) int {
	if st.Path != "" {
		for i, e := range entries {
			if e.Path == st.Path {
				return i
			}
		}
	}
	switch {
	case st.Index < 0:
		return 0
	case st.Index >= len(entries):
		return len(entries) - 1
	default:
		return st.Index
	}
}

// resolveSelection maps a chooser result to an entry. A picked menu line
// resolves to the entry it names; typed input with digits follows set
// semantics and anything else is matched as a file name.
func resolveSelection(entries []domain.WallpaperEntry, selected string) (int, bool) {
	label := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(selected), strings.TrimSpace(currentMarker)))
	for i, e := range entries {
		if label == menuLabel(e) {
			return i, true
		}
	}

	if digits := firstDigits.FindString(selected); digits != "" {
		target, err := strconv.Atoi(digits)
		if err != nil {
			return 0, false
		}
		return MatchTarget(entries, target)
	}
	return matchName(entries, strings.TrimSpace(selected))
}

// matchName finds the entry closest to a typed name, exact matches first
func matchName(entries []domain.WallpaperEntry, typed string) (int, bool) {
	typed = strings.ToLower(typed)
	if typed == "" {
		return 0, false
	}

	best, bestDistance := -1, maxNameDistance+1
	for i, e := range entries {
		name := strings.ToLower(e.Name)
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if typed == name || typed == stem {
			return i, true
		}
		d := min(levenshtein.ComputeDistance(typed, name), levenshtein.ComputeDistance(typed, stem))
		if d < bestDistance {
			best, bestDistance = i, d
		}
	}

	return best, best >= 0
}

// wrap is a true modulo so that -1 maps to n-1
func wrap(i, n int) int {
	return ((i % n) + n) % n
}
