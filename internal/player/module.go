// Package player renders and controls an MPRIS media player over D-Bus.
package player

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"github.com/genricoloni/synbar/internal/polybar"
	"go.uber.org/zap"
)

const (
	busPrefix  = "org.mpris.MediaPlayer2."
	brandColor = "#6FB379"

	iconPrevious = "󰒮"
	iconPause    = "󰏤"
	iconPlay     = "󰐊"
	iconNext     = "󰒬"
	iconBrand    = "󰓇"

	defaultDebounce     = 250 * time.Millisecond
	defaultColorTimeout = 3 * time.Second
)

// Click actions accepted by Module.Action, mapped to MPRIS methods
var actions = map[string]string{
	"previous":  playerInterface + ".Previous",
	"next":      playerInterface + ".Next",
	"playpause": playerInterface + ".PlayPause",
}

// Module renders the player status line and forwards control actions
type Module struct {
	logger       *zap.Logger
	busName      string
	dial         Dialer
	fetcher      domain.Fetcher
	extractor    domain.ColorExtractor
	colorTimeout time.Duration
	debounce     time.Duration
	// command is the click-action prefix, e.g. "/usr/bin/synbar player"
	command string

	// last accent computed, keyed by art URL
	artURL string
	accent string
}

// NewModule creates the media-player module
func NewModule(
	logger *zap.Logger,
	cfg config.PlayerConfig,
	dial Dialer,
	fetcher domain.Fetcher,
	extractor domain.ColorExtractor,
) *Module {
	colorTimeout := cfg.ColorTimeout
	if colorTimeout <= 0 {
		colorTimeout = defaultColorTimeout
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	return &Module{
		logger:       logger,
		busName:      busPrefix + cfg.Name,
		dial:         dial,
		fetcher:      fetcher,
		extractor:    extractor,
		colorTimeout: colorTimeout,
		debounce:     debounce,
		command:      selfCommand() + " player",
	}
}

func selfCommand() string {
	exe, err := os.Executable()
	if err != nil {
		return "synbar"
	}
	return exe
}

// Display returns the status line, or an empty line when the player is absent
func (m *Module) Display(ctx context.Context) string {
	conn, err := m.dial()
	if err != nil {
		m.logger.Debug("Session bus unavailable", zap.Error(err))
		return ""
	}
	defer m.closeConn(conn)

	return m.render(ctx, conn)
}

// Action forwards a click to the player. The returned line is always empty.
func (m *Module) Action(ctx context.Context, action string) string {
	method, ok := actions[action]
	if !ok {
		m.logger.Debug("Unknown player action", zap.String("action", action))
		return ""
	}

	conn, err := m.dial()
	if err != nil {
		m.logger.Debug("Session bus unavailable", zap.Error(err))
		return ""
	}
	defer m.closeConn(conn)

	if err := conn.Call(ctx, m.busName, objectPath, method); err != nil {
		m.logger.Debug("Player action failed", zap.String("action", action), zap.Error(err))
	}
	return ""
}

// Color returns the accent colour of the current album art, or an empty line
func (m *Module) Color(ctx context.Context) string {
	conn, err := m.dial()
	if err != nil {
		m.logger.Debug("Session bus unavailable", zap.Error(err))
		return ""
	}
	defer m.closeConn(conn)

	status, err := readStatus(conn, m.busName)
	if err != nil || status != domain.StatusPlaying {
		return ""
	}

	meta, err := readMetadata(m.logger, conn, m.busName, status)
	if err != nil {
		m.logger.Debug("Metadata unavailable", zap.Error(err))
		return ""
	}

	return m.accentFor(ctx, meta)
}

func (m *Module) render(ctx context.Context, conn DBusClient) string {
	status, err := readStatus(conn, m.busName)
	if err != nil {
		m.logger.Debug("Player not running", zap.String("player", m.busName), zap.Error(err))
		return ""
	}

	parts := []string{polybar.Action(m.command+" previous", iconPrevious)}

	switch status {
	case domain.StatusPlaying:
		parts = append(parts, polybar.Action(m.command+" playpause", iconPause))
	case domain.StatusPaused:
		parts = append(parts, polybar.Action(m.command+" playpause", iconPlay))
	default:
		parts = append(parts, iconPlay)
	}

	parts = append(parts,
		polybar.Action(m.command+" next", iconNext),
		polybar.Foreground(brandColor, iconBrand))

	accent := ""
	if status == domain.StatusPlaying {
		meta, err := readMetadata(m.logger, conn, m.busName, status)
		if err != nil {
			m.logger.Debug("Metadata unavailable", zap.Error(err))
		} else {
			parts = append(parts, meta.Artist+": "+meta.Title)
			accent = m.accentFor(ctx, meta)
		}
	}

	line := strings.Join(parts, "  ")
	if accent != "" {
		line = polybar.Underline(accent, line)
	}
	return line
}

// accentFor computes the accent of meta's artwork, reusing the last result
// while the art URL is unchanged
func (m *Module) accentFor(ctx context.Context, meta domain.MediaMetadata) string {
	if meta.Status != domain.StatusPlaying || meta.ArtUrl == "" {
		return ""
	}
	if meta.ArtUrl == m.artURL {
		return m.accent
	}

	ctx, cancel := context.WithTimeout(ctx, m.colorTimeout)
	defer cancel()

	accent := ""
	data, err := m.fetcher.Fetch(ctx, meta.ArtUrl)
	if err != nil {
		m.logger.Debug("Failed to fetch artwork", zap.String("url", meta.ArtUrl), zap.Error(err))
	} else if accent, err = m.extractor.Accent(ctx, data); err != nil {
		m.logger.Debug("Failed to extract accent", zap.Error(err))
		accent = ""
	}

	if accent != "" {
		m.artURL, m.accent = meta.ArtUrl, accent
	}
	return accent
}

func (m *Module) closeConn(conn DBusClient) {
	if err := conn.Close(); err != nil {
		m.logger.Debug("Failed to close D-Bus connection", zap.Error(err))
	}
}
