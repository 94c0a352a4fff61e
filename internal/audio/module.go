// Package audio renders and controls the PulseAudio/PipeWire output through
// pactl.
package audio

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"github.com/genricoloni/synbar/internal/polybar"
	"go.uber.org/zap"
)

// Actions accepted by Module.Run
const (
	ActionDisplay    = ""
	ActionAudio      = "audio"
	ActionChangeSink = "change-sink"
	ActionVolumeUp   = "vol-up"
	ActionVolumeDown = "vol-down"
	ActionMute       = "mute"
)

const (
	colorGray   = "#858585"
	colorGreen  = "#98C379"
	colorYellow = "#D19A66"
	colorRed    = "#E06C75"

	iconSpeakers   = "󰕾"
	iconHeadphones = "󰋋"
	iconMuted      = "󰝟"

	notifyTitle = "Audio output"
)

// Module is the status-bar audio indicator
type Module struct {
	logger   *zap.Logger
	pactl    *Pactl
	notifier domain.Notifier
	sinks    []string
	step     int
	notify   bool
}

// NewModule creates the audio module
func NewModule(logger *zap.Logger, cfg config.AudioConfig, pactl *Pactl, notifier domain.Notifier) *Module {
	return &Module{
		logger:   logger,
		pactl:    pactl,
		notifier: notifier,
		sinks:    cfg.Sinks,
		step:     cfg.Step,
		notify:   cfg.Notify,
	}
}

// Run performs action and returns the status line
func (m *Module) Run(ctx context.Context, action string) string {
	switch action {
	case ActionChangeSink:
		m.changeSink(ctx)
	case ActionVolumeUp:
		m.adjust(ctx, m.step)
	case ActionVolumeDown:
		m.adjust(ctx, -m.step)
	case ActionMute:
		m.toggleMute(ctx)
	case ActionDisplay, ActionAudio:
	default:
		m.logger.Debug("Unknown audio action, reporting state", zap.String("action", action))
	}
	return m.display(ctx)
}

func (m *Module) display(ctx context.Context) string {
	sink, err := m.pactl.DefaultSink(ctx)
	if err != nil || sink == "" {
		m.logger.Debug("No default sink", zap.Error(err))
		return polybar.Color(colorGray) + iconMuted + " No Audio" + polybar.ColorReset
	}

	active, err := m.pactl.ActiveSink(ctx)
	if err != nil || active == "" {
		active = sink
	}

	vol, err := m.pactl.Volume(ctx, active)
	if err != nil {
		return m.errorLine(err)
	}
	muted, err := m.pactl.Muted(ctx, active)
	if err != nil {
		return m.errorLine(err)
	}

	icon := sinkIcon(sink)
	if muted {
		icon = iconMuted
	}

	return fmt.Sprintf("%s %s %s %d%%%s",
		polybar.Color(volumeColor(vol, muted)), icon, DeviceName(sink), vol, polybar.ColorReset)
}

func (m *Module) errorLine(err error) string {
	m.logger.Warn("Failed to read audio state", zap.Error(err))
	return polybar.Color(colorGray) + iconMuted + " Error" + polybar.ColorReset
}

// changeSink makes the next sink in the rotation the default and moves the
// playing streams over to it
func (m *Module) changeSink(ctx context.Context) {
	current, err := m.pactl.DefaultSink(ctx)
	if err != nil || current == "" {
		m.logger.Debug("No default sink to change from", zap.Error(err))
		return
	}

	rotation := m.sinks
	if len(rotation) == 0 {
		sinks, err := m.pactl.Sinks(ctx)
		if err != nil {
			m.logger.Warn("Failed to list sinks", zap.Error(err))
			return
		}
		for _, s := range sinks {
			rotation = append(rotation, s.Name)
		}
	}
	if len(rotation) == 0 {
		return
	}

	next := rotation[(slices.Index(rotation, current)+1)%len(rotation)]
	if next == current {
		return
	}

	if err := m.pactl.SetDefaultSink(ctx, next); err != nil {
		m.logger.Warn("Failed to change default sink", zap.String("sink", next), zap.Error(err))
		return
	}

	inputs, err := m.pactl.SinkInputs(ctx)
	if err != nil {
		m.logger.Debug("Could not list streams", zap.Error(err))
	}
	for _, id := range inputs {
		if err := m.pactl.MoveSinkInput(ctx, id, next); err != nil {
			m.logger.Debug("Failed to move stream", zap.String("id", id), zap.Error(err))
		}
	}

	m.logger.Debug("Default sink changed", zap.String("from", current), zap.String("to", next))

	if m.notify {
		m.notifier.Notify(notifyTitle, DeviceName(next))
	}
}

func (m *Module) adjust(ctx context.Context, delta int) {
	sink, err := m.pactl.ActiveSink(ctx)
	if err != nil || sink == "" {
		m.logger.Debug("No sink to adjust", zap.Error(err))
		return
	}
	if err := m.pactl.AdjustVolume(ctx, sink, delta); err != nil {
		m.logger.Warn("Failed to change volume", zap.String("sink", sink), zap.Error(err))
	}
}

func (m *Module) toggleMute(ctx context.Context) {
	sink, err := m.pactl.ActiveSink(ctx)
	if err != nil || sink == "" {
		m.logger.Debug("No sink to mute", zap.Error(err))
		return
	}
	if err := m.pactl.ToggleMute(ctx, sink); err != nil {
		m.logger.Warn("Failed to toggle mute", zap.String("sink", sink), zap.Error(err))
	}
}

func sinkIcon(sink string) string {
	lower := strings.ToLower(sink)
	if strings.Contains(lower, "usb") || strings.Contains(lower, "corsair") {
		return iconHeadphones
	}
	return iconSpeakers
}

func volumeColor(vol int, muted bool) string {
	switch {
	case muted:
		return colorGray
	case vol < 30:
		return colorGreen
	case vol < 70:
		return colorYellow
	default:
		return colorRed
	}
}

// DeviceName turns a pactl sink name into a short label
func DeviceName(sink string) string {
	if sink == "" {
		return "Unknown"
	}

	lower := strings.ToLower(sink)
	for _, hint := range []string{"usb", "corsair", "headphone"} {
		if strings.Contains(lower, hint) {
			return "Headphones"
		}
	}
	for _, hint := range []string{"pci", "sofhdadsp", "platform"} {
		if strings.Contains(lower, hint) {
			return "Speakers"
		}
	}

	name, _, _ := strings.Cut(strings.TrimPrefix(sink, "alsa_output."), ".")
	name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
	if r := []rune(name); len(r) > 15 {
		name = string(r[:12]) + "..."
	}
	if name == "" {
		return "Audio"
	}
	return name
}
