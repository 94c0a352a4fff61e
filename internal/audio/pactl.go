package audio

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

const (
	pactlBinary    = "pactl"
	defaultTimeout = 2 * time.Second
)

var (
	volumePattern = regexp.MustCompile(`(\d+)%`)
	sinkPattern   = regexp.MustCompile(`Sink:\s+(\S+)`)
)

// Pactl wraps the pactl command line client of PulseAudio/PipeWire
type Pactl struct {
	logger  *zap.Logger
	runner  domain.Runner
	timeout time.Duration
}

// NewPactl creates a pactl client bounded by the configured timeout
func NewPactl(logger *zap.Logger, runner domain.Runner, cfg config.AudioConfig) *Pactl {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Pactl{logger: logger, runner: runner, timeout: timeout}
}

func (p *Pactl) run(ctx context.Context, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.runner.Output(ctx, domain.Command{Name: pactlBinary, Args: args})
	if err != nil {
		return "", fmt.Errorf("pactl %s: %w", args[0], err)
	}
	return strings.TrimSpace(out), nil
}

// DefaultSink returns the name of the default sink
func (p *Pactl) DefaultSink(ctx context.Context) (string, error) {
	return p.run(ctx, "get-default-sink")
}

// SetDefaultSink makes name the default sink
func (p *Pactl) SetDefaultSink(ctx context.Context, name string) error {
	_, err := p.run(ctx, "set-default-sink", name)
	return err
}

// Sinks lists every sink known to the server
func (p *Pactl) Sinks(ctx context.Context) ([]domain.Sink, error) {
	out, err := p.run(ctx, "list", "short", "sinks")
	if err != nil {
		return nil, err
	}

	var sinks []domain.Sink
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) < 2 || fields[1] == "" {
			continue
		}
		sinks = append(sinks, domain.Sink{Index: fields[0], Name: fields[1]})
	}
	return sinks, nil
}

// SinkInputs returns the ids of the playing streams
func (p *Pactl) SinkInputs(ctx context.Context) ([]string, error) {
	out, err := p.run(ctx, "list", "short", "sink-inputs")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, line := range strings.Split(out, "\n") {
		id, _, _ := strings.Cut(line, "\t")
		if _, err := strconv.Atoi(id); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// MoveSinkInput moves a stream to sink
func (p *Pactl) MoveSinkInput(ctx context.Context, id, sink string) error {
	_, err := p.run(ctx, "move-sink-input", id, sink)
	return err
}

// ActiveSink returns the sink of the first playing stream, falling back to the
// default sink when nothing is playing
func (p *Pactl) ActiveSink(ctx context.Context) (string, error) {
	out, err := p.run(ctx, "list", "sink-inputs")
	if err != nil {
		p.logger.Debug("Could not list sink inputs", zap.Error(err))
	}

	blocks := strings.Split(out, "Sink Input #")
	for _, block := range blocks[1:] {
		if m := sinkPattern.FindStringSubmatch(block); m != nil {
			return m[1], nil
		}
	}

	return p.DefaultSink(ctx)
}

// Volume returns the volume of sink in percent, taken from the first channel
func (p *Pactl) Volume(ctx context.Context, sink string) (int, error) {
	out, err := p.run(ctx, "get-sink-volume", sink)
	if err != nil {
		return 0, err
	}

	m := volumePattern.FindStringSubmatch(out)
	if m == nil {
		return 0, nil
	}
	return strconv.Atoi(m[1])
}

// Muted reports whether sink is muted
func (p *Pactl) Muted(ctx context.Context, sink string) (bool, error) {
	out, err := p.run(ctx, "get-sink-mute", sink)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(out), "yes"), nil
}

// AdjustVolume changes the volume of sink by delta percent
func (p *Pactl) AdjustVolume(ctx context.Context, sink string, delta int) error {
	_, err := p.run(ctx, "set-sink-volume", sink, fmt.Sprintf("%+d%%", delta))
	return err
}

// ToggleMute flips the mute state of sink
func (p *Pactl) ToggleMute(ctx context.Context, sink string) error {
	_, err := p.run(ctx, "set-sink-mute", sink, "toggle")
	return err
}
