package command

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/genricoloni/synbar/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// waitDelay bounds how long we wait for a killed child to release its pipes
const waitDelay = 500 * time.Millisecond

var (
	// ErrNotFound is returned when the binary is not on PATH
	ErrNotFound = errors.New("command not found")
	// ErrTimeout is returned when the context deadline expired before the command exited
	ErrTimeout = errors.New("command timed out")
)

// ExecRunner runs external programs through os/exec
type ExecRunner struct {
	logger *zap.Logger
}

// NewExecRunner creates a runner backed by os/exec
func NewExecRunner(logger *zap.Logger) *ExecRunner {
	return &ExecRunner{logger: logger}
}

// Exists checks if a binary exists in PATH
func (r *ExecRunner) Exists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// Output runs the command and returns its stdout.
// Stderr is only used to enrich the returned error.
func (r *ExecRunner) Output(ctx context.Context, c domain.Command) (string, error) {
	if !r.Exists(c.Name) {
		return "", errors.Wrap(ErrNotFound, c.Name)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.WaitDelay = waitDelay
	if c.Stdin != "" {
		cmd.Stdin = strings.NewReader(c.Stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()

	r.logger.Debug("Command finished",
		zap.String("command", c.Name),
		zap.Strings("args", c.Args),
		zap.Duration("took", time.Since(start)),
		zap.Error(err))

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return "", errors.Wrap(ErrTimeout, c.Name)
		}
		return "", errors.Wrap(ctxErr, c.Name)
	}
	if err != nil {
		return "", errors.Wrapf(err, "%s failed (stderr: %s)", c.Name, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
