package command

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/genricoloni/synbar/internal/domain"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestExecRunner_Output(t *testing.T) {
	requireShell(t)

	tests := []struct {
		name        string
		cmd         domain.Command
		timeout     time.Duration
		expected    string
		expectedErr error
		errContains string
	}{
		{
			name:     "Success - Stdout Captured",
			cmd:      domain.Command{Name: "sh", Args: []string{"-c", "echo hello"}},
			expected: "hello\n",
		},
		{
			name:     "Success - Stdin Forwarded",
			cmd:      domain.Command{Name: "sh", Args: []string{"-c", "cat"}, Stdin: "a\nb"},
			expected: "a\nb",
		},
		{
			name:        "Error - Non-zero Exit Includes Stderr",
			cmd:         domain.Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}},
			errContains: "boom",
		},
		{
			name:        "Error - Binary Missing",
			cmd:         domain.Command{Name: "synbar-definitely-missing-binary"},
			expectedErr: ErrNotFound,
		},
		{
			name:        "Error - Timeout",
			cmd:         domain.Command{Name: "sh", Args: []string{"-c", "sleep 5"}},
			timeout:     100 * time.Millisecond,
			expectedErr: ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeout := tt.timeout
			if timeout == 0 {
				timeout = 5 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			runner := NewExecRunner(zap.NewNop())
			out, err := runner.Output(ctx, tt.cmd)

			if tt.expectedErr != nil || tt.errContains != "" {
				if err == nil {
					t.Fatalf("expected error, got output %q", out)
				}
				if tt.expectedErr != nil && !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("expected error '%s' to contain '%s'", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, out)
			}
		})
	}
}

func TestExecRunner_Exists(t *testing.T) {
	requireShell(t)
	runner := NewExecRunner(zap.NewNop())

	if !runner.Exists("sh") {
		t.Error("expected sh to exist")
	}
	if runner.Exists("synbar-definitely-missing-binary") {
		t.Error("expected missing binary to be reported as absent")
	}
}
