// Package notify shows best-effort desktop notifications.
package notify

import (
	"os"
	"runtime"

	"github.com/gen2brain/beeep"
	"go.uber.org/zap"
)

// DesktopNotifier sends notifications through the desktop notification daemon
type DesktopNotifier struct {
	logger *zap.Logger
	send   func(title, body string) error
	getenv func(string) string
}

// NewDesktopNotifier creates a notifier backed by beeep
func NewDesktopNotifier(logger *zap.Logger) *DesktopNotifier {
	return &DesktopNotifier{
		logger: logger,
		send:   sendDesktop,
		getenv: os.Getenv,
	}
}

// Notify shows title and body. Empty bodies and headless sessions are skipped
// and failures are only logged.
func (n *DesktopNotifier) Notify(title, body string) {
	if body == "" {
		return
	}
	// Skip on headless Linux without DISPLAY; beeep would error
	if runtime.GOOS == "linux" && n.getenv("DISPLAY") == "" && n.getenv("WAYLAND_DISPLAY") == "" {
		n.logger.Debug("No graphical session, notification skipped", zap.String("title", title))
		return
	}
	if err := n.send(title, body); err != nil {
		n.logger.Debug("Notification failed", zap.String("title", title), zap.Error(err))
	}
}

func sendDesktop(title, body string) error {
	return beeep.Notify(title, body, "")
}
