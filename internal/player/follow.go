package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	propertiesChanged = "org.freedesktop.DBus.Properties.PropertiesChanged"
	nameOwnerChanged  = "org.freedesktop.DBus.NameOwnerChanged"
)

// Follow prints the status line, then a new line each time it changes, until
// ctx is cancelled
func (m *Module) Follow(ctx context.Context, w io.Writer) error {
	conn, err := m.dial()
	if err != nil {
		fmt.Fprintln(w, "")
		return fmt.Errorf("session bus connection failed: %w", err)
	}
	defer m.closeConn(conn)

	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(objectPath),
		dbus.WithMatchInterface("org.freedesktop.DBus.Properties"),
		dbus.WithMatchMember("PropertiesChanged"),
	); err != nil {
		fmt.Fprintln(w, "")
		return fmt.Errorf("failed to add match signal: %w", err)
	}

	// Without this the line is not cleared when the player quits
	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface("org.freedesktop.DBus"),
		dbus.WithMatchSender("org.freedesktop.DBus"),
		dbus.WithMatchMember("NameOwnerChanged"),
		dbus.WithMatchArg(0, m.busName),
	); err != nil {
		m.logger.Warn("Failed to add NameOwnerChanged match signal", zap.Error(err))
	}

	signals := make(chan *dbus.Signal, 10)
	conn.Signal(signals)

	return m.follow(ctx, conn, signals, w)
}

// follow is the debounce loop: every relevant signal restarts the timer and
// the line is re-rendered once the bus has been quiet for m.debounce
func (m *Module) follow(ctx context.Context, conn DBusClient, signals <-chan *dbus.Signal, w io.Writer) error {
	owner, err := conn.GetNameOwner(m.busName)
	if err != nil {
		m.logger.Debug("Player not on the bus yet", zap.String("player", m.busName))
	}

	last := m.render(ctx, conn)
	if _, err := fmt.Fprintln(w, last); err != nil {
		return fmt.Errorf("write status: %w", err)
	}

	timer := time.NewTimer(m.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.Debug("Follow loop stopped")
			return nil

		case sig, ok := <-signals:
			if !ok {
				return errors.New("session bus connection closed")
			}
			if !m.relevant(sig, &owner) {
				continue
			}
			timer.Reset(m.debounce)

		case <-timer.C:
			line := m.render(ctx, conn)
			if line == last {
				continue
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return fmt.Errorf("write status: %w", err)
			}
			last = line
		}
	}
}

// relevant reports whether sig may change the status line. Ownership changes
// of the player's bus name update owner.
func (m *Module) relevant(sig *dbus.Signal, owner *string) bool {
	if sig == nil {
		return false
	}

	switch sig.Name {
	case nameOwnerChanged:
		if len(sig.Body) < 3 {
			return false
		}
		name, ok := sig.Body[0].(string)
		if !ok || name != m.busName {
			return false
		}
		newOwner, _ := sig.Body[2].(string)
		*owner = newOwner

		m.logger.Debug("Player ownership changed",
			zap.String("player", name),
			zap.String("owner", newOwner))
		return true

	case propertiesChanged:
		if *owner != "" && sig.Sender != *owner {
			return false
		}
		if len(sig.Body) < 2 {
			return false
		}
		iface, ok := sig.Body[0].(string)
		if !ok || iface != playerInterface {
			return false
		}
		changed, ok := sig.Body[1].(map[string]dbus.Variant)
		if !ok {
			return false
		}
		_, hasMetadata := changed["Metadata"]
		_, hasStatus := changed["PlaybackStatus"]
		return hasMetadata || hasStatus
	}

	return false
}
