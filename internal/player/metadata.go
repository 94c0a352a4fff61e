package player

import (
	"fmt"

	"github.com/genricoloni/synbar/internal/domain"
	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"
)

const (
	objectPath      = "/org/mpris/MediaPlayer2"
	playerInterface = "org.mpris.MediaPlayer2.Player"
	metadataProp    = playerInterface + ".Metadata"
	statusProp      = playerInterface + ".PlaybackStatus"
)

// readStatus returns the PlaybackStatus of dest. An error means the player
// is not on the bus.
func readStatus(conn DBusClient, dest string) (domain.PlayerStatus, error) {
	variant, err := conn.GetProperty(dest, objectPath, statusProp)
	if err != nil {
		return "", fmt.Errorf("failed to get playback status: %w", err)
	}

	status, ok := variant.Value().(string)
	if !ok {
		return "", fmt.Errorf("invalid playback status format")
	}

	return parseStatus(status), nil
}

// readMetadata fetches the track metadata and combines it with status
func readMetadata(logger *zap.Logger, conn DBusClient, dest string, status domain.PlayerStatus) (domain.MediaMetadata, error) {
	variant, err := conn.GetProperty(dest, objectPath, metadataProp)
	if err != nil {
		return domain.MediaMetadata{Status: status}, fmt.Errorf("failed to get metadata: %w", err)
	}

	// Some players return nil or unexpected types when nothing is loaded
	metadata, ok := variant.Value().(map[string]dbus.Variant)
	if !ok {
		logger.Debug("Metadata variant is not a map, skipping", zap.String("player", dest))
		return domain.MediaMetadata{Status: status}, nil
	}

	return parseMetadata(logger, metadata, status), nil
}

func parseStatus(status string) domain.PlayerStatus {
	switch status {
	case "Playing":
		return domain.StatusPlaying
	case "Paused":
		return domain.StatusPaused
	default:
		return domain.StatusStopped
	}
}

// parseMetadata converts MPRIS metadata to domain model
func parseMetadata(logger *zap.Logger, metadata map[string]dbus.Variant, status domain.PlayerStatus) domain.MediaMetadata {
	meta := domain.MediaMetadata{Status: status}

	if metadata == nil {
		return meta
	}

	if titleVar, ok := metadata["xesam:title"]; ok {
		if title, ok := titleVar.Value().(string); ok {
			meta.Title = title
		}
	}

	// xesam:artist is a list, but some players send a plain string
	if artistVar, ok := metadata["xesam:artist"]; ok {
		switch artists := artistVar.Value().(type) {
		case []string:
			if len(artists) > 0 {
				meta.Artist = artists[0]
			}
		case string:
			meta.Artist = artists
		default:
			logger.Debug("Unexpected artist type in metadata",
				zap.String("type", fmt.Sprintf("%T", artistVar.Value())))
		}
	}

	if albumVar, ok := metadata["xesam:album"]; ok {
		if album, ok := albumVar.Value().(string); ok {
			meta.Album = album
		}
	}

	if artVar, ok := metadata["mpris:artUrl"]; ok {
		if artUrl, ok := artVar.Value().(string); ok {
			meta.ArtUrl = artUrl
		}
	}

	return meta
}
