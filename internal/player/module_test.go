package player

import (
	"context"
	"errors"
	"testing"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"github.com/genricoloni/synbar/internal/player/mocks"
	"github.com/godbus/dbus/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const (
	testBus   = "org.mpris.MediaPlayer2.spotify"
	prevTag   = "%{A1:synbar player previous:}󰒮%{A}"
	pauseTag  = "%{A1:synbar player playpause:}󰏤%{A}"
	playTag   = "%{A1:synbar player playpause:}󰐊%{A}"
	nextTag   = "%{A1:synbar player next:}󰒬%{A}"
	brandTag  = "%{F#6FB379}󰓇%{F-}"
	sampleArt = "https://i.scdn.co/image/abc"
)

// stubFetcher returns canned artwork bytes
type stubFetcher struct {
	data  []byte
	err   error
	calls int
}

func (s *stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	s.calls++
	return s.data, s.err
}

// stubExtractor returns a canned accent colour
type stubExtractor struct {
	color string
	err   error
}

func (s *stubExtractor) Accent(context.Context, []byte) (string, error) {
	return s.color, s.err
}

func newTestModule(conn DBusClient, dialErr error, fetcher domain.Fetcher, extractor domain.ColorExtractor) *Module {
	dial := func() (DBusClient, error) {
		if dialErr != nil {
			return nil, dialErr
		}
		return conn, nil
	}
	m := NewModule(zap.NewNop(), config.PlayerConfig{Name: "spotify"}, dial, fetcher, extractor)
	m.command = "synbar player"
	return m
}

func trackMetadata(artist, title, art string) dbus.Variant {
	return dbus.MakeVariant(map[string]dbus.Variant{
		"xesam:title":  dbus.MakeVariant(title),
		"xesam:artist": dbus.MakeVariant([]string{artist}),
		"mpris:artUrl": dbus.MakeVariant(art),
	})
}

func TestModule_Display(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockDBusClient)
		fetcher   *stubFetcher
		extractor *stubExtractor
		expected  string
	}{
		{
			name: "Playing With Accent",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(trackMetadata("Queen", "Bohemian Rhapsody", sampleArt), nil)
			},
			fetcher:   &stubFetcher{data: []byte("img")},
			extractor: &stubExtractor{color: "#aa3311"},
			expected:  "%{u#aa3311}%{+u}" + prevTag + "  " + pauseTag + "  " + nextTag + "  " + brandTag + "  Queen: Bohemian Rhapsody%{-u}",
		},
		{
			name: "Playing Without Artwork",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(trackMetadata("Queen", "Bohemian Rhapsody", ""), nil)
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
			expected:  prevTag + "  " + pauseTag + "  " + nextTag + "  " + brandTag + "  Queen: Bohemian Rhapsody",
		},
		{
			name: "Playing Artwork Fetch Fails",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(trackMetadata("A", "B", sampleArt), nil)
			},
			fetcher:   &stubFetcher{err: errors.New("timeout")},
			extractor: &stubExtractor{color: "#ffffff"},
			expected:  prevTag + "  " + pauseTag + "  " + nextTag + "  " + brandTag + "  A: B",
		},
		{
			name: "Playing Metadata Unreadable",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(dbus.Variant{}, errors.New("no reply"))
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
			expected:  prevTag + "  " + pauseTag + "  " + nextTag + "  " + brandTag,
		},
		{
			name: "Paused Shows Play Without Track",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Paused"), nil)
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
			expected:  prevTag + "  " + playTag + "  " + nextTag + "  " + brandTag,
		},
		{
			name: "Stopped Shows Inert Play",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Stopped"), nil)
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
			expected:  prevTag + "  󰐊  " + nextTag + "  " + brandTag,
		},
		{
			name: "Player Not Running",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).
					Return(dbus.Variant{}, errors.New("org.freedesktop.DBus.Error.ServiceUnknown"))
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
			expected:  "",
		},
		{
			name: "Invalid Status Type",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant(42), nil)
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			conn := mocks.NewMockDBusClient(ctrl)
			tt.setupMock(conn)
			conn.EXPECT().Close().Return(nil)

			m := newTestModule(conn, nil, tt.fetcher, tt.extractor)

			if got := m.Display(context.Background()); got != tt.expected {
				t.Errorf("expected\n%q\ngot\n%q", tt.expected, got)
			}
		})
	}
}

func TestModule_DisplayNoSessionBus(t *testing.T) {
	m := newTestModule(nil, errors.New("no DBUS_SESSION_BUS_ADDRESS"), &stubFetcher{}, &stubExtractor{})

	if got := m.Display(context.Background()); got != "" {
		t.Errorf("expected empty line, got %q", got)
	}
}

func TestModule_Action(t *testing.T) {
	tests := []struct {
		action string
		method string
	}{
		{"previous", "org.mpris.MediaPlayer2.Player.Previous"},
		{"next", "org.mpris.MediaPlayer2.Player.Next"},
		{"playpause", "org.mpris.MediaPlayer2.Player.PlayPause"},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			conn := mocks.NewMockDBusClient(ctrl)
			conn.EXPECT().Call(gomock.Any(), testBus, objectPath, tt.method).Return(nil)
			conn.EXPECT().Close().Return(nil)

			m := newTestModule(conn, nil, &stubFetcher{}, &stubExtractor{})

			if got := m.Action(context.Background(), tt.action); got != "" {
				t.Errorf("expected empty line, got %q", got)
			}
		})
	}
}

func TestModule_ActionFailuresAreSwallowed(t *testing.T) {
	t.Run("Call Error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		conn := mocks.NewMockDBusClient(ctrl)
		conn.EXPECT().Call(gomock.Any(), testBus, objectPath, gomock.Any()).Return(errors.New("service unknown"))
		conn.EXPECT().Close().Return(nil)

		m := newTestModule(conn, nil, &stubFetcher{}, &stubExtractor{})
		if got := m.Action(context.Background(), "next"); got != "" {
			t.Errorf("expected empty line, got %q", got)
		}
	})

	t.Run("Unknown Action Does Not Dial", func(t *testing.T) {
		dialed := false
		m := newTestModule(nil, nil, &stubFetcher{}, &stubExtractor{})
		m.dial = func() (DBusClient, error) {
			dialed = true
			return nil, errors.New("unexpected")
		}

		if got := m.Action(context.Background(), "shuffle"); got != "" {
			t.Errorf("expected empty line, got %q", got)
		}
		if dialed {
			t.Error("expected no bus connection for an unknown action")
		}
	})
}

func TestModule_Color(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(*mocks.MockDBusClient)
		fetcher   *stubFetcher
		extractor *stubExtractor
		expected  string
	}{
		{
			name: "Playing With Artwork",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(trackMetadata("A", "B", sampleArt), nil)
			},
			fetcher:   &stubFetcher{data: []byte("img")},
			extractor: &stubExtractor{color: "#3366cc"},
			expected:  "#3366cc",
		},
		{
			name: "Paused",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Paused"), nil)
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{color: "#3366cc"},
		},
		{
			name: "No Art URL",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(trackMetadata("A", "B", ""), nil)
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{color: "#3366cc"},
		},
		{
			name: "Decode Fails",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.MakeVariant("Playing"), nil)
				m.EXPECT().GetProperty(testBus, objectPath, metadataProp).Return(trackMetadata("A", "B", sampleArt), nil)
			},
			fetcher:   &stubFetcher{data: []byte("garbage")},
			extractor: &stubExtractor{err: errors.New("failed to decode image")},
		},
		{
			name: "Player Absent",
			setupMock: func(m *mocks.MockDBusClient) {
				m.EXPECT().GetProperty(testBus, objectPath, statusProp).Return(dbus.Variant{}, errors.New("service unknown"))
			},
			fetcher:   &stubFetcher{},
			extractor: &stubExtractor{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			conn := mocks.NewMockDBusClient(ctrl)
			tt.setupMock(conn)
			conn.EXPECT().Close().Return(nil)

			m := newTestModule(conn, nil, tt.fetcher, tt.extractor)

			if got := m.Color(context.Background()); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestModule_AccentIsCachedPerArtwork(t *testing.T) {
	fetcher := &stubFetcher{data: []byte("img")}
	m := newTestModule(nil, nil, fetcher, &stubExtractor{color: "#123456"})
	meta := domain.MediaMetadata{Status: domain.StatusPlaying, ArtUrl: sampleArt}

	for i := 0; i < 3; i++ {
		if got := m.accentFor(context.Background(), meta); got != "#123456" {
			t.Fatalf("expected #123456, got %q", got)
		}
	}
	if fetcher.calls != 1 {
		t.Errorf("expected one fetch for unchanged artwork, got %d", fetcher.calls)
	}

	meta.ArtUrl = sampleArt + "-next"
	m.accentFor(context.Background(), meta)
	if fetcher.calls != 2 {
		t.Errorf("expected refetch for new artwork, got %d fetches", fetcher.calls)
	}
}

func TestModule_FailedAccentIsRetried(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("offline")}
	m := newTestModule(nil, nil, fetcher, &stubExtractor{color: "#123456"})
	meta := domain.MediaMetadata{Status: domain.StatusPlaying, ArtUrl: sampleArt}

	if got := m.accentFor(context.Background(), meta); got != "" {
		t.Fatalf("expected no accent while offline, got %q", got)
	}

	fetcher.err = nil
	fetcher.data = []byte("img")
	if got := m.accentFor(context.Background(), meta); got != "#123456" {
		t.Errorf("expected accent after recovery, got %q", got)
	}
}
