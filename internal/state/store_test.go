package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "dir", ".wallpaper_state")
	return NewFileStore(zap.NewNop(), config.WallpaperConfig{StateFile: path})
}

func TestFileStore_Load(t *testing.T) {
	tests := []struct {
		name          string
		content       *string
		expectedFound bool
		expected      domain.CycleState
	}{
		{
			name:          "Missing File",
			content:       nil,
			expectedFound: false,
		},
		{
			name:          "YAML Record",
			content:       ptr("index: 4\npath: /walls/5.png\n"),
			expectedFound: true,
			expected:      domain.CycleState{Index: 4, Path: "/walls/5.png"},
		},
		{
			name:          "Legacy JSON Record",
			content:       ptr(`{"index": 2, "path": "/walls/3.jpg"}`),
			expectedFound: true,
			expected:      domain.CycleState{Index: 2, Path: "/walls/3.jpg"},
		},
		{
			name:          "Corrupt Content",
			content:       ptr("{index: [unterminated"),
			expectedFound: false,
		},
		{
			name:          "Empty File",
			content:       ptr(""),
			expectedFound: false,
		},
		{
			name:          "Null Document",
			content:       ptr("null\n"),
			expectedFound: false,
		},
		{
			name:          "Unrelated Keys",
			content:       ptr("foo: 1\n"),
			expectedFound: false,
		},
		{
			name:          "Index Only",
			content:       ptr("index: 0\n"),
			expectedFound: true,
			expected:      domain.CycleState{Index: 0},
		},
		{
			name:          "Path Only",
			content:       ptr("path: /walls/2.png\n"),
			expectedFound: true,
			expected:      domain.CycleState{Path: "/walls/2.png"},
		},
		{
			name:          "Wrong Field Type",
			content:       ptr("index: not-a-number\n"),
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			if tt.content != nil {
				if err := os.MkdirAll(filepath.Dir(store.Path()), 0o755); err != nil {
					t.Fatal(err)
				}
				if err := os.WriteFile(store.Path(), []byte(*tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			st, found := store.Load()
			if found != tt.expectedFound {
				t.Errorf("found: expected %v, got %v", tt.expectedFound, found)
			}
			if st != tt.expected {
				t.Errorf("state: expected %+v, got %+v", tt.expected, st)
			}
		})
	}
}

func TestFileStore_SaveCreatesDirectoryAndRoundTrips(t *testing.T) {
	store := newTestStore(t)
	want := domain.CycleState{Index: 7, Path: "/walls/with spaces/8.webp"}

	if err := store.Save(want); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, found := store.Load()
	if !found {
		t.Fatal("expected saved state to be found")
	}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}

	// Overwrite, no temp files left behind
	if err := store.Save(domain.CycleState{Index: 0, Path: "/walls/1.png"}); err != nil {
		t.Fatalf("second save failed: %v", err)
	}
	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("expected only the state file, found %v", names)
	}

	got, _ = store.Load()
	if got.Index != 0 || got.Path != "/walls/1.png" {
		t.Errorf("expected overwritten state, got %+v", got)
	}
}

func ptr(s string) *string { return &s }
