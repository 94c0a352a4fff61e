package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/genricoloni/synbar/internal/config"
	"github.com/genricoloni/synbar/internal/domain"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// record distinguishes absent keys from zero values
type record struct {
	Index *int    `yaml:"index"`
	Path  *string `yaml:"path"`
}

// FileStore keeps the wallpaper CycleState in a small YAML file.
// JSON written by older versions is valid YAML and loads unchanged.
type FileStore struct {
	logger *zap.Logger
	path   string
}

// NewFileStore creates a store backed by the configured state file
func NewFileStore(logger *zap.Logger, cfg config.WallpaperConfig) *FileStore {
	return &FileStore{
		logger: logger,
		path:   cfg.StateFile,
	}
}

// Path returns the location of the state file
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the persisted state. Missing, unreadable and corrupt files all
// yield the zero state with found=false, as does a document carrying neither
// an index nor a path.
func (s *FileStore) Load() (domain.CycleState, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("State file unreadable, starting from first wallpaper",
				zap.String("path", s.path),
				zap.Error(err))
		}
		return domain.CycleState{}, false
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("State file corrupt, starting from first wallpaper",
			zap.String("path", s.path),
			zap.Error(err))
		return domain.CycleState{}, false
	}
	if rec.Index == nil && rec.Path == nil {
		s.logger.Warn("State file holds no position, starting from first wallpaper",
			zap.String("path", s.path))
		return domain.CycleState{}, false
	}

	var st domain.CycleState
	if rec.Index != nil {
		st.Index = *rec.Index
	}
	if rec.Path != nil {
		st.Path = *rec.Path
	}
	return st, true
}

// Save atomically replaces the state file, creating its directory if needed
func (s *FileStore) Save(st domain.CycleState) error {
	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpPath := tmp.Name()

	// Remove the temp file on any failure before the rename
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	committed = true

	s.logger.Debug("State saved",
		zap.String("path", s.path),
		zap.Int("index", st.Index),
		zap.String("wallpaper", st.Path))

	return nil
}
