package domain

import "context"

// Runner executes external programs and returns their standard output.
// Callers bound each invocation through ctx.
//
//go:generate mockgen -destination=mocks/runner_mock.go -package=mocks github.com/genricoloni/synbar/internal/domain Runner
type Runner interface {
	// Output runs cmd and returns its stdout.
	// A non-zero exit status is reported as an error.
	Output(ctx context.Context, cmd Command) (string, error)

	// Exists reports whether the named binary is on PATH
	Exists(name string) bool
}

// Executor defines the interface for changing the desktop wallpaper
type Executor interface {
	// SetWallpaper sets the desktop wallpaper to the specified image path
	SetWallpaper(ctx context.Context, imagePath string) error
}

// Chooser presents newline separated choices and returns the picked line
type Chooser interface {
	// Choose blocks until the user picks a line or the chooser gives up.
	// An empty selection is reported as an error.
	Choose(ctx context.Context, prompt string, lines []string) (string, error)
}

// StateStore persists the wallpaper CycleState between invocations
type StateStore interface {
	// Load returns the persisted state. found is false when nothing readable
	// was recorded; Load never fails.
	Load() (state CycleState, found bool)

	// Save overwrites the persisted state
	Save(state CycleState) error
}

// Fetcher defines the interface for retrieving album artwork
type Fetcher interface {
	// Fetch downloads or reads image data from a URL or local path
	// Returns the raw image bytes or an error
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Notifier shows desktop notifications on a best-effort basis
type Notifier interface {
	Notify(title, body string)
}

// ColorExtractor derives a single accent colour from encoded image data
type ColorExtractor interface {
	// Accent returns the colour as #rrggbb
	Accent(ctx context.Context, imageData []byte) (string, error)
}
