package wallpaper

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/genricoloni/synbar/internal/domain"
)

// unnumberedBase pushes files without digits behind every numbered file
const unnumberedBase = 9999

var (
	supportedFormats = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}

	leadingDigits  = regexp.MustCompile(`^\d+`)
	trailingDigits = regexp.MustCompile(`\d+$`)
)

// List returns the images in dir in cycling order.
// A missing directory is not an error and yields no entries.
func List(dir string) ([]domain.WallpaperEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list wallpapers: %w", err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		absDir = dir
	}

	// os.ReadDir sorts by file name, which fixes the order of unnumbered files
	var entries []domain.WallpaperEntry
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		ext := filepath.Ext(name)
		if ext == name || !supportedFormats[strings.ToLower(ext)] {
			continue
		}

		entries = append(entries, domain.WallpaperEntry{
			Path:   filepath.Join(absDir, name),
			Name:   name,
			Number: deriveNumber(strings.TrimSuffix(name, ext), len(entries)),
		})
	}

	slices.SortStableFunc(entries, func(a, b domain.WallpaperEntry) int {
		if c := cmp.Compare(a.Number, b.Number); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})

	for i := range entries {
		entries[i].DisplayNumber = i + 1
	}

	return entries, nil
}

// deriveNumber extracts the numeric tag of a file stem: leading digits first,
// then trailing digits. Anything else, overflow included, sorts last in
// listing order.
func deriveNumber(stem string, seen int) int {
	digits := leadingDigits.FindString(stem)
	if digits == "" {
		digits = trailingDigits.FindString(stem)
	}
	if digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			return n
		}
	}
	return unnumberedBase + seen
}

// MatchTarget resolves a 1-based target to an index. An entry whose derived
// number equals target wins; otherwise target is taken as a position.
func MatchTarget(entries []domain.WallpaperEntry, target int) (int, bool) {
	for i, e := range entries {
		if e.Number == target {
			return i, true
		}
	}
	if target >= 1 && target <= len(entries) {
		return target - 1, true
	}
	return 0, false
}
