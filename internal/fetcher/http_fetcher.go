package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/genricoloni/synbar/internal/config"
	"go.uber.org/zap"
)

const (
	_maxImageSize   = 10 * 1024 * 1024 // 10 MB
	_defaultTimeout = 2 * time.Second
)

// ArtFetcher retrieves album artwork from HTTP/HTTPS URLs, file:// URLs and
// plain local paths
type ArtFetcher struct {
	logger *zap.Logger
	client *http.Client
}

// NewArtFetcher creates a fetcher bounded by the configured fetch timeout
func NewArtFetcher(logger *zap.Logger, cfg config.PlayerConfig) *ArtFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = _defaultTimeout
	}
	return &ArtFetcher{
		logger: logger,
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch returns the raw image bytes behind location
func (f *ArtFetcher) Fetch(ctx context.Context, location string) ([]byte, error) {
	switch {
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return f.fetchHTTP(ctx, location)
	case strings.HasPrefix(location, "file://"):
		u, err := url.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("invalid file url: %w", err)
		}
		return f.readFile(u.Path)
	case strings.HasPrefix(location, "/"):
		return f.readFile(location)
	default:
		return nil, fmt.Errorf("unsupported artwork location: %q", location)
	}
}

func (f *ArtFetcher) fetchHTTP(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "synbar/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") && contentType != "application/octet-stream" {
		return nil, fmt.Errorf("url is not an image: %s", contentType)
	}

	data, err := readLimited(resp.Body)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Artwork fetched", zap.Int("bytes", len(data)), zap.String("url", location))
	return data, nil
}

func (f *ArtFetcher) readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open artwork: %w", err)
	}
	defer file.Close()

	data, err := readLimited(file)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("Artwork read", zap.Int("bytes", len(data)), zap.String("path", path))
	return data, nil
}

// readLimited reads at most _maxImageSize bytes and rejects anything larger
func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, _maxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > _maxImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", _maxImageSize)
	}
	return data, nil
}
