package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"filmoteka/internal/storage"
)

// ImageService proxies and caches poster images. Keys are content-addressed
// for mirrored URLs and uuid-named for uploads. All outbound fetches go
// through the configured proxy when one is set; none of this touches any
// collection-mutation path.
type ImageService struct {
	store        *storage.BlobStore
	tmdbImageURL string
	httpClient   *http.Client
	logger       *slog.Logger
}

func NewImageService(store *storage.BlobStore, tmdbImageURL, proxyURL string, logger *slog.Logger) (*ImageService, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &ImageService{
		store:        store,
		tmdbImageURL: tmdbImageURL,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		logger: logger,
	}, nil
}

// Get streams a cached image; on a cache miss it treats the filename as a
// TMDB poster path, fetches and caches it, then streams. Returns ErrNotFound
// wrapped when neither source has the file.
func (s *ImageService) Get(ctx context.Context, filename string) (io.ReadCloser, string, int64, error) {
	filename = strings.TrimPrefix(filename, "/")

	exists, err := s.store.Exists(ctx, filename)
	if err != nil {
		return nil, "", 0, fmt.Errorf("%w: image store: %v", ErrUnavailable, err)
	}
	if exists {
		return s.store.StreamGet(ctx, filename)
	}

	// Could be a TMDB poster path; fetch, cache and serve
	content, contentType, err := s.fetch(ctx, s.tmdbImageURL+filename)
	if err != nil {
		return nil, "", 0, fmt.Errorf("file %w: %s", ErrNotFound, filename)
	}

	if err := s.store.Put(ctx, filename, content, contentType); err != nil {
		return nil, "", 0, fmt.Errorf("%w: image store: %v", ErrUnavailable, err)
	}
	return s.store.StreamGet(ctx, filename)
}

// Upload stores a user-provided image under a fresh uuid key and returns the
// public path.
func (s *ImageService) Upload(ctx context.Context, content []byte, contentType, originalName string) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: file must be an image", ErrInvalidArgument)
	}

	filename := uuid.New().String()
	if idx := strings.LastIndex(originalName, "."); idx >= 0 && idx < len(originalName)-1 {
		filename += "." + originalName[idx+1:]
	}

	if err := s.store.Put(ctx, filename, content, contentType); err != nil {
		return "", fmt.Errorf("%w: image store: %v", ErrUnavailable, err)
	}
	return "/" + filename, nil
}

// UploadFromURL mirrors a remote image into the cache, keyed by the sha256 of
// its URL so repeated mirrors of the same source are free.
func (s *ImageService) UploadFromURL(ctx context.Context, imageURL string) (string, error) {
	if imageURL == "" {
		return "", nil
	}

	hash := sha256.Sum256([]byte(imageURL))
	filename := hex.EncodeToString(hash[:])
	if ext := urlExtension(imageURL); ext != "" {
		filename += "." + ext
	}

	exists, err := s.store.Exists(ctx, filename)
	if err == nil && exists {
		return "/" + filename, nil
	}

	content, contentType, err := s.fetch(ctx, imageURL)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	if err := s.store.Put(ctx, filename, content, contentType); err != nil {
		return "", fmt.Errorf("%w: image store: %v", ErrUnavailable, err)
	}
	return "/" + filename, nil
}

func (s *ImageService) fetch(ctx context.Context, imageURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, imageURL)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	return content, resp.Header.Get("Content-Type"), nil
}

// urlExtension extracts a sane file extension from an image URL, stripping
// query strings.
func urlExtension(imageURL string) string {
	idx := strings.LastIndex(imageURL, ".")
	if idx < 0 || idx == len(imageURL)-1 {
		return ""
	}
	ext := imageURL[idx+1:]
	if q := strings.Index(ext, "?"); q >= 0 {
		ext = ext[:q]
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return ""
		}
	}
	if len(ext) > 5 {
		return ""
	}
	return ext
}
