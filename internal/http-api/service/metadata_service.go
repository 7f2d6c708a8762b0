package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// PageMetadata is what we could scrape from an arbitrary web page: enough to
// prefill a custom movie.
type PageMetadata struct {
	Title     *string
	Overview  *string
	PosterURL *string
}

// MetadataService extracts Open Graph metadata from external pages and
// mirrors the page's poster into the image cache.
type MetadataService struct {
	images     *ImageService
	httpClient *http.Client
}

func NewMetadataService(images *ImageService) *MetadataService {
	return &MetadataService{
		images: images,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Extract fetches the page and pulls og:title / og:description / og:image,
// falling back to <title> and the description meta tag.
func (s *MetadataService) Extract(ctx context.Context, pageURL string) (*PageMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to fetch URL: %v", ErrInvalidArgument, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: failed to fetch URL: status %d", ErrInvalidArgument, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	meta := &PageMetadata{}

	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		meta.Title = &title
	} else if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		meta.Title = &title
	}

	if desc, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		meta.Overview = &desc
	} else if desc, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		meta.Overview = &desc
	}

	if image, ok := doc.Find(`meta[property="og:image"]`).Attr("content"); ok && image != "" {
		mirrored, err := s.images.UploadFromURL(ctx, image)
		if err == nil && mirrored != "" {
			meta.PosterURL = &mirrored
		}
	}

	return meta, nil
}
