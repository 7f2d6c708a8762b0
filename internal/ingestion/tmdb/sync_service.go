package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/repository"
)

// TMDB caps discover pagination at 500 pages per query.
const maxDiscoverPages = 500

const earliestYear = 1900

// Reindexer rebuilds the search index after a sync pass.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// SyncConfig holds configuration for the catalog sync service.
type SyncConfig struct {
	APIURL      string
	APIKey      string
	ProxyURL    string
	WorkerCount int
	// SyncInterval is the pause between full catalog passes. Zero means
	// run a single pass and exit.
	SyncInterval time.Duration
}

// SyncService walks the TMDB discover API year by year and copies movies the
// catalog does not have yet. Existing records are never updated.
type SyncService struct {
	client *Client
	movies repository.MovieRepository
	index  Reindexer
	logger *slog.Logger

	workerCount  int
	syncInterval time.Duration
}

func NewSyncService(cfg SyncConfig, movies repository.MovieRepository, index Reindexer, logger *slog.Logger) (*SyncService, error) {
	client, err := NewClient(cfg.APIURL, cfg.APIKey, cfg.ProxyURL, logger)
	if err != nil {
		return nil, err
	}

	workerCount := cfg.WorkerCount
	if workerCount == 0 {
		workerCount = 4
	}

	return &SyncService{
		client:       client,
		movies:       movies,
		index:        index,
		logger:       logger,
		workerCount:  workerCount,
		syncInterval: cfg.SyncInterval,
	}, nil
}

// Run executes catalog passes until the context is cancelled. With a zero
// sync interval it performs one pass and returns.
func (s *SyncService) Run(ctx context.Context) error {
	for {
		if err := s.SyncOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("catalog sync pass failed", "error", err)
		}

		if s.syncInterval == 0 {
			return nil
		}

		s.logger.Info("catalog sync pass finished, sleeping", "interval", s.syncInterval)
		select {
		case <-time.After(s.syncInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// SyncOnce walks every release year from the current one back to 1900,
// fanning years out across the worker pool, then rebuilds the search index.
func (s *SyncService) SyncOnce(ctx context.Context) error {
	start := time.Now()
	var added atomic.Int64

	pool := NewWorkerPool(ctx, s.workerCount, s.logger)
	pool.Start()

	currentYear := time.Now().Year()
	for year := currentYear; year >= earliestYear; year-- {
		year := year
		pool.Submit(func(taskCtx context.Context) error {
			n, err := s.syncYear(taskCtx, year)
			added.Add(int64(n))
			return err
		})
	}
	pool.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.logger.Info("catalog pass complete",
		"added", added.Load(), "took", time.Since(start))

	if s.index != nil {
		indexed, err := s.index.Reindex(ctx)
		if err != nil {
			return fmt.Errorf("reindex after sync: %w", err)
		}
		s.logger.Info("search index rebuilt", "documents", indexed)
	}
	return nil
}

func (s *SyncService) syncYear(ctx context.Context, year int) (int, error) {
	added := 0
	for page := 1; ; page++ {
		resp, err := s.client.DiscoverByYear(ctx, year, page)
		if err != nil {
			return added, err
		}

		totalPages := resp.TotalPages
		if totalPages > maxDiscoverPages {
			totalPages = maxDiscoverPages
		}
		if page > totalPages {
			break
		}

		n, err := s.storePage(ctx, resp.Results)
		added += n
		if err != nil {
			return added, err
		}

		s.logger.Debug("page stored",
			"year", year, "page", page, "total_pages", totalPages, "added", n)

		if page >= totalPages {
			break
		}
	}
	return added, nil
}

// storePage inserts the movies the catalog does not have yet. A failed insert
// skips the movie rather than aborting the page.
func (s *SyncService) storePage(ctx context.Context, results []MovieResult) (int, error) {
	added := 0
	for _, r := range results {
		if r.ID == 0 {
			continue
		}

		exists, err := s.movies.ExistsByTmdbID(ctx, r.ID)
		if err != nil {
			return added, fmt.Errorf("check tmdb_id %d: %w", r.ID, err)
		}
		if exists {
			continue
		}

		movie := toMovie(r)
		if err := s.movies.Create(ctx, movie); err != nil {
			s.logger.Warn("failed to store movie", "tmdb_id", r.ID, "error", err)
			continue
		}
		added++
	}
	return added, nil
}

func toMovie(r MovieResult) *models.Movie {
	genreIDs := r.GenreIDs
	if genreIDs == nil {
		genreIDs = []int64{}
	}

	movie := &models.Movie{
		TmdbID:           r.ID,
		Adult:            r.Adult,
		BackdropPath:     r.BackdropPath,
		GenreIDs:         genreIDs,
		OriginalLanguage: r.OriginalLanguage,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		Popularity:       r.Popularity,
		PosterPath:       r.PosterPath,
		Title:            r.Title,
		Video:            r.Video,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
	}

	if r.ReleaseDate != "" {
		if parsed, err := time.Parse(time.DateOnly, r.ReleaseDate); err == nil {
			movie.ReleaseDate = &parsed
		}
	}
	return movie
}
