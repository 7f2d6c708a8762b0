package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"filmoteka/internal/cache"
	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/repository"
	"filmoteka/internal/search"
)

// MovieIndex is the full-text collaborator contract. The service treats both
// operations as opaque: it validates inputs and post-processes ids, nothing
// more.
type MovieIndex interface {
	Search(ctx context.Context, q search.Query) ([]string, error)
	Reindex(ctx context.Context, docs []search.MovieDoc) (int, error)
}

// MovieWithStatus pairs a catalog movie with the caller's tracking status,
// nil when untracked.
type MovieWithStatus struct {
	Movie  models.Movie
	Status *models.WatchStatus
}

// SearchParams is the raw search input before validation.
type SearchParams struct {
	Title     string
	Genres    string // comma-separated display names
	MinRating *float64
}

type MovieService interface {
	Search(ctx context.Context, userID string, p SearchParams) ([]MovieWithStatus, error)
	TopMovies(ctx context.Context, userID string) ([]MovieWithStatus, error)
	Reindex(ctx context.Context) (int, error)
	GetByID(ctx context.Context, id string) (*models.Movie, error)
}

const topMoviesLimit = 15

type movieService struct {
	movieRepo     repository.MovieRepository
	userMovieRepo repository.UserMovieRepository
	index         MovieIndex
	cache         *cache.Cache
}

func NewMovieService(
	movieRepo repository.MovieRepository,
	userMovieRepo repository.UserMovieRepository,
	index MovieIndex,
	c *cache.Cache,
) MovieService {
	return &movieService{
		movieRepo:     movieRepo,
		userMovieRepo: userMovieRepo,
		index:         index,
		cache:         c,
	}
}

// Search validates the genre filter, delegates to the full-text index and
// re-hydrates the ranked ids against the catalog. The index's relevance
// ordering is preserved; ids the catalog no longer resolves are dropped.
func (s *movieService) Search(ctx context.Context, userID string, p SearchParams) ([]MovieWithStatus, error) {
	if p.Title == "" && p.Genres == "" && p.MinRating == nil {
		return []MovieWithStatus{}, nil
	}

	var genres []string
	if p.Genres != "" {
		for _, raw := range strings.Split(p.Genres, ",") {
			genre := models.NormalizeGenre(raw)
			if !models.IsKnownGenre(genre) {
				return nil, fmt.Errorf("%w: invalid genre: %s (valid genres: %s)",
					ErrInvalidArgument, genre, strings.Join(models.AllGenreNames(), ", "))
			}
			genres = append(genres, genre)
		}
	}

	ids, err := s.index.Search(ctx, search.Query{
		Title:     p.Title,
		Genres:    genres,
		MinRating: p.MinRating,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: search index: %v", ErrUnavailable, err)
	}

	movies, err := s.movieRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// GetByIDs gives no ordering guarantee; restore the index's ranking
	byID := make(map[string]models.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}
	ordered := make([]models.Movie, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}

	return s.attachStatuses(ctx, userID, ordered)
}

// TopMovies returns the highest-voted catalog titles with the caller's
// statuses attached.
func (s *movieService) TopMovies(ctx context.Context, userID string) ([]MovieWithStatus, error) {
	key := fmt.Sprintf("movies:top:%d:%d", topMoviesLimit, 500)

	var movies []models.Movie
	if hit, err := s.cache.GetJSON(ctx, key, &movies); err != nil || !hit {
		movies, err = s.movieRepo.GetTopByVotes(ctx, 500, topMoviesLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: catalog: %v", ErrUnavailable, err)
		}
		_ = s.cache.SetJSON(ctx, key, movies)
	}

	return s.attachStatuses(ctx, userID, movies)
}

func (s *movieService) attachStatuses(ctx context.Context, userID string, movies []models.Movie) ([]MovieWithStatus, error) {
	ids := make([]string, 0, len(movies))
	for _, m := range movies {
		ids = append(ids, m.ID)
	}
	statuses, err := s.userMovieRepo.GetStatusesForMovies(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]MovieWithStatus, 0, len(movies))
	for _, m := range movies {
		ms := MovieWithStatus{Movie: m}
		if st, ok := statuses[m.ID]; ok {
			status := st
			ms.Status = &status
		}
		out = append(out, ms)
	}
	return out, nil
}

// Reindex rebuilds the full-text index from the catalog store.
func (s *movieService) Reindex(ctx context.Context) (int, error) {
	movies, err := s.movieRepo.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: catalog: %v", ErrUnavailable, err)
	}

	docs := make([]search.MovieDoc, 0, len(movies))
	for _, m := range movies {
		doc := search.MovieDoc{
			ID:          m.ID,
			Title:       m.Title,
			Overview:    m.Overview,
			Genres:      m.Genres(),
			VoteAverage: m.VoteAverage,
		}
		if m.ReleaseDate != nil {
			date := m.ReleaseDate.Format(time.DateOnly)
			doc.ReleaseDate = &date
		}
		docs = append(docs, doc)
	}

	return s.index.Reindex(ctx, docs)
}

func (s *movieService) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	return s.movieRepo.GetByID(ctx, id)
}
