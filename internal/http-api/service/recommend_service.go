package service

import (
	"context"
	"fmt"
	"sort"

	"filmoteka/internal/cache"
	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/repository"
)

// StatusScores is the default contribution an unrated entry makes to each of
// its movie's genres, keyed by status. Kept as explicit configuration so the
// weighting is tunable and testable in one place.
type StatusScores map[models.WatchStatus]float64

// DefaultStatusScores: watched-but-unrated is a mild positive signal, dropped
// a mild negative one, planned sits in between.
var DefaultStatusScores = StatusScores{
	models.StatusWatched:   7.0,
	models.StatusWillWatch: 5.0,
	models.StatusDropped:   3.0,
}

// RecommendConfig bounds the candidate pool and the result size.
type RecommendConfig struct {
	PoolSize     int   // candidates pulled from the catalog, by vote average
	MinVoteCount int64 // pool admission threshold
	Limit        int   // results returned before the collection post-filter
	Scores       StatusScores
}

func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{
		PoolSize:     300,
		MinVoteCount: 500,
		Limit:        100,
		Scores:       DefaultStatusScores,
	}
}

type RecommendService interface {
	GenreRelevancy(ctx context.Context, userID string) (map[int]float64, error)
	Recommend(ctx context.Context, userID string) ([]models.Movie, error)
}

type recommendService struct {
	userMovieRepo repository.UserMovieRepository
	movieRepo     repository.MovieRepository
	cache         *cache.Cache
	cfg           RecommendConfig
}

func NewRecommendService(
	userMovieRepo repository.UserMovieRepository,
	movieRepo repository.MovieRepository,
	c *cache.Cache,
	cfg RecommendConfig,
) RecommendService {
	if cfg.Scores == nil {
		cfg.Scores = DefaultStatusScores
	}
	return &recommendService{
		userMovieRepo: userMovieRepo,
		movieRepo:     movieRepo,
		cache:         c,
		cfg:           cfg,
	}
}

// GenreRelevancy accumulates a per-genre affinity score from the user's full
// collection. An entry contributes its rating, or the status default when
// unrated, to every genre of its catalog movie; custom movies carry no genres
// and are skipped. Genres the user has never touched are simply absent.
func (s *recommendService) GenreRelevancy(ctx context.Context, userID string) (map[int]float64, error) {
	entries, err := s.userMovieRepo.ListByUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	return accumulateRelevancy(entries, s.cfg.Scores), nil
}

func accumulateRelevancy(entries []models.UserMovie, scores StatusScores) map[int]float64 {
	relevancy := make(map[int]float64)
	for _, um := range entries {
		if um.Movie == nil {
			continue
		}
		score, ok := scores[um.Status]
		if um.Rating != nil {
			score = *um.Rating
		} else if !ok {
			continue
		}
		for _, genreID := range um.Movie.GenreIDs {
			relevancy[int(genreID)] += score
		}
	}
	return relevancy
}

// Recommend ranks the candidate pool by vote average plus accumulated genre
// relevancy, takes the top Limit and then drops everything the user already
// tracks, in any status.
func (s *recommendService) Recommend(ctx context.Context, userID string) ([]models.Movie, error) {
	relevancy, err := s.GenreRelevancy(ctx, userID)
	if err != nil {
		return nil, err
	}

	candidates, err := s.candidatePool(ctx)
	if err != nil {
		return nil, err
	}

	ranked := rankCandidates(relevancy, candidates, s.cfg.Limit)

	ids := make([]string, 0, len(ranked))
	for _, m := range ranked {
		ids = append(ids, m.ID)
	}
	statuses, err := s.userMovieRepo.GetStatusesForMovies(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.Movie, 0, len(ranked))
	for _, m := range ranked {
		if _, tracked := statuses[m.ID]; tracked {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// candidatePool fetches the top catalog movies, through the cache when one is
// wired. Only immutable-ish catalog data is cached; collection state never is.
func (s *recommendService) candidatePool(ctx context.Context) ([]models.Movie, error) {
	key := fmt.Sprintf("movies:top:%d:%d", s.cfg.PoolSize, s.cfg.MinVoteCount)

	var candidates []models.Movie
	if hit, err := s.cache.GetJSON(ctx, key, &candidates); err == nil && hit {
		return candidates, nil
	}

	candidates, err := s.movieRepo.GetTopByVotes(ctx, s.cfg.MinVoteCount, s.cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("%w: candidate pool: %v", ErrUnavailable, err)
	}

	// Best effort; a cache write failure never fails the request
	_ = s.cache.SetJSON(ctx, key, candidates)
	return candidates, nil
}

// rankCandidates sorts by combined score (vote average + relevancy sum)
// descending and returns at most limit movies. Ties break on movie id
// ascending so the ordering is deterministic across runs.
func rankCandidates(relevancy map[int]float64, candidates []models.Movie, limit int) []models.Movie {
	type scored struct {
		movie    models.Movie
		combined float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, m := range candidates {
		relevancyScore := 0.0
		for _, g := range m.GenreIDs {
			relevancyScore += relevancy[int(g)]
		}
		ranked = append(ranked, scored{movie: m, combined: m.VoteAverage + relevancyScore})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].combined != ranked[j].combined {
			return ranked[i].combined > ranked[j].combined
		}
		return ranked[i].movie.ID < ranked[j].movie.ID
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]models.Movie, 0, len(ranked))
	for _, sc := range ranked {
		out = append(out, sc.movie)
	}
	return out
}
