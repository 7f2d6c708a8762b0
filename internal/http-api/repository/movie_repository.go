package repository

import (
	"context"
	"fmt"

	"filmoteka/internal/http-api/models"

	"gorm.io/gorm"
)

// MovieRepository reads the canonical catalog. Writes happen only through
// ingestion (cmd/tmdb-sync).
type MovieRepository interface {
	GetByID(ctx context.Context, id string) (*models.Movie, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Movie, error)
	GetTopByVotes(ctx context.Context, minVoteCount int64, limit int) ([]models.Movie, error)
	GetAll(ctx context.Context) ([]models.Movie, error)
	Create(ctx context.Context, m *models.Movie) error
	ExistsByTmdbID(ctx context.Context, tmdbID int64) (bool, error)
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	var m models.Movie
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByIDs returns the matching movies in no particular order; callers that
// care about ordering must re-order themselves.
func (r *movieRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Movie, error) {
	var list []models.Movie
	if len(ids) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get movies by ids: %w", err)
	}
	return list, nil
}

// GetTopByVotes returns movies ordered by vote average descending, restricted
// to titles with more than minVoteCount votes.
func (r *movieRepository) GetTopByVotes(ctx context.Context, minVoteCount int64, limit int) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).
		Where("vote_count > ?", minVoteCount).
		Order("vote_average DESC").
		Limit(limit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get top movies: %w", err)
	}
	return list, nil
}

func (r *movieRepository) GetAll(ctx context.Context) ([]models.Movie, error) {
	var list []models.Movie
	if err := r.db.WithContext(ctx).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get all movies: %w", err)
	}
	return list, nil
}

func (r *movieRepository) Create(ctx context.Context, m *models.Movie) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create movie: %w", err)
	}
	return nil
}

func (r *movieRepository) ExistsByTmdbID(ctx context.Context, tmdbID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Movie{}).
		Where("tmdb_id = ?", tmdbID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
