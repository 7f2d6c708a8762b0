package repository

import (
	"context"
	"fmt"

	"filmoteka/internal/http-api/models"

	"gorm.io/gorm"
)

type CustomMovieRepository interface {
	Create(ctx context.Context, cm *models.CustomMovie) error
	GetByID(ctx context.Context, id string) (*models.CustomMovie, error)
}

type customMovieRepository struct {
	db *gorm.DB
}

func NewCustomMovieRepository(db *gorm.DB) CustomMovieRepository {
	return &customMovieRepository{db: db}
}

// Create inserts the custom movie. The unique (user_id, title) index makes
// duplicate titles per user surface as a constraint violation; the service
// maps that to the conflict error.
func (r *customMovieRepository) Create(ctx context.Context, cm *models.CustomMovie) error {
	if err := r.db.WithContext(ctx).Create(cm).Error; err != nil {
		return fmt.Errorf("create custom movie: %w", err)
	}
	return nil
}

func (r *customMovieRepository) GetByID(ctx context.Context, id string) (*models.CustomMovie, error) {
	var cm models.CustomMovie
	if err := r.db.WithContext(ctx).First(&cm, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cm, nil
}
