package service

import (
	"context"
	"errors"
	"strings"

	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/repository"

	"gorm.io/gorm"
)

type CustomMovieService interface {
	Create(ctx context.Context, userID, title string, description, posterPath *string) (*models.CustomMovie, error)
	Get(ctx context.Context, userID, customMovieID string) (*models.CustomMovie, error)
}

type customMovieService struct {
	repo repository.CustomMovieRepository
}

func NewCustomMovieService(repo repository.CustomMovieRepository) CustomMovieService {
	return &customMovieService{repo: repo}
}

func (s *customMovieService) Create(ctx context.Context, userID, title string, description, posterPath *string) (*models.CustomMovie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrInvalidArgument
	}

	cm := &models.CustomMovie{
		UserID:      userID,
		Title:       title,
		Description: description,
		PosterPath:  posterPath,
	}
	if err := s.repo.Create(ctx, cm); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCustomTitleTaken
		}
		return nil, err
	}
	return cm, nil
}

func (s *customMovieService) Get(ctx context.Context, userID, customMovieID string) (*models.CustomMovie, error) {
	cm, err := s.repo.GetByID(ctx, customMovieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomMovieNotFound
		}
		return nil, err
	}
	if cm.UserID != userID {
		return nil, ErrCustomMovieNotFound
	}
	return cm, nil
}
