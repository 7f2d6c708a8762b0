package service

import (
	"context"
	"errors"
	"fmt"

	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/repository"

	"gorm.io/gorm"
)

// AddToCollectionParams carries the "add" payload: exactly one of MovieID
// (catalog reference) or Title (fresh custom movie) must be set.
type AddToCollectionParams struct {
	MovieID     *string
	Title       *string
	Description *string
	PosterPath  *string
	Status      *models.WatchStatus
	Rating      *float64
}

type CollectionService interface {
	Add(ctx context.Context, userID string, p AddToCollectionParams) (*models.UserMovie, error)
	UpdateStatus(ctx context.Context, userID, entryID string, status models.WatchStatus) (*models.UserMovie, error)
	Remove(ctx context.Context, userID, entryID string) error
	List(ctx context.Context, userID string, status *models.WatchStatus) ([]models.UserMovie, error)
	ResolveByTargetID(ctx context.Context, userID, targetID string) (*models.UserMovie, error)
	StatusesForMovies(ctx context.Context, userID string, movieIDs []string) (map[string]models.WatchStatus, error)
}

type collectionService struct {
	repo      repository.UserMovieRepository
	movieRepo repository.MovieRepository
	customSvc CustomMovieService
}

func NewCollectionService(
	repo repository.UserMovieRepository,
	movieRepo repository.MovieRepository,
	customSvc CustomMovieService,
) CollectionService {
	return &collectionService{
		repo:      repo,
		movieRepo: movieRepo,
		customSvc: customSvc,
	}
}

// Add creates a collection entry for either a catalog movie or a freshly
// created custom movie. Status defaults to will_watch. The existence
// pre-check is advisory; the storage uniqueness constraint is what actually
// settles concurrent duplicate adds.
func (s *collectionService) Add(ctx context.Context, userID string, p AddToCollectionParams) (*models.UserMovie, error) {
	if p.MovieID != nil && p.Title != nil {
		return nil, fmt.Errorf("%w: provide either movie_id or title, not both", ErrInvalidArgument)
	}
	if p.MovieID == nil && p.Title == nil {
		return nil, fmt.Errorf("%w: either movie_id or title must be provided", ErrInvalidArgument)
	}

	status := models.StatusWillWatch
	if p.Status != nil {
		if !p.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, *p.Status)
		}
		status = *p.Status
	}
	if p.Rating != nil && (*p.Rating < 0 || *p.Rating > 10) {
		return nil, fmt.Errorf("%w: rating must be between 0 and 10", ErrInvalidArgument)
	}

	um := &models.UserMovie{
		UserID: userID,
		Status: status,
		Rating: p.Rating,
	}

	if p.MovieID != nil {
		if _, err := s.movieRepo.GetByID(ctx, *p.MovieID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrMovieNotFound
			}
			return nil, err
		}
		exists, err := s.repo.ExistsForTarget(ctx, userID, models.CatalogRef(*p.MovieID))
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrAlreadyInCollection
		}
		um.MovieID = p.MovieID
	} else {
		custom, err := s.customSvc.Create(ctx, userID, *p.Title, p.Description, p.PosterPath)
		if err != nil {
			return nil, err
		}
		um.CustomMovieID = &custom.ID
	}

	if err := s.repo.Add(ctx, um); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyInCollection
		}
		return nil, err
	}

	// Re-read with targets preloaded for the denormalized response
	return s.repo.GetByID(ctx, userID, um.ID)
}

// UpdateStatus overwrites the entry's status. Rating is never touched here.
func (s *collectionService) UpdateStatus(ctx context.Context, userID, entryID string, status models.WatchStatus) (*models.UserMovie, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}
	um, err := s.repo.UpdateStatus(ctx, userID, entryID, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return um, nil
}

func (s *collectionService) Remove(ctx context.Context, userID, entryID string) error {
	if err := s.repo.Delete(ctx, userID, entryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

func (s *collectionService) List(ctx context.Context, userID string, status *models.WatchStatus) ([]models.UserMovie, error) {
	if status != nil && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, *status)
	}
	return s.repo.ListByUser(ctx, userID, status)
}

// ResolveByTargetID finds the user's entry whose catalog or custom reference
// equals targetID.
func (s *collectionService) ResolveByTargetID(ctx context.Context, userID, targetID string) (*models.UserMovie, error) {
	um, err := s.repo.GetByTargetID(ctx, userID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return um, nil
}

func (s *collectionService) StatusesForMovies(ctx context.Context, userID string, movieIDs []string) (map[string]models.WatchStatus, error) {
	return s.repo.GetStatusesForMovies(ctx, userID, movieIDs)
}
