package repository

import (
	"context"
	"fmt"
	"time"

	"filmoteka/internal/http-api/models"

	"gorm.io/gorm"
)

// UserMovieRepository manages collection entries. Uniqueness per
// (user, movie) and (user, custom movie) is backed by partial unique indexes;
// the service layer translates constraint violations into conflict errors.
type UserMovieRepository interface {
	Add(ctx context.Context, um *models.UserMovie) error
	GetByID(ctx context.Context, userID, entryID string) (*models.UserMovie, error)
	GetByTargetID(ctx context.Context, userID, targetID string) (*models.UserMovie, error)
	ExistsForTarget(ctx context.Context, userID string, ref models.MovieRef) (bool, error)
	UpdateStatus(ctx context.Context, userID, entryID string, status models.WatchStatus) (*models.UserMovie, error)
	Delete(ctx context.Context, userID, entryID string) error
	ListByUser(ctx context.Context, userID string, status *models.WatchStatus) ([]models.UserMovie, error)
	GetStatusesForMovies(ctx context.Context, userID string, movieIDs []string) (map[string]models.WatchStatus, error)
}

type userMovieRepository struct {
	db *gorm.DB
}

func NewUserMovieRepository(db *gorm.DB) UserMovieRepository {
	return &userMovieRepository{db: db}
}

func (r *userMovieRepository) Add(ctx context.Context, um *models.UserMovie) error {
	if err := r.db.WithContext(ctx).Create(um).Error; err != nil {
		return fmt.Errorf("add to collection: %w", err)
	}
	return nil
}

func (r *userMovieRepository) GetByID(ctx context.Context, userID, entryID string) (*models.UserMovie, error) {
	var um models.UserMovie
	if err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("CustomMovie").
		Where("user_id = ? AND id = ?", userID, entryID).
		First(&um).Error; err != nil {
		return nil, err
	}
	return &um, nil
}

// GetByTargetID resolves an entry by matching targetID against either the
// catalog reference or the custom reference. Both identifier spaces are
// random UUIDs, so the either/or probe is a convenience lookup, not a
// security boundary.
func (r *userMovieRepository) GetByTargetID(ctx context.Context, userID, targetID string) (*models.UserMovie, error) {
	var um models.UserMovie
	if err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("CustomMovie").
		Where("user_id = ? AND (movie_id = ? OR custom_movie_id = ?)", userID, targetID, targetID).
		First(&um).Error; err != nil {
		return nil, err
	}
	return &um, nil
}

func (r *userMovieRepository) ExistsForTarget(ctx context.Context, userID string, ref models.MovieRef) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.UserMovie{}).Where("user_id = ?", userID)
	switch ref.Kind {
	case models.TargetCatalog:
		q = q.Where("movie_id = ?", ref.ID)
	case models.TargetCustom:
		q = q.Where("custom_movie_id = ?", ref.ID)
	default:
		return false, fmt.Errorf("unknown target kind %q", ref.Kind)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus overwrites the status and touches updated_at. Rating is left
// alone.
func (r *userMovieRepository) UpdateStatus(ctx context.Context, userID, entryID string, status models.WatchStatus) (*models.UserMovie, error) {
	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.UserMovie{}).
		Where("user_id = ? AND id = ?", userID, entryID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, userID, entryID)
}

func (r *userMovieRepository) Delete(ctx context.Context, userID, entryID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, entryID).
		Delete(&models.UserMovie{})
	if result.Error != nil {
		return fmt.Errorf("remove from collection: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userMovieRepository) ListByUser(ctx context.Context, userID string, status *models.WatchStatus) ([]models.UserMovie, error) {
	var list []models.UserMovie
	q := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("CustomMovie").
		Where("user_id = ?", userID).
		Order("added_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return list, nil
}

// GetStatusesForMovies returns the user's status for each of the given catalog
// movie ids; ids the user does not track are absent from the map.
func (r *userMovieRepository) GetStatusesForMovies(ctx context.Context, userID string, movieIDs []string) (map[string]models.WatchStatus, error) {
	statuses := make(map[string]models.WatchStatus, len(movieIDs))
	if len(movieIDs) == 0 {
		return statuses, nil
	}
	var rows []models.UserMovie
	if err := r.db.WithContext(ctx).
		Select("movie_id", "status").
		Where("user_id = ? AND movie_id IN ?", userID, movieIDs).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get statuses: %w", err)
	}
	for _, row := range rows {
		if row.MovieID != nil {
			statuses[*row.MovieID] = row.Status
		}
	}
	return statuses, nil
}
