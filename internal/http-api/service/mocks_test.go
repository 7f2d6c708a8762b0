package service

import (
	"context"

	"filmoteka/internal/http-api/models"
	"filmoteka/internal/search"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByYandexID(yandexID int64) (*models.User, error) {
	args := m.Called(yandexID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockMovieRepository mocks the MovieRepository interface
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Movie, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetTopByVotes(ctx context.Context, minVoteCount int64, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, minVoteCount, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) GetAll(ctx context.Context) ([]models.Movie, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *MockMovieRepository) ExistsByTmdbID(ctx context.Context, tmdbID int64) (bool, error) {
	args := m.Called(ctx, tmdbID)
	return args.Bool(0), args.Error(1)
}

// MockUserMovieRepository mocks the UserMovieRepository interface
type MockUserMovieRepository struct {
	mock.Mock
}

func (m *MockUserMovieRepository) Add(ctx context.Context, um *models.UserMovie) error {
	args := m.Called(ctx, um)
	return args.Error(0)
}

func (m *MockUserMovieRepository) GetByID(ctx context.Context, userID, entryID string) (*models.UserMovie, error) {
	args := m.Called(ctx, userID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMovie), args.Error(1)
}

func (m *MockUserMovieRepository) GetByTargetID(ctx context.Context, userID, targetID string) (*models.UserMovie, error) {
	args := m.Called(ctx, userID, targetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMovie), args.Error(1)
}

func (m *MockUserMovieRepository) ExistsForTarget(ctx context.Context, userID string, ref models.MovieRef) (bool, error) {
	args := m.Called(ctx, userID, ref)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserMovieRepository) UpdateStatus(ctx context.Context, userID, entryID string, status models.WatchStatus) (*models.UserMovie, error) {
	args := m.Called(ctx, userID, entryID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UserMovie), args.Error(1)
}

func (m *MockUserMovieRepository) Delete(ctx context.Context, userID, entryID string) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}

func (m *MockUserMovieRepository) ListByUser(ctx context.Context, userID string, status *models.WatchStatus) ([]models.UserMovie, error) {
	args := m.Called(ctx, userID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.UserMovie), args.Error(1)
}

func (m *MockUserMovieRepository) GetStatusesForMovies(ctx context.Context, userID string, movieIDs []string) (map[string]models.WatchStatus, error) {
	args := m.Called(ctx, userID, movieIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]models.WatchStatus), args.Error(1)
}

// MockCustomMovieRepository mocks the CustomMovieRepository interface
type MockCustomMovieRepository struct {
	mock.Mock
}

func (m *MockCustomMovieRepository) Create(ctx context.Context, cm *models.CustomMovie) error {
	args := m.Called(ctx, cm)
	return args.Error(0)
}

func (m *MockCustomMovieRepository) GetByID(ctx context.Context, id string) (*models.CustomMovie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CustomMovie), args.Error(1)
}

// MockMovieIndex mocks the MovieIndex interface
type MockMovieIndex struct {
	mock.Mock
}

func (m *MockMovieIndex) Search(ctx context.Context, q search.Query) ([]string, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockMovieIndex) Reindex(ctx context.Context, docs []search.MovieDoc) (int, error) {
	args := m.Called(ctx, docs)
	return args.Int(0), args.Error(1)
}
