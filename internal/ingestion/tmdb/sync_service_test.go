package tmdb

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"filmoteka/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMovieRepo struct {
	mock.Mock
}

func (m *mockMovieRepo) GetByID(ctx context.Context, id string) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movie), args.Error(1)
}

func (m *mockMovieRepo) GetByIDs(ctx context.Context, ids []string) ([]models.Movie, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *mockMovieRepo) GetTopByVotes(ctx context.Context, minVoteCount int64, limit int) ([]models.Movie, error) {
	args := m.Called(ctx, minVoteCount, limit)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *mockMovieRepo) GetAll(ctx context.Context) ([]models.Movie, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Movie), args.Error(1)
}

func (m *mockMovieRepo) Create(ctx context.Context, movie *models.Movie) error {
	args := m.Called(ctx, movie)
	return args.Error(0)
}

func (m *mockMovieRepo) ExistsByTmdbID(ctx context.Context, tmdbID int64) (bool, error) {
	args := m.Called(ctx, tmdbID)
	return args.Bool(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(testWriter{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestToMovie(t *testing.T) {
	poster := "/poster.jpg"
	result := MovieResult{
		ID:               603,
		Title:            "Матрица",
		OriginalTitle:    "The Matrix",
		OriginalLanguage: "en",
		Overview:         "Хакер узнаёт правду о мире.",
		GenreIDs:         []int64{28, 878},
		PosterPath:       &poster,
		ReleaseDate:      "1999-03-31",
		VoteAverage:      8.2,
		VoteCount:        26000,
	}

	movie := toMovie(result)

	assert.Equal(t, int64(603), movie.TmdbID)
	assert.Equal(t, "Матрица", movie.Title)
	assert.Equal(t, []int64{28, 878}, []int64(movie.GenreIDs))
	require.NotNil(t, movie.ReleaseDate)
	assert.Equal(t, 1999, movie.ReleaseDate.Year())
}

func TestToMovie_BadReleaseDateIgnored(t *testing.T) {
	movie := toMovie(MovieResult{ID: 1, ReleaseDate: "not-a-date"})
	assert.Nil(t, movie.ReleaseDate)
}

func TestToMovie_NilGenresBecomeEmpty(t *testing.T) {
	movie := toMovie(MovieResult{ID: 1})
	assert.NotNil(t, movie.GenreIDs)
	assert.Empty(t, movie.GenreIDs)
}

func TestStorePage_SkipsExistingMovies(t *testing.T) {
	repo := new(mockMovieRepo)
	svc := &SyncService{movies: repo, logger: testLogger()}

	repo.On("ExistsByTmdbID", mock.Anything, int64(1)).Return(true, nil)
	repo.On("ExistsByTmdbID", mock.Anything, int64(2)).Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.Movie")).Return(nil)

	added, err := svc.storePage(context.Background(), []MovieResult{{ID: 1}, {ID: 2}})

	assert.NoError(t, err)
	assert.Equal(t, 1, added)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestStorePage_SkipsZeroIDs(t *testing.T) {
	repo := new(mockMovieRepo)
	svc := &SyncService{movies: repo, logger: testLogger()}

	added, err := svc.storePage(context.Background(), []MovieResult{{ID: 0}})

	assert.NoError(t, err)
	assert.Zero(t, added)
	repo.AssertNotCalled(t, "ExistsByTmdbID", mock.Anything, mock.Anything)
}

func TestClient_RetriesOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(DiscoverResponse{Page: 1, TotalPages: 1})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", "", testLogger())
	require.NoError(t, err)

	resp, err := client.DiscoverByYear(context.Background(), 1999, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 2, calls)
}

func TestClient_PassesDiscoverParams(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(DiscoverResponse{Page: 1, TotalPages: 1})
	}))
	defer server.Close()

	client, err := NewClient(server.URL, "test-key", "", testLogger())
	require.NoError(t, err)

	_, err = client.DiscoverByYear(context.Background(), 2001, 3)
	require.NoError(t, err)

	assert.Contains(t, query, "api_key=test-key")
	assert.Contains(t, query, "primary_release_year=2001")
	assert.Contains(t, query, "page=3")
	assert.Contains(t, query, "sort_by=vote_average.desc")
}
