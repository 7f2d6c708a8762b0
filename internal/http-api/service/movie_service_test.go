package service

import (
	"context"
	"errors"
	"testing"

	"filmoteka/internal/http-api/models"
	"filmoteka/internal/search"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSearch_EmptyCriteriaReturnsEmptyList(t *testing.T) {
	index := new(MockMovieIndex)
	svc := NewMovieService(new(MockMovieRepository), new(MockUserMovieRepository), index, nil)

	results, err := svc.Search(context.Background(), "user-1", SearchParams{})

	assert.NoError(t, err)
	assert.Empty(t, results)
	index.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_UnknownGenreRejected(t *testing.T) {
	index := new(MockMovieIndex)
	svc := NewMovieService(new(MockMovieRepository), new(MockUserMovieRepository), index, nil)

	_, err := svc.Search(context.Background(), "user-1", SearchParams{Genres: "боевик, космоопера"})

	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Contains(t, err.Error(), "космоопера")
	index.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)
}

func TestSearch_GenreTokensNormalized(t *testing.T) {
	index := new(MockMovieIndex)
	movieRepo := new(MockMovieRepository)
	umRepo := new(MockUserMovieRepository)
	svc := NewMovieService(movieRepo, umRepo, index, nil)

	index.On("Search", mock.Anything, search.Query{Genres: []string{"боевик", "комедия"}}).
		Return([]string{}, nil)
	movieRepo.On("GetByIDs", mock.Anything, []string{}).Return([]models.Movie{}, nil)
	umRepo.On("GetStatusesForMovies", mock.Anything, "user-1", []string{}).
		Return(map[string]models.WatchStatus{}, nil)

	_, err := svc.Search(context.Background(), "user-1", SearchParams{Genres: " Боевик , КОМЕДИЯ "})

	assert.NoError(t, err)
	index.AssertExpectations(t)
}

func TestSearch_PreservesIndexOrderAndDropsMissing(t *testing.T) {
	index := new(MockMovieIndex)
	movieRepo := new(MockMovieRepository)
	umRepo := new(MockUserMovieRepository)
	svc := NewMovieService(movieRepo, umRepo, index, nil)

	index.On("Search", mock.Anything, mock.Anything).Return([]string{"m3", "m1", "gone", "m2"}, nil)
	// Catalog returns hits in storage order and without the deleted id
	movieRepo.On("GetByIDs", mock.Anything, []string{"m3", "m1", "gone", "m2"}).Return([]models.Movie{
		{ID: "m1", Title: "First"},
		{ID: "m2", Title: "Second"},
		{ID: "m3", Title: "Third"},
	}, nil)
	umRepo.On("GetStatusesForMovies", mock.Anything, "user-1", mock.Anything).
		Return(map[string]models.WatchStatus{"m1": models.StatusWatched}, nil)

	results, err := svc.Search(context.Background(), "user-1", SearchParams{Title: "something"})

	assert.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "m3", results[0].Movie.ID)
	assert.Equal(t, "m1", results[1].Movie.ID)
	assert.Equal(t, "m2", results[2].Movie.ID)

	assert.Nil(t, results[0].Status)
	assert.Equal(t, models.StatusWatched, *results[1].Status)
}

func TestSearch_IndexFailureIsUnavailable(t *testing.T) {
	index := new(MockMovieIndex)
	svc := NewMovieService(new(MockMovieRepository), new(MockUserMovieRepository), index, nil)

	index.On("Search", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Search(context.Background(), "user-1", SearchParams{Title: "something"})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTopMovies_AttachesStatuses(t *testing.T) {
	movieRepo := new(MockMovieRepository)
	umRepo := new(MockUserMovieRepository)
	svc := NewMovieService(movieRepo, umRepo, new(MockMovieIndex), nil)

	movieRepo.On("GetTopByVotes", mock.Anything, int64(500), 15).Return([]models.Movie{
		{ID: "m1"}, {ID: "m2"},
	}, nil)
	umRepo.On("GetStatusesForMovies", mock.Anything, "user-1", []string{"m1", "m2"}).
		Return(map[string]models.WatchStatus{"m2": models.StatusWillWatch}, nil)

	results, err := svc.TopMovies(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Nil(t, results[0].Status)
	assert.Equal(t, models.StatusWillWatch, *results[1].Status)
}

func TestReindex_BuildsDocsFromCatalog(t *testing.T) {
	index := new(MockMovieIndex)
	movieRepo := new(MockMovieRepository)
	svc := NewMovieService(movieRepo, new(MockUserMovieRepository), index, nil)

	movieRepo.On("GetAll", mock.Anything).Return([]models.Movie{
		{ID: "m1", Title: "First", Overview: "one", VoteAverage: 7.1},
		{ID: "m2", Title: "Second", Overview: "two", VoteAverage: 6.4},
	}, nil)
	index.On("Reindex", mock.Anything, mock.MatchedBy(func(docs []search.MovieDoc) bool {
		return len(docs) == 2 && docs[0].ID == "m1" && docs[1].Title == "Second"
	})).Return(2, nil)

	count, err := svc.Reindex(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, count)
	index.AssertExpectations(t)
}
