package models

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenreVocabularySize(t *testing.T) {
	assert.Len(t, AllGenreNames(), 19)
}

func TestGenreNamesFor(t *testing.T) {
	names := GenreNamesFor([]int{28, 878, 10751})
	assert.Equal(t, []string{"боевик", "фантастика", "семейный"}, names)
}

func TestGenreNamesFor_DropsUnknownCodes(t *testing.T) {
	names := GenreNamesFor([]int{28, 9999999})
	assert.Equal(t, []string{"боевик"}, names)
}

func TestIsKnownGenre(t *testing.T) {
	assert.True(t, IsKnownGenre("боевик"))
	assert.True(t, IsKnownGenre("телевизионный фильм"))
	assert.False(t, IsKnownGenre("космоопера"))
	assert.False(t, IsKnownGenre("Боевик")) // expects normalized input
}

func TestNormalizeGenre(t *testing.T) {
	assert.Equal(t, "боевик", NormalizeGenre("  Боевик "))
	assert.Equal(t, "вестерн", NormalizeGenre("ВЕСТЕРН"))
}

func TestAllGenreNames_Sorted(t *testing.T) {
	names := AllGenreNames()
	assert.True(t, sort.StringsAreSorted(names))
}

func TestWatchStatusValid(t *testing.T) {
	assert.True(t, StatusWillWatch.Valid())
	assert.True(t, StatusWatched.Valid())
	assert.True(t, StatusDropped.Valid())
	assert.False(t, WatchStatus("watching").Valid())
	assert.False(t, WatchStatus("").Valid())
}

func TestUserMovieRef(t *testing.T) {
	movieID := "movie-1"
	customID := "custom-1"

	catalog := UserMovie{MovieID: &movieID}
	assert.Equal(t, CatalogRef("movie-1"), catalog.Ref())

	custom := UserMovie{CustomMovieID: &customID}
	assert.Equal(t, CustomRef("custom-1"), custom.Ref())
}
