package dto

import (
	"time"

	"filmoteka/internal/http-api/models"
)

// MovieResponse is the denormalized catalog view: genre names resolved and
// the caller's tracking status attached (nil when untracked).
type MovieResponse struct {
	ID               string              `json:"id"`
	TmdbID           *int64              `json:"tmdb_id,omitempty"`
	Adult            *bool               `json:"adult,omitempty"`
	BackdropPath     *string             `json:"backdrop_path,omitempty"`
	OriginalLanguage *string             `json:"original_language,omitempty"`
	OriginalTitle    *string             `json:"original_title,omitempty"`
	Overview         *string             `json:"overview,omitempty"`
	Popularity       *float64            `json:"popularity,omitempty"`
	PosterPath       *string             `json:"poster_path,omitempty"`
	ReleaseDate      *string             `json:"release_date,omitempty"`
	Title            string              `json:"title"`
	Video            *bool               `json:"video,omitempty"`
	VoteAverage      *float64            `json:"vote_average,omitempty"`
	VoteCount        *int64              `json:"vote_count,omitempty"`
	Genres           []string            `json:"genres,omitempty"`
	Status           *models.WatchStatus `json:"status"`
}

// MetadataResponse: scraped page metadata for prefilling a custom movie
type MetadataResponse struct {
	Title     *string `json:"title"`
	Overview  *string `json:"overview"`
	PosterURL *string `json:"poster_url"`
}

// FromMovie builds the catalog view for one movie.
func FromMovie(m models.Movie, status *models.WatchStatus) MovieResponse {
	resp := MovieResponse{
		ID:               m.ID,
		TmdbID:           &m.TmdbID,
		Adult:            &m.Adult,
		BackdropPath:     m.BackdropPath,
		OriginalLanguage: &m.OriginalLanguage,
		OriginalTitle:    &m.OriginalTitle,
		Overview:         &m.Overview,
		Popularity:       &m.Popularity,
		PosterPath:       m.PosterPath,
		Title:            m.Title,
		Video:            &m.Video,
		VoteAverage:      &m.VoteAverage,
		VoteCount:        &m.VoteCount,
		Genres:           m.Genres(),
		Status:           status,
	}
	if m.ReleaseDate != nil {
		date := m.ReleaseDate.Format(time.DateOnly)
		resp.ReleaseDate = &date
	}
	return resp
}
