package dto

import (
	"time"

	"filmoteka/internal/http-api/models"
)

// AddToCollectionRequest: exactly one of movie_id (catalog reference) or
// title (fresh custom movie) must be set; the service enforces the XOR.
type AddToCollectionRequest struct {
	MovieID     *string  `json:"movie_id,omitempty"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	PosterPath  *string  `json:"poster_path,omitempty"`
	Status      *string  `json:"status,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// CollectionMovieResponse is the denormalized collection entry: title,
// overview and poster come from whichever target the entry points at.
type CollectionMovieResponse struct {
	ID           string             `json:"id"`
	TargetID     string             `json:"target_id"`
	Title        string             `json:"title"`
	Description  *string            `json:"description,omitempty"`
	Status       models.WatchStatus `json:"status"`
	Rating       *float64           `json:"rating,omitempty"`
	PosterPath   *string            `json:"poster_path,omitempty"`
	BackdropPath *string            `json:"backdrop_path,omitempty"`
	ReleaseDate  *string            `json:"release_date,omitempty"`
	Genres       []string           `json:"genres,omitempty"`
	AddedAt      time.Time          `json:"added_at"`
	UpdatedAt    *time.Time         `json:"updated_at,omitempty"`
}

// FromUserMovie resolves the entry against its target. The boolean is false
// when the target record has vanished; callers skip such entries.
func FromUserMovie(um models.UserMovie) (CollectionMovieResponse, bool) {
	resp := CollectionMovieResponse{
		ID:        um.ID,
		Status:    um.Status,
		Rating:    um.Rating,
		AddedAt:   um.AddedAt,
		UpdatedAt: um.UpdatedAt,
	}

	switch {
	case um.Movie != nil:
		m := um.Movie
		resp.TargetID = m.ID
		resp.Title = m.Title
		resp.Description = &m.Overview
		resp.PosterPath = m.PosterPath
		resp.BackdropPath = m.BackdropPath
		resp.Genres = m.Genres()
		if m.ReleaseDate != nil {
			date := m.ReleaseDate.Format(time.DateOnly)
			resp.ReleaseDate = &date
		}
	case um.CustomMovie != nil:
		cm := um.CustomMovie
		resp.TargetID = cm.ID
		resp.Title = cm.Title
		resp.Description = cm.Description
		resp.PosterPath = cm.PosterPath
	default:
		return CollectionMovieResponse{}, false
	}

	return resp, true
}
