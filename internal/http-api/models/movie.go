package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Movie is a canonical catalog record sourced from TMDB. Ingestion creates
// these; the rest of the system treats them as read-only.
type Movie struct {
	ID               string        `json:"id" gorm:"primaryKey;type:uuid"`
	TmdbID           int64         `json:"tmdb_id" gorm:"uniqueIndex;not null"`
	Adult            bool          `json:"adult" gorm:"not null"`
	BackdropPath     *string       `json:"backdrop_path,omitempty" gorm:"size:255"`
	GenreIDs         pq.Int64Array `json:"genre_ids" gorm:"type:integer[];not null"`
	OriginalLanguage string        `json:"original_language" gorm:"size:10;not null"`
	OriginalTitle    string        `json:"original_title" gorm:"size:255;not null"`
	Overview         string        `json:"overview" gorm:"size:2000;not null"`
	Popularity       float64       `json:"popularity" gorm:"not null"`
	PosterPath       *string       `json:"poster_path,omitempty" gorm:"size:255"`
	ReleaseDate      *time.Time    `json:"release_date,omitempty" gorm:"type:date"`
	Title            string        `json:"title" gorm:"size:255;not null"`
	Video            bool          `json:"video" gorm:"not null"`
	VoteAverage      float64       `json:"vote_average" gorm:"not null"`
	VoteCount        int64         `json:"vote_count" gorm:"not null"`

	UserMovies []UserMovie `json:"-" gorm:"foreignKey:MovieID"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// Genres resolves the movie's genre codes to display names.
func (m *Movie) Genres() []string {
	ids := make([]int, 0, len(m.GenreIDs))
	for _, id := range m.GenreIDs {
		ids = append(ids, int(id))
	}
	return GenreNamesFor(ids)
}

func (Movie) TableName() string {
	return "movies"
}
