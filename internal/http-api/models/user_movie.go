package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WatchStatus is the tracking status of a collection entry. Transitions are
// unrestricted: any status may be overwritten with any other.
type WatchStatus string

const (
	StatusWillWatch WatchStatus = "will_watch"
	StatusWatched   WatchStatus = "watched"
	StatusDropped   WatchStatus = "dropped"
)

func (s WatchStatus) Valid() bool {
	switch s {
	case StatusWillWatch, StatusWatched, StatusDropped:
		return true
	}
	return false
}

// TargetKind discriminates the two reference spaces a collection entry can
// point into.
type TargetKind string

const (
	TargetCatalog TargetKind = "catalog"
	TargetCustom  TargetKind = "custom"
)

// MovieRef is a tagged reference to either a catalog movie or a custom movie.
// Exactly one target per entry; the XOR is enforced structurally here and by
// a check constraint in storage.
type MovieRef struct {
	Kind TargetKind
	ID   string
}

func CatalogRef(id string) MovieRef { return MovieRef{Kind: TargetCatalog, ID: id} }
func CustomRef(id string) MovieRef  { return MovieRef{Kind: TargetCustom, ID: id} }

// UserMovie links a user to one tracked target with a status and an optional
// rating. Unique per (user, movie) and per (user, custom movie); partial
// unique indexes ignore the NULL column of the pair.
type UserMovie struct {
	ID            string      `json:"id" gorm:"primaryKey;type:uuid"`
	UserID        string      `json:"user_id" gorm:"type:uuid;not null;index;uniqueIndex:uniq_user_movie;uniqueIndex:uniq_user_custom_movie"`
	MovieID       *string     `json:"movie_id,omitempty" gorm:"type:uuid;uniqueIndex:uniq_user_movie;check:chk_movie_xor_custom,(movie_id IS NOT NULL AND custom_movie_id IS NULL) OR (movie_id IS NULL AND custom_movie_id IS NOT NULL)"`
	CustomMovieID *string     `json:"custom_movie_id,omitempty" gorm:"type:uuid;uniqueIndex:uniq_user_custom_movie"`
	Status        WatchStatus `json:"status" gorm:"type:text;not null;default:'will_watch';check:status IN ('will_watch','watched','dropped')"`
	Rating        *float64    `json:"rating,omitempty"`
	AddedAt       time.Time   `json:"added_at" gorm:"autoCreateTime"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`

	User        *User        `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Movie       *Movie       `json:"movie,omitempty" gorm:"foreignKey:MovieID"`
	CustomMovie *CustomMovie `json:"custom_movie,omitempty" gorm:"foreignKey:CustomMovieID"`
}

func (um *UserMovie) BeforeCreate(tx *gorm.DB) (err error) {
	if um.ID == "" {
		um.ID = uuid.New().String()
	}
	return
}

// Ref returns the entry's target as a tagged reference.
func (um *UserMovie) Ref() MovieRef {
	if um.MovieID != nil {
		return CatalogRef(*um.MovieID)
	}
	if um.CustomMovieID != nil {
		return CustomRef(*um.CustomMovieID)
	}
	return MovieRef{}
}

func (UserMovie) TableName() string {
	return "user_movies"
}
