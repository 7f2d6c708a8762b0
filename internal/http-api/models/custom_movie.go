package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomMovie is a user-authored stand-in for a title the catalog does not
// track. A user cannot create two custom movies with the same title.
type CustomMovie struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID      string     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:uniq_user_custom_title"`
	Title       string     `json:"title" gorm:"size:255;not null;uniqueIndex:uniq_user_custom_title"`
	Description *string    `json:"description,omitempty" gorm:"size:2000"`
	PosterPath  *string    `json:"poster_path,omitempty" gorm:"size:255"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`

	User       *User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	UserMovies []UserMovie `json:"-" gorm:"foreignKey:CustomMovieID"`
}

func (cm *CustomMovie) BeforeCreate(tx *gorm.DB) (err error) {
	if cm.ID == "" {
		cm.ID = uuid.New().String()
	}
	return
}

func (CustomMovie) TableName() string {
	return "custom_movies"
}
