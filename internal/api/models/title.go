package models

import "time"

type Title struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string  `json:"name" gorm:"size:256;not null;index"`
	Year        int     `json:"year" gorm:"not null;index"`
	Description string  `json:"description,omitempty" gorm:"type:text"`
	CategoryID  *int64  `json:"-" gorm:"index"`
	// Rating is a cached projection over the title's reviews, recomputed
	// inside the same transaction as every review write. nil means the
	// title has no reviews, which is distinct from a rating of zero.
	Rating    *float64   `json:"rating" gorm:"type:decimal(4,2)"`
	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`

	// associations
	Category *Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL;"`
	Genres   []Genre   `json:"genre,omitempty" gorm:"many2many:title_genres;constraint:OnDelete:CASCADE;"`
}

func (Title) TableName() string {
	return "titles"
}
