package models

import "time"

type Review struct {
	ID       int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64  `json:"title_id" gorm:"uniqueIndex:uniq_review_title_author;not null"`
	AuthorID string `json:"author_id" gorm:"type:uuid;uniqueIndex:uniq_review_title_author;not null"`
	Text     string `json:"text" gorm:"not null;type:text"`
	// The composite unique index above is the authoritative guard against
	// two reviews from the same author racing past the service-level check.
	Score     int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
