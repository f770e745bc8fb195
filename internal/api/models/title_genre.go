package models

// explicit join model so the linkage rows carry their own id and a
// uniqueness constraint on the pair
type TitleGenre struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID int64 `json:"title_id" gorm:"uniqueIndex:uniq_title_genre;not null"`
	GenreID int64 `json:"genre_id" gorm:"uniqueIndex:uniq_title_genre;not null"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
