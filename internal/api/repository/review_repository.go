package repository

import (
	"reviewhub/internal/api/models"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *models.Review) error
	Update(review *models.Review) error
	Delete(reviewID int64) error
	GetByID(reviewID int64) (*models.Review, error)
	GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error)
	GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Every write runs in a transaction that also refreshes the title's
// cached rating, so the read path never observes a stale value. The
// unique (title_id, author_id) index remains the arbiter when two
// submissions race past the service-level duplicate check.

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return recomputeTitleRating(tx, review.TitleID)
	})
}

func (r *reviewRepository) Update(review *models.Review) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return recomputeTitleRating(tx, review.TitleID)
	})
}

func (r *reviewRepository) Delete(reviewID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, reviewID).Error; err != nil {
			return err
		}
		if err := tx.Where("review_id = ?", reviewID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return recomputeTitleRating(tx, review.TitleID)
	})
}

func (r *reviewRepository) GetByID(reviewID int64) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("id = ?", reviewID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitleAndAuthor(titleID int64, authorID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("title_id = ? AND author_id = ?", titleID, authorID).
		Preload("Author").
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) GetByTitle(titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	var reviews []models.Review
	var total int64

	if err := r.db.Model(&models.Review{}).Where("title_id = ?", titleID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := r.db.Where("title_id = ?", titleID).
		Preload("Author").
		Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// recomputeTitleRating projects AVG(score) over the title's current
// review set into titles.rating. AVG over zero rows is NULL, which keeps
// "no reviews" distinct from a zero rating.
func recomputeTitleRating(tx *gorm.DB, titleID int64) error {
	var avg struct {
		Average *float64
	}
	err := tx.Model(&models.Review{}).
		Select("AVG(score) as average").
		Where("title_id = ?", titleID).
		Scan(&avg).Error
	if err != nil {
		return err
	}

	return tx.Model(&models.Title{}).
		Where("id = ?", titleID).
		Update("rating", avg.Average).Error
}
