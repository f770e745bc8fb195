package service

import (
	"context"
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/policy"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/cache"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this title")
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
)

const uniqueViolation = "23505"

type ReviewService interface {
	CreateReview(ctx context.Context, actor *policy.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error)
	UpdateReview(ctx context.Context, actor *policy.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error)
	DeleteReview(ctx context.Context, actor *policy.Actor, titleID, reviewID int64) error
	GetReview(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse[dto.ReviewResponse], error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	ratings    *cache.RatingCache
	sanitizer  *bluemonday.Policy
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository, ratings *cache.RatingCache) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		ratings:    ratings,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// CreateReview posts the actor's review for a title. One review per
// (title, author): the service pre-checks for a friendly error, the
// unique index settles races, and the repository refreshes the title's
// rating inside the same transaction as the insert.
func (s *reviewService) CreateReview(ctx context.Context, actor *policy.Actor, titleID int64, req dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if !policy.Allow(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindReview}) {
		return nil, ErrForbidden
	}
	if req.Score < 1 || req.Score > 10 {
		return nil, ErrScoreOutOfRange
	}

	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	if _, err := s.reviewRepo.GetByTitleAndAuthor(titleID, actor.ID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     s.sanitizer.Sanitize(req.Text),
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	if err := s.ratings.Invalidate(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor *policy.Actor, titleID, reviewID int64, req dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := s.getScoped(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !policy.Allow(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindReview, OwnerID: review.AuthorID}) {
		return nil, ErrForbidden
	}

	if req.Text != nil {
		review.Text = s.sanitizer.Sanitize(*req.Text)
	}
	if req.Score != nil {
		if *req.Score < 1 || *req.Score > 10 {
			return nil, ErrScoreOutOfRange
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	if err := s.ratings.Invalidate(ctx, titleID); err != nil {
		return nil, err
	}

	review, err = s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) DeleteReview(ctx context.Context, actor *policy.Actor, titleID, reviewID int64) error {
	review, err := s.getScoped(titleID, reviewID)
	if err != nil {
		return err
	}
	if !policy.Allow(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindReview, OwnerID: review.AuthorID}) {
		return ErrForbidden
	}

	if err := s.reviewRepo.Delete(reviewID); err != nil {
		return err
	}
	return s.ratings.Invalidate(ctx, titleID)
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.getScoped(titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedResponse[dto.ReviewResponse], error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTitleNotFound
		}
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

// getScoped loads a review and checks it belongs to the title in the
// URL, so /titles/1/reviews/9 cannot reach a review of another title.
func (s *reviewService) getScoped(titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}

// isUniqueViolation matches the constraint error either through gorm's
// translated sentinel or the raw postgres error code.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
