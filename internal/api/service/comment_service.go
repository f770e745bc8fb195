package service

import (
	"errors"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/policy"
	"reviewhub/internal/api/repository"

	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentService interface {
	CreateComment(actor *policy.Actor, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(actor *policy.Actor, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(actor *policy.Actor, reviewID, commentID int64) error
	GetComment(reviewID, commentID int64) (*dto.CommentResponse, error)
	GetReviewComments(reviewID int64, page, pageSize int) (*dto.PaginatedResponse[dto.CommentResponse], error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	sanitizer   *bluemonday.Policy
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *commentService) CreateComment(actor *policy.Actor, reviewID int64, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if !policy.Allow(actor, policy.ActionCreate, policy.Resource{Kind: policy.KindComment}) {
		return nil, ErrForbidden
	}

	if _, err := s.reviewRepo.GetByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     s.sanitizer.Sanitize(req.Text),
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) UpdateComment(actor *policy.Actor, reviewID, commentID int64, req dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	comment, err := s.getScoped(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.Allow(actor, policy.ActionUpdate, policy.Resource{Kind: policy.KindComment, OwnerID: comment.AuthorID}) {
		return nil, ErrForbidden
	}

	comment.Text = s.sanitizer.Sanitize(req.Text)
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}

	comment, err = s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) DeleteComment(actor *policy.Actor, reviewID, commentID int64) error {
	comment, err := s.getScoped(reviewID, commentID)
	if err != nil {
		return err
	}
	if !policy.Allow(actor, policy.ActionDelete, policy.Resource{Kind: policy.KindComment, OwnerID: comment.AuthorID}) {
		return ErrForbidden
	}
	return s.commentRepo.Delete(commentID)
}

func (s *commentService) GetComment(reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.getScoped(reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) GetReviewComments(reviewID int64, page, pageSize int) (*dto.PaginatedResponse[dto.CommentResponse], error) {
	if _, err := s.reviewRepo.GetByID(reviewID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginatedResponse(responses, int(total), page, pageSize), nil
}

func (s *commentService) getScoped(reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentNotFound
	}
	return comment, nil
}
