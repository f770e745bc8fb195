package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment routes nested under a review
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	comments := router.Group("/reviews/:review_id/comments")
	{
		comments.GET("", h.List)
		comments.GET("/:comment_id", h.Get)

		comments.POST("", auth, h.Create)
		comments.PATCH("/:comment_id", auth, h.Update)
		comments.DELETE("/:comment_id", auth, h.Delete)
	}
}

// List retrieves a review's comments.
// GET /api/v1/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	page, pageSize := paginationParams(c)
	comments, err := h.commentService.GetReviewComments(reviewID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// Get retrieves a single comment scoped to its review.
// GET /api/v1/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}

	comment, err := h.commentService.GetComment(reviewID, commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Create posts a comment on a review.
// POST /api/v1/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	reviewID, err := strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.CreateComment(middleware.ActorFromContext(c), reviewID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update patches a comment (author, moderator or admin).
// PATCH /api/v1/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.UpdateComment(middleware.ActorFromContext(c), reviewID, commentID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment (author, moderator or admin).
// DELETE /api/v1/reviews/:review_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	reviewID, commentID, ok := commentPath(c)
	if !ok {
		return
	}

	if err := h.commentService.DeleteComment(middleware.ActorFromContext(c), reviewID, commentID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func commentPath(c *gin.Context) (reviewID, commentID int64, ok bool) {
	reviewID, err := strconv.ParseInt(c.Param("review_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
		return 0, 0, false
	}
	commentID, err = strconv.ParseInt(c.Param("comment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment ID"})
		return 0, 0, false
	}
	return reviewID, commentID, true
}
