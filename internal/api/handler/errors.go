package handler

import (
	"errors"
	"net/http"

	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps the service error taxonomy onto HTTP statuses
// in one place: validation 400, auth 401, forbidden 403, absent 404,
// conflicts 409. Anything unrecognised is a 500 with a generic body.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUsernameReserved),
		errors.Is(err, service.ErrUsernameInvalid),
		errors.Is(err, service.ErrScoreOutOfRange),
		errors.Is(err, service.ErrYearInFuture),
		errors.Is(err, service.ErrSlugInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrExpiredCode):
		// one body for both, so responses do not reveal which check failed
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired confirmation code"})

	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrGenreNotFound),
		errors.Is(err, service.ErrTitleNotFound),
		errors.Is(err, service.ErrReviewNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrSlugTaken),
		errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
