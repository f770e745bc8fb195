package handler

import (
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type GenreHandler struct {
	catalogService service.CatalogService
}

func NewGenreHandler(catalogService service.CatalogService) *GenreHandler {
	return &GenreHandler{catalogService: catalogService}
}

func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	genres := router.Group("/genres")
	{
		genres.GET("", h.List)
		genres.POST("", auth, h.Create)
		genres.DELETE("/:slug", auth, h.Delete)
	}
}

// List retrieves genres, filterable by exact name.
// GET /api/v1/genres?search=Fantasy
func (h *GenreHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	genres, err := h.catalogService.ListGenres(c.Query("search"), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, genres)
}

// Create adds a genre (admin only).
// POST /api/v1/genres
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genre, err := h.catalogService.CreateGenre(middleware.ActorFromContext(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, genre)
}

// Delete removes a genre by slug (admin only); title linkage rows go
// with it.
// DELETE /api/v1/genres/:slug
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.catalogService.DeleteGenre(middleware.ActorFromContext(c), c.Param("slug")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
