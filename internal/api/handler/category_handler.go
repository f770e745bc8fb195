package handler

import (
	"net/http"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	catalogService service.CatalogService
}

func NewCategoryHandler(catalogService service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: catalogService}
}

// RegisterRoutes: list is public, writes go through auth. There is no
// update or detail endpoint, matching the genre surface.
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", auth, h.Create)
		categories.DELETE("/:slug", auth, h.Delete)
	}
}

// List retrieves categories, filterable by exact name.
// GET /api/v1/categories?search=Books
func (h *CategoryHandler) List(c *gin.Context) {
	page, pageSize := paginationParams(c)
	categories, err := h.catalogService.ListCategories(c.Query("search"), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// Create adds a category (admin only).
// POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.catalogService.CreateCategory(middleware.ActorFromContext(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// Delete removes a category by slug (admin only); titles keep existing
// with a null category.
// DELETE /api/v1/categories/:slug
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.catalogService.DeleteCategory(middleware.ActorFromContext(c), c.Param("slug")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
