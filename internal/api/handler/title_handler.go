package handler

import (
	"net/http"
	"strconv"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/middleware"
	"reviewhub/internal/api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	catalogService service.CatalogService
}

func NewTitleHandler(catalogService service.CatalogService) *TitleHandler {
	return &TitleHandler{catalogService: catalogService}
}

func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup, auth gin.HandlerFunc) {
	titles := router.Group("/titles")
	{
		titles.GET("", h.List)
		titles.GET("/:title_id", h.Get)

		titles.POST("", auth, h.Create)
		titles.PATCH("/:title_id", auth, h.Update)
		titles.DELETE("/:title_id", auth, h.Delete)
	}
}

// List retrieves titles with filters on name, year, category slug and
// genre slug.
// GET /api/v1/titles?name=&year=&category=&genre=
func (h *TitleHandler) List(c *gin.Context) {
	var filter dto.TitleFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	page, pageSize := paginationParams(c)
	titles, err := h.catalogService.ListTitles(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, titles)
}

// Get retrieves a single title with its computed rating.
// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	titleID, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	title, err := h.catalogService.GetTitle(c.Request.Context(), titleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// Create adds a title (admin only); category and genres are passed by
// slug.
// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.TitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.catalogService.CreateTitle(c.Request.Context(), middleware.ActorFromContext(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, title)
}

// Update patches a title (admin only).
// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	titleID, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	var req dto.UpdateTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	title, err := h.catalogService.UpdateTitle(c.Request.Context(), middleware.ActorFromContext(c), titleID, req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, title)
}

// Delete removes a title along with its reviews (admin only).
// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	titleID, err := strconv.ParseInt(c.Param("title_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid title ID"})
		return
	}

	if err := h.catalogService.DeleteTitle(c.Request.Context(), middleware.ActorFromContext(c), titleID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
