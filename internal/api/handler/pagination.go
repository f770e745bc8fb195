package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// paginationParams reads page/page_size query params with the usual
// clamping: page >= 1, page_size in [1, 100], default 20.
func paginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
