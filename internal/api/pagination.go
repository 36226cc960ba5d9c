package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PageParams are the page-number pagination query parameters.
type PageParams struct {
	Page  int
	Limit int
}

// Offset converts the page number into a row offset.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// pageParams reads `page` and `limit`, clamping bad values to the
// configured defaults.
func pageParams(c *gin.Context, defaultLimit, maxLimit int) PageParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return PageParams{Page: page, Limit: limit}
}
