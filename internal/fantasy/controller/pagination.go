package controller

import (
	"strconv"

	pkgrepo "fantasy/pkg/repository"

	"github.com/gin-gonic/gin"
)

// bindPagination reads page, recordsnumber and filter from the query string.
// "recordsNumber" is accepted as an alias of "recordsnumber".
func bindPagination(c *gin.Context) (pkgrepo.Pagination, bool) {
	var pagination pkgrepo.Pagination
	if err := c.ShouldBindQuery(&pagination); err != nil {
		return pagination, false
	}
	if pagination.RecordsNumber == 0 {
		if raw, ok := c.GetQuery("recordsNumber"); ok {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return pagination, false
			}
			pagination.RecordsNumber = n
		}
	}
	pagination.Normalize()
	return pagination, true
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
