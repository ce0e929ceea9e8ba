package common

import (
	"strconv"

	"fieldwork.com/console/collection"
	"fieldwork.com/console/core"
	"github.com/gin-gonic/gin"
)

// ListChange reads search, filter[key], sort and page query parameters.
// Parameters that are absent leave the screen's state untouched.
func ListChange(c *gin.Context) core.ListChange {
	var change core.ListChange
	if search, ok := c.GetQuery("search"); ok {
		change.Search = &search
	}
	if filters, ok := c.GetQueryMap("filter"); ok {
		change.Filters = filters
	}
	if sort, ok := c.GetQuery("sort"); ok {
		order := collection.ParseSortOrder(sort)
		change.Sort = &order
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil {
		change.Page = &page
	}
	return change
}

func Refresh(c *gin.Context) bool {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	return refresh
}
