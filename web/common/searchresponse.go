package common

import (
	"fieldwork.com/console/collection"
	"fieldwork.com/console/core"
)

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
	HasPrev    bool  `json:"hasPrev"`
	HasNext    bool  `json:"hasNext"`
}

type SearchResponse struct {
	Data       interface{}     `json:"data"`
	Pagination Pagination      `json:"pagination"`
	State      *core.ListState `json:"state,omitempty"`
	Toast      *core.Toast     `json:"toast,omitempty"`
}

func NewSearchResponse(data interface{}, total int64) *SearchResponse {
	return &SearchResponse{
		Data: data,
		Pagination: Pagination{
			Total: total,
		},
	}
}

// NewPageResponse wraps one page of a list screen together with the view
// state that produced it.
func NewPageResponse[T any](page collection.Page[T], state core.ListState) *SearchResponse {
	return &SearchResponse{
		Data: page.Items,
		Pagination: Pagination{
			Total:      int64(page.TotalItems),
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
			HasPrev:    page.HasPrev,
			HasNext:    page.HasNext,
		},
		State: &state,
	}
}
