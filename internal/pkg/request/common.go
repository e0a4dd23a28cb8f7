package request

import "strings"

// ByIDRequest is a common struct for endpoints that require an ID path parameter.
type ByIDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ListParams carries the pagination and sorting query parameters shared by list endpoints.
type ListParams struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"min=1,max=100"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// NormalizedSortOrder returns ASC or DESC, defaulting to the given direction.
func (p ListParams) NormalizedSortOrder(fallback string) string {
	if p.SortOrder == "" {
		return fallback
	}
	return strings.ToUpper(p.SortOrder)
}
