package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// Paginate clamps page into [1, totalPages] and returns the slice bounds for it.
func Paginate(page, pageSize, total int) (Pagination, int, int) {
	if pageSize <= 0 {
		pageSize = 10
	}
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Pagination{Page: page, PageSize: pageSize, TotalCount: total, TotalPages: totalPages}, start, end
}
