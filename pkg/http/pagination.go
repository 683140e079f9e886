package http

const ReportPageSize = 10

type Page[T any] struct {
	Page         int `json:"page"`
	PageSize     int `json:"page_size"`
	TotalResults int `json:"total_results"`
	TotalPages   int `json:"total_pages"`
	Results      []T `json:"results"`
}

// Paginate slices out the 1-based page. Pages past the end are empty.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	p := Page[T]{
		Page:         page,
		PageSize:     size,
		TotalResults: total,
		TotalPages:   (total + size - 1) / size,
		Results:      []T{},
	}

	// checked before multiplying so a huge page cannot overflow
	if page < 1 || page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := min(start+size, total)
	p.Results = items[start:end]
	return p
}
