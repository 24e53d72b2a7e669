package domain

// Page is one slice of an owner's cached or freshly retrieved set.
type Page[T any] struct {
	Items    []T
	Total    int
	Page     int
	PageSize int
	HasMore  bool

	// FromCache is true when the items were served without waiting on a retrieval.
	FromCache bool
	// StaleWriteIgnored is true when a refresh returned nothing and the cached set was kept.
	StaleWriteIgnored bool
	// RefreshErr carries a retrieval failure that was recovered from cached data.
	RefreshErr error
}

// NormalizePage clamps page and pageSize to usable values.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	return page, pageSize
}

// Paginate slices an already sorted set. Pages are 1-based.
func Paginate[T any](sorted []T, page, pageSize int) Page[T] {
	page, pageSize = NormalizePage(page, pageSize)
	total := len(sorted)

	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	items := make([]T, end-start)
	copy(items, sorted[start:end])

	return Page[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < total,
	}
}
