package folio

// DefaultPageSize is the listing page size when the request does not ask for
// another one.
const DefaultPageSize = 9

// maxPageSize caps the limit query parameter.
const maxPageSize = 50

// visibleWindow is the maximum number of page links surfaced to the UI.
const visibleWindow = 5

// ListQuery selects and pages published posts. At most one of Search,
// Category, and Tag applies: Search wins over Category, which wins over Tag,
// mirroring a UI that clears the other selectors when one is chosen.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
	Tag      string

	// IncludeDrafts widens the listing to unpublished posts. Only admin
	// handlers set it.
	IncludeDrafts bool
	// DraftsOnly narrows the listing to drafts. Implies IncludeDrafts.
	DraftsOnly bool
}

func (q ListQuery) normalized() ListQuery {
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Search != "":
		q.Category, q.Tag = "", ""
	case q.Category != "":
		q.Tag = ""
	}
	return q
}

// BuildPagination computes page metadata for a listing of totalPosts rows.
// TotalPages is never below 1 and CurrentPage is clamped into
// [1, TotalPages], so zero results yield page 1 of 1 rather than an error.
func BuildPagination(totalPosts, currentPage, pageSize int) Pagination {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if totalPosts < 0 {
		totalPosts = 0
	}
	totalPages := (totalPosts + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if currentPage < 1 {
		currentPage = 1
	}
	if currentPage > totalPages {
		currentPage = totalPages
	}
	return Pagination{
		CurrentPage:  currentPage,
		TotalPages:   totalPages,
		TotalPosts:   totalPosts,
		PageSize:     pageSize,
		HasNextPage:  currentPage < totalPages,
		HasPrevPage:  currentPage > 1,
		VisiblePages: visiblePages(currentPage, totalPages),
	}
}

// visiblePages returns a sliding window of at most visibleWindow page
// numbers centered on current, shifted at the boundaries so the window never
// extends past [1, totalPages].
func visiblePages(current, totalPages int) []int {
	start := current - visibleWindow/2
	if start < 1 {
		start = 1
	}
	end := start + visibleWindow - 1
	if end > totalPages {
		end = totalPages
		start = end - visibleWindow + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
