package viewstate

// DefaultDistance is the default half-width (in pages) of the page
// window rendered around the current page.
const DefaultDistance = 5

// PaginationMetadata describes the shape of the current result set. It
// is supplied by the data source per render, never computed by the
// engine; the engine only consumes it to build the visible page window.
// Empty result sets are a normal state with TotalPages == 0, not an
// error.
type PaginationMetadata struct {
	Page         int
	PageSize     int
	TotalEntries int64
	TotalPages   int
}

// PageWindow computes the ordered sequence of page numbers to render as
// links around currentPage, clipped to [1, totalPages]. A distance
// below 1 falls back to DefaultDistance.
//
// When totalPages is 0 the window is the single value currentPage: the
// current page number is still rendered even though no pages exist.
//
// The centered window spans 2*distance pages when currentPage sits
// within the leading edge, but only currentPage+distance-1 when fully
// centered. The one-page difference between the branches is preserved
// deliberately; callers depend on the exact link sequence.
//
// currentPage comes from the URL and may point anywhere. A current page
// beyond totalPages+distance collapses the window to the final page; one
// far below 1 collapses it to the first.
func PageWindow(currentPage, totalPages, distance int) []int {
	if distance < 1 {
		distance = DefaultDistance
	}
	if totalPages == 0 {
		return []int{currentPage}
	}

	start := currentPage - distance
	if start < 1 {
		start = 1
	}

	var end int
	switch {
	case currentPage <= distance && 2*distance <= totalPages:
		end = 2 * distance
	case currentPage+distance >= totalPages:
		end = totalPages
	default:
		end = currentPage + distance - 1
	}

	if end < 1 {
		end = 1
	}
	if start > end {
		start = end
	}

	window := make([]int, 0, end-start+1)
	for page := start; page <= end; page++ {
		window = append(window, page)
	}
	return window
}
