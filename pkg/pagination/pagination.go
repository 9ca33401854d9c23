package pagination

// PageSize is the fixed number of items shown on each catalog page.
const PageSize = 50

// Params holds page-based pagination inputs from controllers or services.
type Params struct {
	Page int
}

// Page describes one slice of a larger result set. Pages are zero-indexed.
type Page struct {
	Index      int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}

// NormalizePage clamps negative page indexes to the first page.
func NormalizePage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}

// TotalPages reports how many pages a result set of n items spans.
// An empty result set still renders one (empty) page.
func TotalPages(n int) int {
	if n <= 0 {
		return 1
	}
	return (n + PageSize - 1) / PageSize
}

// Bounds returns the half-open slice range [start, end) for the given page.
// Pages past the end of the result set yield an empty range.
func Bounds(page, n int) (int, int) {
	page = NormalizePage(page)
	start := page * PageSize
	if start >= n {
		return n, n
	}
	end := start + PageSize
	if end > n {
		end = n
	}
	return start, end
}

// Describe builds the page envelope for a result set of n items.
func Describe(page, n int) Page {
	return Page{
		Index:      NormalizePage(page),
		PageSize:   PageSize,
		TotalItems: n,
		TotalPages: TotalPages(n),
	}
}
