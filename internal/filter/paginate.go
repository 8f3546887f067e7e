package filter

import "github.com/tayloree/appliance-compare/internal/catalog"

const (
	// PageSize is the number of products per list page.
	PageSize = 12
	// MaxPageLinks bounds the pager window.
	MaxPageLinks = 5
)

// Page is one slice of a filtered, sorted list.
type Page struct {
	Items      []catalog.Product `json:"items"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
	Total      int               `json:"total"`
	Numbers    []int             `json:"pageNumbers"`
}

// HasPrev reports whether a previous page exists.
func (p Page) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p Page) HasNext() bool { return p.Page < p.TotalPages }

// Paginate returns the 1-indexed page of products. An out-of-range page is
// clamped; size <= 0 uses PageSize.
func Paginate(products []catalog.Product, page, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	total := TotalPages(len(products), size)
	page = ClampPage(page, total)

	start := (page - 1) * size
	end := min(start+size, len(products))
	var items []catalog.Product
	if start < end {
		items = products[start:end]
	}

	return Page{
		Items:      items,
		Page:       page,
		TotalPages: total,
		Total:      len(products),
		Numbers:    PageWindow(page, total, MaxPageLinks),
	}
}

// TotalPages is ceil(n/size), 0 for an empty list.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// ClampPage keeps page inside [1, total], or 1 when total is 0.
func ClampPage(page, total int) int {
	if total <= 0 || page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// PageWindow returns at most limit page numbers centered on current, left
// justified at the start and right justified at the end.
func PageWindow(current, total, limit int) []int {
	if total <= 0 || limit <= 0 {
		return nil
	}
	current = ClampPage(current, total)
	if total <= limit {
		return pageRange(1, total)
	}
	start := max(current-limit/2, 1)
	end := start + limit - 1
	if end > total {
		end = total
		start = end - limit + 1
	}
	return pageRange(start, end)
}

func pageRange(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for n := from; n <= to; n++ {
		out = append(out, n)
	}
	return out
}
