package pagination

import "strconv"

// Meta describes one window of a paginated collection.
type Meta struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// ParsePage interprets the raw ?page= query value. Missing or malformed
// values fall back to the first page.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Window converts a page number and page size into a LIMIT/OFFSET pair.
func Window(page, size int) (limit, offset int) {
	return size, (page - 1) * size
}

// NewMeta builds window metadata for a page over total items.
func NewMeta(page, size, total int) Meta {
	pages := total / size
	if total%size != 0 {
		pages++
	}
	return Meta{Page: page, PerPage: size, Total: total, Pages: pages}
}
