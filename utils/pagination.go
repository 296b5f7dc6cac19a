package utils

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// Ellipsis marks a gap in a page window.
const Ellipsis PageMark = 0

// PageMark is a page number in a window, or Ellipsis.
type PageMark int

func (p PageMark) MarshalJSON() ([]byte, error) {
	if p == Ellipsis {
		return []byte(`"..."`), nil
	}
	return []byte(strconv.Itoa(int(p))), nil
}

func (p PageMark) String() string {
	if p == Ellipsis {
		return "..."
	}
	return strconv.Itoa(int(p))
}

// PageWindow returns the compressed list of page links around page.
func PageWindow(page, totalPages int) []PageMark {
	pages := []PageMark{}
	span := func(from, to int) {
		for i := from; i <= to; i++ {
			pages = append(pages, PageMark(i))
		}
	}

	switch {
	case totalPages <= 7:
		span(1, totalPages)
	case page <= 4:
		span(1, 5)
		pages = append(pages, Ellipsis, PageMark(totalPages))
	case page >= totalPages-3:
		pages = append(pages, 1, Ellipsis)
		span(totalPages-4, totalPages)
	default:
		pages = append(pages, 1, Ellipsis)
		span(page-2, page+2)
		pages = append(pages, Ellipsis, PageMark(totalPages))
	}
	return pages
}

type Pagination struct {
	CurrentPage int        `json:"current_page"`
	PerPage     int        `json:"per_page"`
	TotalPages  int        `json:"total_pages"`
	Total       int64      `json:"total"`
	HasPrev     bool       `json:"has_prev"`
	HasNext     bool       `json:"has_next"`
	PrevURL     string     `json:"prev_url,omitempty"`
	NextURL     string     `json:"next_url,omitempty"`
	Pages       []PageMark `json:"pages"`
}

// Paginate builds navigation for total rows. params are carried into prev/next links.
func Paginate(page, perPage int, total int64, base string, params url.Values) Pagination {
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	p := Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		TotalPages:  totalPages,
		Total:       total,
		HasPrev:     page > 1,
		HasNext:     page < totalPages,
		Pages:       PageWindow(page, totalPages),
	}

	link := func(target int) string {
		q := url.Values{}
		for k, v := range params {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(target))
		return fmt.Sprintf("%s?%s", base, q.Encode())
	}
	if p.HasPrev {
		p.PrevURL = link(page - 1)
	}
	if p.HasNext {
		p.NextURL = link(page + 1)
	}
	return p
}

// ParsePageParams reads page and per_page from the query string.
func ParsePageParams(c *gin.Context) (page, perPage, offset int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ = strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage, (page - 1) * perPage
}
