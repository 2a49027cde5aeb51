package response

import (
	"net/url"
	"strconv"
)

// Page is a length-aware pagination payload. Every generated link keeps the
// query parameters passed to NewPage.
type Page struct {
	CurrentPage  int     `json:"current_page"`
	Data         any     `json:"data"`
	FirstPageURL string  `json:"first_page_url"`
	From         *int    `json:"from"`
	LastPage     int     `json:"last_page"`
	LastPageURL  string  `json:"last_page_url"`
	NextPageURL  *string `json:"next_page_url"`
	Path         string  `json:"path"`
	PerPage      int     `json:"per_page"`
	PrevPageURL  *string `json:"prev_page_url"`
	To           *int    `json:"to"`
	Total        int     `json:"total"`
}

// NewPage builds a Page for items (count of them on this page) out of total.
// path is the absolute list URL without a query; appends are added to every link.
func NewPage(items any, count, total, page, perPage int, path string, appends url.Values) Page {
	if perPage < 1 {
		perPage = 1
	}
	if page < 1 {
		page = 1
	}

	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	link := func(n int) string {
		q := url.Values{}
		for k, vs := range appends {
			for _, v := range vs {
				if v != "" {
					q.Add(k, v)
				}
			}
		}
		q.Set("page", strconv.Itoa(n))
		return path + "?" + q.Encode()
	}

	p := Page{
		CurrentPage:  page,
		Data:         items,
		FirstPageURL: link(1),
		LastPage:     lastPage,
		LastPageURL:  link(lastPage),
		Path:         path,
		PerPage:      perPage,
		Total:        total,
	}

	if count > 0 {
		from := (page-1)*perPage + 1
		to := from + count - 1
		p.From = &from
		p.To = &to
	}
	if page < lastPage {
		next := link(page + 1)
		p.NextPageURL = &next
	}
	if page > 1 {
		prev := link(page - 1)
		p.PrevPageURL = &prev
	}

	return p
}
