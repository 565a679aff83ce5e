package httpbind

import (
	"strconv"

	"github.com/gridline/gridline/pkg/datasource"
	"github.com/gridline/gridline/pkg/viewstate"
)

// TableView is the JSON view model a UI layer binds to. Hrefs are
// query strings only; the client applies them to the current path.
type TableView[T any] struct {
	Rows       []T                          `json:"rows"`
	Sort       SortView                     `json:"sort"`
	Search     string                       `json:"search"`
	Pagination viewstate.PaginationMetadata `json:"pagination"`
	Window     []PageLink                   `json:"window"`
	SortLinks  []SortLink                   `json:"sort_links"`
	Query      string                       `json:"query"`
}

// SortView is the resolved sort state.
type SortView struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

// PageLink is one entry of the page window. The active entry is the
// current page and renders as a non-link.
type PageLink struct {
	Page   int    `json:"page"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// SortLink is the next-state link for one sortable column header.
type SortLink struct {
	Field  string `json:"field"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// buildView assembles the view model for one fetched page. Every href
// funnels through BuildQueryString so equal state always produces
// identical URLs.
func (h *Handler[T]) buildView(
	params viewstate.ParameterMap,
	sort viewstate.SortState,
	term string,
	result *datasource.Result[T],
) TableView[T] {
	window := viewstate.PageWindow(result.Meta.Page, result.Meta.TotalPages, h.cfg.Distance)

	pageLinks := make([]PageLink, 0, len(window))
	for _, page := range window {
		pageLinks = append(pageLinks, PageLink{
			Page:   page,
			Href:   viewstate.BuildQueryString(params, viewstate.Overrides{viewstate.KeyPage: strconv.Itoa(page)}),
			Active: page == result.Meta.Page,
		})
	}

	sortable := h.opts.Fields.Names()
	sortLinks := make([]SortLink, 0, len(sortable))
	for _, field := range sortable {
		if h.opts.Fields.ValidateSort(field) != nil {
			continue
		}
		sortLinks = append(sortLinks, SortLink{
			Field:  field,
			Href:   viewstate.BuildQueryString(viewstate.NextSortParams(params, field), nil),
			Active: field == sort.Field,
		})
	}

	return TableView[T]{
		Rows:       result.Rows,
		Sort:       SortView{Field: sort.Field, Direction: string(sort.Direction)},
		Search:     term,
		Pagination: result.Meta,
		Window:     pageLinks,
		SortLinks:  sortLinks,
		Query:      viewstate.BuildQueryString(params, nil),
	}
}
