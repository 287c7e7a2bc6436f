package request

import (
	"strconv"
	"strings"
)

// Sort orders search and list results.
type Sort string

const (
	SortScore         Sort = "score"
	SortDurationDesc  Sort = "duration_desc"
	SortDurationAsc   Sort = "duration_asc"
	SortCreatedDesc   Sort = "created_desc"
	SortCreatedAsc    Sort = "created_asc"
	SortDownloadsDesc Sort = "downloads_desc"
	SortDownloadsAsc  Sort = "downloads_asc"
	SortRatingDesc    Sort = "rating_desc"
	SortRatingAsc     Sort = "rating_asc"
)

// ListOption sets URL parameters shared by the search and list endpoints.
type ListOption func(*Builder)

// WithFields limits the returned sound fields.
func WithFields(fields ...string) ListOption {
	return func(b *Builder) {
		if len(fields) == 0 {
			return
		}
		b.URLParam("fields", strings.Join(fields, ","))
	}
}

// WithFilter adds a filter expression (e.g. "duration:[1 TO 5]").
func WithFilter(filter string) ListOption {
	return func(b *Builder) {
		if filter == "" {
			return
		}
		b.URLParam("filter", filter)
	}
}

// WithSort orders the results.
func WithSort(s Sort) ListOption {
	return func(b *Builder) {
		if s == "" {
			return
		}
		b.URLParam("sort", string(s))
	}
}

// WithPage selects a 1-based result page; values below 1 are ignored.
func WithPage(page int) ListOption {
	return func(b *Builder) {
		if page < 1 {
			return
		}
		b.URLParam("page", strconv.Itoa(page))
	}
}

// WithPageSize sets the page length; values below 1 are ignored.
func WithPageSize(size int) ListOption {
	return func(b *Builder) {
		if size < 1 {
			return
		}
		b.URLParam("page_size", strconv.Itoa(size))
	}
}

// WithGroupByPack collapses results from the same pack into one.
func WithGroupByPack() ListOption {
	return func(b *Builder) {
		b.URLParam("group_by_pack", "1")
	}
}
