package pagination

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/ehr/fhirstu3/pkg/fhirmodels"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Limit  int
	Offset int
}

// FromContext extracts pagination parameters from the echo context.
func FromContext(c echo.Context) Params {
	limit, _ := strconv.Atoi(c.QueryParam("_count"))
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	offset, _ := strconv.Atoi(c.QueryParam("_offset"))
	if offset < 0 {
		offset = 0
	}

	return Params{Limit: limit, Offset: offset}
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset+p.Limit < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Offset > 0
}

// NextOffset returns the offset for the next page.
func (p Params) NextOffset() int {
	return p.Offset + p.Limit
}

// PreviousOffset returns the offset for the previous page.
// Returns 0 if the result would be negative.
func (p Params) PreviousOffset() int {
	prev := p.Offset - p.Limit
	if prev < 0 {
		return 0
	}
	return prev
}

// LastOffset returns the offset of the final page for total results.
func (p Params) LastOffset(total int) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return ((total - 1) / p.Limit) * p.Limit
}

// Page returns the window [start, end) of a slice of length n.
func (p Params) Page(n int) (start, end int) {
	start = p.Offset
	if start > n {
		start = n
	}
	end = start + p.Limit
	if end > n {
		end = n
	}
	return start, end
}

// BundleLinks generates searchset Bundle links for a result of total
// matches. basePath is the request path (e.g. "/fhir/Patient"); query carries
// any other search parameters, which are kept on every link.
func (p Params) BundleLinks(basePath string, query url.Values, total int) []fhirmodels.BundleLink {
	link := func(relation string, offset int) fhirmodels.BundleLink {
		q := url.Values{}
		for k, v := range query {
			if k == "_offset" || k == "_count" {
				continue
			}
			q[k] = v
		}
		q.Set("_offset", strconv.Itoa(offset))
		q.Set("_count", strconv.Itoa(p.Limit))
		return fhirmodels.BundleLink{Relation: relation, URL: basePath + "?" + q.Encode()}
	}

	links := []fhirmodels.BundleLink{
		link("self", p.Offset),
		link("first", 0),
	}
	if p.HasPrevious() {
		links = append(links, link("previous", p.PreviousOffset()))
	}
	if p.HasNext(total) {
		links = append(links, link("next", p.NextOffset()))
	}
	links = append(links, link("last", p.LastOffset(total)))
	return links
}
