package dato

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filter keys understood by the records and uploads endpoints.
const (
	FilterIDs   = "ids"
	FilterType  = "type"
	FilterQuery = "query"
)

// Page selects a page of a collection. Offset-paginated endpoints use Offset
// and Limit, cursor-paginated endpoints use Cursor and Limit.
type Page struct {
	Offset int    `json:"offset,omitempty" yaml:"offset,omitempty"`
	Limit  int    `json:"limit,omitempty"  yaml:"limit,omitempty"`
	Cursor string `json:"cursor,omitempty" yaml:"cursor,omitempty"`
}

// QueryParams holds the query string options of list and find calls.
type QueryParams struct {
	// Filter renders as filter[<key>]=<comma separated values>.
	Filter map[string][]string
	// FieldFilters renders as filter[fields][<field>][<operator>]=<value>.
	FieldFilters map[string]map[string]string
	OrderBy      string
	Locale       string
	// Version is VersionPublished or VersionCurrent.
	Version string
	Nested  bool
	Page    Page
	// Extra is merged verbatim into the query string.
	Extra url.Values
}

// NewQueryParams creates empty query parameters.
func NewQueryParams() *QueryParams {
	return &QueryParams{
		Filter:       make(map[string][]string),
		FieldFilters: make(map[string]map[string]string),
	}
}

// WithFilter appends values to filter[key].
func (q *QueryParams) WithFilter(key string, values ...string) *QueryParams {
	if q.Filter == nil {
		q.Filter = make(map[string][]string)
	}

	q.Filter[key] = append(q.Filter[key], values...)

	return q
}

// WithIDs restricts results to the given ids.
func (q *QueryParams) WithIDs(ids ...string) *QueryParams {
	return q.WithFilter(FilterIDs, ids...)
}

// WithType restricts records to models, by API key or id.
func (q *QueryParams) WithType(itemTypes ...string) *QueryParams {
	return q.WithFilter(FilterType, itemTypes...)
}

// WithQuery sets a full-text search term.
func (q *QueryParams) WithQuery(text string) *QueryParams {
	if q.Filter == nil {
		q.Filter = make(map[string][]string)
	}

	q.Filter[FilterQuery] = []string{text}

	return q
}

// WithFieldFilter sets filter[fields][field][operator]=value, replacing any previous value.
func (q *QueryParams) WithFieldFilter(field, operator, value string) *QueryParams {
	if q.FieldFilters == nil {
		q.FieldFilters = make(map[string]map[string]string)
	}

	if q.FieldFilters[field] == nil {
		q.FieldFilters[field] = make(map[string]string)
	}

	q.FieldFilters[field][operator] = value

	return q
}

// WithOrderBy sets the ordering, e.g. "_updated_at_DESC".
func (q *QueryParams) WithOrderBy(orderBy string) *QueryParams {
	q.OrderBy = orderBy

	return q
}

// WithLocale sets the locale used by ordering and text search.
func (q *QueryParams) WithLocale(locale string) *QueryParams {
	q.Locale = locale

	return q
}

// WithVersion selects published or current (draft) content.
func (q *QueryParams) WithVersion(version string) *QueryParams {
	q.Version = version

	return q
}

// WithNested asks for block fields to be expanded.
func (q *QueryParams) WithNested(nested bool) *QueryParams {
	q.Nested = nested

	return q
}

// WithOffset sets page[offset].
func (q *QueryParams) WithOffset(offset int) *QueryParams {
	q.Page.Offset = offset

	return q
}

// WithLimit sets page[limit].
func (q *QueryParams) WithLimit(limit int) *QueryParams {
	q.Page.Limit = limit

	return q
}

// WithCursor sets page[cursor].
func (q *QueryParams) WithCursor(cursor string) *QueryParams {
	q.Page.Cursor = cursor

	return q
}

// WithExtra adds a raw query parameter.
func (q *QueryParams) WithExtra(key, value string) *QueryParams {
	if q.Extra == nil {
		q.Extra = url.Values{}
	}

	q.Extra.Add(key, value)

	return q
}

// Clone returns a deep copy.
func (q *QueryParams) Clone() *QueryParams {
	if q == nil {
		return NewQueryParams()
	}

	clone := *q
	clone.Filter = make(map[string][]string, len(q.Filter))

	for key, values := range q.Filter {
		clone.Filter[key] = append([]string(nil), values...)
	}

	clone.FieldFilters = make(map[string]map[string]string, len(q.FieldFilters))

	for field, ops := range q.FieldFilters {
		copied := make(map[string]string, len(ops))
		for op, value := range ops {
			copied[op] = value
		}

		clone.FieldFilters[field] = copied
	}

	if q.Extra != nil {
		clone.Extra = make(url.Values, len(q.Extra))
		for key, values := range q.Extra {
			clone.Extra[key] = append([]string(nil), values...)
		}
	}

	return &clone
}

// ToValues converts query parameters to URL values.
func (q *QueryParams) ToValues() url.Values {
	values := url.Values{}

	if q == nil {
		return values
	}

	for key, filterValues := range q.Filter {
		if len(filterValues) > 0 {
			values.Set("filter["+key+"]", strings.Join(filterValues, ","))
		}
	}

	fields := make([]string, 0, len(q.FieldFilters))
	for field := range q.FieldFilters {
		fields = append(fields, field)
	}

	sort.Strings(fields)

	for _, field := range fields {
		for op, value := range q.FieldFilters[field] {
			values.Set("filter[fields]["+field+"]["+op+"]", value)
		}
	}

	if q.OrderBy != "" {
		values.Set("order_by", q.OrderBy)
	}

	if q.Locale != "" {
		values.Set("locale", q.Locale)
	}

	if q.Version != "" {
		values.Set("version", q.Version)
	}

	if q.Nested {
		values.Set("nested", "true")
	}

	if q.Page.Offset > 0 {
		values.Set("page[offset]", strconv.Itoa(q.Page.Offset))
	}

	if q.Page.Limit > 0 {
		values.Set("page[limit]", strconv.Itoa(q.Page.Limit))
	}

	if q.Page.Cursor != "" {
		values.Set("page[cursor]", q.Page.Cursor)
	}

	for key, extra := range q.Extra {
		for _, value := range extra {
			values.Add(key, value)
		}
	}

	return values
}
