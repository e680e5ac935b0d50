package dato

import (
	"context"
	"fmt"
	"iter"

	"github.com/fivetwenty-io/dato-client/internal/constants"
	"golang.org/x/sync/errgroup"
)

// PageFetcher fetches one page of a collection.
type PageFetcher[T any] func(ctx context.Context, params *QueryParams) (*ListResponse[T], error)

// PaginationIterator walks a paginated collection lazily. The next page is
// fetched only when the items of the current one have been consumed. It is
// not safe for concurrent use.
type PaginationIterator[T any] struct {
	ctx    context.Context
	fetch  PageFetcher[T]
	params *QueryParams

	buffer []T
	index  int
	offset int
	cursor string
	done   bool
	err    error
	pages  int
}

// NewPaginationIterator creates a new pagination iterator.
func NewPaginationIterator[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams) *PaginationIterator[T] {
	params = params.Clone()
	if params.Page.Limit <= 0 {
		params.Page.Limit = constants.DefaultPageSize
	}

	return &PaginationIterator[T]{
		ctx:    ctx,
		fetch:  fetch,
		params: params,
		offset: params.Page.Offset,
		cursor: params.Page.Cursor,
	}
}

// HasNext returns true if there are more items, fetching the next page when needed.
func (p *PaginationIterator[T]) HasNext() bool {
	for p.index >= len(p.buffer) {
		if p.done || p.err != nil {
			return false
		}

		items, err := p.nextPage()
		if err != nil {
			p.err = err

			return false
		}

		p.buffer = items
		p.index = 0

		if len(items) == 0 {
			p.done = true

			return false
		}
	}

	return true
}

// nextPage fetches the page after the last one and advances the position.
func (p *PaginationIterator[T]) nextPage() ([]T, error) {
	params := p.params.Clone()
	params.Page.Offset = p.offset
	params.Page.Cursor = p.cursor

	if p.cursor != "" {
		params.Page.Offset = 0
	}

	resp, err := p.fetch(p.ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", p.pages+1, err)
	}

	p.pages++

	if resp == nil || len(resp.Data) == 0 {
		p.done = true

		return nil, nil
	}

	p.offset += len(resp.Data)

	switch {
	case resp.Meta.NextCursor != "":
		p.cursor = resp.Meta.NextCursor
	case p.cursor != "":
		p.done = true
	case len(resp.Data) < params.Page.Limit,
		resp.Meta.TotalCount == 0,
		p.offset >= resp.Meta.TotalCount:
		p.done = true
	}

	return resp.Data, nil
}

// Next returns the next item.
func (p *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !p.HasNext() {
		if p.err != nil {
			return zero, p.err
		}

		return zero, ErrNoMoreItems
	}

	item := p.buffer[p.index]
	p.index++

	return item, nil
}

// Err returns the error that stopped the iteration, if any.
func (p *PaginationIterator[T]) Err() error {
	return p.err
}

// Pages returns the number of pages fetched so far.
func (p *PaginationIterator[T]) Pages() int {
	return p.pages
}

// Reset rewinds the iterator to the first page.
func (p *PaginationIterator[T]) Reset() {
	p.buffer = nil
	p.index = 0
	p.offset = p.params.Page.Offset
	p.cursor = p.params.Page.Cursor
	p.done = false
	p.err = nil
	p.pages = 0
}

// All fetches all remaining items.
func (p *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for p.HasNext() {
		item, err := p.Next()
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if p.err != nil {
		return nil, p.err
	}

	return items, nil
}

// ForEach calls fn for each remaining item, stopping at the first error.
func (p *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for p.HasNext() {
		item, err := p.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return p.err
}

// Seq returns the remaining items as a range-over-func sequence. Check Err after the loop.
func (p *PaginationIterator[T]) Seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		for p.HasNext() {
			item, err := p.Next()
			if err != nil {
				return
			}

			if !yield(item) {
				return
			}
		}
	}
}

// PaginationOptions controls FetchAllPages and StreamPages.
type PaginationOptions struct {
	PageSize int
	// MaxPages stops after that many pages. Zero means no limit.
	MaxPages int
	// Concurrency is the number of pages fetched in parallel once the total is known.
	Concurrency int
}

// DefaultPaginationOptions returns default pagination options.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize:    constants.DefaultPageSize,
		MaxPages:    0,
		Concurrency: 1,
	}
}

func normalizePaginationOptions(options *PaginationOptions) *PaginationOptions {
	if options == nil {
		return DefaultPaginationOptions()
	}

	normalized := *options
	if normalized.PageSize <= 0 {
		normalized.PageSize = constants.DefaultPageSize
	}

	if normalized.Concurrency <= 0 {
		normalized.Concurrency = 1
	}

	return &normalized
}

// FetchAllPages fetches every page of a collection. Once the first page reports
// the total count, the remaining offset pages may be fetched concurrently; the
// result keeps server order.
func FetchAllPages[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams, options *PaginationOptions) ([]T, error) {
	options = normalizePaginationOptions(options)

	base := params.Clone()
	base.Page.Limit = options.PageSize

	first, err := fetch(ctx, base)
	if err != nil {
		return nil, fmt.Errorf("fetching page 1: %w", err)
	}

	if first == nil {
		return nil, nil
	}

	all := append([]T(nil), first.Data...)

	if options.MaxPages == 1 || len(first.Data) < options.PageSize {
		return all, nil
	}

	// Cursor or unknown-total collections are walked sequentially.
	if first.Meta.NextCursor != "" || first.Meta.TotalCount == 0 {
		return fetchRemainingSequential(ctx, fetch, base, first, all, options)
	}

	start := base.Page.Offset + len(first.Data)

	var offsets []int
	for offset := start; offset < first.Meta.TotalCount; offset += options.PageSize {
		if options.MaxPages > 0 && len(offsets)+1 >= options.MaxPages {
			break
		}

		offsets = append(offsets, offset)
	}

	pages := make([][]T, len(offsets))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(options.Concurrency)

	for i, offset := range offsets {
		group.Go(func() error {
			pageParams := base.Clone()
			pageParams.Page.Offset = offset

			resp, err := fetch(groupCtx, pageParams)
			if err != nil {
				return fmt.Errorf("fetching page at offset %d: %w", offset, err)
			}

			if resp != nil {
				pages[i] = resp.Data
			}

			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		all = append(all, page...)
	}

	return all, nil
}

func fetchRemainingSequential[T any](ctx context.Context, fetch PageFetcher[T], base *QueryParams, first *ListResponse[T], all []T, options *PaginationOptions) ([]T, error) {
	iterator := NewPaginationIterator(ctx, fetch, base)
	iterator.offset = base.Page.Offset + len(first.Data)
	iterator.cursor = first.Meta.NextCursor
	iterator.pages = 1

	for !iterator.done {
		if options.MaxPages > 0 && iterator.pages >= options.MaxPages {
			break
		}

		items, err := iterator.nextPage()
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
	}

	return all, nil
}

// PageResult is one page delivered by StreamPages.
type PageResult[T any] struct {
	Items []T
	Err   error
}

// StreamPages fetches pages in the background and delivers them in order. The
// channel is closed after the last page, after an error, or when ctx is done.
func StreamPages[T any](ctx context.Context, fetch PageFetcher[T], params *QueryParams, options *PaginationOptions) <-chan PageResult[T] {
	options = normalizePaginationOptions(options)
	results := make(chan PageResult[T], constants.SmallBufferSize)

	base := params.Clone()
	base.Page.Limit = options.PageSize

	go func() {
		defer close(results)

		iterator := NewPaginationIterator(ctx, fetch, base)

		for !iterator.done {
			if options.MaxPages > 0 && iterator.pages >= options.MaxPages {
				return
			}

			items, err := iterator.nextPage()
			if err == nil && len(items) == 0 {
				return
			}

			select {
			case results <- PageResult[T]{Items: items, Err: err}:
			case <-ctx.Done():
				return
			}

			if err != nil {
				return
			}
		}
	}()

	return results
}
