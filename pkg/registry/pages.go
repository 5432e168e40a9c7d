package registry

import (
	"context"
	"fmt"
	"iter"

	"github.com/agentstation/ansync/pkg/constants"
	"github.com/agentstation/ansync/pkg/errors"
)

// PageFunc fetches up to limit items following cursor. A nil cursor asks
// for the first page.
type PageFunc[C comparable, T any] func(ctx context.Context, after *C, limit int) ([]T, error)

// Pages walks a cursor-paginated listing. The returned sequence is lazy and
// restartable: every range over it starts again from the first page, and
// nothing is fetched until it is ranged over. It ends after an empty page
// or on the first error, which is yielded with a nil page. cursorOf
// extracts the cursor of the next request from the last item of a page.
// A short page does not end the walk: the ANS host caps the limit it is
// asked for.
func Pages[C comparable, T any](ctx context.Context, limit int, fetch PageFunc[C, T], cursorOf func(T) C) iter.Seq2[[]T, error] {
	limit = PageLimit(limit)

	return func(yield func([]T, error) bool) {
		var after *C
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page, err := fetch(ctx, after, limit)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(page) == 0 {
				return
			}
			if !yield(page, nil) {
				return
			}

			next := cursorOf(page[len(page)-1])
			if after != nil && *after == next {
				yield(nil, errors.NewValidationError("cursor", next, fmt.Sprintf("pagination cursor did not advance past %v", next)))
				return
			}
			after = &next
		}
	}
}

// Collect drains a page sequence into one slice.
func Collect[T any](pages iter.Seq2[[]T, error]) ([]T, error) {
	var all []T
	for page, err := range pages {
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
	}
	return all, nil
}

// PageLimit clamps a requested page size to what the ANS host serves.
func PageLimit(limit int) int {
	if limit <= 0 {
		return constants.DefaultPageSize
	}
	return min(limit, constants.MaxPageSize)
}
