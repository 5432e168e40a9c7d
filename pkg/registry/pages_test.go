package registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/errors"
)

// listing serves items in pages of at most max entries, like an ANS host
// that caps the requested limit.
type listing struct {
	items []int
	max   int
	calls int
}

func (l *listing) fetch(_ context.Context, after *int, limit int) ([]int, error) {
	l.calls++
	start := 0
	if after != nil {
		for start < len(l.items) && l.items[start] <= *after {
			start++
		}
	}
	end := min(start+min(limit, l.max), len(l.items))
	return l.items[start:end], nil
}

func identity(i int) int { return i }

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPagesCollectsAll(t *testing.T) {
	l := &listing{items: seq(60), max: 25}
	got, err := Collect(Pages(context.Background(), 25, l.fetch, identity))
	require.NoError(t, err)
	assert.Equal(t, seq(60), got)
	assert.Equal(t, 4, l.calls, "three pages plus the terminating empty page")
}

func TestPagesShortPageDoesNotEnd(t *testing.T) {
	// Host returns 10 per page while 25 were asked for.
	l := &listing{items: seq(35), max: 10}
	got, err := Collect(Pages(context.Background(), 25, l.fetch, identity))
	require.NoError(t, err)
	assert.Len(t, got, 35)
}

func TestPagesEmptyListing(t *testing.T) {
	l := &listing{max: 25}
	got, err := Collect(Pages(context.Background(), 25, l.fetch, identity))
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, 1, l.calls)
}

func TestPagesIsLazyAndRestartable(t *testing.T) {
	l := &listing{items: seq(30), max: 25}
	pages := Pages(context.Background(), 25, l.fetch, identity)
	assert.Zero(t, l.calls, "nothing fetched before ranging")

	first, err := Collect(pages)
	require.NoError(t, err)
	second, err := Collect(pages)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPagesStopsWhenConsumerBreaks(t *testing.T) {
	l := &listing{items: seq(100), max: 25}
	for page, err := range Pages(context.Background(), 25, l.fetch, identity) {
		require.NoError(t, err)
		assert.Len(t, page, 25)
		break
	}
	assert.Equal(t, 1, l.calls)
}

func TestPagesFetchError(t *testing.T) {
	boom := fmt.Errorf("boom")
	calls := 0
	fetch := func(_ context.Context, after *int, _ int) ([]int, error) {
		calls++
		if after == nil {
			return []int{1, 2}, nil
		}
		return nil, boom
	}

	var pages [][]int
	var gotErr error
	for page, err := range Pages(context.Background(), 2, fetch, identity) {
		if err != nil {
			gotErr = err
			break
		}
		pages = append(pages, page)
	}
	assert.ErrorIs(t, gotErr, boom)
	assert.Equal(t, [][]int{{1, 2}}, pages)

	_, err := Collect(Pages(context.Background(), 2, fetch, identity))
	assert.ErrorIs(t, err, boom)
}

func TestPagesCursorMustAdvance(t *testing.T) {
	fetch := func(context.Context, *int, int) ([]int, error) {
		return []int{7}, nil
	}
	_, err := Collect(Pages(context.Background(), 25, fetch, identity))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "did not advance")
}

func TestPagesCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	l := &listing{items: seq(10), max: 25}
	_, err := Collect(Pages(ctx, 25, l.fetch, identity))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, l.calls)
}

func TestPageLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 25},
		{-3, 25},
		{10, 10},
		{25, 25},
		{100, 25},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageLimit(tt.in), "PageLimit(%d)", tt.in)
	}
}
