package page_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/gnames/gnverse/internal/iotesting"
	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// corpus has one book with chapters of 4, 5 and 3 verses, ordinals 0-3,
// 4-8 and 9-11.
func corpus() []address.VerseAddress {
	var ts []address.Triple
	for c, n := range []int{4, 5, 3} {
		for v := 1; v <= n; v++ {
			ts = append(ts, address.Triple{Book: 0, Chapter: c + 1, Verse: v})
		}
	}
	return address.Number(ts)
}

func ordinals(vs []page.Verse) []int {
	res := make([]int, len(vs))
	for i := range vs {
		res[i] = vs[i].Ordinal
	}
	return res
}

func TestCursor(t *testing.T) {
	assert.Equal(t, 5, page.After(5).Ordinal())
	assert.False(t, page.After(5).Backward())
	assert.Equal(t, 5, page.Before(5).Ordinal())
	assert.True(t, page.Before(5).Backward())
	assert.Equal(t, "-1", page.Before(0).String())
	assert.Equal(t, "0", page.After(0).String())

	c, err := page.ParseCursor("")
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = page.ParseCursor("-6")
	require.NoError(t, err)
	assert.Equal(t, page.Before(5), *c)

	_, err = page.ParseCursor("abc")
	assert.Error(t, err)
}

func TestUnboundedRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore(corpus(), "kjv")
	req := page.Request{Versions: []string{"kjv"}}

	for _, size := range []int{1, 3, 5, 12, 20} {
		var forward [][]int
		var cursor *page.Cursor
		var last page.Page
		for {
			p, err := page.FetchUnbounded(ctx, st, req, cursor, size)
			require.NoError(t, err)
			forward = append(forward, ordinals(p.Verses))
			last = p
			if p.Next == nil {
				break
			}
			cursor = p.Next
		}

		backward := [][]int{}
		cursor = last.Prev
		for cursor != nil {
			p, err := page.FetchUnbounded(ctx, st, req, cursor, size)
			require.NoError(t, err)
			backward = append(backward, ordinals(p.Verses))
			cursor = p.Prev
		}

		slices.Reverse(backward)
		assert.Equal(t, forward[:len(forward)-1], backward, "size %d", size)
		assert.Equal(t, 11, slices.Concat(forward...)[11], "size %d", size)
	}
}

func TestUnboundedCursors(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore(corpus(), "kjv")
	req := page.Request{Versions: []string{"kjv"}}

	p, err := page.FetchUnbounded(ctx, st, req, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ordinals(p.Verses))
	assert.Nil(t, p.Prev)
	require.NotNil(t, p.Next)
	assert.Equal(t, page.After(5), *p.Next)

	p, err = page.FetchUnbounded(ctx, st, req, page.After(5).Ptr(), 5)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, ordinals(p.Verses))
	require.NotNil(t, p.Prev)
	assert.Equal(t, page.Before(4), *p.Prev)

	p, err = page.FetchUnbounded(ctx, st, req, page.Before(8).Ptr(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 8}, ordinals(p.Verses))
	assert.Equal(t, page.Before(5), *p.Prev)
	assert.Equal(t, page.After(9), *p.Next)

	t.Run("exactly size rows left", func(t *testing.T) {
		p, err := page.FetchUnbounded(ctx, st, req, page.After(7).Ptr(), 5)
		require.NoError(t, err)
		assert.Equal(t, []int{7, 8, 9, 10, 11}, ordinals(p.Verses))
		assert.Nil(t, p.Next)
	})

	t.Run("no paging", func(t *testing.T) {
		p, err := page.FetchUnbounded(ctx, st, req, nil, 0)
		require.NoError(t, err)
		assert.Len(t, p.Verses, 12)
		assert.Nil(t, p.Prev)
		assert.Nil(t, p.Next)
	})
}

func TestUnboundedKeywords(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore(corpus(), "kjv")

	req := page.Request{Versions: []string{"kjv"}, Keywords: []string{":2:"}}
	p, err := page.FetchUnbounded(ctx, st, req, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6, 7, 8}, ordinals(p.Verses))

	req = page.Request{Versions: []string{"kjv"}, Keywords: []string{"KJV", ":3:"}}
	p, err = page.FetchUnbounded(ctx, st, req, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, p.Verses)

	req.Fold = true
	p, err = page.FetchUnbounded(ctx, st, req, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10, 11}, ordinals(p.Verses))
}

func TestBoundedExactPage(t *testing.T) {
	ctx := context.Background()
	var ts []address.Triple
	for v := 1; v <= 5; v++ {
		ts = append(ts, address.Triple{Book: 0, Chapter: 1, Verse: v})
	}
	st := iotesting.NewMemStore(address.Number(ts), "kjv")
	req := page.Request{Versions: []string{"kjv"}}

	p, err := page.FetchBounded(ctx, st, req, page.Bound{Lo: 0, Hi: 4, Gap: 1}, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, ordinals(p.Verses))
	assert.Nil(t, p.Prev)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Before)
	assert.Nil(t, p.After)
}

func TestBounded(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore(corpus(), "kjv", "niv")
	req := page.Request{Versions: []string{"kjv", "niv"}}
	chapter2 := page.Bound{Lo: 4, Hi: 8, Gap: 1}

	tests := []struct {
		msg    string
		cursor *page.Cursor
		size   int
		res    []int
		prev   *page.Cursor
		next   *page.Cursor
		before int
		after  int
	}{
		{"whole chapter", nil, 5, []int{4, 5, 6, 7, 8}, nil, nil, 3, 9},
		{"no paging", nil, 0, []int{4, 5, 6, 7, 8}, nil, nil, 3, 9},
		{"first page", nil, 2, []int{4, 5}, nil, page.After(6).Ptr(), 3, -1},
		{"last page keeps extra row", page.After(6).Ptr(), 2,
			[]int{6, 7, 8}, page.Before(5).Ptr(), nil, -1, 9},
		{"middle page", page.After(5).Ptr(), 2,
			[]int{5, 6}, page.Before(4).Ptr(), page.After(7).Ptr(), -1, -1},
		{"backward to start", page.Before(5).Ptr(), 2,
			[]int{4, 5}, nil, page.After(6).Ptr(), 3, -1},
		{"backward keeps extra row", page.Before(6).Ptr(), 2,
			[]int{4, 5, 6}, nil, page.After(7).Ptr(), 3, -1},
		{"cursor below bound", page.After(0).Ptr(), 2,
			[]int{4, 5}, nil, page.After(6).Ptr(), 3, -1},
		{"cursor above bound", page.Before(100).Ptr(), 2,
			[]int{7, 8}, page.Before(6).Ptr(), nil, -1, 9},
	}

	for _, v := range tests {
		p, err := page.FetchBounded(ctx, st, req, chapter2, v.cursor, v.size)
		require.NoError(t, err, v.msg)
		assert.Equal(t, v.res, ordinals(p.Verses), v.msg)
		assert.Equal(t, v.prev, p.Prev, v.msg)
		assert.Equal(t, v.next, p.Next, v.msg)
		if v.before < 0 {
			assert.Nil(t, p.Before, v.msg)
		} else if assert.NotNil(t, p.Before, v.msg) {
			assert.Equal(t, v.before, p.Before.Ordinal, v.msg)
		}
		if v.after < 0 {
			assert.Nil(t, p.After, v.msg)
		} else if assert.NotNil(t, p.After, v.msg) {
			assert.Equal(t, v.after, p.After.Ordinal, v.msg)
		}
		for _, c := range []*page.Cursor{p.Prev, p.Next} {
			if c != nil {
				assert.GreaterOrEqual(t, c.Ordinal(), chapter2.Lo, v.msg)
				assert.LessOrEqual(t, c.Ordinal(), chapter2.Hi, v.msg)
			}
		}
		for _, vs := range p.Verses {
			assert.Equal(t, "niv "+addrOf(vs), vs.Text2, v.msg)
		}
	}
}

func addrOf(v page.Verse) string {
	return address.VerseAddress{Book: v.Book, Chapter: v.Chapter, Verse: v.Verse}.String()
}

func TestBoundedGap(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore(corpus(), "kjv")
	delete(st.Texts["kjv"], 9)
	delete(st.Texts["kjv"], 3)
	req := page.Request{Versions: []string{"kjv"}}

	p, err := page.FetchBounded(ctx, st, req, page.Bound{Lo: 4, Hi: 8, Gap: 1}, nil, 10)
	require.NoError(t, err)
	assert.Nil(t, p.Before)
	assert.Nil(t, p.After)

	p, err = page.FetchBounded(ctx, st, req, page.Bound{Lo: 4, Hi: 8, Gap: 2}, nil, 10)
	require.NoError(t, err)
	require.NotNil(t, p.Before)
	require.NotNil(t, p.After)
	assert.Equal(t, 2, p.Before.Ordinal)
	assert.Equal(t, 10, p.After.Ordinal)
}

func TestStoreError(t *testing.T) {
	ctx := context.Background()
	st := iotesting.NewMemStore(corpus(), "kjv")
	st.Err = errors.New("connection refused")
	req := page.Request{Versions: []string{"kjv"}}

	_, err := page.FetchUnbounded(ctx, st, req, nil, 5)
	assert.ErrorIs(t, err, st.Err)
	_, err = page.FetchBounded(ctx, st, req, page.Bound{Lo: 4, Hi: 8}, nil, 5)
	assert.ErrorIs(t, err, st.Err)
}
