// Package page serves stable, resumable windows of verses ordered by
// ordinal. A window is requested with a cursor: a non-negative cursor
// means "starting at this ordinal", a negative one (bit complement of an
// ordinal) means "ending at this ordinal".
package page

import (
	"context"
	"fmt"
	"slices"
	"strconv"
)

// Cursor is a signed pagination token.
type Cursor int64

// After creates a cursor for a page that starts at ordinal.
func After(ordinal int) Cursor {
	return Cursor(ordinal)
}

// Before creates a cursor for a page that ends at ordinal.
func Before(ordinal int) Cursor {
	return Cursor(^int64(ordinal))
}

// Backward is true for cursors created by Before.
func (c Cursor) Backward() bool {
	return c < 0
}

// Ordinal returns the ordinal the cursor points to.
func (c Cursor) Ordinal() int {
	if c < 0 {
		return int(^c)
	}
	return int(c)
}

// String returns the textual form of the cursor, a signed decimal.
func (c Cursor) String() string {
	return strconv.FormatInt(int64(c), 10)
}

// Ptr returns a pointer to a copy of c.
func (c Cursor) Ptr() *Cursor {
	return &c
}

// ParseCursor reads a cursor from its textual form. An empty string is
// an absent cursor.
func ParseCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cannot parse cursor %q: %w", s, err)
	}
	res := Cursor(i)
	return &res, nil
}

// Verse is a row of the verse store. Text2 and Markup2 belong to the
// second translation when two are requested.
type Verse struct {
	Book    int    `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	Index   int    `json:"index"`
	Ordinal int    `json:"ordinal"`
	Text    string `json:"text"`
	Markup  []byte `json:"markup,omitempty"`
	Text2   string `json:"text2,omitempty"`
	Markup2 []byte `json:"markup2,omitempty"`
}

// Scan is a range scan over the verse store.
type Scan struct {
	// Versions are translation codes. Rows must exist in the first one,
	// the second one is optional per row.
	Versions []string

	// Keywords must all be substrings of the text of the first version.
	Keywords []string

	// Fold makes keyword matching case-insensitive.
	Fold bool

	// Lo and Hi are the inclusive ordinal interval. Negative Hi means no
	// upper limit.
	Lo, Hi int

	// Desc orders rows by descending ordinal.
	Desc bool

	// Limit is the maximum number of rows, 0 means no limit.
	Limit int
}

// Store is an ordered verse store.
type Store interface {
	Scan(ctx context.Context, s Scan) ([]Verse, error)
}

// Request narrows down rows of a page.
type Request struct {
	Versions []string `json:"versions"`
	Keywords []string `json:"keywords,omitempty"`
	Fold     bool     `json:"fold,omitempty"`
}

func (r Request) scan(lo, hi int, desc bool, limit int) Scan {
	return Scan{
		Versions: r.Versions,
		Keywords: r.Keywords,
		Fold:     r.Fold,
		Lo:       max(lo, 0),
		Hi:       hi,
		Desc:     desc,
		Limit:    limit,
	}
}

// Bound is an inclusive ordinal range. Gap is how far beyond the range
// to look for boundary verses.
type Bound struct {
	Lo  int `json:"lo"`
	Hi  int `json:"hi"`
	Gap int `json:"gap"`
}

// Page is one window of verses. Nil cursors mean there is nothing more
// on that side. Before and After are the verses adjacent to a bounded
// range, they are not part of the page.
type Page struct {
	Prev   *Cursor `json:"prev,omitempty"`
	Next   *Cursor `json:"next,omitempty"`
	Verses []Verse `json:"verses"`
	Before *Verse  `json:"before,omitempty"`
	After  *Verse  `json:"after,omitempty"`
}

// FetchUnbounded returns a page of rows matching the request. A nil
// cursor starts at the beginning. Non-positive size returns everything.
func FetchUnbounded(
	ctx context.Context,
	st Store,
	req Request,
	cursor *Cursor,
	size int,
) (Page, error) {
	var res Page
	if size <= 0 {
		vs, err := st.Scan(ctx, req.scan(0, -1, false, 0))
		res.Verses = vs
		return res, err
	}

	if cursor != nil && cursor.Backward() {
		end := cursor.Ordinal()
		vs, err := st.Scan(ctx, req.scan(0, end, true, size+1))
		if err != nil {
			return res, err
		}
		if len(vs) > size {
			res.Prev = Before(vs[size].Ordinal).Ptr()
			vs = vs[:size]
		}
		slices.Reverse(vs)
		res.Verses = vs

		peek, err := st.Scan(ctx, req.scan(end+1, -1, false, 1))
		if err != nil {
			return res, err
		}
		if len(peek) > 0 {
			res.Next = After(peek[0].Ordinal).Ptr()
		}
		return res, nil
	}

	var start int
	if cursor != nil {
		start = cursor.Ordinal()
	}
	vs, err := st.Scan(ctx, req.scan(start, -1, false, size+1))
	if err != nil {
		return res, err
	}
	if len(vs) > size {
		res.Next = After(vs[size].Ordinal).Ptr()
		vs = vs[:size]
	}
	res.Verses = vs

	if cursor == nil || start == 0 {
		return res, nil
	}
	peek, err := st.Scan(ctx, req.scan(0, start-1, true, 1))
	if err != nil {
		return res, err
	}
	if len(peek) > 0 {
		res.Prev = Before(peek[0].Ordinal).Ptr()
	}
	return res, nil
}

// FetchBounded returns a page of rows inside the bound. Cursors outside
// the bound are clipped to it. The nearest rows outside the bound
// within Gap become Before and After of the page when the page touches
// that end of the bound.
//
// A forward page that reaches a row above the bound keeps all fetched
// in-range rows, so it may hold size+1 rows, and has no next cursor.
// Backward pages are symmetric.
func FetchBounded(
	ctx context.Context,
	st Store,
	req Request,
	b Bound,
	cursor *Cursor,
	size int,
) (Page, error) {
	var res Page
	limit := 0
	if size > 0 {
		limit = size + 2
	}
	if cursor != nil && cursor.Backward() && size > 0 {
		return fetchBoundedBackward(ctx, st, req, b, cursor.Ordinal(), size)
	}

	start := b.Lo
	if cursor != nil && !cursor.Backward() {
		start = clamp(cursor.Ordinal(), b.Lo, b.Hi)
	}

	vs, err := st.Scan(ctx, req.scan(start, b.Hi+b.Gap, false, limit))
	if err != nil {
		return res, err
	}
	in := vs
	if i := slices.IndexFunc(vs, func(v Verse) bool {
		return v.Ordinal > b.Hi
	}); i >= 0 {
		in = vs[:i]
		after := vs[i]
		res.After = &after
	}
	if res.After == nil && size > 0 && len(in) > size {
		res.Next = After(in[size].Ordinal).Ptr()
		in = in[:size]
	}
	res.Verses = in

	if start == 0 {
		return res, nil
	}
	peek, err := st.Scan(ctx, req.scan(b.Lo-b.Gap, start-1, true, 1))
	if err != nil {
		return res, err
	}
	if len(peek) > 0 {
		if peek[0].Ordinal >= b.Lo {
			res.Prev = Before(peek[0].Ordinal).Ptr()
		} else {
			before := peek[0]
			res.Before = &before
		}
	}
	return res, nil
}

func fetchBoundedBackward(
	ctx context.Context,
	st Store,
	req Request,
	b Bound,
	end int,
	size int,
) (Page, error) {
	var res Page
	end = clamp(end, b.Lo, b.Hi)

	vs, err := st.Scan(ctx, req.scan(b.Lo-b.Gap, end, true, size+2))
	if err != nil {
		return res, err
	}
	in := vs
	if i := slices.IndexFunc(vs, func(v Verse) bool {
		return v.Ordinal < b.Lo
	}); i >= 0 {
		in = vs[:i]
		before := vs[i]
		res.Before = &before
	}
	if res.Before == nil && len(in) > size {
		res.Prev = Before(in[size].Ordinal).Ptr()
		in = in[:size]
	}
	slices.Reverse(in)
	res.Verses = in

	peek, err := st.Scan(ctx, req.scan(end+1, b.Hi+b.Gap, false, 1))
	if err != nil {
		return res, err
	}
	if len(peek) > 0 {
		if peek[0].Ordinal <= b.Hi {
			res.Next = After(peek[0].Ordinal).Ptr()
		} else {
			after := peek[0]
			res.After = &after
		}
	}
	return res, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
