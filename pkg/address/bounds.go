package address

import (
	"fmt"
	"slices"

	"github.com/gnames/gnverse/pkg/errcode"
)

// ChapterRange keeps the first and the last chapter of a book.
type ChapterRange struct {
	Min, Max int
}

// VerseRange keeps verse bounds of one chapter together with the index
// and the ordinal of its first verse.
type VerseRange struct {
	Min, Max int
	Index    int
	Ordinal  int
}

// LastOrdinal returns the ordinal of the last verse of the chapter.
func (vr VerseRange) LastOrdinal() int {
	return vr.Ordinal + vr.Max - vr.Min
}

// Triple is an unresolved verse reference.
type Triple struct {
	Book, Chapter, Verse int
}

type span struct {
	book, chapter int
	VerseRange
}

// Bounds holds chapter and verse tables of the corpus. It is read-only
// after Build.
type Bounds struct {
	chapters []ChapterRange
	verses   []map[int]VerseRange
	spans    []span
	total    int
}

// Number sorts verse triples, removes duplicates and assigns indices and
// ordinals to them. The result is suitable for Build.
func Number(triples []Triple) []VerseAddress {
	ts := slices.Clone(triples)
	slices.SortFunc(ts, func(a, b Triple) int {
		return Compare(
			VerseAddress{Book: a.Book, Chapter: a.Chapter, Verse: a.Verse},
			VerseAddress{Book: b.Book, Chapter: b.Chapter, Verse: b.Verse},
		)
	})
	ts = slices.Compact(ts)

	res := make([]VerseAddress, len(ts))
	idx := 0
	for i, t := range ts {
		if i > 0 && ts[i-1].Book != t.Book {
			idx = 0
		}
		res[i] = VerseAddress{
			Book:    t.Book,
			Chapter: t.Chapter,
			Verse:   t.Verse,
			Index:   idx,
			Ordinal: i,
		}
		idx++
	}
	return res
}

// Build creates bounds tables for bookNum books out of resolved verse
// addresses. It checks that ordinals are gapless across the corpus,
// indices are gapless within each book, and that no chapter skips a
// verse number. Violations wrap errcode.ErrInvariantViolation.
func Build(bookNum int, addrs []VerseAddress) (*Bounds, error) {
	as := slices.Clone(addrs)
	slices.SortFunc(as, Compare)

	res := &Bounds{
		chapters: make([]ChapterRange, bookNum),
		verses:   make([]map[int]VerseRange, bookNum),
		total:    len(as),
	}

	var cur *span
	var count int
	closeSpan := func() error {
		if cur == nil {
			return nil
		}
		if cur.Max-cur.Min != count-1 {
			return invariantError(
				"chapter %d:%d has %d verses numbered %d..%d",
				cur.book, cur.chapter, count, cur.Min, cur.Max,
			)
		}
		res.verses[cur.book][cur.chapter] = cur.VerseRange
		res.spans = append(res.spans, *cur)
		return nil
	}

	for i, a := range as {
		if a.Book < 0 || a.Book >= bookNum {
			return nil, invariantError("verse %s refers to unknown book", a)
		}
		if a.Ordinal != i {
			return nil, invariantError(
				"verse %s has ordinal %d, expected %d", a, a.Ordinal, i)
		}
		newBook := i == 0 || as[i-1].Book != a.Book
		if newBook {
			if a.Index != 0 {
				return nil, invariantError(
					"first verse %s of a book has index %d", a, a.Index)
			}
		} else {
			prev := as[i-1]
			if a.Index != prev.Index+1 {
				return nil, invariantError(
					"verse %s has index %d after %d", a, a.Index, prev.Index)
			}
			if Compare(prev, a) == 0 {
				return nil, invariantError("duplicate verse %s", a)
			}
		}

		if cur == nil || cur.book != a.Book || cur.chapter != a.Chapter {
			if err := closeSpan(); err != nil {
				return nil, err
			}
			if res.verses[a.Book] == nil {
				res.verses[a.Book] = make(map[int]VerseRange)
				res.chapters[a.Book] = ChapterRange{Min: a.Chapter}
			}
			res.chapters[a.Book].Max = a.Chapter
			cur = &span{
				book:    a.Book,
				chapter: a.Chapter,
				VerseRange: VerseRange{
					Min:     a.Verse,
					Max:     a.Verse,
					Index:   a.Index,
					Ordinal: a.Ordinal,
				},
			}
			count = 1
			continue
		}
		cur.Max = a.Verse
		count++
	}
	if err := closeSpan(); err != nil {
		return nil, err
	}

	return res, nil
}

// Books returns the number of books the bounds were built for.
func (b *Bounds) Books() int {
	if b == nil {
		return 0
	}
	return len(b.chapters)
}

// Total returns the number of verses in the corpus.
func (b *Bounds) Total() int {
	if b == nil {
		return 0
	}
	return b.total
}

// Chapters returns the chapter range of a book. The second value is
// false when the book has no verses.
func (b *Bounds) Chapters(book int) (ChapterRange, bool) {
	if b == nil || book < 0 || book >= len(b.chapters) {
		return ChapterRange{}, false
	}
	cr := b.chapters[book]
	return cr, cr.Max > 0
}

// Addresses enumerates all verses of the corpus in ordinal order.
func (b *Bounds) Addresses() []VerseAddress {
	if b == nil {
		return nil
	}
	res := make([]VerseAddress, 0, b.total)
	for _, sp := range b.spans {
		for v := sp.Min; v <= sp.Max; v++ {
			res = append(res, VerseAddress{
				Book:    sp.book,
				Chapter: sp.chapter,
				Verse:   v,
				Index:   sp.Index + v - sp.Min,
				Ordinal: sp.Ordinal + v - sp.Min,
			})
		}
	}
	return res
}

func invariantError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...),
		errcode.ErrInvariantViolation)
}
