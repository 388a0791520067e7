package bible

import (
	"context"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/gnames/gnverse/pkg/query"
)

// ChapterRequest asks for a chapter or a range of chapters of a book.
// A non-positive Chapter1 is the first chapter, zero Chapter2 is
// Chapter1.
type ChapterRequest struct {
	Book     string
	Chapter1 int
	Chapter2 int
	Versions []string
	Cursor   *page.Cursor
}

// VerseRequest asks for a verse range. Zero Chapter2 and Verse2 make a
// single verse, zero Chapter2 alone keeps the range in Chapter1.
type VerseRequest struct {
	Book     string
	Chapter1 int
	Verse1   int
	Chapter2 int
	Verse2   int
	Versions []string
	Cursor   *page.Cursor
}

// Chapters returns a page of whole chapters. Reversed chapter ranges
// are swapped.
func (s *Service) Chapters(ctx context.Context, req ChapterRequest) (Passage, error) {
	var res Passage
	cat, err := s.catalog()
	if err != nil {
		return res, err
	}
	b, err := cat.ResolveBook(req.Book)
	if err != nil {
		return res, err
	}
	vs, err := s.versions(cat, req.Versions)
	if err != nil {
		return res, err
	}

	c1, c2 := req.Chapter1, req.Chapter2
	if c2 == 0 {
		c2 = c1
	}
	bs := cat.Bounds()
	a1, err := bs.First(b.Index, c1)
	if err != nil {
		return res, err
	}
	a2, err := bs.Resolve(b.Index, c2, address.Last)
	if err != nil {
		return res, err
	}
	if a2.Ordinal < a1.Ordinal {
		if a1, err = bs.First(b.Index, a2.Chapter); err != nil {
			return res, err
		}
		if a2, err = bs.Resolve(b.Index, c1, address.Last); err != nil {
			return res, err
		}
	}

	res = Passage{
		Kind:     query.AnswerChapter,
		Book:     b,
		Versions: vs,
		Chapter1: a1.Chapter,
	}
	if a2.Chapter != a1.Chapter {
		res.Kind = query.AnswerChapters
		res.Chapter2 = a2.Chapter
	}

	bound := page.Bound{Lo: a1.Ordinal, Hi: a2.Ordinal, Gap: gap(vs)}
	pg, err := page.FetchBounded(ctx, s.store, request(vs), bound,
		req.Cursor, s.cfg.PageSize)
	if err != nil {
		return res, storeError(err)
	}
	s.fill(cat, &res, pg, false, nil)
	return res, nil
}

// Verse returns a single verse with its context.
func (s *Service) Verse(ctx context.Context, req VerseRequest) (Passage, error) {
	req.Chapter2, req.Verse2 = 0, 0
	return s.Verses(ctx, req)
}

// Verses returns a verse range surrounded by ContextVerses verses on
// each side. The context does not leave the first and the last chapter
// of the range. Verses of the range are in highlighted sections.
func (s *Service) Verses(ctx context.Context, req VerseRequest) (Passage, error) {
	var res Passage
	cat, err := s.catalog()
	if err != nil {
		return res, err
	}
	b, err := cat.ResolveBook(req.Book)
	if err != nil {
		return res, err
	}
	vs, err := s.versions(cat, req.Versions)
	if err != nil {
		return res, err
	}

	c2, v2 := req.Chapter2, req.Verse2
	switch {
	case c2 == 0 && v2 == 0:
		c2, v2 = req.Chapter1, req.Verse1
	case c2 == 0:
		c2 = req.Chapter1
	}
	bs := cat.Bounds()
	a1, err := bs.Resolve(b.Index, req.Chapter1, req.Verse1)
	if err != nil {
		return res, err
	}
	a2, err := bs.Resolve(b.Index, c2, v2)
	if err != nil {
		return res, err
	}
	if a2.Ordinal < a1.Ordinal {
		a1, a2 = a2, a1
	}

	res = Passage{
		Kind:     query.AnswerVerse,
		Book:     b,
		Versions: vs,
		Chapter1: a1.Chapter,
		Verse1:   a1.Verse,
	}
	if a1 != a2 {
		res.Kind = query.AnswerVerses
		res.Chapter2, res.Verse2 = a2.Chapter, a2.Verse
	}

	bound, err := s.contextBound(bs, a1, a2)
	if err != nil {
		return res, err
	}
	bound.Gap = gap(vs)
	pg, err := page.FetchBounded(ctx, s.store, request(vs), bound,
		req.Cursor, s.cfg.PageSize)
	if err != nil {
		return res, storeError(err)
	}
	s.fill(cat, &res, pg, false, func(r Row) bool {
		return r.Ordinal >= a1.Ordinal && r.Ordinal <= a2.Ordinal
	})
	return res, nil
}

// contextBound widens the range from a1 to a2 by ContextVerses within
// their chapters.
func (s *Service) contextBound(
	bs *address.Bounds,
	a1, a2 address.VerseAddress,
) (page.Bound, error) {
	var res page.Bound
	n := max(s.cfg.ContextVerses, 0)
	ch1, err := bs.Chapter(a1.Book, a1.Chapter)
	if err != nil {
		return res, err
	}
	ch2, err := bs.Chapter(a2.Book, a2.Chapter)
	if err != nil {
		return res, err
	}
	res.Lo = max(a1.Ordinal-n, ch1.Ordinal)
	res.Hi = min(a2.Ordinal+n, ch2.LastOrdinal())
	return res, nil
}

// fill renders the page into the passage.
func (s *Service) fill(
	cat *catalog.Catalog,
	res *Passage,
	pg page.Page,
	fold bool,
	highlight func(Row) bool,
) {
	res.Prev, res.Next = pg.Prev, pg.Next
	res.Before, res.After = pg.Before, pg.After
	rows := Rows(cat, pg.Verses, res.Keywords, fold)
	res.Sections = Sections(rows, highlight)
}
