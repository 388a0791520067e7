package bible_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gnames/gnverse/internal/iotesting"
	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/bible"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/errcode"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/gnames/gnverse/pkg/query"
	"github.com/gnames/gnverse/pkg/reading"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ordinals: Gen 1:1-10 are 0-9, Gen 2:1-5 are 10-14, John 1:1-5 are
// 15-19, John 3:14-18 are 20-24, 1John 1:1-3 are 25-27.
func addresses() []address.VerseAddress {
	var ts []address.Triple
	add := func(book, chapter, v1, v2 int) {
		for v := v1; v <= v2; v++ {
			ts = append(ts, address.Triple{Book: book, Chapter: chapter, Verse: v})
		}
	}
	add(0, 1, 1, 10)
	add(0, 2, 1, 5)
	add(1, 1, 1, 5)
	add(1, 3, 14, 18)
	add(2, 1, 1, 3)
	return address.Number(ts)
}

func books() []catalog.BookEntry {
	return []catalog.BookEntry{
		{Code: "Gen", Index: 0, Names: map[string]catalog.Names{
			"en": {Abbr: "Gen", Title: "Genesis"},
			"ko": {Abbr: "창", Title: "창세기"},
		}},
		{Code: "John", Index: 1, Names: map[string]catalog.Names{
			"en": {Abbr: "John", Title: "John"},
			"ko": {Abbr: "요", Title: "요한복음"},
		}},
		{Code: "1John", Index: 2, Names: map[string]catalog.Names{
			"en": {Abbr: "1John", Title: "1 John"},
			"ko": {Abbr: "요일", Title: "요한일서"},
		}},
	}
}

func newCatalog(t *testing.T, plan *reading.Plan) *catalog.Catalog {
	t.Helper()
	bs, err := address.Build(3, addresses())
	require.NoError(t, err)
	c, err := catalog.New(catalog.Tables{
		Books: books(),
		Versions: []catalog.VersionEntry{
			{Code: "kjv", Abbr: "KJV", Lang: "en", Blessed: true, MaxGap: 1},
			{Code: "niv", Abbr: "NIV", Lang: "en", MaxGap: 1},
			{Code: "kjav", Abbr: "흠정역", Lang: "ko", Blessed: true, MaxGap: 1},
		},
		Bounds: bs,
		Plan:   plan,

		DefaultVersion: "kjv",
	})
	require.NoError(t, err)
	return c
}

func testPlan() *reading.Plan {
	return reading.NewPlan([]reading.DailyReading{
		{Code: "0101", Ranges: []reading.OrdinalRange{{From: 0, To: 2}}},
		{Code: "0201", Ranges: []reading.OrdinalRange{
			{From: 25, To: 27}, {From: 15, To: 16},
		}},
	})
}

func readerConfig() config.ReaderConfig {
	return config.ReaderConfig{
		PageSize:      4,
		ContextVerses: 2,
		MaxVersions:   2,
	}
}

func setup(t *testing.T, opts ...bible.Option) (*bible.Service, *iotesting.MemStore) {
	t.Helper()
	st := iotesting.NewMemStore(addresses(), "kjv", "niv")
	reg := catalog.NewRegistry(newCatalog(t, testPlan()))
	return bible.New(reg, st, readerConfig(), opts...), st
}

func rowOrdinals(p bible.Passage) []int {
	var res []int
	for _, s := range p.Sections {
		for _, r := range s.Rows {
			res = append(res, r.Ordinal)
		}
	}
	return res
}

func TestChaptersPaging(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	var got []int
	var cursor *page.Cursor
	var last bible.Passage
	for range 10 {
		p, err := svc.Chapters(ctx, bible.ChapterRequest{
			Book: "genesis", Chapter1: 1, Cursor: cursor,
		})
		require.NoError(t, err)
		assert.Equal(t, query.AnswerChapter, p.Kind)
		assert.Equal(t, "Gen", p.Book.Code)
		got = append(got, rowOrdinals(p)...)
		last = p
		if p.Next == nil {
			break
		}
		cursor = p.Next
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	require.NotNil(t, last.After)
	assert.Equal(t, 10, last.After.Ordinal)
	assert.NotNil(t, last.Prev)
}

func TestChapters(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	t.Run("reversed range", func(t *testing.T) {
		p, err := svc.Chapters(ctx, bible.ChapterRequest{
			Book: "요", Chapter1: 3, Chapter2: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, query.AnswerChapters, p.Kind)
		assert.Equal(t, 1, p.Chapter1)
		assert.Equal(t, 3, p.Chapter2)
		assert.Equal(t, []int{15, 16, 17, 18}, rowOrdinals(p))
		require.NotNil(t, p.Before)
		assert.Equal(t, 14, p.Before.Ordinal)
	})

	t.Run("first chapter", func(t *testing.T) {
		p, err := svc.Chapters(ctx, bible.ChapterRequest{Book: "1john"})
		require.NoError(t, err)
		assert.Equal(t, 1, p.Chapter1)
		assert.Equal(t, []int{25, 26, 27}, rowOrdinals(p))
		assert.Nil(t, p.Next)
		assert.Nil(t, p.After)
		require.Len(t, p.Sections, 1)
		assert.False(t, p.Sections[0].Highlight)
	})

	t.Run("two versions", func(t *testing.T) {
		p, err := svc.Chapters(ctx, bible.ChapterRequest{
			Book: "Gen", Chapter1: 2, Versions: []string{"niv", "kjv", "kjav"},
		})
		require.NoError(t, err)
		assert.Equal(t, "niv,kjv", catalog.VersionCodes(p.Versions))
		r := p.Sections[0].Rows[0]
		assert.Equal(t, "niv 0:2:1", r.Text)
		assert.Equal(t, "kjv 0:2:1", r.Text2)
		assert.Equal(t, "kjv 0:2:1", r.HTML2)
		assert.Equal(t, "Gen", r.BookCode)
	})

	t.Run("unknown version falls back", func(t *testing.T) {
		p, err := svc.Chapters(ctx, bible.ChapterRequest{
			Book: "Gen", Versions: []string{"xyz"},
		})
		require.NoError(t, err)
		assert.Equal(t, "kjv", catalog.VersionCodes(p.Versions))
	})

	tests := []struct {
		msg string
		req bible.ChapterRequest
	}{
		{"unknown book", bible.ChapterRequest{Book: "Exodus", Chapter1: 1}},
		{"unknown chapter", bible.ChapterRequest{Book: "Gen", Chapter1: 9}},
		{"missing chapter", bible.ChapterRequest{Book: "John", Chapter1: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			_, err := svc.Chapters(ctx, tt.req)
			assert.ErrorIs(t, err, errcode.ErrNotFound)
		})
	}
}

func TestVerse(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p, err := svc.Verse(ctx, bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 5})
	require.NoError(t, err)
	assert.Equal(t, query.AnswerVerse, p.Kind)
	assert.Equal(t, 1, p.Chapter1)
	assert.Equal(t, 5, p.Verse1)
	assert.Equal(t, 0, p.Chapter2)

	require.Len(t, p.Sections, 3)
	assert.False(t, p.Sections[0].Highlight)
	assert.True(t, p.Sections[1].Highlight)
	assert.False(t, p.Sections[2].Highlight)
	assert.Equal(t, []int{2, 3, 4, 5, 6}, rowOrdinals(p))
	assert.Equal(t, 4, p.Sections[1].Rows[0].Ordinal)
	assert.True(t, p.Sections[1].Rows[0].Cont)
	assert.False(t, p.Sections[0].Rows[0].Cont)
	require.NotNil(t, p.Before)
	assert.Equal(t, 1, p.Before.Ordinal)
	require.NotNil(t, p.After)
	assert.Equal(t, 7, p.After.Ordinal)

	t.Run("invalid verse", func(t *testing.T) {
		_, err := svc.Verse(ctx, bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 11})
		assert.ErrorIs(t, err, errcode.ErrNotFound)
	})
}

func TestVerses(t *testing.T) {
	ctx := context.Background()
	svc := bible.New(catalog.NewRegistry(newCatalog(t, testPlan())),
		iotesting.NewMemStore(addresses(), "kjv"),
		config.ReaderConfig{PageSize: 100, ContextVerses: 2, MaxVersions: 2})

	tests := []struct {
		msg       string
		req       bible.VerseRequest
		kind      query.AnswerKind
		rows      []int
		highlight []int
	}{
		{"across chapters",
			bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 9, Chapter2: 2, Verse2: 2},
			query.AnswerVerses, []int{6, 7, 8, 9, 10, 11, 12, 13}, []int{8, 9, 10, 11}},
		{"same chapter",
			bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 2, Verse2: 3},
			query.AnswerVerses, []int{0, 1, 2, 3, 4}, []int{1, 2}},
		{"reversed",
			bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 3, Verse2: 2},
			query.AnswerVerses, []int{0, 1, 2, 3, 4}, []int{1, 2}},
		{"context stays in chapter",
			bible.VerseRequest{Book: "John", Chapter1: 3, Verse1: 15},
			query.AnswerVerse, []int{20, 21, 22, 23}, []int{21}},
		{"last verse",
			bible.VerseRequest{Book: "1John", Chapter1: 1, Verse1: address.Last},
			query.AnswerVerse, []int{25, 26, 27}, []int{27}},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			p, err := svc.Verses(ctx, tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind)
			assert.Equal(t, tt.rows, rowOrdinals(p))
			var hl []int
			for _, s := range p.Sections {
				if !s.Highlight {
					continue
				}
				for _, r := range s.Rows {
					hl = append(hl, r.Ordinal)
				}
			}
			assert.Equal(t, tt.highlight, hl)
		})
	}
}

type memCache struct {
	pages map[string]page.Page
	sets  int
	err   error
}

func (m *memCache) Get(_ context.Context, key string) (page.Page, bool, error) {
	if m.err != nil {
		return page.Page{}, false, m.err
	}
	p, ok := m.pages[key]
	return p, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, p page.Page) error {
	if m.err != nil {
		return m.err
	}
	m.sets++
	m.pages[key] = p
	return nil
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	p, err := svc.Search(ctx, bible.SearchRequest{
		Keywords: []string{"KJV 2:", "kjv 2:", " "},
		Fold:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, query.AnswerSearch, p.Kind)
	assert.Equal(t, []string{"KJV 2:"}, p.Keywords)
	assert.Equal(t, []int{25, 26, 27}, rowOrdinals(p))
	assert.Equal(t, "<mark>kjv 2:</mark>1:1", p.Sections[0].Rows[0].HTML)
	assert.Nil(t, p.Next)

	t.Run("case sensitive", func(t *testing.T) {
		p, err := svc.Search(ctx, bible.SearchRequest{Keywords: []string{"KJV 2:"}})
		require.NoError(t, err)
		assert.Empty(t, rowOrdinals(p))
	})

	t.Run("paging", func(t *testing.T) {
		p, err := svc.Search(ctx, bible.SearchRequest{Keywords: []string{"kjv 0:"}})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 3}, rowOrdinals(p))
		require.NotNil(t, p.Next)
		assert.Equal(t, page.After(4), *p.Next)
	})

	t.Run("no keywords", func(t *testing.T) {
		p, err := svc.Search(ctx, bible.SearchRequest{Keywords: []string{"  "}})
		require.NoError(t, err)
		assert.Equal(t, query.AnswerNone, p.Kind)
		assert.Empty(t, p.Sections)
	})
}

func TestSearchCache(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{pages: make(map[string]page.Page)}
	svc, st := setup(t, bible.OptCache(cache))

	req := bible.SearchRequest{Keywords: []string{"kjv 1:"}}
	p1, err := svc.Search(ctx, req)
	require.NoError(t, err)
	scans := st.Scans()
	assert.Equal(t, 1, cache.sets)

	p2, err := svc.Search(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, scans, st.Scans())
	assert.Equal(t, rowOrdinals(p1), rowOrdinals(p2))

	t.Run("broken cache", func(t *testing.T) {
		cache.err = errors.New("cache is down")
		p, err := svc.Search(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, rowOrdinals(p1), rowOrdinals(p))
		assert.Greater(t, st.Scans(), scans)
	})
}

func TestDaily(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	d, err := svc.Daily(ctx, "0115", nil)
	require.NoError(t, err)
	assert.Equal(t, "0101", d.Code)
	assert.Equal(t, "0201", d.Prev)
	assert.Equal(t, "0201", d.Next)
	require.Len(t, d.Passages, 1)
	p := d.Passages[0]
	assert.Equal(t, "Gen", p.Book.Code)
	assert.Equal(t, []int{1, 1, 1, 3},
		[]int{p.Chapter1, p.Verse1, p.Chapter2, p.Verse2})
	assert.Equal(t, []int{0, 1, 2}, rowOrdinals(p))

	tests := []struct {
		code, want string
		books      []string
	}{
		{"0301", "0201", []string{"John", "1John"}},
		{"0001", "0201", []string{"John", "1John"}},
		{"0101", "0101", []string{"Gen"}},
	}
	for _, tt := range tests {
		d, err := svc.Daily(ctx, tt.code, []string{"niv"})
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.Code, tt.code)
		var bs []string
		for _, p := range d.Passages {
			bs = append(bs, p.Book.Code)
		}
		assert.Equal(t, tt.books, bs, tt.code)
		assert.Equal(t, "niv", catalog.VersionCodes(d.Versions))
	}

	t.Run("empty plan", func(t *testing.T) {
		reg := catalog.NewRegistry(newCatalog(t, nil))
		svc := bible.New(reg, iotesting.NewMemStore(addresses(), "kjv"), readerConfig())
		_, err := svc.Daily(ctx, "0101", nil)
		assert.ErrorIs(t, err, errcode.ErrNotFound)
	})
}

func TestQueryOpen(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	tests := []struct {
		q    string
		kind query.AnswerKind
		rows []int
	}{
		{"John 3:16", query.AnswerVerse, []int{20, 21, 22, 23, 24}},
		{"gen 2", query.AnswerChapter, []int{10, 11, 12, 13, 14}},
		{`"kjv 2:"`, query.AnswerSearch, []int{25, 26, 27}},
	}
	for _, tt := range tests {
		t.Run(tt.q, func(t *testing.T) {
			ans, err := svc.Query(tt.q, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, ans.Kind)
			p, err := svc.Open(ctx, ans, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.rows, rowOrdinals(p))
		})
	}

	t.Run("current versions", func(t *testing.T) {
		ans, err := svc.Query(`"light"`, []string{"niv"})
		require.NoError(t, err)
		assert.Equal(t, "niv", catalog.VersionCodes(ans.Versions))

		ans, err = svc.Query("창 1:1", []string{"niv"})
		require.NoError(t, err)
		assert.Equal(t, "kjav", catalog.VersionCodes(ans.Versions))

		ans, err = svc.Query("Gen 1:1", []string{"niv"})
		require.NoError(t, err)
		assert.Equal(t, "niv", catalog.VersionCodes(ans.Versions))

		ans, err = svc.Query("Gen 1:1", []string{"kjav"})
		require.NoError(t, err)
		assert.Equal(t, "kjv", catalog.VersionCodes(ans.Versions))
	})

	t.Run("nothing", func(t *testing.T) {
		_, err := svc.Open(ctx, query.Answer{}, nil)
		assert.ErrorIs(t, err, errcode.ErrNotFound)
	})
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	svc, st := setup(t)
	st.Err = errors.New("disk is gone")

	_, err := svc.Chapters(ctx, bible.ChapterRequest{Book: "Gen", Chapter1: 1})
	assert.ErrorIs(t, err, errcode.ErrStoreUnavailable)
	_, err = svc.Search(ctx, bible.SearchRequest{Keywords: []string{"x"}})
	assert.ErrorIs(t, err, errcode.ErrStoreUnavailable)
	_, err = svc.Daily(ctx, "0101", nil)
	assert.ErrorIs(t, err, errcode.ErrStoreUnavailable)

	t.Run("no catalog", func(t *testing.T) {
		svc := bible.New(catalog.NewRegistry(nil), st, readerConfig())
		_, err := svc.Verse(ctx, bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 1})
		assert.ErrorIs(t, err, errcode.ErrStoreUnavailable)
	})
}

func TestSections(t *testing.T) {
	mk := func(book, chapter, verse int) bible.Row {
		return bible.Row{Verse: page.Verse{Book: book, Chapter: chapter, Verse: verse}}
	}
	rows := []bible.Row{mk(0, 1, 9), mk(0, 1, 10), mk(0, 2, 1), mk(0, 2, 3)}

	secs := bible.Sections(rows, nil)
	require.Len(t, secs, 1)
	var cont []bool
	for _, r := range secs[0].Rows {
		cont = append(cont, r.Cont)
	}
	assert.Equal(t, []bool{false, true, false, false}, cont)

	secs = bible.Sections(rows, func(r bible.Row) bool { return r.Chapter == 2 })
	require.Len(t, secs, 2)
	assert.Len(t, secs[0].Rows, 2)
	assert.True(t, secs[1].Highlight)

	assert.Empty(t, bible.Sections(nil, nil))

	r := mk(0, 2, 3)
	assert.Equal(t, 3, r.Number())
	assert.Equal(t, "2:3", r.Ref())
	assert.True(t, r.Follows(mk(0, 2, 2)))
	assert.False(t, r.Follows(mk(1, 2, 2)))
}

func TestNoBounds(t *testing.T) {
	ctx := context.Background()
	c, err := catalog.New(catalog.Tables{
		Books: books(),
		Versions: []catalog.VersionEntry{
			{Code: "kjv", Abbr: "KJV", Lang: "en", Blessed: true, MaxGap: 1},
		},
		Plan:           testPlan(),
		DefaultVersion: "kjv",
	})
	require.NoError(t, err)
	st := iotesting.NewMemStore(addresses(), "kjv")
	svc := bible.New(catalog.NewRegistry(c), st, readerConfig())

	_, err = svc.Chapters(ctx, bible.ChapterRequest{Book: "Gen", Chapter1: 1})
	assert.ErrorIs(t, err, address.ErrInvalidBook)
	_, err = svc.Verse(ctx, bible.VerseRequest{Book: "Gen", Chapter1: 1, Verse1: 1})
	assert.ErrorIs(t, err, address.ErrInvalidBook)
	_, err = svc.Daily(ctx, "0101", nil)
	assert.ErrorIs(t, err, errcode.ErrNotFound)
}
