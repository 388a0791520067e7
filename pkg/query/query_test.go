package query_test

import (
	"testing"

	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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
		}, Others: []catalog.Alias{{Text: "First John", Lang: "en"}}},
	}
}

// testCatalog has KJV blessed for English, or NIV when nivBlessed is
// true.
func testCatalog(t *testing.T, nivBlessed bool) *catalog.Catalog {
	t.Helper()
	vs := []catalog.VersionEntry{
		{Code: "kjv", Abbr: "KJV", Lang: "en", Blessed: !nivBlessed,
			Titles: map[string]string{"en": "King James Version"}},
		{Code: "niv", Abbr: "NIV", Lang: "en", Blessed: nivBlessed,
			Titles: map[string]string{"en": "New International Version"}},
		{Code: "kjav", Abbr: "흠정역", Lang: "ko", Blessed: true,
			Titles: map[string]string{"ko": "킹제임스 흠정역"}},
	}
	c, err := catalog.New(catalog.Tables{
		Books:          books(),
		Versions:       vs,
		DefaultVersion: "kjav",
	})
	require.NoError(t, err)
	return c
}

func codes(vs []catalog.VersionEntry) string {
	return catalog.VersionCodes(vs)
}

func TestTokenizeReference(t *testing.T) {
	c := testCatalog(t, false)
	lxs, err := query.Tokenize(c, "John 3:16")
	require.NoError(t, err)
	assert.Equal(t, []query.Lexeme{
		{Kind: query.KindTagged, Tag: query.TagBook, Text: "John",
			Code: "John", Lang: "en", Bare: true},
		{Kind: query.KindRange, Span: query.Span{Chapter1: 3, Verse1: 16}},
	}, lxs)

	ans := query.Resolve(c, query.Classify(lxs), nil, 2)
	assert.Equal(t, query.AnswerVerse, ans.Kind)
	assert.Equal(t, "John", ans.Book.Code)
	assert.Equal(t, 3, ans.Chapter1)
	assert.Equal(t, 16, ans.Verse1)
	assert.Equal(t, "kjv", codes(ans.Versions))
}

func TestTokenizeChapterRangeVersion(t *testing.T) {
	c := testCatalog(t, false)
	lxs, err := query.Tokenize(c, "John 3 - 4 (KJV)")
	require.NoError(t, err)
	require.Len(t, lxs, 3)
	assert.Equal(t, "John", lxs[0].Code)
	assert.Equal(t, query.Span{Chapter1: 3, Chapter2: 4}, lxs[1].Span)
	assert.Equal(t, query.TagVersion, lxs[2].Tag)
	assert.Equal(t, "kjv", lxs[2].Code)

	ans := query.Resolve(c, query.Classify(lxs), nil, 2)
	assert.Equal(t, query.AnswerChapters, ans.Kind)
	assert.Equal(t, 3, ans.Chapter1)
	assert.Equal(t, 4, ans.Chapter2)
	assert.Equal(t, "kjv", codes(ans.Versions))
}

func TestTokenizeQuotedKeyword(t *testing.T) {
	c := testCatalog(t, true)
	lxs, err := query.Tokenize(c, "'alpha and omega' niv")
	require.NoError(t, err)
	assert.Equal(t, []query.Lexeme{
		{Kind: query.KindTagged, Tag: query.TagKeyword, Text: "alpha and omega"},
		{Kind: query.KindTagged, Tag: query.TagVersion, Text: "niv",
			Code: "niv", Bare: true},
	}, lxs)

	ans := query.Resolve(c, query.Classify(lxs), nil, 2)
	assert.Equal(t, query.AnswerSearch, ans.Kind)
	assert.Equal(t, []string{"alpha and omega"}, ans.Keywords)
	assert.Equal(t, "niv", codes(ans.Versions))
}

func TestTokenizeSpans(t *testing.T) {
	c := testCatalog(t, false)
	tests := []struct {
		msg  string
		q    string
		span query.Span
	}{
		{"verse", "12:3", query.Span{Chapter1: 12, Verse1: 3}},
		{"verse range", "12:3-4", query.Span{Chapter1: 12, Verse1: 3, Chapter2: 12, Verse2: 4}},
		{"cross chapter", "12:3~14:5", query.Span{Chapter1: 12, Verse1: 3, Chapter2: 14, Verse2: 5}},
		{"spaces", "12 : 3 - 14 : 5", query.Span{Chapter1: 12, Verse1: 3, Chapter2: 14, Verse2: 5}},
		{"chapters", "12-14", query.Span{Chapter1: 12, Chapter2: 14}},
		{"bare chapter", "12", query.Span{Chapter1: 12}},
	}
	for _, v := range tests {
		lxs, err := query.Tokenize(c, v.q)
		require.NoError(t, err, v.msg)
		require.Len(t, lxs, 1, v.msg)
		assert.Equal(t, query.KindRange, lxs[0].Kind, v.msg)
		assert.Equal(t, v.span, lxs[0].Span, v.msg)
	}
}

func TestTokenizeWindow(t *testing.T) {
	c := testCatalog(t, false)
	tests := []struct {
		msg  string
		q    string
		book string
		kind query.AnswerKind
		c1   int
	}{
		{"two word alias", "First John 2", "1John", query.AnswerChapter, 2},
		{"digit starts alias", "1 John 2:3", "1John", query.AnswerVerse, 2},
		{"korean title", "요한복음 3:16", "John", query.AnswerVerse, 3},
		{"korean with space", "요한 복음 3", "John", query.AnswerChapter, 3},
		{"book only", "genesis", "Gen", query.AnswerChapter, 1},
		{"tagged book", "b:요 1", "John", query.AnswerChapter, 1},
	}
	for _, v := range tests {
		lxs, err := query.Tokenize(c, v.q)
		require.NoError(t, err, v.msg)
		ans := query.Resolve(c, query.Classify(lxs), nil, 2)
		assert.Equal(t, v.kind, ans.Kind, v.msg)
		assert.Equal(t, v.book, ans.Book.Code, v.msg)
		assert.Equal(t, v.c1, ans.Chapter1, v.msg)
	}
}

func TestUntaggedVersionMustBeBlessed(t *testing.T) {
	c := testCatalog(t, false)
	lxs, err := query.Tokenize(c, "love niv")
	require.NoError(t, err)
	require.Len(t, lxs, 2)
	assert.Equal(t, query.KindUntagged, lxs[1].Kind)

	lxs, err = query.Tokenize(c, "love v:niv")
	require.NoError(t, err)
	require.Len(t, lxs, 2)
	assert.Equal(t, query.TagVersion, lxs[1].Tag)
	assert.Equal(t, "niv", lxs[1].Code)
}

func TestImpliedLanguage(t *testing.T) {
	c := testCatalog(t, false)
	tests := []struct {
		msg      string
		q        string
		current  string
		lang     string
		versions string
	}{
		{"english keyword", "love", "kjav", "en", "kjv"},
		{"current in same language", "love", "niv", "en", "niv"},
		{"korean keyword", "사랑", "niv", "ko", "kjav"},
		{"mixed scripts", "love 사랑", "niv", "", "niv"},
		{"korean book", "요한복음 3", "niv", "ko", "kjav"},
		{"english book", "John 3", "kjav,niv", "en", "kjv"},
		{"tagged book is no signal", "b:John 3", "niv", "", "niv"},
		{"quoted text is no signal", `"사랑"`, "niv", "", "niv"},
		{"explicit version wins", "사랑 v:kjv", "niv", "ko", "kjv"},
		{"numbers only", "3:16", "niv", "", "niv"},
	}
	for _, v := range tests {
		lxs, err := query.Tokenize(c, v.q)
		require.NoError(t, err, v.msg)
		cl := query.Classify(lxs)
		assert.Equal(t, v.lang, cl.Lang, v.msg)
		ans := query.Resolve(c, cl, c.ParseVersions(v.current), 2)
		assert.Equal(t, v.versions, codes(ans.Versions), v.msg)
	}
}

func TestResolveVersionsLimit(t *testing.T) {
	c := testCatalog(t, false)
	lxs, err := query.Tokenize(c, "v:niv v:NIV v:kjv v:kjav John 1")
	require.NoError(t, err)
	ans := query.Resolve(c, query.Classify(lxs), nil, 2)
	assert.Equal(t, "niv,kjv", codes(ans.Versions))
}

func TestResolveNone(t *testing.T) {
	c := testCatalog(t, false)
	for _, q := range []string{"", "3:16", "b:Hezekiah", "  , . "} {
		lxs, err := query.Tokenize(c, q)
		require.NoError(t, err, q)
		ans := query.Resolve(c, query.Classify(lxs), nil, 2)
		assert.Equal(t, query.AnswerNone, ans.Kind, q)
	}
}

func TestSearchKeywords(t *testing.T) {
	c := testCatalog(t, false)
	lxs, err := query.Tokenize(c, `Love love "LOVE" grace b:Hezekiah q:mercy`)
	require.NoError(t, err)
	ans := query.Resolve(c, query.Classify(lxs), nil, 2)
	assert.Equal(t, query.AnswerSearch, ans.Kind)
	assert.Equal(t, []string{"Love", "grace", "mercy"}, ans.Keywords)
}

func TestFormatKeywords(t *testing.T) {
	tests := []struct {
		msg string
		kws []string
		res string
	}{
		{"plain", []string{"love", "grace"}, "love grace"},
		{"whitespace", []string{"alpha and omega"}, `"alpha and omega"`},
		{"inner apostrophe", []string{"don't"}, "don't"},
		{"hyphen", []string{"well-pleased"}, "well-pleased"},
		{"leading apostrophe", []string{"'tis"}, `"'tis"`},
		{"punctuation", []string{"a.b"}, `"a.b"`},
		{"double quote inside", []string{`say "hi"`}, `'say "hi"'`},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, query.FormatKeywords(v.kws), v.msg)
	}
}

func TestTokenizeNeverFails(t *testing.T) {
	c := testCatalog(t, false)
	for _, q := range []string{
		`"unterminated`, "99999999999999999999:1", "((()))", "v:", "émigré",
	} {
		_, err := query.Tokenize(c, q)
		assert.NoError(t, err, q)
	}
}
