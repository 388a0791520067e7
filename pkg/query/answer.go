package query

import (
	"slices"
	"strings"
	"unicode"

	"github.com/gnames/gnverse/pkg/catalog"
)

// AnswerKind tells what a query resolved to.
type AnswerKind int

const (
	// AnswerNone means the query has nothing to show.
	AnswerNone AnswerKind = iota
	// AnswerChapter is one chapter of a book.
	AnswerChapter
	// AnswerChapters is a range of chapters.
	AnswerChapters
	// AnswerVerse is one verse.
	AnswerVerse
	// AnswerVerses is a range of verses, possibly across chapters.
	AnswerVerses
	// AnswerSearch is a free-text search.
	AnswerSearch
)

var answerKinds = []string{"none", "chapter", "chapters", "verse", "verses", "search"}

// String returns the name of the kind.
func (k AnswerKind) String() string {
	if int(k) < 0 || int(k) >= len(answerKinds) {
		return "none"
	}
	return answerKinds[k]
}

// Answer is where a query leads.
type Answer struct {
	Kind     AnswerKind             `json:"kind"`
	Book     catalog.BookEntry      `json:"book"`
	Chapter1 int                    `json:"chapter1,omitempty"`
	Verse1   int                    `json:"verse1,omitempty"`
	Chapter2 int                    `json:"chapter2,omitempty"`
	Verse2   int                    `json:"verse2,omitempty"`
	Versions []catalog.VersionEntry `json:"versions"`
	Keywords []string               `json:"keywords,omitempty"`
}

// Resolve builds the answer out of classified lexemes.
//
// Explicit versions (at most maxVersions, first seen wins) replace the
// current ones. Without them the implied language picks its blessed
// version unless the first current version is already in that
// language. Without an implied language current versions stay. Only
// the first book and the first range are used. A book without a range
// goes to its first chapter. Keywords without a book become a search.
func Resolve(
	voc Vocabulary,
	cl Classified,
	current []catalog.VersionEntry,
	maxVersions int,
) Answer {
	res := Answer{Versions: resolveVersions(voc, cl, current, maxVersions)}

	if len(cl.Books) > 0 {
		return resolvePassage(voc, cl, res)
	}

	if len(cl.Keywords) > 0 {
		res.Kind = AnswerSearch
		res.Keywords = DedupKeywords(cl.Keywords)
	}
	return res
}

func resolveVersions(
	voc Vocabulary,
	cl Classified,
	current []catalog.VersionEntry,
	maxVersions int,
) []catalog.VersionEntry {
	var res []catalog.VersionEntry
	for _, lx := range cl.Versions {
		if maxVersions > 0 && len(res) == maxVersions {
			break
		}
		if slices.ContainsFunc(res, func(v catalog.VersionEntry) bool {
			return v.Code == lx.Code
		}) {
			continue
		}
		v, err := voc.ResolveVersion(lx.Code)
		if err != nil {
			continue
		}
		res = append(res, v)
	}
	if len(res) > 0 {
		return res
	}

	if cl.Lang != "" {
		if len(current) > 0 && current[0].Lang == cl.Lang {
			return slices.Clone(current)
		}
		if v := voc.DefaultVersion(cl.Lang); v.Code != "" {
			return []catalog.VersionEntry{v}
		}
	}
	if len(current) > 0 {
		return slices.Clone(current)
	}
	if v := voc.DefaultVersion(""); v.Code != "" {
		return []catalog.VersionEntry{v}
	}
	return nil
}

func resolvePassage(voc Vocabulary, cl Classified, res Answer) Answer {
	lx := cl.Books[0]
	b, _, err := voc.ResolveBookAlias(lx.Code)
	if err != nil {
		return res
	}
	res.Book = b

	if len(cl.Ranges) == 0 {
		res.Kind = AnswerChapter
		res.Chapter1 = 1
		if cr, ok := voc.Bounds().Chapters(b.Index); ok {
			res.Chapter1 = cr.Min
		}
		return res
	}

	sp := cl.Ranges[0]
	res.Chapter1, res.Verse1 = sp.Chapter1, sp.Verse1
	switch {
	case sp.Verse1 == 0 && sp.Chapter2 == 0:
		res.Kind = AnswerChapter
	case sp.Verse1 == 0:
		res.Kind = AnswerChapters
		res.Chapter2 = sp.Chapter2
	case sp.Chapter2 == 0:
		res.Kind = AnswerVerse
	default:
		res.Kind = AnswerVerses
		res.Chapter2, res.Verse2 = sp.Chapter2, sp.Verse2
	}
	return res
}

// DedupKeywords removes keywords repeated without regard to case. The
// first seen form is kept.
func DedupKeywords(kws []string) []string {
	seen := make(map[string]struct{}, len(kws))
	res := make([]string, 0, len(kws))
	for _, kw := range kws {
		key := strings.ToLower(kw)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		res = append(res, kw)
	}
	return res
}

// FormatKeywords joins keywords back into query text. A keyword is
// quoted when it has whitespace, a word starting with an apostrophe,
// or punctuation other than hyphens and apostrophes.
func FormatKeywords(kws []string) string {
	res := make([]string, len(kws))
	for i, kw := range kws {
		res[i] = formatKeyword(kw)
	}
	return strings.Join(res, " ")
}

func formatKeyword(kw string) string {
	if !needsQuotes(kw) {
		return kw
	}
	if strings.Contains(kw, `"`) {
		return "'" + kw + "'"
	}
	return `"` + kw + `"`
}

func needsQuotes(kw string) bool {
	for _, w := range strings.Fields(kw) {
		if strings.HasPrefix(w, "'") || strings.HasPrefix(w, "’") {
			return true
		}
	}
	for _, r := range kw {
		switch {
		case unicode.IsSpace(r):
			return true
		case r == '-' || r == '\'' || r == '’':
			continue
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			return true
		}
	}
	return false
}
