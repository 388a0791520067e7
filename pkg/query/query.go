// Package query turns free-form search text into typed lexemes and
// resolves them into an answer: a passage to show or a text search.
//
// Tokenizing has two phases. A lexer splits the text into ranges,
// tagged values, quoted strings and bare words. Then runs of bare words
// are resolved against the catalog vocabulary with a sliding window of
// up to five words, where book aliases take priority over aliases of
// blessed versions.
package query

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/catalog"
)

// WindowSize is the largest number of words probed as one alias.
const WindowSize = 5

// Kind is the kind of a lexeme.
type Kind int

const (
	// KindRange is a chapter or chapter:verse range.
	KindRange Kind = iota
	// KindTagged is a value with a known role: book, version or keyword.
	KindTagged
	// KindUntagged is a bare word that did not match any alias.
	KindUntagged
)

// Tag is the role of a tagged lexeme.
type Tag int

const (
	TagNone Tag = iota
	TagVersion
	TagKeyword
	TagBook
)

// String returns the name of the tag.
func (t Tag) String() string {
	switch t {
	case TagVersion:
		return "version"
	case TagKeyword:
		return "keyword"
	case TagBook:
		return "book"
	default:
		return "none"
	}
}

// Span is a chapter range or a verse range. Zero fields are absent:
// Verse1 == 0 means a chapter range, Chapter2 == 0 means a single
// chapter or a single verse.
type Span struct {
	Chapter1 int `json:"chapter1"`
	Verse1   int `json:"verse1,omitempty"`
	Chapter2 int `json:"chapter2,omitempty"`
	Verse2   int `json:"verse2,omitempty"`
}

// Lexeme is one parsed piece of a query.
type Lexeme struct {
	Kind Kind   `json:"kind"`
	Tag  Tag    `json:"tag,omitempty"`
	Text string `json:"text,omitempty"`
	Span Span   `json:"span"`

	// Code is the canonical code of a resolved book or version. It is
	// empty when a tagged book or version is unknown.
	Code string `json:"code,omitempty"`

	// Lang is the language of a matched book alias.
	Lang string `json:"lang,omitempty"`

	// Bare is true for lexemes that came from untagged words.
	Bare bool `json:"bare,omitempty"`
}

// Vocabulary is what the tokenizer needs from a catalog.
type Vocabulary interface {
	ResolveBookAlias(alias string) (catalog.BookEntry, string, error)
	ResolveVersion(alias string) (catalog.VersionEntry, error)
	DefaultVersion(lang string) catalog.VersionEntry
	Bounds() *address.Bounds
}

// Tokenize lexes q and resolves untagged runs against voc.
func Tokenize(voc Vocabulary, q string) ([]Lexeme, error) {
	toks, err := lex(q)
	if err != nil {
		return nil, err
	}

	var res []Lexeme
	var run []string
	flush := func() {
		res = append(res, resolveRun(voc, run)...)
		run = run[:0]
	}

	for _, t := range toks {
		if t.kind == tokBare {
			run = append(run, t.text)
			continue
		}
		flush()
		switch t.kind {
		case tokRange:
			res = append(res, Lexeme{Kind: KindRange, Span: t.span})
		case tokQuoted:
			if t.text != "" {
				res = append(res, Lexeme{Kind: KindTagged, Tag: TagKeyword, Text: t.text})
			}
		case tokTagged:
			res = append(res, resolveTagged(voc, t))
		}
	}
	flush()
	return res, nil
}

func resolveTagged(voc Vocabulary, t token) Lexeme {
	res := Lexeme{Kind: KindTagged, Tag: t.tag, Text: t.text}
	switch t.tag {
	case TagBook:
		if b, lang, err := voc.ResolveBookAlias(t.text); err == nil {
			res.Code, res.Lang = b.Code, lang
		}
	case TagVersion:
		if v, err := voc.ResolveVersion(t.text); err == nil {
			res.Code = v.Code
		}
	}
	return res
}

// resolveRun probes windows word by word, extending each up to
// WindowSize words, and accepts the first one matching a book alias or
// an alias of a blessed version.
func resolveRun(voc Vocabulary, run []string) []Lexeme {
	var res []Lexeme
	for i := 0; i < len(run); {
		lx, n := probe(voc, run[i:])
		if n > 0 {
			res = append(res, lx)
			i += n
			continue
		}

		w := run[i]
		i++
		if isDigits(w) {
			if c, err := strconv.Atoi(w); err == nil {
				res = append(res, Lexeme{
					Kind: KindRange,
					Span: Span{Chapter1: c},
					Bare: true,
				})
				continue
			}
		}
		res = append(res, Lexeme{Kind: KindUntagged, Text: w, Bare: true})
	}
	return res
}

func probe(voc Vocabulary, words []string) (Lexeme, int) {
	for n := 1; n <= WindowSize && n <= len(words); n++ {
		text := strings.Join(words[:n], " ")
		if b, lang, err := voc.ResolveBookAlias(text); err == nil {
			return Lexeme{
				Kind: KindTagged,
				Tag:  TagBook,
				Text: text,
				Code: b.Code,
				Lang: lang,
				Bare: true,
			}, n
		}
		if v, err := voc.ResolveVersion(text); err == nil && v.Blessed {
			return Lexeme{
				Kind: KindTagged,
				Tag:  TagVersion,
				Text: text,
				Code: v.Code,
				Bare: true,
			}, n
		}
	}
	return Lexeme{}, 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Classified groups lexemes by their role.
type Classified struct {
	// Books are resolved books in query order.
	Books []Lexeme
	// Versions are resolved versions in query order.
	Versions []Lexeme
	// Keywords are search terms in query order.
	Keywords []string
	// Ranges are chapter and verse ranges in query order.
	Ranges []Span
	// Lang is the language implied by bare words, empty when there is no
	// signal or signals disagree.
	Lang string
}

// Classify groups lexemes and computes the implied language. A bare
// keyword written entirely in Hangul implies Korean, entirely in ASCII
// letters implies English. A bare book implies the language of its
// alias.
func Classify(lexemes []Lexeme) Classified {
	var res Classified
	langs := make(map[string]struct{})
	for _, lx := range lexemes {
		switch {
		case lx.Kind == KindRange:
			res.Ranges = append(res.Ranges, lx.Span)
		case lx.Kind == KindUntagged || lx.Tag == TagKeyword:
			if lx.Text == "" {
				continue
			}
			res.Keywords = append(res.Keywords, lx.Text)
			if lx.Bare {
				if l := scriptLang(lx.Text); l != "" {
					langs[l] = struct{}{}
				}
			}
		case lx.Tag == TagBook:
			if lx.Code == "" {
				continue
			}
			res.Books = append(res.Books, lx)
			if lx.Bare && lx.Lang != "" {
				langs[lx.Lang] = struct{}{}
			}
		case lx.Tag == TagVersion:
			if lx.Code != "" {
				res.Versions = append(res.Versions, lx)
			}
		}
	}

	if len(langs) == 1 {
		for l := range langs {
			res.Lang = l
		}
	}
	return res
}

// scriptLang detects the language of a word by its script.
func scriptLang(s string) string {
	var hangul, ascii, other bool
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			continue
		case unicode.Is(unicode.Hangul, r):
			hangul = true
		case r < unicode.MaxASCII:
			ascii = true
		default:
			other = true
		}
	}
	switch {
	case other:
		return ""
	case hangul && !ascii:
		return "ko"
	case ascii && !hangul:
		return "en"
	default:
		return ""
	}
}
