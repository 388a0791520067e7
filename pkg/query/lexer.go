package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Rule order is the parse precedence: ranges win over everything else,
// a chapter:verse range wins over a chapter range.
var queryLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "CVRange", Pattern: `\d+\s*:\s*\d+(?:\s*[-~]\s*\d+(?:\s*:\s*\d+)?)?`},
	{Name: "CRange", Pattern: `\d+\s*[-~]\s*\d+`},
	{Name: "Tagged", Pattern: `(?i:version|ver|v|keyword|q|book|b):` +
		`(?:"[^"]*"|“[^”]*”|'[^']*'|‘[^’]*’|` +
		`[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*|\d+)`},
	{Name: "DQuoted", Pattern: `"[^"]*"|“[^”]*”`},
	{Name: "SQuoted", Pattern: `'[^']*'|‘[^’]*’`},
	{Name: "Number", Pattern: `\d+`},
	{Name: "Word", Pattern: `[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Punct", Pattern: `[^\s\p{L}\p{M}\d]`},
})

var symbols = queryLexer.Symbols()

type tokenKind int

const (
	tokRange tokenKind = iota
	tokTagged
	tokQuoted
	tokBare
	tokBreak
)

type token struct {
	kind tokenKind
	tag  Tag
	text string
	span Span
}

// lex is the first phase of tokenizing: it turns query text into typed
// tokens without consulting any vocabulary.
func lex(q string) ([]token, error) {
	l, err := queryLexer.LexString("", q)
	if err != nil {
		return nil, err
	}
	toks, err := lexer.ConsumeAll(l)
	if err != nil {
		return nil, err
	}

	var res []token
	for _, t := range toks {
		switch t.Type {
		case lexer.EOF, symbols["Whitespace"]:
			continue
		case symbols["CVRange"], symbols["CRange"]:
			sp, err := parseSpan(t.Value)
			if err != nil {
				// numbers too large for a chapter are searched as text
				res = append(res, token{kind: tokBare, text: t.Value})
				continue
			}
			res = append(res, token{kind: tokRange, span: sp})
		case symbols["Tagged"]:
			res = append(res, parseTagged(t.Value))
		case symbols["DQuoted"], symbols["SQuoted"]:
			res = append(res, token{
				kind: tokQuoted,
				tag:  TagKeyword,
				text: unquote(t.Value),
			})
		case symbols["Number"], symbols["Word"]:
			res = append(res, token{kind: tokBare, text: t.Value})
		default:
			res = append(res, token{kind: tokBreak})
		}
	}
	return res, nil
}

func parseTagged(s string) token {
	name, val, _ := strings.Cut(s, ":")
	res := token{kind: tokTagged, text: unquote(val)}
	switch strings.ToLower(name) {
	case "v", "ver", "version":
		res.tag = TagVersion
	case "q", "keyword":
		res.tag = TagKeyword
	case "b", "book":
		res.tag = TagBook
	}
	return res
}

func unquote(s string) string {
	rs := []rune(s)
	if len(rs) < 2 {
		return s
	}
	switch rs[0] {
	case '"', '“', '\'', '‘':
		return strings.TrimSpace(string(rs[1 : len(rs)-1]))
	}
	return s
}

// parseSpan reads "12:3", "12:3-4", "12:3-14:5" and "12-14" forms.
func parseSpan(s string) (Span, error) {
	var res Span
	s = strings.Join(strings.Fields(s), "")
	s = strings.ReplaceAll(s, "~", "-")
	first, second, isRange := strings.Cut(s, "-")

	c1, v1, err := chapterVerse(first)
	if err != nil {
		return res, err
	}
	res.Chapter1, res.Verse1 = c1, v1
	if !isRange {
		return res, nil
	}

	c2, v2, err := chapterVerse(second)
	if err != nil {
		return res, err
	}
	switch {
	case v1 == 0:
		res.Chapter2 = c2
	case v2 == 0:
		// 12:3-4 is a verse range inside chapter 12
		res.Chapter2, res.Verse2 = c1, c2
	default:
		res.Chapter2, res.Verse2 = c2, v2
	}
	return res, nil
}

func chapterVerse(s string) (int, int, error) {
	c, v, hasVerse := strings.Cut(s, ":")
	chapter, err := strconv.Atoi(c)
	if err != nil {
		return 0, 0, fmt.Errorf("bad chapter in %q: %w", s, err)
	}
	if !hasVerse {
		return chapter, 0, nil
	}
	verse, err := strconv.Atoi(v)
	if err != nil {
		return 0, 0, fmt.Errorf("bad verse in %q: %w", s, err)
	}
	return chapter, verse, nil
}
