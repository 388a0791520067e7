package iopopulate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gnames/gnverse/pkg/markup"
)

// Style bytes of verse texts. Words in <i> are emphasized. With
// bracket markup square brackets make strong text and curly braces
// make emphasized strong text.
const (
	styleEm     = byte(markup.Capitalized)
	styleStrong = byte(markup.Uppercased)
	styleBoth   = styleEm | styleStrong
	styleNote   = byte(markup.Italic)
)

// notePlaceholder replaces an annotation in the raw text.
const notePlaceholder = '\ue006'

// notesRe finds runs of parenthesized CJK ideographs, they are
// translator notes (hanja readings) and are kept apart from the text.
var notesRe = regexp.MustCompile(
	`(?:\([\x{3400}-\x{4dbf}\x{4e00}-\x{9fff}\x{f900}-\x{faff}]+\))+`,
)

var (
	errNested     = errors.New("nested style markers")
	errUnbalanced = errors.New("unbalanced style markers")
	errNotes      = errors.New("adjacent annotations")
)

type marker struct {
	open, shut string
	style      byte
}

var (
	tagMarkers     = []marker{{"<i>", "</i>", styleEm}}
	bracketMarkers = []marker{
		{"<i>", "</i>", styleEm},
		{"[", "]", styleStrong},
		{"{", "}", styleBoth},
	}
)

// extractMarkup separates a raw verse text into plain text, one style
// byte per character, and annotations. A character that follows an
// annotation gets the note style; an annotation at the very end marks
// the last character. Markup is nil when no character is styled.
func extractMarkup(raw string, brackets bool) (string, []byte, []string, error) {
	var notes []string
	raw = notesRe.ReplaceAllStringFunc(raw, func(s string) string {
		notes = append(notes, s)
		return string(notePlaceholder)
	})

	markers := tagMarkers
	if brackets {
		markers = bracketMarkers
	}

	var sb strings.Builder
	sb.Grow(len(raw))
	res := make([]byte, 0, len(raw))
	var cur byte
	var pending, styled bool

	i := 0
scan:
	for i < len(raw) {
		for _, m := range markers {
			switch {
			case strings.HasPrefix(raw[i:], m.open):
				if cur != 0 {
					return "", nil, nil, errNested
				}
				cur = m.style
				i += len(m.open)
				continue scan
			case strings.HasPrefix(raw[i:], m.shut):
				if cur != m.style {
					return "", nil, nil, errUnbalanced
				}
				cur = 0
				i += len(m.shut)
				continue scan
			}
		}

		r, size := utf8.DecodeRuneInString(raw[i:])
		i += size
		if r == notePlaceholder {
			if pending {
				return "", nil, nil, errNotes
			}
			pending = true
			continue
		}

		st := cur
		if pending {
			st |= styleNote
			pending = false
		}
		styled = styled || st != 0
		sb.WriteRune(r)
		res = append(res, st)
	}

	if cur != 0 {
		return "", nil, nil, errUnbalanced
	}
	if pending && len(res) > 0 {
		res[len(res)-1] |= styleNote
		styled = true
	}
	if !styled {
		res = nil
	}
	return sb.String(), res, notes, nil
}
