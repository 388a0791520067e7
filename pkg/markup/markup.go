// Package markup renders verse text with per-character style flags into
// nested inline HTML. Nesting is fixed: highlight is the outermost tag,
// then italic, then strong, with emphasis innermost.
package markup

import (
	"html"
	"strconv"
	"strings"
	"unicode"
)

// Flag is a per-character style bit.
type Flag uint16

const (
	// Capitalized is rendered as emphasis.
	Capitalized Flag = 1
	// Uppercased is rendered as strong.
	Uppercased Flag = 2
	// Italic marks words supplied by translators.
	Italic Flag = 128
	// Highlight is set by search and verse selection.
	Highlight Flag = 256
)

// Style is the active set of tags. Group is the highlight group, 0 means
// no highlight.
type Style struct {
	Group  int
	Italic bool
	Strong bool
	Em     bool
}

// NewStyle builds a style out of flags and a highlight group. A
// Highlight flag without a group is group 1.
func NewStyle(f Flag, group int) Style {
	if group == 0 && f&Highlight != 0 {
		group = 1
	}
	return Style{
		Group:  group,
		Italic: f&Italic != 0,
		Strong: f&Uppercased != 0,
		Em:     f&Capitalized != 0,
	}
}

// depth is the number of tags of s that are also open in o, counting
// from the outermost one.
func (s Style) depth(o Style) int {
	switch {
	case s.Group != o.Group:
		return 0
	case s.Italic != o.Italic:
		return 1
	case s.Strong != o.Strong:
		return 2
	case s.Em != o.Em:
		return 3
	default:
		return 4
	}
}

type tag struct {
	on         bool
	open, shut string
}

func (s Style) tags() [4]tag {
	mark := tag{on: s.Group > 0, open: "<mark>", shut: "</mark>"}
	if s.Group > 1 {
		mark.open = `<mark class="hl` + strconv.Itoa(s.Group) + `">`
	}
	return [4]tag{
		mark,
		{on: s.Italic, open: "<i>", shut: "</i>"},
		{on: s.Strong, open: "<strong>", shut: "</strong>"},
		{on: s.Em, open: "<em>", shut: "</em>"},
	}
}

// Run is a piece of text with a stable style.
type Run struct {
	Text  string
	Style Style
}

// Runs splits text into runs of stable style. Flags and groups are per
// character (rune); missing values are zero.
func Runs(text string, flags []byte, groups []int) []Run {
	var res []Run
	var sb strings.Builder
	var cur Style
	i := 0
	for _, r := range text {
		var f Flag
		if i < len(flags) {
			f = Flag(flags[i])
		}
		var g int
		if i < len(groups) {
			g = groups[i]
		}
		i++

		st := NewStyle(f, g)
		if st != cur && sb.Len() > 0 {
			res = append(res, Run{Text: sb.String(), Style: cur})
			sb.Reset()
		}
		cur = st
		sb.WriteRune(r)
	}
	if sb.Len() > 0 {
		res = append(res, Run{Text: sb.String(), Style: cur})
	}
	return res
}

// HTML renders text with flags and highlight groups. Only tags that
// differ between neighboring runs are closed and reopened, inner tags
// first.
func HTML(text string, flags []byte, groups []int) string {
	var sb strings.Builder
	var cur Style
	for _, r := range Runs(text, flags, groups) {
		transition(&sb, cur, r.Style)
		sb.WriteString(html.EscapeString(r.Text))
		cur = r.Style
	}
	transition(&sb, cur, Style{})
	return sb.String()
}

func transition(sb *strings.Builder, from, to Style) {
	d := from.depth(to)
	ft, tt := from.tags(), to.tags()
	for i := len(ft) - 1; i >= d; i-- {
		if ft[i].on {
			sb.WriteString(ft[i].shut)
		}
	}
	for i := d; i < len(tt); i++ {
		if tt[i].on {
			sb.WriteString(tt[i].open)
		}
	}
}

// Highlights computes highlight groups for every character of text.
// Keyword k gets group k+1. Keywords are applied in reverse order, so an
// earlier keyword wins where matches overlap. With fold set the matching
// ignores case.
func Highlights(text string, keywords []string, fold bool) []int {
	rs := []rune(text)
	res := make([]int, len(rs))
	if fold {
		rs = lower(rs)
	}
	for k := len(keywords) - 1; k >= 0; k-- {
		kw := []rune(keywords[k])
		if len(kw) == 0 {
			continue
		}
		if fold {
			kw = lower(kw)
		}
		for i := 0; i+len(kw) <= len(rs); i++ {
			if !equal(rs[i:i+len(kw)], kw) {
				continue
			}
			for j := i; j < i+len(kw); j++ {
				res[j] = k + 1
			}
		}
	}
	return res
}

// Fill returns groups where every character of text is in group g.
func Fill(text string, g int) []int {
	res := make([]int, len([]rune(text)))
	for i := range res {
		res[i] = g
	}
	return res
}

func lower(rs []rune) []rune {
	res := make([]rune, len(rs))
	for i, r := range rs {
		res[i] = unicode.ToLower(r)
	}
	return res
}

func equal(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
