package bible

import (
	"fmt"

	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/markup"
	"github.com/gnames/gnverse/pkg/page"
)

// Row is a verse ready for display.
type Row struct {
	page.Verse

	// BookCode is the code of the book of the verse.
	BookCode string `json:"book_code"`

	// HTML and HTML2 are rendered texts of the first and the second
	// translation.
	HTML  string `json:"html"`
	HTML2 string `json:"html2,omitempty"`

	// Cont is true when the verse directly follows the previous row.
	Cont bool `json:"cont,omitempty"`
}

// Number is the verse number of the row. The embedded page.Verse
// shadows its Verse field, so r.Verse is the whole verse.
func (r Row) Number() int {
	return r.Verse.Verse
}

// Ref is a "chapter:verse" reference of the row.
func (r Row) Ref() string {
	return fmt.Sprintf("%d:%d", r.Chapter, r.Number())
}

// Follows is true when r is the verse right after prev in the same
// chapter.
func (r Row) Follows(prev Row) bool {
	return prev.Book == r.Book &&
		prev.Chapter == r.Chapter &&
		prev.Number()+1 == r.Number()
}

// Section is a run of consecutive rows that share highlight state.
type Section struct {
	Highlight bool  `json:"highlight,omitempty"`
	Rows      []Row `json:"rows"`
}

// Rows renders verses. Keywords are highlighted in the first
// translation, with fold the match ignores case.
func Rows(
	cat *catalog.Catalog,
	verses []page.Verse,
	keywords []string,
	fold bool,
) []Row {
	res := make([]Row, len(verses))
	for i, v := range verses {
		var groups []int
		if len(keywords) > 0 {
			groups = markup.Highlights(v.Text, keywords, fold)
		}
		res[i] = Row{
			Verse: v,
			HTML:  markup.HTML(v.Text, v.Markup, groups),
		}
		if v.Text2 != "" {
			res[i].HTML2 = markup.HTML(v.Text2, v.Markup2, nil)
		}
		if cat == nil {
			continue
		}
		if b, err := cat.Book(v.Book); err == nil {
			res[i].BookCode = b.Code
		}
	}
	return res
}

// Sections groups rows into sections by highlight, a nil highlight
// puts everything into one plain section. It also marks continuation
// rows.
func Sections(rows []Row, highlight func(Row) bool) []Section {
	var res []Section
	var cur Section
	for i, r := range rows {
		if i > 0 {
			prev := rows[i-1]
			r.Cont = r.Follows(prev)
		}
		hl := highlight != nil && highlight(r)
		if hl != cur.Highlight && len(cur.Rows) > 0 {
			res = append(res, cur)
			cur = Section{}
		}
		cur.Highlight = hl
		cur.Rows = append(cur.Rows, r)
	}
	if len(cur.Rows) > 0 {
		res = append(res, cur)
	}
	return res
}
