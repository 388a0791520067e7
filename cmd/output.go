/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnverse/pkg/bible"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/query"
)

// output writes v as JSON, or calls text for the text format.
func output(w io.Writer, format string, v any, text func(io.Writer)) error {
	if format == "text" {
		text(w)
		return nil
	}
	enc := gnfmt.GNjson{Pretty: format == "pretty"}
	bs, err := enc.Encode(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(bs))
	return err
}

// writePassage prints a passage as plain text. Highlighted rows are
// marked with '>', a break in numbering with '...'.
func writePassage(w io.Writer, p bible.Passage) {
	fmt.Fprintln(w, passageTitle(p))
	for _, sec := range p.Sections {
		for _, r := range sec.Rows {
			if !r.Cont && r.Ordinal != firstOrdinal(p) {
				fmt.Fprintln(w, "    ...")
			}
			mark := " "
			if sec.Highlight {
				mark = ">"
			}
			ref := r.Ref()
			if p.Kind == query.AnswerSearch {
				ref = r.BookCode + " " + ref
			}
			fmt.Fprintf(w, "%s %s %s\n", mark, ref, r.Text)
			if r.Text2 != "" {
				fmt.Fprintf(w, "  %s %s\n", strings.Repeat(" ", len(ref)), r.Text2)
			}
		}
	}
	if p.Prev != nil || p.Next != nil {
		fmt.Fprintln(w)
	}
	if p.Prev != nil {
		fmt.Fprintf(w, "previous page: --page=%s\n", p.Prev)
	}
	if p.Next != nil {
		fmt.Fprintf(w, "next page: --page=%s\n", p.Next)
	}
}

func firstOrdinal(p bible.Passage) int {
	for _, sec := range p.Sections {
		if len(sec.Rows) > 0 {
			return sec.Rows[0].Ordinal
		}
	}
	return -1
}

// passageTitle is a heading like "Genesis 1:3-5 (kjv,niv)".
func passageTitle(p bible.Passage) string {
	codes := catalog.VersionCodes(p.Versions)
	if p.Kind == query.AnswerSearch {
		return fmt.Sprintf("Search: %s (%s)", query.FormatKeywords(p.Keywords), codes)
	}

	var lang string
	if len(p.Versions) > 0 {
		lang = p.Versions[0].Lang
	}
	title := p.Book.Name(lang).Title

	var ref string
	switch p.Kind {
	case query.AnswerChapter:
		ref = fmt.Sprintf("%d", p.Chapter1)
	case query.AnswerChapters:
		ref = fmt.Sprintf("%d-%d", p.Chapter1, p.Chapter2)
	case query.AnswerVerse:
		ref = fmt.Sprintf("%d:%d", p.Chapter1, p.Verse1)
	case query.AnswerVerses:
		ref = fmt.Sprintf("%d:%d", p.Chapter1, p.Verse1)
		if p.Chapter2 == p.Chapter1 {
			ref += fmt.Sprintf("-%d", p.Verse2)
		} else {
			ref += fmt.Sprintf("-%d:%d", p.Chapter2, p.Verse2)
		}
	}
	return fmt.Sprintf("%s %s (%s)", title, ref, codes)
}

func writeDaily(w io.Writer, d bible.Daily) {
	fmt.Fprintf(w, "Reading %s (previous %s, next %s)\n\n", d.Code, d.Prev, d.Next)
	for i, p := range d.Passages {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writePassage(w, p)
	}
}

func writeVersions(w io.Writer, vs []versionInfo) {
	for _, v := range vs {
		mark := " "
		if v.Default {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-6s %-3s %6d  %s\n",
			mark, v.Code, v.Lang, v.Verses, v.Title)
	}
}
