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
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/query"
	"github.com/spf13/cobra"
)

// getLookupCmd returns the lookup command.
func getLookupCmd() *cobra.Command {
	lookupCmd := &cobra.Command{
		Use:     "lookup QUERY...",
		Aliases: []string{"l"},
		Short:   "Show a passage or search results for a free-form query",
		Long: `Lookup resolves a free-form query and shows where it leads.

A query mixes book names, chapter and verse ranges, translation
codes and keywords in any order. Book names and translations may be
given in any language of the corpus. Tagged words force their role:
'book:' (or 'b:'), 'version:' (or 'ver:', 'v:') and 'keyword:' (or
'q:').

An untagged word selects a translation only when it names the main
translation of a language, like 'kjv'. Other translations need the
'v:' tag. Without an explicit translation, a book name in a language
picks the main translation of that language, unless the current
translation (--versions) is already in that language. Words that are
neither books nor translations become a search when no book is given.

Examples:
  gnverse lookup Gen 1
  gnverse lookup "John 3:16" v:niv
  gnverse lookup 1 John 1:1-2:3 kjv v:niv
  gnverse lookup light darkness
  gnverse lookup q:grace b:John
  gnverse lookup Gen 1 --page=-42 --format pretty`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runLookup(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addReadFlags(lookupCmd)
	addCursorFlag(lookupCmd)

	return lookupCmd
}

func runLookup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	format := formatFlag(cmd)
	cursor, err := cursorFlag(cmd)
	if err != nil {
		return err
	}

	r, err := openReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	q := strings.Join(args, " ")
	ans, err := r.svc.Query(q, versionsFlag(cmd))
	if err != nil {
		return err
	}
	slog.Info("Query resolved",
		"query", q,
		"kind", ans.Kind.String(),
		"versions", catalog.VersionCodes(ans.Versions),
	)
	if ans.Kind == query.AnswerNone {
		gn.Warn("Nothing to show for <em>%s</em>", q)
		return nil
	}

	p, err := r.svc.Open(ctx, ans, cursor)
	if err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), format, p, func(w io.Writer) {
		writePassage(w, p)
	})
}
