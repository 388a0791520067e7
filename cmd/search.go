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

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/bible"
	"github.com/spf13/cobra"
)

// getSearchCmd returns the search command.
func getSearchCmd() *cobra.Command {
	var caseSensitive bool

	searchCmd := &cobra.Command{
		Use:     "search KEYWORD...",
		Aliases: []string{"s"},
		Short:   "Find verses that contain all keywords",
		Long: `Search finds verses of the first translation that contain every
keyword as a substring. Matches are highlighted, results are shown
in corpus order a page at a time.

Quote a keyword to search for a phrase.

Examples:
  gnverse search light darkness
  gnverse search "the word" -v niv
  gnverse search God --case-sensitive --page=120`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSearch(cmd, args, caseSensitive)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addReadFlags(searchCmd)
	addCursorFlag(searchCmd)
	searchCmd.Flags().BoolVarP(
		&caseSensitive, "case-sensitive", "s", false,
		"match keywords with regard to case",
	)

	return searchCmd
}

func runSearch(cmd *cobra.Command, args []string, caseSensitive bool) error {
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

	p, err := r.svc.Search(ctx, bible.SearchRequest{
		Keywords: args,
		Fold:     !caseSensitive,
		Versions: versionsFlag(cmd),
		Cursor:   cursor,
	})
	if err != nil {
		return err
	}

	var found int
	for _, sec := range p.Sections {
		found += len(sec.Rows)
	}
	slog.Info("Search", "keywords", p.Keywords, "found", found)

	return output(cmd.OutOrStdout(), format, p, func(w io.Writer) {
		writePassage(w, p)
	})
}
