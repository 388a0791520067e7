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

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/internal/iostore"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/spf13/cobra"
)

// versionInfo is a translation of the store with its verse count.
type versionInfo struct {
	Code    string `json:"code"`
	Abbr    string `json:"abbr"`
	Lang    string `json:"lang"`
	Title   string `json:"title"`
	Year    int    `json:"year,omitempty"`
	Default bool   `json:"default,omitempty"`
	Blessed bool   `json:"blessed,omitempty"`
	Verses  int    `json:"verses"`
}

// getVersionsCmd returns the versions command.
func getVersionsCmd() *cobra.Command {
	versionsCmd := &cobra.Command{
		Use:   "versions",
		Short: "List translations of the verse store",
		Long: `Versions lists translations of the verse store with their
languages and the number of verses. The default translation is
marked with '*'.

Examples:
  gnverse versions
  gnverse versions --format pretty`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runVersions(cmd)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	versionsCmd.Flags().StringP(
		"format", "f", "text",
		"output format: text, compact or pretty",
	)

	return versionsCmd
}

func runVersions(cmd *cobra.Command) error {
	ctx := context.Background()
	format := formatFlag(cmd)

	r, err := openReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	cat := r.reg.Catalog()
	deflt := cat.DefaultVersion("").Code

	var res []versionInfo
	for _, v := range cat.Versions() {
		n, err := iostore.Count(ctx, r.op, v.Code)
		if err != nil {
			return err
		}
		res = append(res, versionInfo{
			Code:    v.Code,
			Abbr:    v.Abbr,
			Lang:    v.Lang,
			Title:   versionTitle(v),
			Year:    v.Year,
			Default: v.Code == deflt,
			Blessed: v.Blessed,
			Verses:  n,
		})
	}

	return output(cmd.OutOrStdout(), format, res, func(w io.Writer) {
		writeVersions(w, res)
	})
}

// versionTitle returns the title in the language of the translation,
// then in English, then the abbreviation.
func versionTitle(v catalog.VersionEntry) string {
	if t, ok := v.Titles[v.Lang]; ok {
		return t
	}
	if t, ok := v.Titles["en"]; ok {
		return t
	}
	return v.Abbr
}
