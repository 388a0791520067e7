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
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/spf13/cobra"
)

// addStoreFlags adds flags that select the verse store for every
// subcommand.
func addStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP(
		"driver", "D", "",
		"verse store driver: sqlite or postgres",
	)
	cmd.PersistentFlags().String(
		"db-path", "",
		"SQLite file of the verse store",
	)
}

// storeFlagOptions converts explicitly set store flags to config
// options.
func storeFlagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()
	if flags.Changed("driver") {
		s, _ := flags.GetString("driver")
		res = append(res, config.OptDatabaseDriver(s))
	}
	if flags.Changed("db-path") {
		s, _ := flags.GetString("db-path")
		res = append(res, config.OptDatabasePath(s))
	}
	return res
}

// addReadFlags adds flags shared by reading commands.
func addReadFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP(
		"versions", "v", nil,
		"translations to show, at most two (e.g. kjv,niv)",
	)
	cmd.Flags().StringP(
		"format", "f", "text",
		"output format: text, compact or pretty",
	)
}

// versionsFlag returns translation codes set by --versions.
func versionsFlag(cmd *cobra.Command) []string {
	res, _ := cmd.Flags().GetStringSlice("versions")
	return res
}

// formatFlag returns a valid output format, falling back to text.
func formatFlag(cmd *cobra.Command) string {
	s, _ := cmd.Flags().GetString("format")
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "text", "compact", "pretty":
		return s
	default:
		gn.Warn("Unknown format <em>%s</em>, using text", s)
		return "text"
	}
}

// addCursorFlag adds a flag that points to a page of a paginated
// passage.
func addCursorFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(
		"page", "p", "",
		"page cursor printed with the previous output",
	)
}

func cursorFlag(cmd *cobra.Command) (*page.Cursor, error) {
	s, _ := cmd.Flags().GetString("page")
	return page.ParseCursor(s)
}
