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
	"time"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

// getDailyCmd returns the daily command.
func getDailyCmd() *cobra.Command {
	dailyCmd := &cobra.Command{
		Use:   "daily [MMDD]",
		Short: "Show a reading of the daily plan",
		Long: `Daily shows a reading of the daily plan of the corpus.

Readings are keyed by month and day (MMDD). Without an argument the
reading of today is shown. When the plan has no reading for a day,
the closest earlier reading is used, the plan wraps around the year.

Examples:
  gnverse daily
  gnverse daily 0101 -v kjv,niv`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDaily(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	addReadFlags(dailyCmd)

	return dailyCmd
}

func runDaily(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	format := formatFlag(cmd)

	code := time.Now().Format("0102")
	if len(args) > 0 {
		code = args[0]
	}

	r, err := openReader(ctx, cfg)
	if err != nil {
		return err
	}
	defer r.Close()

	d, err := r.svc.Daily(ctx, code, versionsFlag(cmd))
	if err != nil {
		return err
	}
	return output(cmd.OutOrStdout(), format, d, func(w io.Writer) {
		writeDaily(w, d)
	})
}
