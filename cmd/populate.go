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

	"github.com/gnames/gn"
	"github.com/gnames/gnverse/internal/iopopulate"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/spf13/cobra"
)

// getPopulateCmd returns the populate command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPopulateCmd() *cobra.Command {
	var corpusDir string

	populateCmd := &cobra.Command{
		Use:   "populate",
		Short: "Populate verse store with a corpus",
		Long: `Import a Bible corpus into the verse store.

A corpus directory contains:
  - verses_*.tsv    verse texts, one file per translation,
                    optionally compressed as verses_*.tsv.xz
  - versions.yaml   translations, their names and aliases
  - books.yaml      books, their names and aliases
  - daily.yaml      the daily reading plan

Only verse files are required. Built-in lists replace missing
versions.yaml and books.yaml, a missing daily.yaml means no plan.

This command:
  1. Opens the SQLite file or connects to PostgreSQL
  2. Reads definitions and verse files of the corpus
  3. Assigns ordinals and checks verse bounds of every book
  4. Replaces all catalog and verse data in one pass
  5. Reports progress and statistics

Examples:
  # Import the corpus set in config.yaml (populate.corpus_dir)
  gnverse populate

  # Import a corpus from a directory
  gnverse populate --corpus-dir ~/bible/corpus
  gnverse populate -c ~/bible/corpus`,
		Aliases: []string{"add"},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPopulate(cmd, corpusDir)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	populateCmd.Flags().StringVarP(
		&corpusDir, "corpus-dir", "c", "",
		"directory with corpus files",
	)

	return populateCmd
}

func runPopulate(cmd *cobra.Command, corpusDir string) error {
	ctx := context.Background()

	if cmd.Flags().Changed("corpus-dir") {
		cfg.Update([]config.Option{config.OptPopulateCorpusDir(corpusDir)})
	}

	op, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer op.Close()

	if err = requireTables(ctx, op); err != nil {
		return err
	}

	populator := iopopulate.New(op)

	gn.Info("Importing corpus from <em>%s</em>...", cfg.Populate.CorpusDir)
	if err := populator.Populate(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
	 - Run '<em>gnverse optimize</em>' to create indexes
	 - Run '<em>gnverse lookup Gen 1</em>' to read the store
`)

	return nil
}
