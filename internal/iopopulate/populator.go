// Package iopopulate implements Populator interface for loading a verse
// corpus into the store.
// This is an impure I/O package that reads corpus files and performs
// bulk inserts.
package iopopulate

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/db"
	"github.com/gnames/gnverse/pkg/lifecycle"
	"github.com/gnames/gnverse/pkg/reading"
	"github.com/gnames/gnverse/pkg/schema"
	"github.com/google/uuid"
)

// populator implements the Populator interface.
type populator struct {
	operator db.Operator
}

// New creates a new Populator.
func New(op db.Operator) lifecycle.Populator {
	return &populator{operator: op}
}

// Populate replaces the content of the store with the corpus from
// cfg.Populate.CorpusDir.
func (p *populator) Populate(ctx context.Context, cfg *config.Config) error {
	if p.operator.DB() == nil {
		return NotConnectedError()
	}
	dir := cfg.Populate.CorpusDir
	if dir == "" {
		return CorpusDirError(dir, errors.New("corpus directory is not set"))
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New("not a directory")
		}
		return CorpusDirError(dir, err)
	}

	startTime := time.Now()
	slog.Info("Starting corpus population", "dir", dir)

	slog.Info("Step 1/5: Reading book and version definitions")
	defs, err := loadDefinitions(dir)
	if err != nil {
		return err
	}

	slog.Info("Step 2/5: Reading verse files")
	paths, err := findVerseFiles(dir)
	if err != nil {
		return err
	}
	files, err := readVerseFiles(ctx, defs, paths, cfg.JobsNumber)
	if err != nil {
		return err
	}

	slog.Info("Step 3/5: Numbering verses")
	crp, err := assemble(len(defs.books), files)
	if err != nil {
		return err
	}
	if crp.skipped > 0 {
		slog.Warn("Lines of unknown versions skipped", "count", crp.skipped)
	}

	slog.Info("Step 4/5: Resolving daily readings")
	daily, err := loadDaily(dir, defs.cat, crp.bounds)
	if err != nil {
		return err
	}

	slog.Info("Step 5/5: Writing tables")
	if err = p.clear(ctx); err != nil {
		return err
	}
	for _, t := range buildTables(defs, crp, daily) {
		if err = p.insert(ctx, t, cfg.Database.BatchSize); err != nil {
			return err
		}
	}

	dur := time.Since(startTime)
	slog.Info("Population complete",
		"verses", len(crp.addrs),
		"texts", len(crp.data),
		"duration", gnfmt.TimeString(dur.Seconds()),
	)
	gn.Info(`Population complete
Verses: <em>%s</em>, texts: <em>%s</em>, daily readings: <em>%d</em>.
Elapsed time: <em>%s</em>`,
		humanize.Comma(int64(len(crp.addrs))),
		humanize.Comma(int64(len(crp.data))),
		len(daily),
		gnfmt.TimeString(dur.Seconds()),
	)
	return nil
}

// buildTables converts the corpus into table rows in the order of
// schema.AllModels.
func buildTables(
	defs *definitions,
	crp *corpus,
	daily []reading.DailyReading,
) []*table {
	books := newTable(schema.Book{})
	bookNames := newTable(schema.BookName{})
	bookAliases := newTable(schema.BookAlias{})
	for _, b := range defs.books {
		books.add(b.Index, b.Code)
		for _, lang := range sortedLangs(b.Names) {
			n := b.Names[lang]
			bookNames.add(b.Index, lang, n.Abbr, n.Title)
		}
		seen := make(map[string]bool)
		for _, a := range b.Others {
			key := catalog.Normalize(a.Text)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			bookAliases.add(key, b.Index, a.Lang)
		}
	}

	versions := newTable(schema.Version{})
	versionNames := newTable(schema.VersionName{})
	versionAliases := newTable(schema.VersionAlias{})
	for _, v := range defs.versions {
		gap, ok := crp.maxGap[v.Code]
		if !ok {
			gap = 1
		}
		versions.add(v.Code, v.Abbr, v.Lang, v.Blessed, v.Year, v.Copyright, gap)
		for _, lang := range sortedLangs(v.Titles) {
			versionNames.add(v.Code, lang, v.Titles[lang])
		}
		seen := make(map[string]bool)
		for _, a := range v.Aliases {
			key := catalog.Normalize(a)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			versionAliases.add(key, v.Code)
		}
	}

	verses := newTable(schema.Verse{})
	for _, a := range crp.addrs {
		verses.add(a.Ordinal, a.Book, a.Chapter, a.Verse, a.Index)
	}

	data := newTable(schema.Datum{})
	for _, d := range crp.data {
		var mk, notes any
		if d.markup != nil {
			mk = d.markup
		}
		if d.notes != "" {
			notes = d.notes
		}
		data.add(d.version, d.ordinal, d.text, mk, notes)
	}

	topics := newTable(schema.Topic{})
	for _, r := range daily {
		for _, or := range r.Ranges {
			topics.add(schema.TopicDaily, r.Code, or.From, or.To)
		}
	}

	meta := newTable(schema.Meta{})
	meta.add(schema.MetaBuildID, uuid.NewString())
	meta.add(schema.MetaDigest, crp.digest)
	meta.add(schema.MetaLoadedAt, time.Now().UTC().Format(time.RFC3339))
	meta.add(schema.MetaVerseCount, strconv.Itoa(len(crp.addrs)))
	meta.add(schema.MetaDefault, defs.deflt)

	return []*table{
		books, bookNames, bookAliases,
		versions, versionNames, versionAliases,
		verses, data, topics, meta,
	}
}

func sortedLangs[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
