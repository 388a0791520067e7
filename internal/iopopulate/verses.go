package iopopulate

import (
	"bufio"
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"
)

// verseLine is a parsed line of a verse file:
// version, book, chapter, verse and text separated by tabs.
type verseLine struct {
	version string
	triple  address.Triple
	text    string
	markup  []byte
	notes   string
	line    int
}

type verseFile struct {
	path    string
	digest  [32]byte
	lines   []verseLine
	skipped int
}

// findVerseFiles returns verses_*.tsv and verses_*.tsv.xz files of dir
// sorted by name.
func findVerseFiles(dir string) ([]string, error) {
	var res []string
	for _, pat := range []string{"verses_*.tsv", "verses_*.tsv.xz"} {
		paths, err := filepath.Glob(filepath.Join(dir, pat))
		if err != nil {
			return nil, CorpusDirError(dir, err)
		}
		res = append(res, paths...)
	}
	if len(res) == 0 {
		return nil, CorpusDirError(dir, errors.New("no verse files found"))
	}
	slices.Sort(res)
	return res, nil
}

// readVerseFiles parses files concurrently, at most jobs at a time.
// The result keeps the order of paths.
func readVerseFiles(
	ctx context.Context,
	defs *definitions,
	paths []string,
	jobs int,
) ([]verseFile, error) {
	res := make([]verseFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			vf, err := readVerseFile(ctx, defs, path)
			if err != nil {
				return err
			}
			res[i] = vf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func readVerseFile(
	ctx context.Context,
	defs *definitions,
	path string,
) (verseFile, error) {
	res := verseFile{path: path}
	bs, err := os.ReadFile(path)
	if err != nil {
		return res, VerseFileError(path, err)
	}
	res.digest = blake3.Sum256(bs)

	var r io.Reader = bytes.NewReader(bs)
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return res, VerseFileError(path, err)
		}
		r = xr
	}

	name := filepath.Base(path)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var num int
	for sc.Scan() {
		num++
		if num%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return res, CancelledError(err)
			}
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		vl, ok, err := parseVerseLine(defs, line)
		if err != nil {
			return res, VerseLineError(name, num, err)
		}
		if !ok {
			res.skipped++
			continue
		}
		vl.line = num
		res.lines = append(res.lines, vl)
	}
	if err := sc.Err(); err != nil {
		return res, VerseFileError(path, err)
	}
	return res, nil
}

// parseVerseLine parses one line. Lines of unknown translations are
// skipped, ok is false for them.
func parseVerseLine(defs *definitions, line string) (verseLine, bool, error) {
	var res verseLine
	fields := strings.Split(line, "\t")
	if len(fields) != 5 {
		return res, false, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	v, err := defs.cat.ResolveVersion(fields[0])
	if err != nil {
		return res, false, nil
	}
	b, err := defs.cat.ResolveBook(fields[1])
	if err != nil {
		return res, false, err
	}
	c, err := positive(fields[2])
	if err != nil {
		return res, false, fmt.Errorf("chapter: %w", err)
	}
	vs, err := positive(fields[3])
	if err != nil {
		return res, false, fmt.Errorf("verse: %w", err)
	}

	text, mk, notes, err := extractMarkup(fields[4], defs.brackets[v.Code])
	if err != nil {
		return res, false, err
	}

	res = verseLine{
		version: v.Code,
		triple:  address.Triple{Book: b.Index, Chapter: c, Verse: vs},
		text:    text,
		markup:  mk,
		notes:   strings.Join(notes, "\n"),
	}
	return res, true, nil
}

func positive(s string) (int, error) {
	res, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if res < 1 {
		return 0, fmt.Errorf("%d is not positive", res)
	}
	return res, nil
}

// datum is a verse text ready for the data table.
type datum struct {
	version string
	ordinal int
	text    string
	markup  []byte
	notes   string
}

// corpus is the numbered content of all verse files.
type corpus struct {
	addrs   []address.VerseAddress
	bounds  *address.Bounds
	data    []datum
	maxGap  map[string]int
	digest  string
	skipped int
}

// assemble numbers verses of all translations together, so a verse has
// the same ordinal in every translation that has it.
func assemble(bookNum int, files []verseFile) (*corpus, error) {
	var triples []address.Triple
	for _, f := range files {
		for _, l := range f.lines {
			triples = append(triples, l.triple)
		}
	}

	addrs := address.Number(triples)
	bounds, err := address.Build(bookNum, addrs)
	if err != nil {
		return nil, BoundsError(err)
	}
	ords := make(map[address.Triple]int, len(addrs))
	for _, a := range addrs {
		ords[address.Triple{Book: a.Book, Chapter: a.Chapter, Verse: a.Verse}] = a.Ordinal
	}

	type key struct {
		version string
		ordinal int
	}
	seen := make(map[key]struct{})
	res := &corpus{
		addrs:  addrs,
		bounds: bounds,
		maxGap: make(map[string]int),
	}
	h := blake3.New()
	for _, f := range files {
		res.skipped += f.skipped
		fmt.Fprintf(h, "%s:%s\n", filepath.Base(f.path), hex.EncodeToString(f.digest[:]))
		for _, l := range f.lines {
			k := key{version: l.version, ordinal: ords[l.triple]}
			if _, ok := seen[k]; ok {
				return nil, VerseLineError(filepath.Base(f.path), l.line,
					fmt.Errorf("duplicate verse %d:%d:%d of %s",
						l.triple.Book, l.triple.Chapter, l.triple.Verse, l.version))
			}
			seen[k] = struct{}{}
			res.data = append(res.data, datum{
				version: l.version,
				ordinal: k.ordinal,
				text:    l.text,
				markup:  l.markup,
				notes:   l.notes,
			})
		}
	}
	res.digest = hex.EncodeToString(h.Sum(nil))

	slices.SortFunc(res.data, func(a, b datum) int {
		if c := strings.Compare(a.version, b.version); c != 0 {
			return c
		}
		return a.ordinal - b.ordinal
	})
	res.maxGap = maxGaps(res.data)
	return res, nil
}

// maxGaps finds the largest ordinal step between consecutive verses of
// every translation. Data must be sorted by version and ordinal.
func maxGaps(data []datum) map[string]int {
	res := make(map[string]int)
	for i, d := range data {
		if _, ok := res[d.version]; !ok {
			res[d.version] = 1
		}
		if i == 0 || data[i-1].version != d.version {
			continue
		}
		res[d.version] = max(res[d.version], d.ordinal-data[i-1].ordinal)
	}
	return res
}
