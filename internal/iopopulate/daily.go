package iopopulate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/reading"
	"gopkg.in/yaml.v3"
)

// loadDaily reads daily.yaml of dir. The file maps a reading code to a
// list of ranges, each range is [book, chapter1, chapter2] or
// [book, chapter1, verse1, chapter2, verse2]. A missing file means an
// empty plan.
func loadDaily(
	dir string,
	cat *catalog.Catalog,
	bounds *address.Bounds,
) ([]reading.DailyReading, error) {
	path := filepath.Join(dir, dailyFile)
	bs, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, DefinitionsError(path, err)
	}

	var doc map[string][][]any
	if err = yaml.Unmarshal(bs, &doc); err != nil {
		return nil, DefinitionsError(path, err)
	}

	codes := make([]string, 0, len(doc))
	for code := range doc {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	res := make([]reading.DailyReading, 0, len(codes))
	for _, code := range codes {
		var ranges []reading.OrdinalRange
		for _, item := range doc[code] {
			or, err := dailyRange(cat, bounds, item)
			if err != nil {
				return nil, DailyError(code, err)
			}
			ranges = append(ranges, or)
		}
		res = append(res, reading.DailyReading{
			Code:   code,
			Ranges: reading.Merge(ranges),
		})
	}
	return res, nil
}

func dailyRange(
	cat *catalog.Catalog,
	bounds *address.Bounds,
	item []any,
) (reading.OrdinalRange, error) {
	var res reading.OrdinalRange
	if len(item) != 3 && len(item) != 5 {
		return res, fmt.Errorf("range %v needs 3 or 5 elements", item)
	}
	alias, ok := item[0].(string)
	if !ok {
		return res, fmt.Errorf("range %v does not start with a book", item)
	}
	book, err := cat.ResolveBook(alias)
	if err != nil {
		return res, err
	}
	nums := make([]int, len(item)-1)
	for i, v := range item[1:] {
		if nums[i], err = toInt(v); err != nil {
			return res, err
		}
	}

	var from, to address.VerseAddress
	if len(nums) == 2 {
		if from, err = bounds.First(book.Index, nums[0]); err != nil {
			return res, err
		}
		to, err = bounds.Resolve(book.Index, nums[1], address.Last)
	} else {
		if from, err = bounds.Resolve(book.Index, nums[0], nums[1]); err != nil {
			return res, err
		}
		to, err = bounds.Resolve(book.Index, nums[2], nums[3])
	}
	if err != nil {
		return res, err
	}
	if from.Ordinal > to.Ordinal {
		return res, fmt.Errorf("range %v is reversed", item)
	}
	return reading.OrdinalRange{From: from.Ordinal, To: to.Ordinal}, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("%v is not a number", v)
	}
}
