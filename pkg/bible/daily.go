package bible

import (
	"context"
	"fmt"

	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/errcode"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/gnames/gnverse/pkg/query"
)

// Daily is a reading of the daily plan.
type Daily struct {
	// Code is the code of the reading, it may precede the requested one.
	Code string `json:"code"`

	// Prev and Next are codes of neighbor readings, the plan wraps
	// around.
	Prev string `json:"prev"`
	Next string `json:"next"`

	Versions []catalog.VersionEntry `json:"versions"`
	Passages []Passage              `json:"passages"`
}

// Daily returns the reading with the greatest code not after code, or
// the last reading when code precedes all of them. Every range of the
// reading is fetched whole.
func (s *Service) Daily(
	ctx context.Context,
	code string,
	versions []string,
) (Daily, error) {
	var res Daily
	cat, err := s.catalog()
	if err != nil {
		return res, err
	}
	plan := cat.Plan()
	r, i := plan.Lookup(code)
	if i < 0 {
		return res, fmt.Errorf("daily reading %q: %w", code, errcode.ErrNotFound)
	}
	vs, err := s.versions(cat, versions)
	if err != nil {
		return res, err
	}

	res = Daily{
		Code:     r.Code,
		Prev:     plan.At(plan.Prev(i)).Code,
		Next:     plan.At(plan.Next(i)).Code,
		Versions: vs,
	}

	bs := cat.Bounds()
	for _, or := range r.Ranges {
		a1, err := bs.FromOrdinal(or.From)
		if err != nil {
			return res, err
		}
		a2, err := bs.FromOrdinal(or.To)
		if err != nil {
			return res, err
		}
		b, err := cat.Book(a1.Book)
		if err != nil {
			return res, err
		}

		p := Passage{
			Kind:     query.AnswerVerses,
			Book:     b,
			Versions: vs,
			Chapter1: a1.Chapter,
			Verse1:   a1.Verse,
			Chapter2: a2.Chapter,
			Verse2:   a2.Verse,
		}
		bound := page.Bound{Lo: or.From, Hi: or.To, Gap: gap(vs)}
		pg, err := page.FetchBounded(ctx, s.store, request(vs), bound, nil, 0)
		if err != nil {
			return res, storeError(err)
		}
		s.fill(cat, &p, pg, false, nil)
		res.Passages = append(res.Passages, p)
	}
	return res, nil
}
