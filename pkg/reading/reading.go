// Package reading keeps reading plans: named, ordered lists of verse
// ordinal ranges, looked up by date-like codes.
package reading

import (
	"cmp"
	"slices"
	"sort"
)

// OrdinalRange is an inclusive range of verse ordinals.
type OrdinalRange struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to"   yaml:"to"`
}

// DailyReading is one entry of a plan.
type DailyReading struct {
	// Code is a sortable name of the reading, usually MMDD.
	Code string `json:"code"`

	// Ranges are disjoint and ordered, contiguous ranges are merged.
	Ranges []OrdinalRange `json:"ranges"`
}

// Plan is an ordered table of daily readings. It is read-only after
// creation.
type Plan struct {
	entries []DailyReading
}

// NewPlan sorts readings by code and merges their ranges. Readings that
// share a code are combined.
func NewPlan(readings []DailyReading) *Plan {
	byCode := make(map[string][]OrdinalRange)
	for _, r := range readings {
		byCode[r.Code] = append(byCode[r.Code], r.Ranges...)
	}

	res := &Plan{entries: make([]DailyReading, 0, len(byCode))}
	for code, ranges := range byCode {
		res.entries = append(res.entries, DailyReading{
			Code:   code,
			Ranges: Merge(ranges),
		})
	}
	slices.SortFunc(res.entries, func(a, b DailyReading) int {
		return cmp.Compare(a.Code, b.Code)
	})
	return res
}

// Merge sorts ranges and joins the ones that overlap or touch.
func Merge(ranges []OrdinalRange) []OrdinalRange {
	if len(ranges) == 0 {
		return nil
	}
	rs := slices.Clone(ranges)
	for i := range rs {
		if rs[i].From > rs[i].To {
			rs[i].From, rs[i].To = rs[i].To, rs[i].From
		}
	}
	slices.SortFunc(rs, func(a, b OrdinalRange) int {
		return cmp.Compare(a.From, b.From)
	})

	res := rs[:1]
	for _, r := range rs[1:] {
		last := &res[len(res)-1]
		if r.From <= last.To+1 {
			last.To = max(last.To, r.To)
			continue
		}
		res = append(res, r)
	}
	return res
}

// Len returns the number of readings in the plan.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// At returns the reading at position i.
func (p *Plan) At(i int) DailyReading {
	return p.entries[i]
}

// Entries returns all readings ordered by code.
func (p *Plan) Entries() []DailyReading {
	if p == nil {
		return nil
	}
	return slices.Clone(p.entries)
}

// Lookup finds the reading with the greatest code that is not greater
// than code. If code precedes every entry, the last entry is returned.
// The second value is the position of the reading, it is -1 for an
// empty plan.
func (p *Plan) Lookup(code string) (DailyReading, int) {
	n := p.Len()
	if n == 0 {
		return DailyReading{}, -1
	}
	i := sort.Search(n, func(i int) bool {
		return p.entries[i].Code > code
	})
	i = (i - 1 + n) % n
	return p.entries[i], i
}

// Prev returns the position before i, wrapping to the end.
func (p *Plan) Prev(i int) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	return ((i-1)%n + n) % n
}

// Next returns the position after i, wrapping to the start.
func (p *Plan) Next(i int) int {
	n := p.Len()
	if n == 0 {
		return -1
	}
	return ((i+1)%n + n) % n
}
