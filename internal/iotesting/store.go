package iotesting

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"

	"github.com/gnames/gnverse/pkg/address"
	"github.com/gnames/gnverse/pkg/page"
)

// MemStore is an in-memory page.Store. Texts maps a translation code to
// verse texts keyed by ordinal; a verse without text is absent from that
// translation.
type MemStore struct {
	Addrs []address.VerseAddress
	Texts map[string]map[int]string

	// Err, when set, is returned by every scan.
	Err error

	scans atomic.Int64
}

// NewMemStore creates a store for addrs where every verse of every
// version has the text "<version> <book>:<chapter>:<verse>".
func NewMemStore(addrs []address.VerseAddress, versions ...string) *MemStore {
	res := &MemStore{
		Addrs: addrs,
		Texts: make(map[string]map[int]string),
	}
	for _, v := range versions {
		texts := make(map[int]string, len(addrs))
		for _, a := range addrs {
			texts[a.Ordinal] = v + " " + a.String()
		}
		res.Texts[v] = texts
	}
	return res
}

// Scans returns the number of scans served.
func (m *MemStore) Scans() int {
	return int(m.scans.Load())
}

// Scan implements page.Store.
func (m *MemStore) Scan(_ context.Context, s page.Scan) ([]page.Verse, error) {
	m.scans.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(s.Versions) == 0 {
		return nil, nil
	}
	first := m.Texts[s.Versions[0]]
	var second map[int]string
	if len(s.Versions) > 1 {
		second = m.Texts[s.Versions[1]]
	}

	addrs := slices.Clone(m.Addrs)
	if s.Desc {
		slices.Reverse(addrs)
	}

	var res []page.Verse
	for _, a := range addrs {
		if a.Ordinal < s.Lo || (s.Hi >= 0 && a.Ordinal > s.Hi) {
			continue
		}
		text, ok := first[a.Ordinal]
		if !ok || !matches(text, s.Keywords, s.Fold) {
			continue
		}
		res = append(res, page.Verse{
			Book:    a.Book,
			Chapter: a.Chapter,
			Verse:   a.Verse,
			Index:   a.Index,
			Ordinal: a.Ordinal,
			Text:    text,
			Markup:  make([]byte, len([]rune(text))),
			Text2:   second[a.Ordinal],
		})
		if s.Limit > 0 && len(res) == s.Limit {
			break
		}
	}
	return res, nil
}

func matches(text string, kws []string, fold bool) bool {
	if fold {
		text = strings.ToLower(text)
	}
	for _, kw := range kws {
		if fold {
			kw = strings.ToLower(kw)
		}
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
