// Package bible serves verse pages. It composes the catalog snapshot,
// the addressing engine, the query tokenizer, the pagination engine and
// the markup renderer into request-level operations: chapters, verse
// ranges with context, free-text search, daily readings and query
// dispatch.
//
// Unknown references wrap errcode.ErrNotFound, failed store queries wrap
// errcode.ErrStoreUnavailable. Nothing is retried.
package bible

import (
	"context"
	"fmt"

	"github.com/gnames/gnverse/pkg/catalog"
	"github.com/gnames/gnverse/pkg/config"
	"github.com/gnames/gnverse/pkg/errcode"
	"github.com/gnames/gnverse/pkg/page"
	"github.com/gnames/gnverse/pkg/query"
)

// PageCache keeps search pages by request key.
type PageCache interface {
	Get(ctx context.Context, key string) (page.Page, bool, error)
	Set(ctx context.Context, key string, p page.Page) error
}

// Service answers verse requests. It is safe for concurrent use as long
// as the store is.
type Service struct {
	reg   *catalog.Registry
	store page.Store
	cache PageCache
	cfg   config.ReaderConfig
}

// Option modifies a Service.
type Option func(*Service)

// OptCache enables caching of search pages.
func OptCache(c PageCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// New creates a Service. Every request takes the current catalog
// snapshot from reg, so a reload never affects a request in flight.
func New(
	reg *catalog.Registry,
	st page.Store,
	cfg config.ReaderConfig,
	opts ...Option,
) *Service {
	res := &Service{reg: reg, store: st, cfg: cfg}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Passage is a page of verses with its resolved context.
type Passage struct {
	Kind     query.AnswerKind       `json:"kind"`
	Book     catalog.BookEntry      `json:"book"`
	Versions []catalog.VersionEntry `json:"versions"`
	Keywords []string               `json:"keywords,omitempty"`

	// Chapter1, Verse1, Chapter2 and Verse2 are the addressed range.
	Chapter1 int `json:"chapter1,omitempty"`
	Verse1   int `json:"verse1,omitempty"`
	Chapter2 int `json:"chapter2,omitempty"`
	Verse2   int `json:"verse2,omitempty"`

	// Prev and Next lead to neighbor pages of the same passage.
	Prev *page.Cursor `json:"prev,omitempty"`
	Next *page.Cursor `json:"next,omitempty"`

	// Before and After are the verses adjacent to the passage.
	Before *page.Verse `json:"before,omitempty"`
	After  *page.Verse `json:"after,omitempty"`

	Sections []Section `json:"sections"`
}

// Query tokenizes q and resolves it into an answer. Current are the
// translations active before the query.
func (s *Service) Query(q string, current []string) (query.Answer, error) {
	var res query.Answer
	cat, err := s.catalog()
	if err != nil {
		return res, err
	}
	lxs, err := query.Tokenize(cat, q)
	if err != nil {
		return res, err
	}
	limit := s.maxVersions()
	cur := cat.ResolveVersions(current, limit)
	return query.Resolve(cat, query.Classify(lxs), cur, limit), nil
}

// Open fetches the passage an answer leads to.
func (s *Service) Open(
	ctx context.Context,
	ans query.Answer,
	cursor *page.Cursor,
) (Passage, error) {
	vs := make([]string, len(ans.Versions))
	for i := range ans.Versions {
		vs[i] = ans.Versions[i].Code
	}

	switch ans.Kind {
	case query.AnswerChapter, query.AnswerChapters:
		return s.Chapters(ctx, ChapterRequest{
			Book:     ans.Book.Code,
			Chapter1: ans.Chapter1,
			Chapter2: ans.Chapter2,
			Versions: vs,
			Cursor:   cursor,
		})
	case query.AnswerVerse, query.AnswerVerses:
		return s.Verses(ctx, VerseRequest{
			Book:     ans.Book.Code,
			Chapter1: ans.Chapter1,
			Verse1:   ans.Verse1,
			Chapter2: ans.Chapter2,
			Verse2:   ans.Verse2,
			Versions: vs,
			Cursor:   cursor,
		})
	case query.AnswerSearch:
		return s.Search(ctx, SearchRequest{
			Keywords: ans.Keywords,
			Fold:     true,
			Versions: vs,
			Cursor:   cursor,
		})
	default:
		return Passage{}, fmt.Errorf("nothing to show: %w", errcode.ErrNotFound)
	}
}

func (s *Service) catalog() (*catalog.Catalog, error) {
	if s.reg == nil {
		return nil, fmt.Errorf("no catalog: %w", errcode.ErrStoreUnavailable)
	}
	cat := s.reg.Catalog()
	if cat == nil {
		return nil, fmt.Errorf("catalog is not loaded: %w",
			errcode.ErrStoreUnavailable)
	}
	return cat, nil
}

// maxVersions is the number of translations a page can show. The store
// joins at most two.
func (s *Service) maxVersions() int {
	return min(max(s.cfg.MaxVersions, 1), 2)
}

// versions resolves translation aliases. Unknown aliases are skipped,
// and the global default is used when nothing is left.
func (s *Service) versions(
	cat *catalog.Catalog,
	aliases []string,
) ([]catalog.VersionEntry, error) {
	res := cat.ResolveVersions(aliases, s.maxVersions())
	if len(res) > 0 {
		return res, nil
	}
	v := cat.DefaultVersion("")
	if v.Code == "" {
		return nil, fmt.Errorf("no translations: %w", errcode.ErrNotFound)
	}
	return []catalog.VersionEntry{v}, nil
}

func request(vs []catalog.VersionEntry) page.Request {
	codes := make([]string, len(vs))
	for i := range vs {
		codes[i] = vs[i].Code
	}
	return page.Request{Versions: codes}
}

// gap is how far beyond a bound the first translation may have its
// nearest verse.
func gap(vs []catalog.VersionEntry) int {
	if len(vs) == 0 {
		return 1
	}
	return max(vs[0].MaxGap, 1)
}

func storeError(err error) error {
	return fmt.Errorf("%w: %w", errcode.ErrStoreUnavailable, err)
}
