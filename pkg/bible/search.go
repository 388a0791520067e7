package bible

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gnames/gnverse/pkg/page"
	"github.com/gnames/gnverse/pkg/query"
)

// SearchRequest asks for verses of the first translation that contain
// every keyword.
type SearchRequest struct {
	Keywords []string
	Fold     bool
	Versions []string
	Cursor   *page.Cursor
}

// Search returns a page of matching verses with keywords highlighted.
// Keywords repeated without regard to case are searched once. Without
// keywords the passage is empty and of the AnswerNone kind.
func (s *Service) Search(ctx context.Context, req SearchRequest) (Passage, error) {
	var res Passage
	cat, err := s.catalog()
	if err != nil {
		return res, err
	}
	vs, err := s.versions(cat, req.Versions)
	if err != nil {
		return res, err
	}

	var kws []string
	for _, kw := range req.Keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			kws = append(kws, kw)
		}
	}
	kws = query.DedupKeywords(kws)
	res = Passage{Kind: query.AnswerNone, Versions: vs}
	if len(kws) == 0 {
		return res, nil
	}
	res.Kind = query.AnswerSearch
	res.Keywords = kws

	preq := request(vs)
	preq.Keywords = kws
	preq.Fold = req.Fold

	pg, err := s.searchPage(ctx, preq, req.Cursor)
	if err != nil {
		return res, err
	}
	s.fill(cat, &res, pg, req.Fold, nil)
	return res, nil
}

// searchPage serves the page from the cache when possible. Cache
// failures are logged and the store is used instead.
func (s *Service) searchPage(
	ctx context.Context,
	req page.Request,
	cursor *page.Cursor,
) (page.Page, error) {
	key := searchKey(req, cursor, s.cfg.PageSize)
	if s.cache != nil {
		pg, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("Cannot read search page from cache", "error", err)
		}
		if ok {
			return pg, nil
		}
	}

	pg, err := page.FetchUnbounded(ctx, s.store, req, cursor, s.cfg.PageSize)
	if err != nil {
		return pg, storeError(err)
	}

	if s.cache != nil {
		if err = s.cache.Set(ctx, key, pg); err != nil {
			slog.Warn("Cannot save search page to cache", "error", err)
		}
	}
	return pg, nil
}

// searchKey identifies a search page. Keywords are joined with a
// separator that cannot appear inside a trimmed keyword.
func searchKey(req page.Request, cursor *page.Cursor, size int) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(req.Versions, ","))
	sb.WriteByte('|')
	sb.WriteString(strings.Join(req.Keywords, "\x00"))
	sb.WriteByte('|')
	sb.WriteString(strconv.FormatBool(req.Fold))
	sb.WriteByte('|')
	if cursor != nil {
		sb.WriteString(cursor.String())
	}
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(size))
	return sb.String()
}
