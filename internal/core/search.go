package core

// search.go turns a flat filter map into a typed catalog query.
//
// Only the keys in searchFields become predicates. Family-side keys match
// exactly; product-side keys match a substring anywhere in the column. Unknown
// keys and blank values are ignored. page and limit fall back to their
// defaults when absent, non-numeric or below 1.

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/catalog/internal/logging"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Side names the table of the join a predicate applies to.
type Side int

const (
	SideFamily Side = iota
	SideProduct
)

// Match is how a predicate compares its value.
type Match int

const (
	MatchExact Match = iota
	MatchContains
)

// SearchField describes one filter key.
type SearchField struct {
	Key    string
	Side   Side
	Column string
	Match  Match
}

var searchFields = []SearchField{
	{Key: "family_code", Side: SideFamily, Column: "family_code", Match: MatchExact},
	{Key: "product_line", Side: SideFamily, Column: "product_line", Match: MatchExact},
	{Key: "brand", Side: SideFamily, Column: "brand", Match: MatchExact},
	{Key: "status", Side: SideFamily, Column: "status", Match: MatchExact},
	{Key: "sku", Side: SideProduct, Column: "sku", Match: MatchContains},
	{Key: "name", Side: SideProduct, Column: "name", Match: MatchContains},
}

// SearchFields returns the supported filter keys in evaluation order.
func SearchFields() []SearchField {
	out := make([]SearchField, len(searchFields))
	copy(out, searchFields)
	return out
}

// Predicate is one filter applied to the join.
type Predicate struct {
	Field SearchField
	Value string
}

// SearchQuery is a validated catalog search.
type SearchQuery struct {
	Predicates []Predicate
	Page       int
	Limit      int
}

// Offset returns the number of rows skipped before the page.
func (q SearchQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// CacheKey returns a stable key for q, independent of map iteration order.
// Values are query-escaped so no value can forge another predicate.
func (q SearchQuery) CacheKey() string {
	v := url.Values{}
	for _, p := range q.Predicates {
		v.Set(p.Field.Key, p.Value)
	}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	return v.Encode()
}

// BuildSearchQuery maps filters onto the fixed set of search fields.
func BuildSearchQuery(filters map[string]string) SearchQuery {
	q := SearchQuery{
		Page:  positiveIntOr(filters["page"], DefaultPage),
		Limit: positiveIntOr(filters["limit"], DefaultLimit),
	}
	// A page whose offset does not fit in an int is unreachable.
	if q.Page-1 > math.MaxInt/q.Limit {
		q.Page = DefaultPage
	}
	for _, f := range searchFields {
		v := strings.TrimSpace(filters[f.Key])
		if v == "" {
			continue
		}
		q.Predicates = append(q.Predicates, Predicate{Field: f, Value: v})
	}
	return q
}

func positiveIntOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}

// NewSearchResult builds pagination metadata for a page of rows.
func NewSearchResult(q SearchQuery, total int64, rows []CatalogRow) SearchResult {
	totalPages := 0
	if q.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(q.Limit)))
	}
	if rows == nil {
		rows = []CatalogRow{}
	}
	return SearchResult{
		Page:            q.Page,
		Limit:           q.Limit,
		TotalRecords:    total,
		TotalPages:      totalPages,
		HasNextPage:     q.Page < totalPages,
		HasPreviousPage: q.Page > 1,
		Results:         rows,
	}
}

// Search runs a filtered, paginated catalog search. The count and the page
// are fetched concurrently; any store error fails the whole search.
func (s *Service) Search(ctx context.Context, filters map[string]string) (SearchResult, error) {
	q := BuildSearchQuery(filters)
	key := q.CacheKey()

	// The generation is read once so a result computed before an import's
	// Bump can only land in the generation it was read from.
	useCache := s.cache != nil
	var version int64
	if useCache {
		v, err := s.cache.Version(ctx)
		if err != nil {
			logging.FromContext(ctx).Warn("search cache unavailable", "error", err)
			useCache = false
		}
		version = v
	}
	if useCache {
		var cached SearchResult
		hit, err := s.cache.Get(ctx, version, key, &cached)
		if err != nil {
			logging.FromContext(ctx).Warn("search cache read failed", "error", err)
		} else if hit {
			return cached, nil
		}
	}

	var (
		total int64
		rows  []CatalogRow
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.store.CountCatalog(gctx, q)
		if err != nil {
			return fmt.Errorf("count catalog: %w", err)
		}
		total = n
		return nil
	})
	g.Go(func() error {
		r, err := s.store.ListCatalog(gctx, q)
		if err != nil {
			return fmt.Errorf("list catalog: %w", err)
		}
		rows = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return SearchResult{}, err
	}

	result := NewSearchResult(q, total, rows)

	if useCache {
		if err := s.cache.Set(ctx, version, key, result); err != nil {
			logging.FromContext(ctx).Warn("search cache write failed", "error", err)
		}
	}
	return result, nil
}
