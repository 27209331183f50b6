package core

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// memStore is an in-memory Store with the same join semantics as the
// Postgres implementation.
type memStore struct {
	mu       sync.Mutex
	families map[string]Family
	products map[string]Product

	upsertFamilyErr  func(Family) error
	upsertProductErr func(Product) error
	familyCodesErr   error
	searchErr        error

	familyUpserts  int
	productUpserts int
}

func newMemStore() *memStore {
	return &memStore{
		families: map[string]Family{},
		products: map[string]Product{},
	}
}

func (m *memStore) UpsertFamily(_ context.Context, f Family) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertFamilyErr != nil {
		if err := m.upsertFamilyErr(f); err != nil {
			return err
		}
	}
	m.familyUpserts++
	m.families[f.Code] = f
	return nil
}

func (m *memStore) UpsertProduct(_ context.Context, p Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertProductErr != nil {
		if err := m.upsertProductErr(p); err != nil {
			return err
		}
	}
	m.productUpserts++
	m.products[p.SKU] = p
	return nil
}

func (m *memStore) FamilyCodes(context.Context) (CodeSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.familyCodesErr != nil {
		return nil, m.familyCodesErr
	}
	codes := make(CodeSet, len(m.families))
	for code := range m.families {
		codes[code] = struct{}{}
	}
	return codes, nil
}

func (m *memStore) matching(q SearchQuery) []CatalogRow {
	var rows []CatalogRow
	for _, p := range m.products {
		f, ok := m.families[p.FamilyCode]
		if !ok {
			continue
		}
		row := CatalogRow{Product: p, Family: f}
		if matchesAll(row, q.Predicates) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].SKU < rows[j].SKU })
	return rows
}

func matchesAll(row CatalogRow, preds []Predicate) bool {
	for _, p := range preds {
		var v string
		switch p.Field.Column {
		case "family_code":
			v = row.Family.Code
		case "product_line":
			v = row.Family.ProductLine
		case "brand":
			v = row.Family.Brand
		case "status":
			v = string(row.Family.Status)
		case "sku":
			v = row.SKU
		case "name":
			v = row.Name
		}
		switch p.Field.Match {
		case MatchExact:
			if v != p.Value {
				return false
			}
		case MatchContains:
			if !strings.Contains(v, p.Value) {
				return false
			}
		}
	}
	return true
}

func (m *memStore) CountCatalog(_ context.Context, q SearchQuery) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return 0, m.searchErr
	}
	return int64(len(m.matching(q))), nil
}

func (m *memStore) ListCatalog(_ context.Context, q SearchQuery) ([]CatalogRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	rows := m.matching(q)
	start := q.Offset()
	if start >= len(rows) {
		return nil, nil
	}
	end := start + q.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], nil
}

func newTestService(t *testing.T, store Store, opts ...func(*ServiceConfig)) *Service {
	t.Helper()
	cfg := ServiceConfig{ReportDir: t.TempDir()}
	for _, opt := range opts {
		opt(&cfg)
	}
	svc, err := NewService(store, cfg)
	require.NoError(t, err)
	return svc
}

// writeCSV writes lines joined by newlines to a file in a temp dir.
func writeCSV(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}
