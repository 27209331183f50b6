package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/catalog/internal/core"
)

// Store implements core.Store on top of Queries.
type Store struct {
	q *Queries
}

var _ core.Store = (*Store)(nil)

func NewStore(db DBTX) *Store {
	return &Store{q: New(db)}
}

func (s *Store) UpsertFamily(ctx context.Context, f core.Family) error {
	return s.q.UpsertFamily(ctx, familyParams(f))
}

func (s *Store) UpsertProduct(ctx context.Context, p core.Product) error {
	return s.q.UpsertProduct(ctx, productParams(p))
}

func (s *Store) FamilyCodes(ctx context.Context) (core.CodeSet, error) {
	codes, err := s.q.ListFamilyCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list family codes: %w", err)
	}
	set := make(core.CodeSet, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set, nil
}

func (s *Store) CountCatalog(ctx context.Context, q core.SearchQuery) (int64, error) {
	return s.q.CountCatalog(ctx, q)
}

func (s *Store) ListCatalog(ctx context.Context, q core.SearchQuery) ([]core.CatalogRow, error) {
	rows, err := s.q.ListCatalog(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]core.CatalogRow, len(rows))
	for i, r := range rows {
		out[i] = toCatalogRow(r)
	}
	return out, nil
}

func familyParams(f core.Family) UpsertFamilyParams {
	return UpsertFamilyParams{
		FamilyCode:  f.Code,
		FamilyName:  f.Name,
		ProductLine: f.ProductLine,
		Brand:       f.Brand,
		Status:      string(f.Status),
	}
}

func productParams(p core.Product) UpsertProductParams {
	return UpsertProductParams{
		Sku:         p.SKU,
		Name:        p.Name,
		EanUpc:      toText(p.EANUPC),
		VehicleType: toText(p.VehicleType),
		FamilyCode:  p.FamilyCode,
	}
}

func toCatalogRow(r CatalogRow) core.CatalogRow {
	return core.CatalogRow{
		Product: core.Product{
			SKU:         r.Product.Sku,
			Name:        r.Product.Name,
			EANUPC:      fromText(r.Product.EanUpc),
			VehicleType: fromText(r.Product.VehicleType),
			FamilyCode:  r.Product.FamilyCode,
		},
		Family: core.Family{
			Code:        r.Family.FamilyCode,
			Name:        r.Family.FamilyName,
			ProductLine: r.Family.ProductLine,
			Brand:       r.Family.Brand,
			Status:      core.FamilyStatus(r.Family.Status),
		},
	}
}

func toText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func fromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
