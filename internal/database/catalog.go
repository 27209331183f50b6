package database

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/catalog/internal/core"
)

const (
	familyAlias  = "f"
	productAlias = "p"
)

// catalogFrom is the inner join every search runs against. Products whose
// family is missing never appear.
const catalogFrom = ` FROM products p INNER JOIN families f ON f.family_code = p.family_code`

const catalogColumns = `p.sku, p.name, p.ean_upc, p.vehicle_type, p.family_code,
       f.family_code, f.family_name, f.product_line, f.brand, f.status`

func catalogWhere(q core.SearchQuery) *WhereBuilder {
	wb := NewWhereBuilder()
	for _, p := range q.Predicates {
		alias := familyAlias
		if p.Field.Side == core.SideProduct {
			alias = productAlias
		}
		col := qualify(alias, p.Field.Column)
		switch p.Field.Match {
		case core.MatchContains:
			wb.Contains(col, p.Value)
		default:
			wb.Equals(col, p.Value)
		}
	}
	return wb
}

// buildCatalogCount returns the count statement for q. Pagination is ignored.
func buildCatalogCount(q core.SearchQuery) (string, []interface{}) {
	where, args := catalogWhere(q).Build()
	return "SELECT COUNT(DISTINCT p.sku)" + catalogFrom + where, args
}

// buildCatalogList returns the page statement for q, ordered by SKU.
func buildCatalogList(q core.SearchQuery) (string, []interface{}) {
	wb := catalogWhere(q)
	limitIdx := wb.NextArgIndex()
	where, args := wb.Build()
	sql := "SELECT " + catalogColumns + catalogFrom + where +
		fmt.Sprintf(" ORDER BY p.sku LIMIT $%d OFFSET $%d", limitIdx, limitIdx+1)
	return sql, append(args, q.Limit, q.Offset())
}

func (q *Queries) CountCatalog(ctx context.Context, sq core.SearchQuery) (int64, error) {
	sql, args := buildCatalogCount(sq)
	var n int64
	if err := q.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type CatalogRow struct {
	Product Product
	Family  Family
}

func (q *Queries) ListCatalog(ctx context.Context, sq core.SearchQuery) ([]CatalogRow, error) {
	sql, args := buildCatalogList(sq)
	rows, err := q.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CatalogRow
	for rows.Next() {
		var i CatalogRow
		if err := rows.Scan(
			&i.Product.Sku,
			&i.Product.Name,
			&i.Product.EanUpc,
			&i.Product.VehicleType,
			&i.Product.FamilyCode,
			&i.Family.FamilyCode,
			&i.Family.FamilyName,
			&i.Family.ProductLine,
			&i.Family.Brand,
			&i.Family.Status,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
