package database

import (
	"context"
)

const upsertFamily = `-- name: UpsertFamily :exec
INSERT INTO families (family_code, family_name, product_line, brand, status)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (family_code) DO UPDATE SET
    family_name = EXCLUDED.family_name,
    product_line = EXCLUDED.product_line,
    brand = EXCLUDED.brand,
    status = EXCLUDED.status,
    updated_at = now()
`

type UpsertFamilyParams struct {
	FamilyCode  string
	FamilyName  string
	ProductLine string
	Brand       string
	Status      string
}

func (q *Queries) UpsertFamily(ctx context.Context, arg UpsertFamilyParams) error {
	_, err := q.db.Exec(ctx, upsertFamily,
		arg.FamilyCode,
		arg.FamilyName,
		arg.ProductLine,
		arg.Brand,
		arg.Status,
	)
	return err
}

const listFamilyCodes = `-- name: ListFamilyCodes :many
SELECT family_code FROM families
`

func (q *Queries) ListFamilyCodes(ctx context.Context) ([]string, error) {
	rows, err := q.db.Query(ctx, listFamilyCodes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []string
	for rows.Next() {
		var family_code string
		if err := rows.Scan(&family_code); err != nil {
			return nil, err
		}
		items = append(items, family_code)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
