package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const upsertProduct = `-- name: UpsertProduct :exec
INSERT INTO products (sku, name, ean_upc, vehicle_type, family_code)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    ean_upc = EXCLUDED.ean_upc,
    vehicle_type = EXCLUDED.vehicle_type,
    family_code = EXCLUDED.family_code,
    updated_at = now()
`

type UpsertProductParams struct {
	Sku         string
	Name        string
	EanUpc      pgtype.Text
	VehicleType pgtype.Text
	FamilyCode  string
}

func (q *Queries) UpsertProduct(ctx context.Context, arg UpsertProductParams) error {
	_, err := q.db.Exec(ctx, upsertProduct,
		arg.Sku,
		arg.Name,
		arg.EanUpc,
		arg.VehicleType,
		arg.FamilyCode,
	)
	return err
}
