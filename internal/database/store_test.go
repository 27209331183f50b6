package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
)

// execRecorder is a DBTX that records Exec calls. Query paths are not used.
type execRecorder struct {
	sql  []string
	args [][]interface{}
	err  error
}

func (r *execRecorder) Exec(_ context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	r.args = append(r.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), r.err
}

func (r *execRecorder) Query(context.Context, string, ...interface{}) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (r *execRecorder) QueryRow(context.Context, string, ...interface{}) pgx.Row {
	return nil
}

func strPtr(s string) *string { return &s }

func TestStore_UpsertFamily(t *testing.T) {
	rec := &execRecorder{}
	store := NewStore(rec)

	err := store.UpsertFamily(context.Background(), core.Family{
		Code: "F1", Name: "Brakes", ProductLine: "Parts", Brand: "Acme", Status: core.StatusInactive,
	})
	require.NoError(t, err)

	require.Len(t, rec.sql, 1)
	assert.Contains(t, rec.sql[0], "ON CONFLICT (family_code) DO UPDATE")
	assert.Equal(t, []interface{}{"F1", "Brakes", "Parts", "Acme", "INACTIVE"}, rec.args[0])
}

func TestStore_UpsertProduct_NullableColumns(t *testing.T) {
	rec := &execRecorder{}
	store := NewStore(rec)

	err := store.UpsertProduct(context.Background(), core.Product{
		SKU: "S1", Name: "Pad", EANUPC: strPtr("12345678"), FamilyCode: "F1",
	})
	require.NoError(t, err)

	require.Len(t, rec.args, 1)
	args := rec.args[0]
	assert.Equal(t, "S1", args[0])
	assert.Equal(t, pgtype.Text{String: "12345678", Valid: true}, args[2])
	assert.Equal(t, pgtype.Text{}, args[3], "absent vehicle type must be NULL")
	assert.Contains(t, rec.sql[0], "ON CONFLICT (sku) DO UPDATE")
}

func TestStore_UpsertPropagatesError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
	store := NewStore(&execRecorder{err: pgErr})

	err := store.UpsertProduct(context.Background(), core.Product{SKU: "S1", FamilyCode: "X"})

	var got *pgconn.PgError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, "23503", got.Code)
}

func TestToCatalogRow(t *testing.T) {
	row := toCatalogRow(CatalogRow{
		Product: Product{Sku: "S1", Name: "Pad", EanUpc: pgtype.Text{String: "123", Valid: true}, FamilyCode: "F1"},
		Family:  Family{FamilyCode: "F1", FamilyName: "Brakes", ProductLine: "Parts", Brand: "Acme", Status: "ACTIVE"},
	})

	assert.Equal(t, "S1", row.SKU)
	require.NotNil(t, row.EANUPC)
	assert.Equal(t, "123", *row.EANUPC)
	assert.Nil(t, row.VehicleType)
	assert.Equal(t, core.StatusActive, row.Family.Status)
	assert.Equal(t, "Acme", row.Family.Brand)
}
