package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/catalog/internal/core"
)

func TestBuildCatalogCount_NoFilters(t *testing.T) {
	sql, args := buildCatalogCount(core.BuildSearchQuery(nil))

	assert.Equal(t,
		"SELECT COUNT(DISTINCT p.sku) FROM products p INNER JOIN families f ON f.family_code = p.family_code",
		sql)
	assert.Empty(t, args)
}

func TestBuildCatalogCount_IgnoresPagination(t *testing.T) {
	sql, args := buildCatalogCount(core.BuildSearchQuery(map[string]string{
		"brand": "Acme",
		"page":  "3",
		"limit": "5",
	}))

	assert.True(t, strings.HasSuffix(sql, ` WHERE f."brand" = $1`), sql)
	assert.Equal(t, []interface{}{"Acme"}, args)
}

func TestBuildCatalogList_PredicatesAndPaging(t *testing.T) {
	q := core.BuildSearchQuery(map[string]string{
		"brand":  "Acme",
		"status": "ACTIVE",
		"sku":    "BR-",
		"name":   "pad",
		"page":   "2",
		"limit":  "5",
		"color":  "red",
	})

	sql, args := buildCatalogList(q)

	assert.Contains(t, sql, `INNER JOIN families f ON f.family_code = p.family_code`)
	assert.Contains(t, sql,
		` WHERE f."brand" = $1 AND f."status" = $2 AND p."sku" LIKE $3 AND p."name" LIKE $4`)
	assert.True(t, strings.HasSuffix(sql, " ORDER BY p.sku LIMIT $5 OFFSET $6"), sql)
	assert.Equal(t, []interface{}{"Acme", "ACTIVE", "%BR-%", "%pad%", 5, 5}, args)
	assert.NotContains(t, sql, "color")
}

func TestBuildCatalogList_Defaults(t *testing.T) {
	sql, args := buildCatalogList(core.BuildSearchQuery(map[string]string{"page": "abc"}))

	assert.True(t, strings.HasSuffix(sql, " ORDER BY p.sku LIMIT $1 OFFSET $2"), sql)
	assert.Equal(t, []interface{}{core.DefaultLimit, 0}, args)
}

func TestBuildCatalogList_ValuesNeverInlined(t *testing.T) {
	injection := "x'; DROP TABLE products; --"
	sql, args := buildCatalogList(core.BuildSearchQuery(map[string]string{
		"family_code": injection,
	}))

	assert.NotContains(t, sql, "DROP TABLE")
	assert.Equal(t, injection, args[0])
}

func TestMigrations_Embedded(t *testing.T) {
	entries, err := fs.ReadDir(Migrations(), ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	data, err := fs.ReadFile(Migrations(), entries[0].Name())
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "-- +goose Up")
	assert.Contains(t, body, "-- +goose Down")
	assert.Contains(t, body, "CHECK (status IN ('ACTIVE', 'INACTIVE'))")
	assert.Contains(t, body, "REFERENCES families (family_code)")
}
