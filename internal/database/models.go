package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Family struct {
	FamilyCode  string
	FamilyName  string
	ProductLine string
	Brand       string
	Status      string
}

type Product struct {
	Sku         string
	Name        string
	EanUpc      pgtype.Text
	VehicleType pgtype.Text
	FamilyCode  string
}
