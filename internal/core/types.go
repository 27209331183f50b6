package core

// FamilyStatus is the lifecycle state of a product family.
type FamilyStatus string

const (
	StatusActive   FamilyStatus = "ACTIVE"
	StatusInactive FamilyStatus = "INACTIVE"
)

// Entity names used for logging, metrics and report file names.
const (
	EntityFamilies = "families"
	EntityProducts = "products"
)

// Family groups products that share a product line and brand.
// Code is the business key and primary key in the store.
type Family struct {
	Code        string       `json:"family_code"`
	Name        string       `json:"family_name"`
	ProductLine string       `json:"product_line"`
	Brand       string       `json:"brand"`
	Status      FamilyStatus `json:"status"`
}

// Product is a sellable item identified by SKU. EANUPC and VehicleType
// are optional and nil when the source cell was blank.
type Product struct {
	SKU         string  `json:"sku"`
	Name        string  `json:"name"`
	EANUPC      *string `json:"ean_upc"`
	VehicleType *string `json:"vehicle_type"`
	FamilyCode  string  `json:"family_code"`
}

// CatalogRow is one search result: a product joined with its family.
type CatalogRow struct {
	Product
	Family Family `json:"family"`
}

// EntityCounts reports how many rows of one entity were written or rejected.
type EntityCounts struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// ImportSummary is the result of one ProcessImport call.
// Reports lists the base names of failure reports written by the call.
type ImportSummary struct {
	Families EntityCounts `json:"families"`
	Products EntityCounts `json:"products"`
	Reports  []string     `json:"reports"`
}

// Changed reports whether the import wrote at least one row.
func (s ImportSummary) Changed() bool {
	return s.Families.Processed > 0 || s.Products.Processed > 0
}

// SearchResult is one page of catalog rows plus pagination metadata.
type SearchResult struct {
	Page            int          `json:"page"`
	Limit           int          `json:"limit"`
	TotalRecords    int64        `json:"total_records"`
	TotalPages      int          `json:"totalPages"`
	HasNextPage     bool         `json:"hasNextPage"`
	HasPreviousPage bool         `json:"hasPreviousPage"`
	Results         []CatalogRow `json:"results"`
}
