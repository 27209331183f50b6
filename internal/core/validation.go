package core

// validation.go checks import files before anything reaches the store.
//
// Validation happens at two levels:
//  1. Header validation: every required column must be present
//  2. Row validation: required cells must be non-blank, references must
//     resolve and optional formatted cells must be well formed
//
// Row checks run in a fixed order and stop at the first problem, so each
// rejected row carries exactly one reason.

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Column headers of the families file.
const (
	ColFamilyCode  = "Family Code"
	ColFamilyName  = "Family Name"
	ColProductLine = "Product Line"
	ColBrand       = "Brand"
	ColStatus      = "Status"
)

// Column headers of the products file. EAN UPC and Vehicle Type are optional.
const (
	ColSKU         = "SKU"
	ColName        = "Name"
	ColEANUPC      = "EAN UPC"
	ColVehicleType = "Vehicle Type"
)

// FamilyHeaders lists the columns a families file must contain.
var FamilyHeaders = []string{ColFamilyCode, ColFamilyName, ColProductLine, ColBrand, ColStatus}

// ProductHeaders lists the columns a products file must contain.
var ProductHeaders = []string{ColSKU, ColName, ColFamilyCode}

// Rejection reasons written to failure reports.
const (
	ReasonFamilyMissingFields  = "Missing required fields (Code, Name, Line, or Brand)"
	ReasonProductMissingFields = "Missing required fields (SKU, Name, or Family Code)"
	ReasonInvalidEAN           = "Invalid EAN format"
)

// EAN/UPC length bounds, inclusive.
const (
	MinEANLength = 8
	MaxEANLength = 14
)

// HeaderError reports an import file whose header row is empty or lacks
// required columns.
type HeaderError struct {
	File    string
	Missing []string
	Found   []string
}

func (e *HeaderError) Error() string {
	if len(e.Found) == 0 {
		return fmt.Sprintf("File '%s' appears to be empty or unreadable.", e.File)
	}
	return fmt.Sprintf("File '%s' is missing required headers: %s. Found: %s",
		e.File, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
}

// ValidateHeaders checks that every required header appears in found.
// Matching is exact after trimming. An empty found list is always an error.
func ValidateHeaders(found, required []string, filename string) error {
	if len(found) == 0 {
		return &HeaderError{File: filename}
	}

	present := make(map[string]struct{}, len(found))
	for _, h := range found {
		present[h] = struct{}{}
	}

	var missing []string
	for _, h := range required {
		if _, ok := present[h]; !ok {
			missing = append(missing, h)
		}
	}

	if len(missing) > 0 {
		return &HeaderError{File: filename, Missing: missing, Found: found}
	}
	return nil
}

// ValidateEAN reports whether s is 8 to 14 ASCII digits.
func ValidateEAN(s string) bool {
	if len(s) < MinEANLength || len(s) > MaxEANLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// CodeSet is a snapshot of known family codes.
type CodeSet map[string]struct{}

// Has reports whether code is in the set.
func (s CodeSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}

type familyInput struct {
	Code        string `validate:"required"`
	Name        string `validate:"required"`
	ProductLine string `validate:"required"`
	Brand       string `validate:"required"`
}

type productInput struct {
	SKU        string `validate:"required"`
	Name       string `validate:"required"`
	FamilyCode string `validate:"required"`
	EANUPC     string `validate:"omitempty,ean"`
}

// RowValidator turns raw rows into entities ready for upsert.
// It is safe for concurrent use.
type RowValidator struct {
	validate *validator.Validate
}

// NewRowValidator creates a validator with the ean tag registered.
func NewRowValidator() *RowValidator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("ean", func(fl validator.FieldLevel) bool {
		return ValidateEAN(fl.Field().String())
	})
	return &RowValidator{validate: v}
}

// Family validates a families row. Rejected rows return a *RowError.
// A blank status defaults to ACTIVE; any other value is passed through for
// the store to accept or reject.
func (v *RowValidator) Family(row Row) (Family, error) {
	in := familyInput{
		Code:        row.Get(ColFamilyCode),
		Name:        row.Get(ColFamilyName),
		ProductLine: row.Get(ColProductLine),
		Brand:       row.Get(ColBrand),
	}

	if err := v.validate.Struct(in); err != nil {
		return Family{}, &RowError{Key: keyOrUnknown(in.Code), Reason: ReasonFamilyMissingFields, Err: err}
	}

	status := FamilyStatus(row.Get(ColStatus))
	if status == "" {
		status = StatusActive
	}

	return Family{
		Code:        in.Code,
		Name:        in.Name,
		ProductLine: in.ProductLine,
		Brand:       in.Brand,
		Status:      status,
	}, nil
}

// Product validates a products row against a family-code snapshot.
// Checks run in order: required fields, family reference, EAN format.
func (v *RowValidator) Product(row Row, families CodeSet) (Product, error) {
	in := productInput{
		SKU:        row.Get(ColSKU),
		Name:       row.Get(ColName),
		FamilyCode: row.Get(ColFamilyCode),
		EANUPC:     row.Get(ColEANUPC),
	}
	key := keyOrUnknown(in.SKU)

	if err := v.validate.StructPartial(in, "SKU", "Name", "FamilyCode"); err != nil {
		return Product{}, &RowError{Key: key, Reason: ReasonProductMissingFields, Err: err}
	}

	if !families.Has(in.FamilyCode) {
		return Product{}, &RowError{Key: key, Reason: unknownFamilyReason(in.FamilyCode)}
	}

	if err := v.validate.StructPartial(in, "EANUPC"); err != nil {
		return Product{}, &RowError{Key: key, Reason: ReasonInvalidEAN, Err: err}
	}

	return Product{
		SKU:         in.SKU,
		Name:        in.Name,
		EANUPC:      optional(in.EANUPC),
		VehicleType: optional(row.Get(ColVehicleType)),
		FamilyCode:  in.FamilyCode,
	}, nil
}

func unknownFamilyReason(code string) string {
	return fmt.Sprintf("Family code '%s' does not exist. Please upload families first.", code)
}

func keyOrUnknown(key string) string {
	if key == "" {
		return KeyUnknown
	}
	return key
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
