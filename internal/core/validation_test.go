package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateHeaders(t *testing.T) {
	t.Run("all present", func(t *testing.T) {
		found := []string{"Family Code", "Family Name", "Product Line", "Brand", "Status", "Extra"}
		assert.NoError(t, ValidateHeaders(found, FamilyHeaders, FamiliesFileName))
	})

	t.Run("missing names each header", func(t *testing.T) {
		found := []string{"Family Code", "Family Name", "Status"}
		err := ValidateHeaders(found, FamilyHeaders, FamiliesFileName)

		var he *HeaderError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, []string{"Product Line", "Brand"}, he.Missing)
		assert.Equal(t,
			"File 'families.csv' is missing required headers: Product Line, Brand. Found: Family Code, Family Name, Status",
			err.Error())
	})

	t.Run("empty header list", func(t *testing.T) {
		err := ValidateHeaders(nil, ProductHeaders, ProductsFileName)
		require.Error(t, err)
		assert.Equal(t, "File 'products.csv' appears to be empty or unreadable.", err.Error())
	})

	t.Run("matching is case sensitive", func(t *testing.T) {
		err := ValidateHeaders([]string{"sku", "Name", "Family Code"}, ProductHeaders, ProductsFileName)
		assert.Error(t, err)
	})
}

func TestValidateEAN(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"12345678", true},
		{"12345678901234", true},
		{"4006381333931", true},
		{"1234567", false},
		{"123456789012345", false},
		{"12AB", false},
		{"1234 5678", false},
		{"١٢٣٤٥٦٧٨", false}, // Arabic-Indic digits
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateEAN(tt.in))
		})
	}
}

func TestRowValidator_Family(t *testing.T) {
	v := NewRowValidator()

	t.Run("valid row defaults status", func(t *testing.T) {
		fam, err := v.Family(Row{
			ColFamilyCode: "F1", ColFamilyName: "Wipers", ColProductLine: "Exterior", ColBrand: "Acme",
		})
		require.NoError(t, err)
		assert.Equal(t, StatusActive, fam.Status)
		assert.Equal(t, "F1", fam.Code)
	})

	t.Run("explicit status kept", func(t *testing.T) {
		fam, err := v.Family(Row{
			ColFamilyCode: "F1", ColFamilyName: "Wipers", ColProductLine: "Exterior", ColBrand: "Acme", ColStatus: "INACTIVE",
		})
		require.NoError(t, err)
		assert.Equal(t, StatusInactive, fam.Status)
	})

	t.Run("missing brand", func(t *testing.T) {
		_, err := v.Family(Row{ColFamilyCode: "F1", ColFamilyName: "Wipers", ColProductLine: "Exterior"})
		var re *RowError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "F1", re.Key)
		assert.Equal(t, ReasonFamilyMissingFields, re.Reason)
	})

	t.Run("missing code uses UNKNOWN key", func(t *testing.T) {
		_, err := v.Family(Row{ColFamilyName: "Wipers", ColProductLine: "Exterior", ColBrand: "Acme"})
		var re *RowError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, KeyUnknown, re.Key)
	})
}

func TestRowValidator_Product(t *testing.T) {
	v := NewRowValidator()
	known := CodeSet{"F1": {}}

	valid := func() Row {
		return Row{ColSKU: "S1", ColName: "Blade", ColFamilyCode: "F1"}
	}

	t.Run("valid without optionals", func(t *testing.T) {
		p, err := v.Product(valid(), known)
		require.NoError(t, err)
		assert.Nil(t, p.EANUPC)
		assert.Nil(t, p.VehicleType)
	})

	t.Run("valid with optionals", func(t *testing.T) {
		row := valid()
		row[ColEANUPC] = "12345678"
		row[ColVehicleType] = "Truck"
		p, err := v.Product(row, known)
		require.NoError(t, err)
		require.NotNil(t, p.EANUPC)
		assert.Equal(t, "12345678", *p.EANUPC)
		assert.Equal(t, "Truck", *p.VehicleType)
	})

	t.Run("missing fields checked before reference", func(t *testing.T) {
		_, err := v.Product(Row{ColSKU: "S1", ColFamilyCode: "NOPE"}, known)
		var re *RowError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, ReasonProductMissingFields, re.Reason)
	})

	t.Run("unknown family", func(t *testing.T) {
		row := valid()
		row[ColFamilyCode] = "F9"
		_, err := v.Product(row, known)
		var re *RowError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "Family code 'F9' does not exist. Please upload families first.", re.Reason)
	})

	t.Run("reference checked before EAN", func(t *testing.T) {
		row := valid()
		row[ColFamilyCode] = "F9"
		row[ColEANUPC] = "12AB"
		_, err := v.Product(row, known)
		var re *RowError
		require.ErrorAs(t, err, &re)
		assert.Contains(t, re.Reason, "does not exist")
	})

	t.Run("invalid EAN", func(t *testing.T) {
		row := valid()
		row[ColEANUPC] = "12AB"
		_, err := v.Product(row, known)
		var re *RowError
		require.ErrorAs(t, err, &re)
		assert.Equal(t, "S1", re.Key)
		assert.Equal(t, ReasonInvalidEAN, re.Reason)
	})
}
