package schema

import (
	"strings"
)

// Canonical field names used by the typed table builders.
const (
	FieldCustomerID       = "customer_id"
	FieldCustomerName     = "customer_name"
	FieldEmail            = "email"
	FieldSignupDate       = "signup_date"
	FieldCity             = "city"
	FieldProductID        = "product_id"
	FieldProductName      = "product_name"
	FieldUnitPrice        = "unit_price"
	FieldDeclaredCategory = "declared_category"
	FieldSaleID           = "sale_id"
	FieldSaleDate         = "sale_date"
	FieldPaymentMethod    = "payment_method"
	FieldQuantity         = "quantity"
	FieldLineAmount       = "line_amount"
)

// HeaderMappings maps normalized source headers to canonical field names.
// The source workbooks use Spanish headers; English synonyms are accepted so
// re-exported artifacts load back without a mapping file.
var HeaderMappings = map[string]string{
	// Customer key and attributes
	"idcliente":     FieldCustomerID,
	"customerid":    FieldCustomerID,
	"nombrecliente": FieldCustomerName,
	"cliente":       FieldCustomerName,
	"customername":  FieldCustomerName,
	"email":         FieldEmail,
	"correo":        FieldEmail,
	"fechaalta":     FieldSignupDate,
	"signupdate":    FieldSignupDate,
	"ciudad":        FieldCity,
	"city":          FieldCity,

	// Product key and attributes
	"idproducto":       FieldProductID,
	"productid":        FieldProductID,
	"nombreproducto":   FieldProductName,
	"producto":         FieldProductName,
	"productname":      FieldProductName,
	"preciounitario":   FieldUnitPrice,
	"unitprice":        FieldUnitPrice,
	"categoria":        FieldDeclaredCategory,
	"category":         FieldDeclaredCategory,
	"declaredcategory": FieldDeclaredCategory,

	// Sale header
	"idventa":       FieldSaleID,
	"saleid":        FieldSaleID,
	"fecha":         FieldSaleDate,
	"fechaventa":    FieldSaleDate,
	"saledate":      FieldSaleDate,
	"mediopago":     FieldPaymentMethod,
	"paymentmethod": FieldPaymentMethod,

	// Sale line
	"cantidad":   FieldQuantity,
	"quantity":   FieldQuantity,
	"importe":    FieldLineAmount,
	"lineamount": FieldLineAmount,
}

// MapHeaders resolves raw record keys to canonical field names, returning a
// new record keyed canonically. Unrecognized columns are carried through
// under their raw name; the first recognized column wins when two raw
// headers normalize to the same canonical field.
func MapHeaders(record map[string]string) map[string]string {
	mapped := make(map[string]string, len(record))
	for raw, value := range record {
		target, ok := HeaderMappings[normalizeHeader(raw)]
		if !ok {
			target = raw
		}
		if _, exists := mapped[target]; !exists {
			mapped[target] = value
		}
	}
	return mapped
}

// HasColumn reports whether any raw header in the records resolves to the
// given canonical field. An empty record set has no columns.
func HasColumn(records []map[string]string, field string) bool {
	if len(records) == 0 {
		return false
	}
	for raw := range records[0] {
		if HeaderMappings[normalizeHeader(raw)] == field || raw == field {
			return true
		}
	}
	return false
}

// normalizeHeader lowercases a header and strips whitespace, underscores,
// and hyphens so "ID_Cliente" and "id cliente" resolve identically.
func normalizeHeader(header string) string {
	s := strings.ToLower(strings.TrimSpace(header))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return s
}
