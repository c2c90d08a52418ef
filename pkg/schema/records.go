package schema

import "time"

// Customer is one row of the customer master table.
type Customer struct {
	CustomerID int       `json:"customerId"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	SignupDate time.Time `json:"signupDate"`
	City       string    `json:"city"`
}

// Product is one row of the product master table. DeclaredCategory is the
// category as stated in the source; the corrected category is recomputed per
// run by the classifier and never written back here.
type Product struct {
	ProductID        int     `json:"productId"`
	Name             string  `json:"name"`
	UnitPrice        float64 `json:"unitPrice"`
	DeclaredCategory string  `json:"declaredCategory"`
}

// SaleHeader is one row of the sales header table.
type SaleHeader struct {
	SaleID        int       `json:"saleId"`
	CustomerID    int       `json:"customerId"`
	SaleDate      time.Time `json:"saleDate"`
	PaymentMethod string    `json:"paymentMethod"`
}

// SaleLine is one row of the sale line-item table. Multiple lines share a
// SaleID. LineAmount is the monetary amount as supplied by the source; it is
// kept separate from the recomputed total so disagreements stay visible.
type SaleLine struct {
	SaleID     int     `json:"saleId"`
	ProductID  int     `json:"productId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	LineAmount float64 `json:"lineAmount"`
	SourceRow  int     `json:"sourceRow"`
}

// UnifiedRecord is the denormalized join of a sale line with its header,
// customer, and product. Header, Customer, and Product are nil when the
// corresponding foreign key did not resolve; the row is retained either way.
// A header with no lines produces a record whose Line side is zero-valued
// and HasLine is false.
type UnifiedRecord struct {
	Line     SaleLine    `json:"line"`
	HasLine  bool        `json:"hasLine"`
	Header   *SaleHeader `json:"header"`
	Customer *Customer   `json:"customer"`
	Product  *Product    `json:"product"`

	// TotalAmount = Quantity * UnitPrice, recomputed during unification.
	TotalAmount float64 `json:"totalAmount"`

	// AssignedCategory is filled in by the classification pass.
	AssignedCategory string `json:"assignedCategory"`
}

// ProductName returns the best available name for the record's product:
// the product master name when the join resolved, otherwise empty.
func (r *UnifiedRecord) ProductName() string {
	if r.Product != nil {
		return r.Product.Name
	}
	return ""
}
