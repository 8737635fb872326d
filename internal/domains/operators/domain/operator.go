package domain

import (
	"slices"
	"strings"
)

// Operator is a person allowed to work the inventory (issue invoices, move stock).
type Operator struct {
	ID        int64
	FirstName string
	LastName  string
	// Password is opaque to this service; it is stored and returned as given.
	Password string
	// InvoiceIDs is the set of invoices issued by the operator.
	InvoiceIDs []int64
}

// NewOperator builds an operator. An ID of zero lets the store assign one on save.
func NewOperator(id int64, firstName, lastName, password string) *Operator {
	return &Operator{
		ID:        id,
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Password:  password,
	}
}

// FullName joins first and last name for display and logging.
func (o *Operator) FullName() string {
	return strings.TrimSpace(o.FirstName + " " + o.LastName)
}

// AssignInvoices adds invoice identifiers, keeping the set free of duplicates.
func (o *Operator) AssignInvoices(ids ...int64) {
	for _, id := range ids {
		if !slices.Contains(o.InvoiceIDs, id) {
			o.InvoiceIDs = append(o.InvoiceIDs, id)
		}
	}
}

// Clone returns a deep copy safe to hand across persistence boundaries.
func (o *Operator) Clone() *Operator {
	if o == nil {
		return nil
	}
	clone := *o
	clone.InvoiceIDs = slices.Clone(o.InvoiceIDs)
	return &clone
}
