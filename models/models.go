package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Prices and totals go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

func assignID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// All lists every table the API migrates, in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Category{},
		&Product{},
		&Order{},
		&OrderItem{},
		&Banner{},
	}
}
