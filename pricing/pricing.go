// Package pricing holds the cart and order arithmetic shared by the
// storefront quote, checkout and admin order forms.
package pricing

import "github.com/shopspring/decimal"

// Line is one priced product in a cart or order.
type Line struct {
	ProductID string
	Price     decimal.Decimal
	Quantity  int
}

// Subtotal returns the line's unit price times its quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Summary is the result of pricing a set of lines.
type Summary struct {
	ItemCount   int
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Total       decimal.Decimal
}

// Quote sums the lines and adds the fixed delivery fee.
func Quote(lines []Line, deliveryFee decimal.Decimal) Summary {
	s := Summary{Subtotal: decimal.Zero, DeliveryFee: deliveryFee}
	for _, l := range lines {
		s.ItemCount += l.Quantity
		s.Subtotal = s.Subtotal.Add(l.Subtotal())
	}
	s.Total = s.Subtotal.Add(deliveryFee)
	return s
}

// Sum adds up amounts; used for dashboard revenue.
func Sum(amounts []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
