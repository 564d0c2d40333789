package shared

import "github.com/shopspring/decimal"

func init() {
	// Prices go over the wire as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// LineTotal returns qty * unitPrice rounded to cents.
func LineTotal(qty int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
}
