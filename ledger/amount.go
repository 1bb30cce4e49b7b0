package ledger

import (
	"github.com/shopspring/decimal"
)

// FormatNumber renders a decimal with two fraction digits, the convention
// used for synthesized pad transaction amounts.
func FormatNumber(n decimal.Decimal) string {
	return n.StringFixed(2)
}
