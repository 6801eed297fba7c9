package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

const dateLayout = "02/01/2006"

// FormatMoney renders a base-currency amount with two decimals.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatQty drops trailing zeros, so 4.000 shows as 4.
func FormatQty(d decimal.Decimal) string {
	return d.String()
}

func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// DbCtx returns a context with a standard timeout for ledger operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
