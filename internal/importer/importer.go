package importer

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type Format string

const (
	FormatSupplierCSV  Format = "supplier_csv"
	FormatSupplierXLSX Format = "supplier_xlsx"
)

// Row is one parsed line of a supplier delivery note. Line is the 1-based
// row number in the uploaded file.
type Row struct {
	Line      int
	Product   string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	ExpiresAt *time.Time
}

type Parser interface {
	Parse(r io.Reader) ([]Row, error)
}
