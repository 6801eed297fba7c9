package supplier

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/granja/internal/encoding"
	"github.com/MrJamesThe3rd/granja/internal/importer"
)

var ErrNoHeader = errors.New("no delivery note header found: expected columns producto, cantidad, costo")

var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02", "02-01-2006"}

// Parser reads supplier delivery notes exported as CSV. The header row may
// be preceded by free text (supplier name, address) and rows without a
// product name or quantity, such as totals, are ignored.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]importer.Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = separator(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var records []record

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}

		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: row})
	}

	return fromRecords(records)
}

// fromRecords finds the header row and parses everything below it.
func fromRecords(records []record) ([]importer.Row, error) {
	for i, rec := range records {
		if cols, ok := matchHeader(rec.cells); ok {
			return parseRows(cols, records[i+1:])
		}
	}

	return nil, ErrNoHeader
}

// record is a data row and the file line it started on.
type record struct {
	line  int
	cells []string
}

// separator picks ';' when it appears at all. Spanish spreadsheets use the
// comma as decimal mark, so a ';' file will also contain commas.
func separator(data []byte) rune {
	if bytes.ContainsRune(data, ';') {
		return ';'
	}

	return ','
}

func parseRows(cols colIndex, records []record) ([]importer.Row, error) {
	var out []importer.Row

	for _, rec := range records {
		row, rowNum := rec.cells, rec.line

		name := cellValue(row, cols, colProduct)
		if name == "" || cellValue(row, cols, colQuantity) == "" {
			continue
		}

		qty, err := parseNumber(cellValue(row, cols, colQuantity))
		if err != nil || !qty.IsPositive() {
			return nil, fmt.Errorf("row %d: invalid quantity %q", rowNum, cellValue(row, cols, colQuantity))
		}

		cost, err := parseNumber(cellValue(row, cols, colCost))
		if err != nil || !cost.IsPositive() {
			return nil, fmt.Errorf("row %d: invalid cost %q", rowNum, cellValue(row, cols, colCost))
		}

		expires, err := parseDate(cellValue(row, cols, colExpires))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		out = append(out, importer.Row{
			Line:      rowNum,
			Product:   name,
			Quantity:  qty,
			UnitCost:  cost,
			ExpiresAt: expires,
		})
	}

	return out, nil
}

// parseNumber accepts "1.234,56", "1,234.56", "2,5" and "2.5". When both
// marks appear the last one is the decimal separator.
func parseNumber(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, errors.New("empty number")
	}

	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")

	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	return decimal.NewFromString(s)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}

	return nil, fmt.Errorf("invalid expiry date %q", s)
}

func cellValue(row []string, cols colIndex, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
