package supplier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// column is a logical field of a delivery note and the header spellings it
// is known by. Headers are compared after Fold.
type column struct {
	name     string
	aliases  []string
	required bool
}

const (
	colProduct  = "producto"
	colQuantity = "cantidad"
	colCost     = "costo"
	colExpires  = "vence"
)

var columns = []column{
	{name: colProduct, aliases: []string{"producto", "product", "descripcion", "articulo"}, required: true},
	{name: colQuantity, aliases: []string{"cantidad", "cant", "qty", "unidades"}, required: true},
	{name: colCost, aliases: []string{"costo", "costo unitario", "precio", "precio unitario", "cost"}, required: true},
	{name: colExpires, aliases: []string{"vence", "vencimiento", "fecha vencimiento", "caducidad", "expira"}},
}

// colIndex maps a logical column name to its position in the row.
type colIndex map[string]int

// matchHeader returns the column positions for row when every required
// column is present.
func matchHeader(row []string) (colIndex, bool) {
	cols := make(colIndex)

	for i, cell := range row {
		h := Fold(cell)

		for _, c := range columns {
			if _, seen := cols[c.name]; seen {
				continue
			}

			for _, a := range c.aliases {
				if h == a {
					cols[c.name] = i
					break
				}
			}
		}
	}

	for _, c := range columns {
		if _, ok := cols[c.name]; c.required && !ok {
			return nil, false
		}
	}

	return cols, true
}

// Fold lower-cases s, strips accents and collapses inner whitespace, so
// "  Piña  Golden" and "pina golden" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}

	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}
