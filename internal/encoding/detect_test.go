package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/granja/internal/encoding"
)

const note = "producto;cantidad;costo;vence\nQueso añejo;10;2,50;15/01/2024\nPiña;3;1,20;\n"

func readAll(t *testing.T, input []byte) (string, string) {
	t.Helper()

	r, charset, err := encoding.Detect(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestDetect(t *testing.T) {
	latin, err := charmap.Windows1252.NewEncoder().Bytes([]byte(note))
	require.NoError(t, err)

	utf16, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(note))
	require.NoError(t, err)

	tests := []struct {
		name        string
		input       []byte
		wantCharset string
	}{
		{name: "UTF8", input: []byte(note), wantCharset: encoding.UTF8},
		{name: "UTF8BOM", input: append([]byte{0xEF, 0xBB, 0xBF}, note...), wantCharset: encoding.UTF8},
		{name: "UTF16LE", input: utf16, wantCharset: encoding.UTF16LE},
		{name: "Empty", input: nil, wantCharset: encoding.UTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := readAll(t, tt.input)
			assert.Equal(t, tt.wantCharset, charset)

			if len(tt.input) > 0 {
				assert.Equal(t, note, got)
			}
		})
	}

	t.Run("Latin", func(t *testing.T) {
		got, charset := readAll(t, latin)
		assert.NotEqual(t, encoding.UTF8, charset)
		assert.Equal(t, note, got)
	})
}

func TestDetect_MultiByteRuneAtWindowEdge(t *testing.T) {
	// 4095 ASCII bytes then "ñ" so the sniff window splits the rune.
	input := strings.Repeat("a", 4095) + "ñ\n"

	got, charset := readAll(t, []byte(input))
	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, input, got)
}

func TestNewUTF8Reader(t *testing.T) {
	r, err := encoding.NewUTF8Reader(strings.NewReader("Leche;1\n"))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Leche;1\n", string(got))
}
