package document

import (
	"bytes"
	"fmt"
	"testing"
	"unicode/utf16"

	"foodgram-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	item := domain.ShoppingListItem{Name: "flour", MeasurementUnit: "g", Amount: 350}
	assert.Equal(t, "flour - 350 g", Line(item))
}

func TestRenderShoppingListText(t *testing.T) {
	items := []domain.ShoppingListItem{
		{Name: "flour", MeasurementUnit: "g", Amount: 350},
		{Name: "egg", MeasurementUnit: "pcs", Amount: 3},
	}
	out := RenderShoppingListText("Shopping list", items)
	assert.Equal(t, "Shopping list\n\nflour - 350 g\negg - 3 pcs\n", string(out))
}

func TestRenderShoppingListPDF(t *testing.T) {
	items := []domain.ShoppingListItem{{Name: "sugar", MeasurementUnit: "g", Amount: 5}}

	out, err := RenderShoppingListPDF("Shopping list", items)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderEmptyShoppingListPDF(t *testing.T) {
	out, err := RenderShoppingListPDF("Shopping list", []domain.ShoppingListItem{})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, 1, buildShoppingListPDF("Shopping list", nil).PageCount())
}

func TestLongShoppingListSpansPages(t *testing.T) {
	items := make([]domain.ShoppingListItem, 0, 120)
	for i := 0; i < 120; i++ {
		items = append(items, domain.ShoppingListItem{Name: fmt.Sprintf("item %d", i), MeasurementUnit: "g", Amount: i + 1})
	}
	assert.Greater(t, buildShoppingListPDF("Shopping list", items).PageCount(), 1)
}

// textOperand is how a UTF-8 font cell appears inside an uncompressed Tj operator.
func textOperand(s string) []byte {
	var b bytes.Buffer
	for _, u := range utf16.Encode([]rune(s)) {
		b.WriteByte(byte(u >> 8))
		b.WriteByte(byte(u))
	}
	return []byte("(" + b.String() + ")Tj")
}

func TestShoppingListPDFKeepsNonLatinText(t *testing.T) {
	items := []domain.ShoppingListItem{
		{Name: "Соль", MeasurementUnit: "г", Amount: 8},
		{Name: "Crème", MeasurementUnit: "g", Amount: 1},
	}

	pdf := buildShoppingListPDF("Список покупок", items)
	pdf.SetCompression(false)
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	out := buf.Bytes()

	assert.Contains(t, string(out), string(textOperand("Список покупок")))
	assert.Contains(t, string(out), string(textOperand("Соль - 8 г")))
	assert.Contains(t, string(out), string(textOperand("Crème - 1 g")))
}
