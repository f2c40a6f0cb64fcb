package document

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"foodgram-backend/domain"

	"github.com/go-pdf/fpdf"
)

const (
	PDFContentType  = "application/pdf"
	TextContentType = "text/plain; charset=utf-8"

	fontFamily   = "DejaVu"
	titleSize    = 18
	bodySize     = 12
	lineHeight   = 8
	pageMargin   = 15
	bottomMargin = 20
)

// DejaVu covers Latin, Cyrillic and Greek ingredient names.
//
//go:embed fonts/DejaVuSansCondensed.ttf
var dejaVuSans []byte

// Line formats one aggregated item as "{name} - {amount} {unit}".
func Line(item domain.ShoppingListItem) string {
	return fmt.Sprintf("%s - %d %s", item.Name, item.Amount, item.MeasurementUnit)
}

func RenderShoppingListText(title string, items []domain.ShoppingListItem) []byte {
	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	for _, item := range items {
		b.WriteString(Line(item))
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

func RenderShoppingListPDF(title string, items []domain.ShoppingListItem) ([]byte, error) {
	pdf := buildShoppingListPDF(title, items)
	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func buildShoppingListPDF(title string, items []domain.ShoppingListItem) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, bottomMargin)
	pdf.SetTitle(title, true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", dejaVuSans)

	pdf.AddPage()
	pdf.SetFont(fontFamily, "", titleSize)
	pdf.CellFormat(0, lineHeight+4, title, "", 1, "C", false, 0, "")
	pdf.Ln(lineHeight / 2)

	pdf.SetFont(fontFamily, "", bodySize)
	for _, item := range items {
		pdf.CellFormat(0, lineHeight, Line(item), "", 1, "L", false, 0, "")
	}
	return pdf
}
