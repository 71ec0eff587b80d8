package export

import (
	"github.com/jung-kurt/gofpdf"

	"github.com/flashdeck/flashdeck/internal/cards"
)

// Grid layout in millimetres on A4 portrait.
const (
	pageMargin = 10.0
	gutter     = 6.0
	cardHeight = 58.0
	padding    = 3.0
)

// WriteDeck renders the deck as a printable PDF: each card is one
// bounded box with a term heading and a definition+mnemonic body, two
// columns per row, overflowing to a new page when vertical space runs
// out.
func WriteDeck(path string, deck []cards.Flashcard) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Flashcards", false)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()
	cardW := (pageW - 2*pageMargin - gutter) / 2
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	y := pageMargin
	for i, card := range deck {
		col := i % 2
		if col == 0 && i > 0 {
			y += cardHeight + gutter
		}
		if y+cardHeight > pageH-pageMargin {
			pdf.AddPage()
			y = pageMargin
		}
		x := pageMargin + float64(col)*(cardW+gutter)
		drawCard(pdf, tr, x, y, cardW, cardHeight, card)
	}

	return pdf.OutputFileAndClose(path)
}

func drawCard(pdf *gofpdf.Fpdf, tr func(string) string, x, y, w, h float64, card cards.Flashcard) {
	pdf.Rect(x, y, w, h, "D")

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(x+padding, y+padding)
	pdf.CellFormat(w-2*padding, 7, tr(card.Term), "", 0, "L", false, 0, "")
	pdf.Line(x+padding, y+padding+8, x+w-padding, y+padding+8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(x+padding, y+padding+10)
	pdf.MultiCell(w-2*padding, 5, tr(card.Definition), "", "L", false)

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetX(x + padding)
	pdf.MultiCell(w-2*padding, 5, tr("Mnemonic: "+card.Mnemonic), "", "L", false)
}
