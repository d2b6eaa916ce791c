// Package report renders the DSS snapshot tables into tabular PDF documents.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	lineHeight      = 6.0
	headerHeight    = 8.0
	bottomMargin    = 15.0
	minColumnWidth  = 25.0
	maxHeaderLength = 40
)

// GeneratePDF writes a landscape A4 table report into dir and returns the
// generated file name. When colWidths is nil the page width is split evenly,
// with a floor so narrow tables stay readable. Cell text wraps; every row is
// drawn at the height of its tallest cell.
func GeneratePDF(dir, title string, columns []string, rows [][]string, colWidths []float64) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating reports dir: %w", err)
	}
	filename := fmt.Sprintf("%s_%s.pdf",
		strings.ToLower(strings.ReplaceAll(title, " ", "_")),
		time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, filename)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, bottomMargin)

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	effectiveWidth := pageWidth - left - right

	if colWidths == nil {
		width := effectiveWidth / float64(len(columns))
		if width < minColumnWidth {
			width = minColumnWidth
		}
		colWidths = make([]float64, len(columns))
		for i := range colWidths {
			colWidths[i] = width
		}
	}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(240, 248, 255)
		pdf.SetX(left)
		for i, col := range columns {
			if len(col) > maxHeaderLength {
				col = col[:maxHeaderLength]
			}
			pdf.CellFormat(colWidths[i], headerHeight, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(headerHeight)
	}

	// The title block replaces the table header on the first page only.
	firstPage := true
	pdf.SetHeaderFunc(func() {
		if firstPage {
			firstPage = false
			return
		}
		drawHeader()
	})

	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(19, 139, 168)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 8, time.Now().Format("Generated on 02 Jan 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	drawHeader()

	pdf.SetFont("Arial", "", 9)
	breakTrigger := pageHeight - bottomMargin

	for _, row := range rows {
		maxLines := 1
		for i, cell := range row {
			if lines := countWrappedLines(pdf, colWidths[i], cell); lines > maxLines {
				maxLines = lines
			}
		}
		rowHeight := lineHeight * float64(maxLines)

		if pdf.GetY()+rowHeight > breakTrigger {
			pdf.AddPage()
		}
		pdf.SetX(left)
		yTop := pdf.GetY()

		for i, cell := range row {
			xLeft := pdf.GetX()
			w := colWidths[i]
			pdf.Rect(xLeft, yTop, w, rowHeight, "D")
			pdf.MultiCell(w, lineHeight, cell, "", "L", false)
			pdf.SetXY(xLeft+w, yTop)
		}

		pdf.SetXY(left, yTop+rowHeight)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("error writing pdf %s: %w", path, err)
	}
	return filename, nil
}

// countWrappedLines estimates how many lines a greedy word wrap needs to fit
// text into a cell of width w.
func countWrappedLines(pdf *gofpdf.Fpdf, w float64, text string) int {
	if text == "" {
		return 1
	}
	text = strings.ReplaceAll(text, "\r", "")
	spaceWidth := pdf.GetStringWidth(" ")

	total := 0
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			total++
			continue
		}
		words := strings.Split(part, " ")
		lineWidth := 0.0
		lines := 1
		for idx, word := range words {
			wordWidth := pdf.GetStringWidth(word)
			addWidth := wordWidth
			if idx > 0 {
				addWidth += spaceWidth
			}
			if lineWidth+addWidth <= w {
				lineWidth += addWidth
			} else {
				lines++
				lineWidth = wordWidth
			}
		}
		total += lines
	}
	if total < 1 {
		total = 1
	}
	return total
}
