package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"loan-calculator/money"
)

const (
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = 210.0 - marginLeft - marginRight
	rowHeight    = 6.0
)

var columnWidths = []float64{24, 39, 39, 39, 39}

type pdfReport struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
	doc Document
}

// WritePDF writes an A4 report: title, summary block, then the schedule
// table with its header repeated on every page.
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(false, marginBottom)

	r := &pdfReport{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		doc: doc,
	}

	r.addSummaryPage()
	r.addSchedule()

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *pdfReport) addSummaryPage() {
	p := r.pdf
	p.AddPage()

	p.SetFont("Arial", "B", 20)
	p.SetTextColor(0, 51, 102)
	p.CellFormat(contentWidth, 12, "Loan Amortization", "", 1, "C", false, 0, "")

	p.SetFont("Arial", "I", 10)
	p.SetTextColor(80, 80, 80)
	p.CellFormat(contentWidth, 6, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")
	p.Ln(8)

	p.SetFillColor(245, 247, 250)
	p.SetDrawColor(200, 200, 200)
	p.SetTextColor(50, 50, 50)
	for _, row := range r.doc.summaryRows() {
		p.SetFont("Arial", "B", 11)
		p.CellFormat(contentWidth/2, 8, r.tr(row[0]), "1", 0, "L", true, 0, "")
		p.SetFont("Arial", "", 11)
		p.CellFormat(contentWidth/2, 8, r.tr(row[1]), "1", 1, "R", false, 0, "")
	}
	p.Ln(8)
}

func (r *pdfReport) addTableHeader() {
	p := r.pdf
	p.SetFont("Arial", "B", 10)
	p.SetFillColor(0, 51, 102)
	p.SetTextColor(255, 255, 255)
	for i, h := range scheduleHeader {
		p.CellFormat(columnWidths[i], rowHeight+1, h, "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)
	p.SetFont("Arial", "", 9)
	p.SetTextColor(50, 50, 50)
}

func (r *pdfReport) addSchedule() {
	p := r.pdf
	r.addTableHeader()

	for _, row := range r.doc.Result.Schedule {
		if p.GetY()+rowHeight > pageHeight-marginBottom {
			p.AddPage()
			r.addTableHeader()
		}

		fill := row.Index%2 == 0
		p.SetFillColor(245, 247, 250)
		cells := []string{
			strconv.Itoa(row.Index),
			money.Plain(row.Payment),
			money.Plain(row.PrincipalPortion),
			money.Plain(row.InterestPortion),
			money.Plain(row.RemainingBalance),
		}
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "C"
			}
			p.CellFormat(columnWidths[i], rowHeight, c, "LR", 0, align, fill, 0, "")
		}
		p.Ln(-1)
	}

	p.CellFormat(contentWidth, 0, "", "T", 1, "", false, 0, "")
}
