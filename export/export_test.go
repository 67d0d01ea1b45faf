package export_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"loan-calculator/domain"
	"loan-calculator/export"
	"loan-calculator/service"
)

func testDocument(t *testing.T, req domain.LoanRequest) export.Document {
	t.Helper()
	result, err := service.Amortize(req)
	if err != nil {
		t.Fatalf("amortize: %v", err)
	}
	return export.Document{Request: req, Result: result, CurrencySymbol: "L."}
}

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want export.Format
		ok   bool
	}{
		{"csv", export.FormatCSV, true},
		{"XLSX", export.FormatXLSX, true},
		{".pdf", export.FormatPDF, true},
		{" csv ", export.FormatCSV, true},
		{"xls", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := export.ParseFormat(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Errorf("ParseFormat(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
			}
		} else if !errors.Is(err, export.ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) expected ErrUnknownFormat, got %v", tc.in, err)
		}
	}
}

func TestFilenameAndContentType(t *testing.T) {
	req := domain.LoanRequest{Principal: 100000.75, AnnualRatePercent: 5, TermMonths: 60}
	if got := export.Filename(req, export.FormatXLSX); got != "loan_amortization_100001.xlsx" {
		t.Errorf("unexpected filename %q", got)
	}
	if got := export.FormatCSV.ContentType(); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("unexpected csv content type %q", got)
	}
	if got := export.FormatPDF.ContentType(); got != "application/pdf" {
		t.Errorf("unexpected pdf content type %q", got)
	}
}

func TestWriteCSV(t *testing.T) {
	doc := testDocument(t, domain.LoanRequest{Principal: 12000, AnnualRatePercent: 0, TermMonths: 12})

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, doc); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv back: %v", err)
	}
	if len(records) != 13 {
		t.Fatalf("expected 13 lines, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "Payment #,Payment,Principal,Interest,Balance" {
		t.Errorf("unexpected header %v", records[0])
	}
	if strings.Join(records[1], ",") != "1,1000.00,1000.00,0.00,11000.00" {
		t.Errorf("unexpected first row %v", records[1])
	}
	if strings.Join(records[12], ",") != "12,1000.00,1000.00,0.00,0.00" {
		t.Errorf("unexpected last row %v", records[12])
	}
}

func TestWriteXLSX(t *testing.T) {
	doc := testDocument(t, domain.LoanRequest{Principal: 100000, AnnualRatePercent: 5, TermMonths: 60})

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, doc); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Summary" || sheets[1] != "Amortization Schedule" {
		t.Fatalf("unexpected sheets %v", sheets)
	}

	summary, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if len(summary) != 7 {
		t.Fatalf("expected 7 summary rows, got %d", len(summary))
	}
	if summary[4][0] != "Monthly Payment" || summary[4][1] != "L.1,887.12" {
		t.Errorf("unexpected monthly payment row %v", summary[4])
	}

	rows, err := f.GetRows("Amortization Schedule")
	if err != nil {
		t.Fatalf("read schedule: %v", err)
	}
	if len(rows) != 61 {
		t.Errorf("expected 61 schedule rows, got %d", len(rows))
	}
	if rows[0][0] != "Payment #" {
		t.Errorf("unexpected header %v", rows[0])
	}
}

func TestWritePDF(t *testing.T) {
	doc := testDocument(t, domain.LoanRequest{Principal: 250000, AnnualRatePercent: 6.5, TermMonths: 360})
	doc.CurrencySymbol = "€"

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, doc); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("output is not a PDF document")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	doc := testDocument(t, domain.LoanRequest{Principal: 1000, AnnualRatePercent: 1, TermMonths: 2})
	err := export.Write(&bytes.Buffer{}, export.Format("doc"), doc)
	if !errors.Is(err, export.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}
