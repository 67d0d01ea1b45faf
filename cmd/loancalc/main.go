// Command loancalc prints a loan summary and its amortization schedule in
// the terminal and can write the schedule to an .xlsx, .csv or .pdf file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"loan-calculator/config"
	"loan-calculator/domain"
	"loan-calculator/export"
	"loan-calculator/money"
	"loan-calculator/service"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Width(18)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6CBFE6")).Padding(0, 1)
	cellStyle  = lipgloss.NewStyle().Width(16).Align(lipgloss.Right)
)

func main() {
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	defaults := config.DefaultFormSettings()

	fs := flag.NewFlagSet("loancalc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	principal := fs.Float64("principal", defaults.Defaults.Principal, "loan amount")
	rate := fs.Float64("rate", defaults.Defaults.AnnualRatePercent, "annual interest rate in percent")
	months := fs.Int("months", defaults.Defaults.TermMonths, "term in months")
	exportPath := fs.String("export", "", "write the schedule to this file (.xlsx, .csv or .pdf)")
	showSchedule := fs.Bool("schedule", false, "print the full payment schedule")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	symbol := defaults.CurrencySymbol
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		form, err := config.LoadFormSettings(path)
		if err != nil {
			fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
			return 1
		}
		symbol = form.CurrencySymbol
	}

	req := domain.LoanRequest{Principal: *principal, AnnualRatePercent: *rate, TermMonths: *months}

	var format export.Format
	if *exportPath != "" {
		f, err := export.ParseFormat(filepath.Ext(*exportPath))
		if err != nil {
			fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
			return 1
		}
		format = f
	}

	result, err := service.NewLoanService(nil, nil, nil).Calculate(context.Background(), req)
	if err != nil {
		fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
		if errors.Is(err, domain.ErrInvalidInput) {
			return 1
		}
		return 3
	}

	fmt.Fprintln(stdout, renderSummary(req, result, symbol))
	if *showSchedule {
		fmt.Fprintln(stdout, renderSchedule(result.Schedule, symbol))
	}

	if *exportPath != "" {
		doc := export.Document{Request: req, Result: result, CurrencySymbol: symbol}
		if err := writeExport(*exportPath, format, doc); err != nil {
			fmt.Fprintln(stderr, errorStyle.Render(err.Error()))
			return 1
		}
		fmt.Fprintln(stdout, labelStyle.Render("Saved")+valueStyle.Render(*exportPath))
	}

	return 0
}

func renderSummary(req domain.LoanRequest, result domain.AmortizationResult, symbol string) string {
	lines := []string{
		titleStyle.Render("Loan Calculator"),
		"",
		labelStyle.Render("Loan Amount") + valueStyle.Render(money.Format(req.Principal, symbol)),
		labelStyle.Render("Annual Rate") + valueStyle.Render(money.Percent(req.AnnualRatePercent)),
		labelStyle.Render("Term") + valueStyle.Render(strconv.Itoa(req.TermMonths)+" months"),
		labelStyle.Render("Monthly Payment") + valueStyle.Render(money.Format(result.MonthlyPayment, symbol)),
		labelStyle.Render("Total Paid") + valueStyle.Render(money.Format(result.TotalPaid, symbol)),
		labelStyle.Render("Total Interest") + valueStyle.Render(money.Format(result.TotalInterest, symbol)),
	}
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderSchedule(schedule []domain.PaymentRow, symbol string) string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		cellStyle.Width(10).Render("Payment #"),
		cellStyle.Render("Payment"),
		cellStyle.Render("Principal"),
		cellStyle.Render("Interest"),
		cellStyle.Render("Balance"),
	)

	rows := []string{titleStyle.Render(header)}
	for _, row := range schedule {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			cellStyle.Width(10).Render(strconv.Itoa(row.Index)),
			cellStyle.Render(money.Format(row.Payment, symbol)),
			cellStyle.Render(money.Format(row.PrincipalPortion, symbol)),
			cellStyle.Render(money.Format(row.InterestPortion, symbol)),
			cellStyle.Render(money.Format(row.RemainingBalance, symbol)),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func writeExport(path string, format export.Format, doc export.Document) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	return export.Write(f, format, doc)
}
