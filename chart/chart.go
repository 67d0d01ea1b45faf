// Package chart draws the balance and payment composition charts of a schedule.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"loan-calculator/domain"
	"loan-calculator/money"
)

const (
	balanceColor   = "#1f77b4"
	principalColor = "#2ca02c"
	interestColor  = "#ff7f0e"
)

func paymentIndexes(schedule []domain.PaymentRow) []int {
	xs := make([]int, len(schedule))
	for i, row := range schedule {
		xs[i] = row.Index
	}
	return xs
}

// Balance plots the remaining balance after each payment.
func Balance(schedule []domain.PaymentRow, symbol string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Outstanding Balance"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Payment #"}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("Balance (%s)", symbol)}),
	)

	data := make([]opts.LineData, len(schedule))
	for i, row := range schedule {
		data[i] = opts.LineData{Value: money.Round(row.RemainingBalance)}
	}

	line.SetXAxis(paymentIndexes(schedule)).
		AddSeries("Outstanding Balance", data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: balanceColor}),
		)
	return line
}

// Composition stacks the principal and interest portions of each payment.
func Composition(schedule []domain.PaymentRow, symbol string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Payment Composition: Principal vs Interest"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Payment #"}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("Amount (%s)", symbol)}),
	)

	principal := make([]opts.BarData, len(schedule))
	interest := make([]opts.BarData, len(schedule))
	for i, row := range schedule {
		principal[i] = opts.BarData{Value: money.Round(row.PrincipalPortion)}
		interest[i] = opts.BarData{Value: money.Round(row.InterestPortion)}
	}

	bar.SetXAxis(paymentIndexes(schedule)).
		AddSeries("Principal", principal,
			charts.WithBarChartOpts(opts.BarChart{Stack: "payment"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: principalColor}),
		).
		AddSeries("Interest", interest,
			charts.WithBarChartOpts(opts.BarChart{Stack: "payment"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: interestColor}),
		)
	return bar
}

// RenderPage writes a standalone HTML page holding both charts.
func RenderPage(w io.Writer, title string, schedule []domain.PaymentRow, symbol string) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(
		Balance(schedule, symbol),
		Composition(schedule, symbol),
	)

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render chart page: %w", err)
	}
	return nil
}
