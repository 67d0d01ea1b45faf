package service

import "time"

const (
	MaxLoanAmount   = 1_000_000_000.0 // 1 billion
	MaxInterestRate = 1000.0          // 1000% per year
	MaxTermMonths   = 600             // 50 years
	MinTermMonths   = 1

	// widest term range evaluated by a recommendation (10 years)
	MaxTermRangeMonths = 120

	DefaultExportTTL = 10 * time.Minute
)
