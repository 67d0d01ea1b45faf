package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"loan-calculator/domain"

	_ "modernc.org/sqlite"
)

// SQLiteRepository keeps the calculation audit log in a SQLite file.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Save implements LoanRepository.
func (r *SQLiteRepository) Save(ctx context.Context, record domain.CalculationRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calculations (
			id, principal, annual_rate_percent, term_months,
			monthly_payment, total_payment, total_interest, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.Request.Principal,
		record.Request.AnnualRatePercent,
		record.Request.TermMonths,
		record.Summary.MonthlyPayment,
		record.Summary.TotalPayment,
		record.Summary.TotalInterest,
		record.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (r *SQLiteRepository) Recent(ctx context.Context, limit int) ([]domain.CalculationRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, principal, annual_rate_percent, term_months,
			monthly_payment, total_payment, total_interest, created_at
		FROM calculations
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	var records []domain.CalculationRecord
	for rows.Next() {
		var (
			rec       domain.CalculationRecord
			createdAt time.Time
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Request.Principal,
			&rec.Request.AnnualRatePercent,
			&rec.Request.TermMonths,
			&rec.Summary.MonthlyPayment,
			&rec.Summary.TotalPayment,
			&rec.Summary.TotalInterest,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}

	return records, nil
}
