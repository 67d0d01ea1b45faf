package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"loan-calculator/domain"
	"loan-calculator/export"
	"loan-calculator/logging"
	"loan-calculator/repository"
)

// ExportService renders downloadable schedules. Rendered files are kept in
// the cache repository and concurrent renders of the same file are shared.
type ExportService struct {
	cache  repository.CacheRepository
	ttl    time.Duration
	symbol string
	group  singleflight.Group
	render func(io.Writer, export.Format, export.Document) error
	logger *logging.Logger
}

func NewExportService(
	cache repository.CacheRepository,
	ttl time.Duration,
	currencySymbol string,
	logger *logging.Logger,
) *ExportService {
	if cache == nil {
		cache = repository.NewMemoryCache()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ExportService{
		cache:  cache,
		ttl:    ttl,
		symbol: currencySymbol,
		render: export.Write,
		logger: logger.WithComponent(logging.ComponentExport),
	}
}

func (s *ExportService) cacheKey(req domain.LoanRequest, format export.Format) string {
	return fmt.Sprintf("export:%s:%s:%s:%s:%d",
		format,
		s.symbol,
		strconv.FormatFloat(req.Principal, 'f', -1, 64),
		strconv.FormatFloat(req.AnnualRatePercent, 'f', -1, 64),
		req.TermMonths,
	)
}

// Render returns the file for req in the given format.
func (s *ExportService) Render(
	ctx context.Context,
	req domain.LoanRequest,
	format export.Format,
) ([]byte, error) {
	format, err := export.ParseFormat(string(format))
	if err != nil {
		return nil, err
	}
	if err := checkBounds(req); err != nil {
		return nil, err
	}

	key := s.cacheKey(req, format)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return []byte(cached), nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		result, err := Amortize(req)
		if err != nil {
			return nil, err
		}

		var buf bytes.Buffer
		doc := export.Document{Request: req, Result: result, CurrencySymbol: s.symbol}
		if err := s.render(&buf, format, doc); err != nil {
			return nil, fmt.Errorf("render %s export: %w", format, err)
		}

		// other callers share this render, so the leader's cancellation must not drop the entry
		if err := s.cache.Set(context.WithoutCancel(ctx), key, buf.String(), s.ttl); err != nil {
			s.logger.Warn("failed to cache export",
				logging.FieldOperation, logging.OpExport,
				logging.FieldFormat, string(format),
				logging.FieldError, err,
			)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("export rendered",
		logging.FieldOperation, logging.OpExport,
		logging.FieldFormat, string(format),
		"shared", shared,
	)

	data := v.([]byte)
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
