package app

import (
	"context"
	"fmt"
	"time"

	"erp-core/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

type appService struct {
	pool      *pgxpool.Pool
	numbering core.NumberingService
	rates     core.RateResolver
	pivot     string
}

// NewAppService wires the facade. pivot is the configured pivot currency
// used when a request does not name one.
func NewAppService(pool *pgxpool.Pool, numbering core.NumberingService, rates core.RateResolver, pivot string) ApplicationService {
	return &appService{pool: pool, numbering: numbering, rates: rates, pivot: pivot}
}

func (s *appService) NextDocumentNumber(ctx context.Context, req NumberRequest) (*NumberResult, error) {
	if req.CounterCode == "" {
		return nil, fmt.Errorf("counter_code is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	number, err := s.numbering.Next(ctx, req.CounterCode, req.Company, req.Site, date, req.Complement)
	if err != nil {
		return nil, err
	}
	return &NumberResult{CounterCode: req.CounterCode, Number: number}, nil
}

func (s *appService) ResolveRate(ctx context.Context, req RateRequest) (*RateResult, error) {
	if req.OrgCurrency == "" || req.DestCurrency == "" {
		return nil, fmt.Errorf("org_currency and dest_currency are required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	res, err := s.rates.Resolve(ctx, s.pivotFor(req.Pivot), req.OrgCurrency, req.DestCurrency, req.RateType, date)
	if err != nil {
		return nil, err
	}
	out := toRateResult(res)
	return &out, nil
}

func (s *appService) ResolveLedgerRates(ctx context.Context, req LedgerRatesRequest) (*LedgerRatesResult, error) {
	if req.OrgCurrency == "" {
		return nil, fmt.Errorf("org_currency is required")
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	results, err := s.rates.ResolveLedgers(ctx, s.pivotFor(req.Pivot), req.OrgCurrency, req.LedgerCurrencies, req.RateType, date)
	if err != nil {
		return nil, err
	}

	out := &LedgerRatesResult{Rates: make([]RateResult, len(results))}
	for i, r := range results {
		out.Rates[i] = toRateResult(r)
	}
	return out, nil
}

func (s *appService) Health(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *appService) pivotFor(override string) string {
	if override != "" {
		return override
	}
	return s.pivot
}

func toRateResult(r core.RateResult) RateResult {
	return RateResult{
		Rate:    r.Rate.String(),
		Divisor: r.Divisor.String(),
		Status:  int(r.Status),
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required (YYYY-MM-DD)")
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return date, nil
}
