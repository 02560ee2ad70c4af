package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// rateScale is the fractional precision every computed rate is rounded
// to, half-up.
const rateScale = 10

// CurrencyRegistry is the read-only view of a currency's pivot
// relationship. Unknown codes yield a neutral record with found=false,
// never an error.
type CurrencyRegistry interface {
	GetCurrency(ctx context.Context, code string) (Currency, bool, error)
}

// RateSeries is the point-in-time market rate lookup: the most recent
// observation at or before asOf. A missing rate yields the neutral 1:1
// quote with found=false, never an error.
type RateSeries interface {
	RateAt(ctx context.Context, rateType, source, dest string, asOf time.Time) (RateQuote, bool, error)
}

type pgCurrencyRegistry struct {
	pool *pgxpool.Pool
}

// NewCurrencyRegistry returns a CurrencyRegistry over the currencies table.
func NewCurrencyRegistry(pool *pgxpool.Pool) CurrencyRegistry {
	return &pgCurrencyRegistry{pool: pool}
}

func (r *pgCurrencyRegistry) GetCurrency(ctx context.Context, code string) (Currency, bool, error) {
	var (
		convertible bool
		fixedRate   *string
		changeover  *time.Time
	)
	err := r.pool.QueryRow(ctx, `
		SELECT convertible, fixed_rate::text, changeover_date
		FROM currencies WHERE code = $1
	`, code).Scan(&convertible, &fixedRate, &changeover)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NeutralCurrency(code), false, nil
		}
		return NeutralCurrency(code), false, fmt.Errorf("failed to fetch currency %s: %w", code, err)
	}

	cur := Currency{Code: code, Convertible: convertible}
	if fixedRate != nil {
		rate, err := decimal.NewFromString(*fixedRate)
		if err != nil {
			return NeutralCurrency(code), false, fmt.Errorf("invalid fixed rate for %s: %w", code, err)
		}
		cur.FixedRate = rate
		cur.HasFixedRate = true
	}
	if changeover != nil {
		cur.ChangeoverDate = *changeover
	}
	return cur, true, nil
}

type pgRateSeries struct {
	pool *pgxpool.Pool
}

// NewRateSeries returns a RateSeries over the currency_rates table.
func NewRateSeries(pool *pgxpool.Pool) RateSeries {
	return &pgRateSeries{pool: pool}
}

func (r *pgRateSeries) RateAt(ctx context.Context, rateType, source, dest string, asOf time.Time) (RateQuote, bool, error) {
	neutral := RateQuote{Rate: decimal.NewFromInt(1), Divisor: decimal.NewFromInt(1)}

	var inverseStr, divisorStr string
	err := r.pool.QueryRow(ctx, `
		SELECT inverse_rate::text, divisor::text
		FROM currency_rates
		WHERE rate_type = $1 AND source_code = $2 AND dest_code = $3 AND rate_date <= $4
		ORDER BY rate_date DESC
		LIMIT 1
	`, rateType, source, dest, asOf).Scan(&inverseStr, &divisorStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return neutral, false, nil
		}
		return neutral, false, fmt.Errorf("failed to fetch rate %s %s/%s: %w", rateType, source, dest, err)
	}

	inverse, err := decimal.NewFromString(inverseStr)
	if err != nil {
		return neutral, false, fmt.Errorf("invalid inverse rate for %s/%s: %w", source, dest, err)
	}
	divisor, err := decimal.NewFromString(divisorStr)
	if err != nil {
		return neutral, false, fmt.Errorf("invalid divisor for %s/%s: %w", source, dest, err)
	}
	if inverse.IsZero() {
		// A zero inverse cannot produce a rate; treat the observation as absent.
		return neutral, false, nil
	}

	return RateQuote{Rate: divisor.DivRound(inverse, rateScale), Divisor: divisor}, true, nil
}
