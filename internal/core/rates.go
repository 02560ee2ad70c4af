package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MaxLedgers is how many parallel books of account one document can post
// into, and therefore the fan-out ceiling of ResolveLedgers.
const MaxLedgers = 10

// RateResolver resolves a conversion rate between two currencies through
// the pivot currency. Business-level "no rate" outcomes degrade to a
// neutral result plus a status code; only infrastructure failures return
// an error.
type RateResolver interface {
	Resolve(ctx context.Context, pivot, org, dest, rateType string, date time.Time) (RateResult, error)
	// ResolveLedgers resolves one rate per target ledger currency in
	// parallel. Results are indexed by ledger slot; a blank destination or
	// one equal to the source short-circuits to the neutral result.
	ResolveLedgers(ctx context.Context, pivot, org string, dests []string, rateType string, date time.Time) ([]RateResult, error)
}

type rateResolver struct {
	currencies CurrencyRegistry
	rates      RateSeries
}

// NewRateResolver wires the resolution engine over a currency registry
// and a market rate series.
func NewRateResolver(currencies CurrencyRegistry, rates RateSeries) RateResolver {
	return &rateResolver{currencies: currencies, rates: rates}
}

func (r *rateResolver) Resolve(ctx context.Context, pivot, org, dest, rateType string, date time.Time) (RateResult, error) {
	if org == dest {
		return neutralResult(RateFromMarket), nil
	}

	switch {
	case org == pivot:
		return r.resolveFromPivot(ctx, pivot, dest, rateType, date)
	case dest == pivot:
		return r.resolveToPivot(ctx, pivot, org, rateType, date)
	default:
		return r.resolveTriangulated(ctx, pivot, org, dest, rateType, date)
	}
}

// resolveFromPivot converts pivot -> dest.
func (r *rateResolver) resolveFromPivot(ctx context.Context, pivot, dest, rateType string, date time.Time) (RateResult, error) {
	cur, _, err := r.currencies.GetCurrency(ctx, dest)
	if err != nil {
		return RateResult{}, err
	}
	if !cur.Convertible {
		return neutralResult(RateDestExcluded), nil
	}
	if cur.FixedRateApplies(date) {
		return RateResult{Rate: cur.FixedRate, Divisor: decimal.NewFromInt(1), Status: RateFromFixed}, nil
	}
	quote, _, err := r.rates.RateAt(ctx, rateType, dest, pivot, date)
	if err != nil {
		return RateResult{}, err
	}
	return RateResult{Rate: quote.Rate, Divisor: quote.Divisor, Status: RateFromMarket}, nil
}

// resolveToPivot converts org -> pivot. The fixed-rate path inverts the
// stored pivot rate.
func (r *rateResolver) resolveToPivot(ctx context.Context, pivot, org, rateType string, date time.Time) (RateResult, error) {
	cur, _, err := r.currencies.GetCurrency(ctx, org)
	if err != nil {
		return RateResult{}, err
	}
	if !cur.Convertible {
		return neutralResult(RateSourceExcluded), nil
	}
	if cur.FixedRateApplies(date) {
		return RateResult{Rate: invertFixed(cur.FixedRate), Divisor: decimal.NewFromInt(1), Status: RateFromFixed}, nil
	}
	quote, _, err := r.rates.RateAt(ctx, rateType, pivot, org, date)
	if err != nil {
		return RateResult{}, err
	}
	return RateResult{Rate: quote.Rate, Divisor: quote.Divisor, Status: RateFromMarket}, nil
}

// resolveTriangulated converts org -> dest where neither side is the
// pivot. A direct observation between the two wins; otherwise the result
// composes the two one-hop legs through the pivot.
func (r *rateResolver) resolveTriangulated(ctx context.Context, pivot, org, dest, rateType string, date time.Time) (RateResult, error) {
	orgCur, _, err := r.currencies.GetCurrency(ctx, org)
	if err != nil {
		return RateResult{}, err
	}
	destCur, _, err := r.currencies.GetCurrency(ctx, dest)
	if err != nil {
		return RateResult{}, err
	}

	if !orgCur.Convertible {
		return neutralResult(RateSourceExcluded), nil
	}
	if !destCur.Convertible {
		return neutralResult(RateDestExcluded), nil
	}

	// Both locked to the pivot: the ratio of the two fixed rates converts
	// directly, no market lookup involved.
	if orgCur.FixedRateApplies(date) && destCur.FixedRateApplies(date) {
		rate := decimal.NewFromInt(1)
		if !orgCur.FixedRate.IsZero() {
			rate = destCur.FixedRate.DivRound(orgCur.FixedRate, rateScale)
		}
		return RateResult{Rate: rate, Divisor: decimal.NewFromInt(1), Status: RateFromFixed}, nil
	}

	quote, found, err := r.rates.RateAt(ctx, rateType, dest, org, date)
	if err != nil {
		return RateResult{}, err
	}
	if found {
		return RateResult{Rate: quote.Rate, Divisor: quote.Divisor, Status: RateFromMarket}, nil
	}

	toPivot, err := r.legToPivot(ctx, pivot, orgCur, rateType, date)
	if err != nil {
		return RateResult{}, err
	}
	fromPivot, err := r.legFromPivot(ctx, pivot, destCur, rateType, date)
	if err != nil {
		return RateResult{}, err
	}

	return RateResult{
		Rate:    toPivot.Mul(fromPivot).Round(rateScale),
		Divisor: decimal.NewFromInt(1),
		Status:  RateFromMarket,
	}, nil
}

// legToPivot is the effective org -> pivot multiplier for one side of a
// triangulation: inverted fixed rate when it applies, else a one-hop
// market lookup, else neutral 1.
func (r *rateResolver) legToPivot(ctx context.Context, pivot string, cur Currency, rateType string, date time.Time) (decimal.Decimal, error) {
	if cur.FixedRateApplies(date) {
		return invertFixed(cur.FixedRate), nil
	}
	quote, _, err := r.rates.RateAt(ctx, rateType, pivot, cur.Code, date)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return effectiveRate(quote), nil
}

// legFromPivot is the effective pivot -> dest multiplier.
func (r *rateResolver) legFromPivot(ctx context.Context, pivot string, cur Currency, rateType string, date time.Time) (decimal.Decimal, error) {
	if cur.FixedRateApplies(date) {
		return cur.FixedRate, nil
	}
	quote, _, err := r.rates.RateAt(ctx, rateType, cur.Code, pivot, date)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return effectiveRate(quote), nil
}

// effectiveRate folds a quote's divisor into a single multiplier.
func effectiveRate(q RateQuote) decimal.Decimal {
	if q.Divisor.IsZero() || q.Divisor.Equal(decimal.NewFromInt(1)) {
		return q.Rate
	}
	return q.Rate.DivRound(q.Divisor, rateScale)
}

// invertFixed guards 1/rate against a zero stored fixed rate.
func invertFixed(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(1).DivRound(rate, rateScale)
}

func (r *rateResolver) ResolveLedgers(ctx context.Context, pivot, org string, dests []string, rateType string, date time.Time) ([]RateResult, error) {
	if len(dests) > MaxLedgers {
		return nil, fmt.Errorf("at most %d ledgers per document, got %d", MaxLedgers, len(dests))
	}

	results := make([]RateResult, len(dests))
	errs := make([]error, len(dests))

	var wg sync.WaitGroup
	for i, dest := range dests {
		if dest == "" || dest == org {
			results[i] = neutralResult(RateFromMarket)
			continue
		}
		wg.Add(1)
		go func(i int, dest string) {
			defer wg.Done()
			results[i], errs[i] = r.Resolve(ctx, pivot, org, dest, rateType, date)
		}(i, dest)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
