package core_test

import (
	"context"
	"testing"
	"time"

	"erp-core/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func seedCurrencies(t *testing.T, pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), `
		INSERT INTO currencies (code, convertible, fixed_rate, changeover_date) VALUES
			('EUR', true, NULL, NULL),
			('FRF', true, 6.55957, '1999-01-01'),
			('USD', true, NULL, NULL),
			('XXX', false, NULL, NULL);

		INSERT INTO currency_rates (rate_type, source_code, dest_code, rate_date, inverse_rate, divisor) VALUES
			('DAILY', 'USD', 'EUR', '2025-02-01', 0.9300, 1),
			('DAILY', 'USD', 'EUR', '2025-02-28', 0.9221, 1),
			('DAILY', 'USD', 'EUR', '2025-03-15', 0.9100, 1);
	`)
	if err != nil {
		t.Fatalf("failed to seed currencies: %v", err)
	}
}

func TestRateSeries_PointInTimeLookup(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedCurrencies(t, pool)

	series := core.NewRateSeries(pool)
	ctx := context.Background()

	// 2025-03-01 must pick the 02-28 observation, not the later one.
	asOf := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	quote, found, err := series.RateAt(ctx, "DAILY", "USD", "EUR", asOf)
	if err != nil {
		t.Fatalf("RateAt: %v", err)
	}
	if !found {
		t.Fatal("expected an observation at or before 2025-03-01")
	}
	want := decimal.NewFromInt(1).DivRound(decimal.RequireFromString("0.9221"), 10)
	if !quote.Rate.Equal(want) {
		t.Errorf("rate = %s, want %s", quote.Rate, want)
	}

	// Before the first observation: neutral, not found, no error.
	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	quote, found, err = series.RateAt(ctx, "DAILY", "USD", "EUR", early)
	if err != nil {
		t.Fatalf("RateAt early: %v", err)
	}
	if found {
		t.Error("expected no observation before the series starts")
	}
	if !quote.Rate.Equal(decimal.NewFromInt(1)) || !quote.Divisor.Equal(decimal.NewFromInt(1)) {
		t.Errorf("neutral quote = %s/%s, want 1/1", quote.Rate, quote.Divisor)
	}
}

func TestCurrencyRegistry_NeutralForUnknown(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedCurrencies(t, pool)

	registry := core.NewCurrencyRegistry(pool)
	ctx := context.Background()

	cur, found, err := registry.GetCurrency(ctx, "ZZZ")
	if err != nil {
		t.Fatalf("GetCurrency: %v", err)
	}
	if found {
		t.Error("unknown code reported as found")
	}
	if cur.Convertible || cur.HasFixedRate || !cur.ChangeoverDate.IsZero() {
		t.Errorf("neutral record not neutral: %+v", cur)
	}

	frf, found, err := registry.GetCurrency(ctx, "FRF")
	if err != nil {
		t.Fatalf("GetCurrency FRF: %v", err)
	}
	if !found || !frf.HasFixedRate || !frf.FixedRate.Equal(decimal.RequireFromString("6.55957")) {
		t.Errorf("FRF record = %+v, want fixed 6.55957", frf)
	}
}

func TestRateResolver_EndToEnd(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	seedCurrencies(t, pool)

	resolver := core.NewRateResolver(core.NewCurrencyRegistry(pool), core.NewRateSeries(pool))
	ctx := context.Background()
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	res, err := resolver.Resolve(ctx, "EUR", "EUR", "USD", "DAILY", date)
	if err != nil {
		t.Fatalf("Resolve market: %v", err)
	}
	if res.Status != core.RateFromMarket {
		t.Errorf("status = %d, want market", res.Status)
	}
	want := decimal.NewFromInt(1).DivRound(decimal.RequireFromString("0.9221"), 10)
	if !res.Rate.Equal(want) {
		t.Errorf("rate = %s, want %s", res.Rate, want)
	}

	res, err = resolver.Resolve(ctx, "EUR", "EUR", "FRF", "DAILY", date)
	if err != nil {
		t.Fatalf("Resolve fixed: %v", err)
	}
	if res.Status != core.RateFromFixed || !res.Rate.Equal(decimal.RequireFromString("6.55957")) {
		t.Errorf("fixed result = %s status %d, want 6.55957 status 1", res.Rate, res.Status)
	}

	res, err = resolver.Resolve(ctx, "EUR", "EUR", "XXX", "DAILY", date)
	if err != nil {
		t.Fatalf("Resolve excluded: %v", err)
	}
	if res.Status != core.RateDestExcluded {
		t.Errorf("status = %d, want destination excluded", res.Status)
	}
}
