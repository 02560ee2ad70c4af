package app

import "context"

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from the engines; implementations contain no
// display logic.
type ApplicationService interface {
	// NextDocumentNumber reserves and formats the next number for a
	// counter code.
	NextDocumentNumber(ctx context.Context, req NumberRequest) (*NumberResult, error)

	// ResolveRate resolves one conversion rate through the pivot currency.
	ResolveRate(ctx context.Context, req RateRequest) (*RateResult, error)

	// ResolveLedgerRates resolves a rate per target ledger currency, in
	// parallel, indexed by ledger slot.
	ResolveLedgerRates(ctx context.Context, req LedgerRatesRequest) (*LedgerRatesResult, error)

	// Health verifies database connectivity.
	Health(ctx context.Context) error
}

// NumberRequest asks for the next document number. Date is YYYY-MM-DD;
// Complement is optional and ignored unless the counter declares a
// COMPLEMENT component.
type NumberRequest struct {
	CounterCode string `json:"counter_code"`
	Company     string `json:"company"`
	Site        string `json:"site"`
	Date        string `json:"date"`
	Complement  string `json:"complement,omitempty"`
}

// NumberResult carries the formatted number. Number is "" when the
// counter has no SEQUENCE_NUMBER component (documented no-op).
type NumberResult struct {
	CounterCode string `json:"counter_code"`
	Number      string `json:"number"`
}

// RateRequest asks for one conversion rate. Pivot overrides the server's
// configured pivot currency when non-empty.
type RateRequest struct {
	Pivot        string `json:"pivot,omitempty"`
	OrgCurrency  string `json:"org_currency"`
	DestCurrency string `json:"dest_currency"`
	RateType     string `json:"rate_type"`
	Date         string `json:"date"`
}

// RateResult is one resolved rate. Rate and Divisor are decimal strings;
// Status is the resolution-path tag callers branch on.
type RateResult struct {
	Rate    string `json:"rate"`
	Divisor string `json:"divisor"`
	Status  int    `json:"status"`
}

// LedgerRatesRequest asks for one rate per target ledger currency for a
// document. At most ten ledgers.
type LedgerRatesRequest struct {
	Pivot            string   `json:"pivot,omitempty"`
	OrgCurrency      string   `json:"org_currency"`
	LedgerCurrencies []string `json:"ledger_currencies"`
	RateType         string   `json:"rate_type"`
	Date             string   `json:"date"`
}

// LedgerRatesResult is the ordered per-slot outcome of a ledger fan-out.
type LedgerRatesResult struct {
	Rates []RateResult `json:"rates"`
}
