package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType identifies what a counter component renders into the
// final document number. The empty string marks an unused slot; rendering
// stops at the first unused slot.
type ComponentType string

const (
	ComponentUnset      ComponentType = ""
	ComponentConstant   ComponentType = "CONSTANT"
	ComponentYear       ComponentType = "YEAR"
	ComponentMonth      ComponentType = "MONTH"
	ComponentWeek       ComponentType = "WEEK"
	ComponentDay        ComponentType = "DAY"
	ComponentCompany    ComponentType = "COMPANY"
	ComponentSite       ComponentType = "SITE"
	ComponentSequence   ComponentType = "SEQUENCE_NUMBER"
	ComponentComplement ComponentType = "COMPLEMENT"
)

// RTZPolicy controls how often a sequence counter resets to zero.
type RTZPolicy string

const (
	RTZNone      RTZPolicy = "none"
	RTZAnnual    RTZPolicy = "annual"
	RTZMonthly   RTZPolicy = "monthly"
	RTZDecennial RTZPolicy = "decennial"
)

// DefinitionLevel is the partition under which a counter is tracked.
type DefinitionLevel string

const (
	LevelGlobal      DefinitionLevel = "global"
	LevelLegalEntity DefinitionLevel = "legal_entity"
	LevelSite        DefinitionLevel = "site"
)

// ChronoControl affects how COMPANY/SITE components are fitted to their
// configured width. Under ChronoPadded a short code is right-padded with
// underscores so the rendered number keeps a fixed layout.
type ChronoControl string

const (
	ChronoNone   ChronoControl = "none"
	ChronoStrict ChronoControl = "strict"
	ChronoPadded ChronoControl = "padded"
)

// ValueType distinguishes counters whose rendered number must collapse to
// a plain integer from free-form alphanumeric ones.
type ValueType string

const (
	ValueAlphanumeric ValueType = "alphanumeric"
	ValueNumeric      ValueType = "numeric"
)

// CounterComponent is one slot of a counter definition's template.
// Length semantics vary by type: digit width for SEQUENCE_NUMBER,
// substring width for COMPANY/SITE/COMPLEMENT, sub-format selector for
// YEAR/MONTH/DAY.
type CounterComponent struct {
	Type     ComponentType `json:"type"`
	Length   int           `json:"length"`
	Constant string        `json:"constant,omitempty"`
}

// CounterDefinition is the declarative template for one document number
// series. Loaded read-only per call; never mutated by this package.
type CounterDefinition struct {
	Code       string             `json:"code"`
	RTZ        RTZPolicy          `json:"rtz_level"`
	Level      DefinitionLevel    `json:"definition_level"`
	Chrono     ChronoControl      `json:"chronological_control"`
	ValueType  ValueType          `json:"value_type"`
	Components []CounterComponent `json:"components"`
}

// SequenceIndex returns the position of the SEQUENCE_NUMBER component, or
// -1 when the definition has none (numbering is then a no-op).
func (d *CounterDefinition) SequenceIndex() int {
	for i, c := range d.Components {
		if c.Type == ComponentUnset {
			break
		}
		if c.Type == ComponentSequence {
			return i
		}
	}
	return -1
}

// HasComplement reports whether the template declares a COMPLEMENT slot.
// Without one, caller-supplied complements are discarded before keying.
func (d *CounterDefinition) HasComplement() bool {
	for _, c := range d.Components {
		if c.Type == ComponentUnset {
			break
		}
		if c.Type == ComponentComplement {
			return true
		}
	}
	return false
}

// SequenceCounter is the single mutable row this package owns: the current
// value of one (definition, scope, period, complement) series.
type SequenceCounter struct {
	ID         string    `json:"id"`
	Definition string    `json:"definition_code"`
	Scope      string    `json:"scope"`
	Period     int       `json:"period"`
	Complement string    `json:"complement"`
	Value      int64     `json:"value"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Currency carries a currency's relationship to the pivot currency.
// A zero ChangeoverDate is the "no date" sentinel: the fixed rate has
// always applied.
type Currency struct {
	Code           string          `json:"code"`
	Convertible    bool            `json:"convertible"`
	FixedRate      decimal.Decimal `json:"fixed_rate"`
	HasFixedRate   bool            `json:"has_fixed_rate"`
	ChangeoverDate time.Time       `json:"changeover_date"`
}

// NeutralCurrency is the record returned for unknown codes: excluded from
// conversion, zero rate, lowest-possible changeover. Callers treat it as
// "no conversion available".
func NeutralCurrency(code string) Currency {
	return Currency{Code: code}
}

// FixedRateApplies reports whether the legacy fixed rate is in force on
// the given date: the currency is convertible, carries a fixed rate, and
// the changeover has happened (or never had a date).
func (c Currency) FixedRateApplies(on time.Time) bool {
	if !c.Convertible || !c.HasFixedRate {
		return false
	}
	return c.ChangeoverDate.IsZero() || !c.ChangeoverDate.After(on)
}

// RateStatus tags which resolution path produced a conversion rate.
// Callers branch on it; a degraded resolution is visible only here.
type RateStatus int

const (
	RateFromMarket     RateStatus = 0 // time-series observation (or neutral default)
	RateFromFixed      RateStatus = 1 // legacy fixed rate versus the pivot
	RateSourceExcluded RateStatus = 2 // source currency not convertible
	RateDestExcluded   RateStatus = 3 // destination currency not convertible
)

// RateQuote is one point-in-time market observation, already normalized
// to a forward rate plus its divisor.
type RateQuote struct {
	Rate    decimal.Decimal `json:"rate"`
	Divisor decimal.Decimal `json:"divisor"`
}

// RateResult is the full outcome of a rate resolution. Amounts convert as
// amount * Rate / Divisor.
type RateResult struct {
	Rate    decimal.Decimal `json:"rate"`
	Divisor decimal.Decimal `json:"divisor"`
	Status  RateStatus      `json:"status"`
}

// neutralResult is the conservative default handed back when nothing
// resolves: a 1:1 conversion tagged with the given status.
func neutralResult(status RateStatus) RateResult {
	one := decimal.NewFromInt(1)
	return RateResult{Rate: one, Divisor: one, Status: status}
}
