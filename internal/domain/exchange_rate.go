package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a per-day (from, to, rate) triple. Rows are monotone and
// immutable in practice; only corrective updates touch an existing row.
type ExchangeRate struct {
	ID           int32           `json:"id"`
	FromCurrency Currency        `json:"fromCurrency"`
	ToCurrency   Currency        `json:"toCurrency"`
	RateDate     time.Time       `json:"rateDate"`
	Rate         decimal.Decimal `json:"rate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func (e *ExchangeRate) Validate() error {
	if !e.FromCurrency.IsValid() || !e.ToCurrency.IsValid() {
		return ErrCurrencyNotSupported
	}
	if e.FromCurrency == VES {
		return NewBusinessRuleViolation("exchange_rate_from_ves", "from_currency must not be VES")
	}
	if e.ToCurrency != VES {
		return NewBusinessRuleViolation("exchange_rate_to_not_ves", "to_currency must be VES")
	}
	if e.Rate.LessThanOrEqual(decimal.Zero) {
		return NewBusinessRuleViolation("exchange_rate_nonpositive", "rate must be positive")
	}
	return nil
}

// DailyRateStatus reports whether the latest known rate for USD->VES is
// stale relative to today.
type DailyRateStatus struct {
	NeedsUpdate    bool       `json:"needsUpdate"`
	LatestRateDate *time.Time `json:"latestRateDate,omitempty"`
	Message        string     `json:"message"`
}

type ExchangeRateRepository interface {
	Create(rate *ExchangeRate) (*ExchangeRate, error)
	Update(rate *ExchangeRate) (*ExchangeRate, error)
	GetExact(from, to Currency, date time.Time) (*ExchangeRate, error)
	// GetLatestOnOrBefore returns the row with the greatest rate_date <= date,
	// tie-broken by creation time descending. Returns nil, nil if none exists.
	GetLatestOnOrBefore(from, to Currency, date time.Time) (*ExchangeRate, error)
}
