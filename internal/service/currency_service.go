package service

import (
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/shopspring/decimal"
)

// CurrencyService is the Currency & Rate Service (C1): it stores per-day
// exchange rate rows and resolves "rate valid on date D" by latest-on-or-before.
type CurrencyService struct {
	rateRepo domain.ExchangeRateRepository
	clock    clock.Clock
}

func NewCurrencyService(rateRepo domain.ExchangeRateRepository, clk clock.Clock) *CurrencyService {
	return &CurrencyService{rateRepo: rateRepo, clock: clk}
}

// PutRate stores a new (from, to, date) rate. Fails with conflict if the
// triple already exists.
func (s *CurrencyService) PutRate(from, to domain.Currency, date time.Time, rate decimal.Decimal) (*domain.ExchangeRate, error) {
	existing, err := s.rateRepo.GetExact(from, to, date)
	if err != nil && err != domain.ErrExchangeRateNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyExists
	}

	row := &domain.ExchangeRate{
		FromCurrency: from,
		ToCurrency:   to,
		RateDate:     date,
		Rate:         rate,
	}
	if err := row.Validate(); err != nil {
		return nil, err
	}
	return s.rateRepo.Create(row)
}

// UpdateRate corrects an existing rate row.
func (s *CurrencyService) UpdateRate(id int32, rate decimal.Decimal) (*domain.ExchangeRate, error) {
	if rate.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewBusinessRuleViolation("exchange_rate_nonpositive", "rate must be positive")
	}
	// The repository resolves the existing row by id internally; callers
	// that need the full entity should fetch-then-update through GetExact.
	return s.rateRepo.Update(&domain.ExchangeRate{ID: id, Rate: rate})
}

// LatestRate returns the row with the greatest rate_date <= onDate, or nil
// if none exists — absence is not a failure; callers decide.
func (s *CurrencyService) LatestRate(from, to domain.Currency, onDate time.Time) (*domain.ExchangeRate, error) {
	return s.rateRepo.GetLatestOnOrBefore(from, to, onDate)
}

// DailyStatus compares today (in the emitter's local civil timezone) against
// the latest known USD->VES rate date.
func (s *CurrencyService) DailyStatus() (*domain.DailyRateStatus, error) {
	today := s.clock.LocalToday(clock.Caracas)
	latest, err := s.rateRepo.GetLatestOnOrBefore(domain.USD, domain.VES, today)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return &domain.DailyRateStatus{
			NeedsUpdate: true,
			Message:     "no USD/VES exchange rate has ever been published",
		}, nil
	}
	needsUpdate := latest.RateDate.Before(today)
	msg := "exchange rate is current"
	if needsUpdate {
		msg = "exchange rate has not been updated today"
	}
	return &domain.DailyRateStatus{
		NeedsUpdate:    needsUpdate,
		LatestRateDate: &latest.RateDate,
		Message:        msg,
	}, nil
}

// ConvertToVES is the conversion contract used everywhere: VES amounts pass
// through unchanged; other currencies consult LatestRate and fail with
// ErrRateMissing if none is published for onDate.
func (s *CurrencyService) ConvertToVES(amount decimal.Decimal, currency domain.Currency, onDate time.Time) (decimal.Decimal, *decimal.Decimal, error) {
	if currency == domain.VES {
		return amount, nil, nil
	}
	rate, err := s.rateRepo.GetLatestOnOrBefore(currency, domain.VES, onDate)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if rate == nil {
		return decimal.Zero, nil, domain.ErrRateMissing{CurrencyCode: string(currency), Date: onDate.Format("2006-01-02")}
	}
	return domain.Round2(amount.Mul(rate.Rate)), &rate.Rate, nil
}

// ConvertFromVES back-converts a VES amount to an original currency at the
// latest rate on or before onDate, used when crediting payment amounts made
// in a different currency than the charge's original currency (§4.4).
func (s *CurrencyService) ConvertFromVES(amountVES decimal.Decimal, currency domain.Currency, onDate time.Time) (decimal.Decimal, error) {
	if currency == domain.VES {
		return amountVES, nil
	}
	rate, err := s.rateRepo.GetLatestOnOrBefore(currency, domain.VES, onDate)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, domain.ErrRateMissing{CurrencyCode: string(currency), Date: onDate.Format("2006-01-02")}
	}
	return domain.Round2(amountVES.Div(rate.Rate)), nil
}
