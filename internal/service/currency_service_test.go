package service

import (
	"testing"
	"time"

	"github.com/aluvasquez/schoolledger/internal/clock"
	"github.com/aluvasquez/schoolledger/internal/domain"
	"github.com/aluvasquez/schoolledger/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCurrencyService_PutRate_Success(t *testing.T) {
	rateRepo := testutil.NewMockExchangeRateRepository()
	svc := NewCurrencyService(rateRepo, clock.Real{})

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rate, err := svc.PutRate(domain.USD, domain.VES, date, decimal.NewFromFloat(40))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !rate.Rate.Equal(decimal.NewFromFloat(40)) {
		t.Errorf("expected rate 40, got %s", rate.Rate.String())
	}
}

func TestCurrencyService_PutRate_DuplicateConflicts(t *testing.T) {
	rateRepo := testutil.NewMockExchangeRateRepository()
	svc := NewCurrencyService(rateRepo, clock.Real{})

	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.PutRate(domain.USD, domain.VES, date, decimal.NewFromFloat(40)); err != nil {
		t.Fatalf("expected no error on first insert, got %v", err)
	}
	if _, err := svc.PutRate(domain.USD, domain.VES, date, decimal.NewFromFloat(41)); err != domain.ErrAlreadyExists {
		t.Errorf("expected ErrAlreadyExists on duplicate (from, to, date), got %v", err)
	}
}

func TestCurrencyService_ConvertToVES(t *testing.T) {
	rateRepo := testutil.NewMockExchangeRateRepository()
	svc := NewCurrencyService(rateRepo, clock.Real{})

	onDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if _, err := svc.PutRate(domain.USD, domain.VES, onDate, decimal.NewFromFloat(40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vesAmount, rate, err := svc.ConvertToVES(decimal.NewFromFloat(10), domain.USD, onDate.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !vesAmount.Equal(decimal.NewFromFloat(400)) {
		t.Errorf("expected 400 VES, got %s", vesAmount.String())
	}
	if rate == nil || !rate.Equal(decimal.NewFromFloat(40)) {
		t.Errorf("expected the resolved rate to be 40, got %v", rate)
	}

	vesPassthrough, noRate, err := svc.ConvertToVES(decimal.NewFromFloat(10), domain.VES, onDate)
	if err != nil {
		t.Fatalf("expected no error converting VES to VES, got %v", err)
	}
	if !vesPassthrough.Equal(decimal.NewFromFloat(10)) {
		t.Errorf("expected VES amounts to pass through unchanged, got %s", vesPassthrough.String())
	}
	if noRate != nil {
		t.Error("expected no rate pointer for a VES-to-VES conversion")
	}
}

func TestCurrencyService_ConvertToVES_MissingRate(t *testing.T) {
	rateRepo := testutil.NewMockExchangeRateRepository()
	svc := NewCurrencyService(rateRepo, clock.Real{})

	_, _, err := svc.ConvertToVES(decimal.NewFromFloat(10), domain.USD, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if _, ok := err.(domain.ErrRateMissing); !ok {
		t.Fatalf("expected ErrRateMissing, got %v", err)
	}
}

func TestCurrencyService_DailyStatus_NoRatePublished(t *testing.T) {
	rateRepo := testutil.NewMockExchangeRateRepository()
	fixedNow := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewCurrencyService(rateRepo, clock.Fixed{At: fixedNow})

	status, err := svc.DailyStatus()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !status.NeedsUpdate {
		t.Error("expected NeedsUpdate to be true when no rate has ever been published")
	}
}

func TestCurrencyService_DailyStatus_Current(t *testing.T) {
	rateRepo := testutil.NewMockExchangeRateRepository()
	fixedNow := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc := NewCurrencyService(rateRepo, clock.Fixed{At: fixedNow})

	today := clock.Fixed{At: fixedNow}.LocalToday(clock.Caracas)
	if _, err := svc.PutRate(domain.USD, domain.VES, today, decimal.NewFromFloat(40)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := svc.DailyStatus()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status.NeedsUpdate {
		t.Error("expected NeedsUpdate to be false once today's rate is published")
	}
}
