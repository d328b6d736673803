package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrencyIsValid(t *testing.T) {
	if !VES.IsValid() || !USD.IsValid() || !EUR.IsValid() {
		t.Fatal("expected VES, USD, and EUR to be valid currencies")
	}
	if Currency("XYZ").IsValid() {
		t.Fatal("expected an unknown currency tag to be invalid")
	}
}

func TestRound2(t *testing.T) {
	got := Round2(decimal.NewFromFloat(10.005))
	if !got.Equal(decimal.NewFromFloat(10.01)) {
		t.Errorf("expected 10.01, got %s", got.String())
	}
}

func TestApproxEqual(t *testing.T) {
	a := decimal.NewFromFloat(100.0)
	b := decimal.NewFromFloat(100.0009)
	if !ApproxEqual(a, b) {
		t.Errorf("expected %s and %s to be approximately equal", a, b)
	}
	c := decimal.NewFromFloat(100.01)
	if ApproxEqual(a, c) {
		t.Errorf("expected %s and %s not to be approximately equal", a, c)
	}
}

func TestApproxGTE(t *testing.T) {
	if !ApproxGTE(decimal.NewFromFloat(100), decimal.NewFromFloat(100.0005)) {
		t.Error("expected a value within tolerance below b to count as >=")
	}
	if ApproxGTE(decimal.NewFromFloat(99), decimal.NewFromFloat(100)) {
		t.Error("expected a meaningfully smaller value to not count as >=")
	}
}

func TestClampNonNegative(t *testing.T) {
	if !ClampNonNegative(decimal.NewFromFloat(-5)).IsZero() {
		t.Error("expected a negative amount to clamp to zero")
	}
	positive := decimal.NewFromFloat(5)
	if !ClampNonNegative(positive).Equal(positive) {
		t.Error("expected a positive amount to pass through unchanged")
	}
}
