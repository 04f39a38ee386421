package report

import "testing"

func TestMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{1234.5, "R$ 1.234,50"},
		{1234567.891, "R$ 1.234.567,89"},
		{0.005, "R$ 0,01"},
		{-1625, "-R$ 1.625,00"},
	}
	for _, tt := range tests {
		if got := Money(tt.in); got != tt.want {
			t.Fatalf("Money(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoundCents_HalfAwayFromZero(t *testing.T) {
	if got := RoundCents(2.345).String(); got != "2.35" {
		t.Fatalf("RoundCents(2.345) = %s", got)
	}
	if got := RoundCents(-2.345).String(); got != "-2.35" {
		t.Fatalf("RoundCents(-2.345) = %s", got)
	}
}

func TestPercentAndQuantity(t *testing.T) {
	if got := Percent(62.5); got != "62,50%" {
		t.Fatalf("Percent = %q", got)
	}
	if got := Quantity(1500); got != "1.500" {
		t.Fatalf("Quantity(1500) = %q", got)
	}
	if got := Quantity(2.5); got != "2,50" {
		t.Fatalf("Quantity(2.5) = %q", got)
	}
}
