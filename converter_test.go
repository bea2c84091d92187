package tracker

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRateTable_Convert(t *testing.T) {
	rates := NewRateTable("USD")
	rates.Set("EUR", "USD", decimal.RequireFromString("1.25"))
	rates.Set("USD", "CHF", decimal.RequireFromString("0.8"))

	tests := []struct {
		name    string
		amount  Money
		to      string
		want    Money
		wantErr error
	}{
		{"identity", EUR(10), "EUR", EUR(10), nil},
		{"direct", EUR(10), "USD", USD(12.5), nil},
		{"inverse", USD(12.5), "EUR", EUR(10), nil},
		{"pivot", EUR(10), "CHF", M(10, "CHF"), nil},
		{"pivot inverse", M(10, "CHF"), "EUR", EUR(10), nil},
		{"missing", EUR(10), "JPY", Money{}, ErrMissingRate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rates.Convert(tt.amount, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Convert() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				assertMoney(t, "Convert()", got, tt.want)
			}
		})
	}
}

func TestConvertShortcuts(t *testing.T) {
	failing := ConverterFunc(func(Money, string) (Money, error) {
		return Money{}, errors.New("should not be called")
	})

	got, err := convert(failing, Money{}, "EUR")
	if err != nil {
		t.Fatalf("convert(zero) error = %v", err)
	}
	if got.Currency() != "EUR" || !got.IsZero() {
		t.Errorf("convert(zero) = %v %s, want 0 EUR", got, got.Currency())
	}

	if _, err := convert(failing, USD(3), "USD"); err != nil {
		t.Errorf("convert(identity) error = %v", err)
	}

	if _, err := convert(nil, USD(3), "EUR"); !errors.Is(err, ErrMissingRate) {
		t.Errorf("convert(nil converter) error = %v, want ErrMissingRate", err)
	}
}

func TestRateTable_Currencies(t *testing.T) {
	rates := NewRateTable("USD")
	rates.Set("EUR", "USD", decimal.NewFromInt(1))
	rates.Set("GBP", "USD", decimal.NewFromInt(1))
	got := rates.Currencies()
	want := []string{"EUR", "GBP", "USD"}
	if len(got) != len(want) {
		t.Fatalf("Currencies() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Currencies()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
