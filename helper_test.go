package tracker

import "testing"

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func assertMoney(t *testing.T, name string, got, want Money) {
	t.Helper()
	if !got.Round().Equal(want.Round()) {
		t.Errorf("%s = %v (%s), want %v (%s)", name, got.Amount(), got.Currency(), want.Amount(), want.Currency())
	}
}

func assertQuantity(t *testing.T, name string, got, want Quantity) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
