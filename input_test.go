package tracker

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTransactionInput_Transaction(t *testing.T) {
	in := TransactionInput{
		Symbol:        "btc",
		Type:          "buy",
		Quantity:      0.123456789,
		Price:         5000,
		PriceCurrency: "USD",
		Date:          "2025-1-2",
	}
	tx, err := in.Transaction(DefaultCatalog())
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}
	if tx.Symbol != "BTC" || tx.Type != Buy || tx.Date != jan2 {
		t.Errorf("Transaction() = %+v", tx)
	}
	// BTC quantities have 8 decimals
	assertQuantity(t, "Quantity", tx.Quantity, Q(0.12345679))
	assertMoney(t, "Price", tx.Price, USD(5000))

	gold := in
	gold.Symbol = "GOLD"
	gold.Quantity = 12.345
	tx, err = gold.Transaction(DefaultCatalog())
	if err != nil {
		t.Fatal(err)
	}
	assertQuantity(t, "grams", tx.Quantity, Q(12.35))
}

func TestTransactionInput_Earn(t *testing.T) {
	in := TransactionInput{Symbol: "SOL", Type: "EARN", Quantity: 1, Date: "2025-01-01"}
	tx, err := in.Transaction(nil)
	if err != nil {
		t.Fatalf("Transaction() error = %v", err)
	}
	if !tx.Price.IsZero() || tx.Price.Currency() != "" {
		t.Errorf("earn price = %v %q, want none", tx.Price, tx.Price.Currency())
	}
}

func TestTransactionInput_Invalid(t *testing.T) {
	valid := TransactionInput{Symbol: "BTC", Type: "BUY", Quantity: 1, Price: 10, PriceCurrency: "USD", Date: "2025-01-01"}
	tests := []struct {
		name   string
		modify func(*TransactionInput)
		field  string
	}{
		{"no symbol", func(in *TransactionInput) { in.Symbol = "" }, "Symbol"},
		{"symbol with spaces", func(in *TransactionInput) { in.Symbol = "B TC" }, "Symbol"},
		{"unknown type", func(in *TransactionInput) { in.Type = "GIFT" }, "Type"},
		{"zero quantity", func(in *TransactionInput) { in.Quantity = 0 }, "Quantity"},
		{"negative price", func(in *TransactionInput) { in.Price = -1 }, "Price"},
		{"bad currency", func(in *TransactionInput) { in.PriceCurrency = "DOLLARS" }, "PriceCurrency"},
		{"bad id", func(in *TransactionInput) { in.ID = "42" }, "ID"},
		{"no date", func(in *TransactionInput) { in.Date = "" }, "Date"},
		{"unparsable date", func(in *TransactionInput) { in.Date = "someday" }, ""},
		{"buy without currency", func(in *TransactionInput) { in.PriceCurrency = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			_, err := in.Transaction(nil)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Transaction() error = %v, want ErrInvalid", err)
			}
			if tt.field != "" && !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name the field %s", err, tt.field)
			}
		})
	}
}

func TestTransaction_Input(t *testing.T) {
	created := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)
	tx := Transaction{ID: "0b9e2a36-5d0c-4a8f-8a44-3c6b1c8f0e11", Symbol: "ETH", Type: Sell, Quantity: Q(1.5),
		Price: EUR(3000), Date: jan3, CreatedAt: created}
	back, err := tx.Input().Transaction(nil)
	if err != nil {
		t.Fatalf("Input().Transaction() error = %v", err)
	}
	if !back.Equal(tx) || !back.CreatedAt.Equal(created) {
		t.Errorf("got %+v, want %+v", back, tx)
	}
}

func TestConversionInput_Transactions(t *testing.T) {
	in := ConversionInput{From: "btc", FromQuantity: 0.1, To: "ETH", ToQuantity: 2.5, Value: 6000, Currency: "EUR", Date: "2025-01-03"}
	sell, buy, err := in.Transactions(DefaultCatalog())
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if sell.Type != Sell || sell.Symbol != "BTC" || buy.Type != Buy || buy.Symbol != "ETH" {
		t.Errorf("got %s %s and %s %s, want SELL BTC and BUY ETH", sell.Type, sell.Symbol, buy.Type, buy.Symbol)
	}
	if sell.Link == "" || sell.Link != buy.Link {
		t.Errorf("halves are not linked: %q %q", sell.Link, buy.Link)
	}
	assertMoney(t, "sell price", sell.Price, EUR(6000))
	assertMoney(t, "buy price", buy.Price, EUR(6000))
	assertQuantity(t, "buy quantity", buy.Quantity, Q(2.5))

	same := in
	same.To = "BTC"
	if _, _, err := same.Transactions(nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("converting into itself: error = %v, want ErrInvalid", err)
	}
	noCurrency := in
	noCurrency.Currency = ""
	if _, _, err := noCurrency.Transactions(nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("no currency: error = %v, want ErrInvalid", err)
	}
}
