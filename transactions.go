package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors, test them with errors.Is.
var (
	ErrNotFound    = errors.New("transaction not found")
	ErrInvalid     = errors.New("invalid transaction")
	ErrMissingRate = errors.New("missing exchange rate")
)

// TransactionType is the kind of a transaction.
type TransactionType string

const (
	Buy  TransactionType = "BUY"
	Sell TransactionType = "SELL"
	// Earn is an acquisition at no cost, like staking rewards or airdrops.
	Earn TransactionType = "EARN"
)

// ParseTransactionType parses "buy", "BUY", ...
func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Buy, Sell, Earn:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown transaction type %q", ErrInvalid, s)
	}
}

// Transaction is a single BUY, SELL or EARN of a Symbol.
type Transaction struct {
	ID     string
	Symbol Symbol
	Type   TransactionType
	// Quantity is always positive, the Type gives the direction.
	Quantity Quantity
	// Price is the TOTAL price paid or received, not a unit price.
	// It is zero for Earn.
	Price Money
	// Date is the effective date, used for FIFO ordering.
	Date Date
	// CreatedAt is when the record was created, used for listing.
	CreatedAt time.Time
	// Link is shared by the two halves of a conversion.
	Link string
	Memo string
}

// NewBuy creates a BUY of quantity units of sym for a total price.
func NewBuy(day Date, sym Symbol, quantity Quantity, price Money) Transaction {
	return Transaction{Symbol: sym, Type: Buy, Quantity: quantity, Price: price, Date: day}
}

// NewSell creates a SELL of quantity units of sym for a total price.
func NewSell(day Date, sym Symbol, quantity Quantity, price Money) Transaction {
	return Transaction{Symbol: sym, Type: Sell, Quantity: quantity, Price: price, Date: day}
}

// NewEarn creates an EARN of quantity units of sym.
func NewEarn(day Date, sym Symbol, quantity Quantity) Transaction {
	return Transaction{Symbol: sym, Type: Earn, Quantity: quantity, Date: day}
}

// NewConversion creates the linked pair of transactions for swapping one
// asset into another: a SELL of fromQty units of from and a BUY of toQty
// units of to, both valued at value.
func NewConversion(day Date, from Symbol, fromQty Quantity, to Symbol, toQty Quantity, value Money) (Transaction, Transaction) {
	link := uuid.NewString()
	sell := NewSell(day, from, fromQty, value)
	sell.Link = link
	buy := NewBuy(day, to, toQty, value)
	buy.Link = link
	return sell, buy
}

// Delta returns the signed quantity change this transaction applies to its
// symbol position.
func (t Transaction) Delta() Quantity {
	if t.Type == Sell {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// UnitPrice returns the price of a single unit, or zero for an empty quantity.
func (t Transaction) UnitPrice() Money { return t.Price.Div(t.Quantity) }

// Validate checks the transaction on its own, without the history.
func (t Transaction) Validate() error {
	if t.Symbol == "" {
		return fmt.Errorf("%w: symbol is missing", ErrInvalid)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("%w: date is missing", ErrInvalid)
	}
	if !t.Quantity.IsPositive() {
		return fmt.Errorf("%w: %s quantity must be positive, got %s", ErrInvalid, t.Type, t.Quantity)
	}
	if t.Price.IsNegative() {
		return fmt.Errorf("%w: %s price must not be negative, got %s", ErrInvalid, t.Type, t.Price)
	}
	switch t.Type {
	case Buy, Sell:
		if !ValidCurrency(t.Price.Currency()) {
			return fmt.Errorf("%w: %s price currency %q is not a valid currency", ErrInvalid, t.Type, t.Price.Currency())
		}
	case Earn:
		if c := t.Price.Currency(); c != "" && !ValidCurrency(c) {
			return fmt.Errorf("%w: earn price currency %q is not a valid currency", ErrInvalid, c)
		}
	default:
		return fmt.Errorf("%w: unknown transaction type %q", ErrInvalid, t.Type)
	}
	return nil
}

// Equal compares all fields but CreatedAt.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID && t.Symbol == o.Symbol && t.Type == o.Type &&
		t.Quantity.Equal(o.Quantity) && t.Price.Equal(o.Price) &&
		t.Date == o.Date && t.Link == o.Link && t.Memo == o.Memo
}

// MarshalJSON writes the canonical ledger line of a transaction.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("date", t.Date)
	w.Append("type", t.Type)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	if !t.Price.IsZero() || t.Price.Currency() != "" {
		w.EmbedFrom(t.Price)
	}
	w.Optional("link", t.Link)
	w.Optional("memo", t.Memo)
	if !t.CreatedAt.IsZero() {
		w.Append("createdAt", t.CreatedAt.UTC().Format(time.RFC3339))
	}
	return w.MarshalJSON()
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		amountCmd
		ID        string          `json:"id"`
		Date      Date            `json:"date"`
		Type      TransactionType `json:"type"`
		Symbol    Symbol          `json:"symbol"`
		Quantity  Quantity        `json:"quantity"`
		Link      string          `json:"link"`
		Memo      string          `json:"memo"`
		CreatedAt time.Time       `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Transaction{
		ID:        temp.ID,
		Symbol:    temp.Symbol,
		Type:      temp.Type,
		Quantity:  temp.Quantity,
		Price:     temp.Money(),
		Date:      temp.Date,
		CreatedAt: temp.CreatedAt,
		Link:      temp.Link,
		Memo:      temp.Memo,
	}
	return nil
}
