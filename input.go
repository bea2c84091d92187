package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// TransactionInput is a transaction as typed in a form or posted to the API.
//
// Its JSON shape is also the import/export format. Link pairs the two halves
// of a conversion.
type TransactionInput struct {
	ID            string     `json:"id,omitempty" validate:"omitempty,uuid"`
	Symbol        string     `json:"symbol" validate:"required,alphanum,max=16"`
	Type          string     `json:"transactionType" validate:"required,oneof=BUY SELL EARN buy sell earn"`
	Quantity      float64    `json:"quantity" validate:"gt=0"`
	Price         float64    `json:"price" validate:"gte=0"`
	PriceCurrency string     `json:"priceCurrency" validate:"omitempty,iso4217"`
	Date          string     `json:"date" validate:"required"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	Link          string     `json:"link,omitempty" validate:"omitempty,max=64"`
	Memo          string     `json:"memo,omitempty" validate:"max=256"`
}

// Validate checks the input fields.
func (in TransactionInput) Validate() error { return validateStruct(in) }

// validateStruct runs the validate tags of v, failures wrap ErrInvalid.
func validateStruct(v any) error {
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(msgs, ", "))
		}
		return err
	}
	return nil
}

// Transaction validates the input and converts it. Quantities are rounded to
// the decimals of the symbol in catalog.
func (in TransactionInput) Transaction(catalog *Catalog) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	typ, err := ParseTransactionType(in.Type)
	if err != nil {
		return Transaction{}, err
	}
	day, err := ParseDate(in.Date)
	if err != nil {
		return Transaction{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	sym := NewSymbol(in.Symbol)
	tx := Transaction{
		ID:       in.ID,
		Symbol:   sym,
		Type:     typ,
		Quantity: Q(in.Quantity).Round(catalog.Decimals(sym)),
		Date:     day,
		Link:     in.Link,
		Memo:     in.Memo,
	}
	if typ != Earn || in.Price != 0 {
		tx.Price = M(in.Price, strings.ToUpper(in.PriceCurrency))
	}
	if in.CreatedAt != nil {
		tx.CreatedAt = *in.CreatedAt
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Input converts tx back into its input form.
func (tx Transaction) Input() TransactionInput {
	in := TransactionInput{
		ID:            tx.ID,
		Symbol:        string(tx.Symbol),
		Type:          string(tx.Type),
		Quantity:      tx.Quantity.Decimal().InexactFloat64(),
		Price:         tx.Price.Amount().InexactFloat64(),
		PriceCurrency: tx.Price.Currency(),
		Date:          tx.Date.String(),
		Link:          tx.Link,
		Memo:          tx.Memo,
	}
	if !tx.CreatedAt.IsZero() {
		created := tx.CreatedAt
		in.CreatedAt = &created
	}
	return in
}

// ConversionInput is the swap of a quantity of one asset into another, both
// sides valued at Value.
type ConversionInput struct {
	From         string  `json:"fromSymbol" validate:"required,alphanum,max=16"`
	FromQuantity float64 `json:"fromQuantity" validate:"gt=0"`
	To           string  `json:"toSymbol" validate:"required,alphanum,max=16"`
	ToQuantity   float64 `json:"toQuantity" validate:"gt=0"`
	Value        float64 `json:"value" validate:"gte=0"`
	Currency     string  `json:"currency" validate:"required,iso4217"`
	Date         string  `json:"date" validate:"required"`
	Memo         string  `json:"memo,omitempty" validate:"max=256"`
}

// Transactions validates the input and returns the linked SELL and BUY.
func (in ConversionInput) Transactions(catalog *Catalog) (sell, buy Transaction, err error) {
	if err := validateStruct(in); err != nil {
		return sell, buy, err
	}
	from, to := NewSymbol(in.From), NewSymbol(in.To)
	if from == to {
		return sell, buy, fmt.Errorf("%w: cannot convert %s into itself", ErrInvalid, from)
	}
	day, err := ParseDate(in.Date)
	if err != nil {
		return sell, buy, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	sell, buy = NewConversion(day,
		from, Q(in.FromQuantity).Round(catalog.Decimals(from)),
		to, Q(in.ToQuantity).Round(catalog.Decimals(to)),
		M(in.Value, in.Currency))
	sell.Memo, buy.Memo = in.Memo, in.Memo
	return sell, buy, nil
}
