package tracker

// lot is a quantity acquired in a single BUY or EARN, still held.
type lot struct {
	Date     Date
	Quantity Quantity
	// Cost is the total cost of the remaining quantity, in the currency of
	// the acquisition.
	Cost Money
}

// UnitPrice returns the acquisition price of a single unit of the lot.
func (l lot) UnitPrice() Money { return l.Cost.Div(l.Quantity) }

// lots is a FIFO queue, oldest lot first.
type lots []lot

// Quantity returns the total quantity held in the lots.
func (l lots) Quantity() Quantity {
	var q Quantity
	for _, lt := range l {
		q = q.Add(lt.Quantity)
	}
	return q
}

// consumed is a portion taken out of a lot by a sale.
type consumed struct {
	Quantity Quantity
	Cost     Money
}

// take removes up to quantity units from the front of the queue. It returns
// the consumed portions, the remaining lots and the quantity that could not
// be matched because the queue ran out.
func (l lots) take(quantity Quantity) ([]consumed, lots, Quantity) {
	var portions []consumed
	for len(l) > 0 && quantity.IsPositive() {
		head := l[0]
		if head.Quantity.GreaterThan(quantity) {
			// partial consumption, the lot keeps its unit price
			cost := head.Cost.Mul(quantity).Div(head.Quantity)
			portions = append(portions, consumed{Quantity: quantity, Cost: cost})
			rest := make(lots, len(l))
			copy(rest, l)
			rest[0] = lot{Date: head.Date, Quantity: head.Quantity.Sub(quantity), Cost: head.Cost.Sub(cost)}
			return portions, rest, Quantity{}
		}
		portions = append(portions, consumed{Quantity: head.Quantity, Cost: head.Cost})
		quantity = quantity.Sub(head.Quantity)
		l = l[1:]
	}
	return portions, l, quantity
}
