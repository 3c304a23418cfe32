package pos

// OrderType tells the remote how the order will be fulfilled.
type OrderType string

const (
	OrderAtTheTable OrderType = "AT_THE_TABLE"
	OrderInHouse    OrderType = "IN_HOUSE"
	OrderTakeaway   OrderType = "TAKEAWAY"
	OrderDelivery   OrderType = "DELIVERY"
)

// Valid reports whether ot is a known order type.
func (ot OrderType) Valid() bool {
	switch ot {
	case OrderAtTheTable, OrderInHouse, OrderTakeaway, OrderDelivery:
		return true
	}
	return false
}

// PaymentMethod is how a split was settled at the counter.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentTPE  PaymentMethod = "TPE"
)

// Valid reports whether pm is a known payment method.
func (pm PaymentMethod) Valid() bool {
	return pm == PaymentCash || pm == PaymentTPE
}

// PaymentSplit is one amount tendered with a single method.
type PaymentSplit struct {
	Method PaymentMethod `json:"method"`
	Amount float64       `json:"amount"`
}

// PaymentSummary is the live arithmetic of the payment entry: what is
// still owed and what must be handed back.
type PaymentSummary struct {
	Total      float64 `json:"total"`
	Paid       float64 `json:"paid"`
	Remaining  float64 `json:"remaining"`
	ToGiveBack float64 `json:"to_give_back"`
}

// Summarize folds the splits against the order total. Overpayment
// becomes change; underpayment stays as remaining. Never both.
func Summarize(total float64, splits []PaymentSplit) PaymentSummary {
	paid := 0.0
	for _, split := range splits {
		paid += split.Amount
	}

	summary := PaymentSummary{Total: total, Paid: paid}
	if diff := total - paid; diff >= 0 {
		summary.Remaining = diff
	} else {
		summary.ToGiveBack = -diff
	}
	return summary
}

// KeypadAction routes the numeric keypad entry to one of the order
// mutations.
type KeypadAction string

const (
	ActionQuantity KeypadAction = "QUANTITY"
	ActionDiscount KeypadAction = "DISCOUNT"
	ActionPrice    KeypadAction = "PRICE"
)
