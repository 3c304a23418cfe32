package order

import (
	"github.com/google/uuid"
)

// DiscountType selects how the order discount is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED_AMOUNT"
)

// Valid reports whether dt is a known discount type.
func (dt DiscountType) Valid() bool {
	return dt == DiscountPercentage || dt == DiscountFixed
}

// CustomizationType tells an ingredient adjustment apart from an add-on.
type CustomizationType string

const (
	CustomizationIngredient CustomizationType = "ingredient"
	CustomizationAddOn      CustomizationType = "addOn"
)

// CustomizationSource is the snapshot of the catalog resource or
// add-on a customization refers to, copied at commit time so later
// catalog changes cannot alter a placed line.
type CustomizationSource struct {
	ID     int64   `json:"id"`
	Type   string  `json:"type,omitempty"`   // add-ons: remote item type, e.g. "ITEM"
	Amount float64 `json:"amount,omitempty"` // ingredients: catalog default quantity
	Price  float64 `json:"price"`
}

// Customization is one per-line adjustment relative to the default
// recipe. Quantity keeps the string exactly as entered in the dialog.
type Customization struct {
	ID       int64               `json:"id"`
	Type     CustomizationType   `json:"type"`
	Quantity string              `json:"quantity"`
	Data     CustomizationSource `json:"data"`
}

// LineDetails is the catalog snapshot carried by a line.
type LineDetails struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category,omitempty"`
}

// Line is one distinct entry in the order.
type Line struct {
	ID         uuid.UUID       `json:"id"`
	ItemID     int64           `json:"item_id"`
	Details    LineDetails     `json:"details"`
	Quantity   int             `json:"quantity"`
	Selected   bool            `json:"selected"`
	Customized bool            `json:"customized"`
	Added      []Customization `json:"added,omitempty"`
	Printed    bool            `json:"printed"`
}

// Order is the in-progress bill for a guest or table. ID stays nil
// until the remote system assigns one. SubTotal and Total are derived
// and recomputed on every mutation, never set directly.
type Order struct {
	ID           *int64       `json:"id"`
	Items        []Line       `json:"items"`
	Guests       int          `json:"guests"`
	Discount     float64      `json:"discount"`
	DiscountType DiscountType `json:"discount_type"`
	SubTotal     float64      `json:"sub_total"`
	Total        float64      `json:"total"`
}

// customizedSuffix marks customized lines on the printed summary.
const customizedSuffix = " (Personnalisé)"

// SelectedLine returns the currently selected line, if any.
func (o Order) SelectedLine() (Line, bool) {
	for _, line := range o.Items {
		if line.Selected {
			return line, true
		}
	}
	return Line{}, false
}

// ItemCount is the total unit count across all lines.
func (o Order) ItemCount() int {
	count := 0
	for _, line := range o.Items {
		count += line.Quantity
	}
	return count
}
