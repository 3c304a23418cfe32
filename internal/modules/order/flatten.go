package order

import "strconv"

// Submission classification used by the remote order API.
const (
	ChangeAddition = "ADDITION"
	ChangeRemoval  = "REMOVAL"

	itemTypeIngredient = "INGREDIENT"
)

// SubmitCustomization is the per-unit customization breakdown sent to
// the remote system.
type SubmitCustomization struct {
	ID                int64   `json:"id"`
	CustomizationType string  `json:"customizationType"`
	ItemType          string  `json:"itemType"`
	Quantity          float64 `json:"quantity"`
	Cost              float64 `json:"cost"`
}

// SubmitUnit is one discrete unit of an order line as the remote
// system expects it.
type SubmitUnit struct {
	ID                  int64                 `json:"id"`
	TotalPrice          float64               `json:"totalPrice"`
	Customizations      []SubmitCustomization `json:"customizations"`
	SpecialInstructions string                `json:"specialInstructions"`
}

// Flatten expands every line of quantity N into N identical submitted
// units, each carrying the unit price and that line's customization
// breakdown.
func Flatten(lines []Line) []SubmitUnit {
	units := make([]SubmitUnit, 0, len(lines))
	for _, line := range lines {
		customizations := flattenCustomizations(line.Added)
		for i := 0; i < line.Quantity; i++ {
			units = append(units, SubmitUnit{
				ID:             line.ItemID,
				TotalPrice:     line.Details.Price,
				Customizations: customizations,
			})
		}
	}
	return units
}

// flattenCustomizations classifies a line's adjustments: add-ons with
// a quantity become additions; ingredients count as an addition when
// raised above the catalog default and a removal when reduced below
// it. Ingredients left at their default amount are omitted entirely.
func flattenCustomizations(added []Customization) []SubmitCustomization {
	out := []SubmitCustomization{}

	for _, c := range added {
		if c.Type != CustomizationAddOn || c.Quantity == "" {
			continue
		}
		out = append(out, SubmitCustomization{
			ID:                c.Data.ID,
			CustomizationType: ChangeAddition,
			ItemType:          c.Data.Type,
			Quantity:          parseQuantity(c.Quantity),
			Cost:              c.Data.Price,
		})
	}

	for _, c := range added {
		if c.Type != CustomizationIngredient {
			continue
		}
		quantity := parseQuantity(c.Quantity)
		if quantity == c.Data.Amount {
			continue
		}
		change := ChangeRemoval
		if quantity > c.Data.Amount {
			change = ChangeAddition
		}
		out = append(out, SubmitCustomization{
			ID:                c.Data.ID,
			CustomizationType: change,
			ItemType:          itemTypeIngredient,
			Quantity:          quantity,
			Cost:              c.Data.Price,
		})
	}

	return out
}

// parseQuantity reads the string-encoded amount; malformed input
// counts as zero, i.e. a full removal for an ingredient.
func parseQuantity(s string) float64 {
	q, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return q
}
