package order

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []Line) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.Details.Price * float64(line.Quantity)
	}
	return total
}

// EffectiveDiscount resolves the discount amount against a subtotal:
// percentage discounts scale with the subtotal, fixed ones do not.
func EffectiveDiscount(dt DiscountType, discount, subTotal float64) float64 {
	if dt == DiscountPercentage {
		return subTotal * discount / 100
	}
	return discount
}

// Tax computes the TVA amount for a total at the given rate.
func Tax(total, tvaRate float64) float64 {
	return total * tvaRate / 100
}

// TotalWithTax is the tax-inclusive (TTC) total.
func TotalWithTax(total, tvaRate float64) float64 {
	return total + Tax(total, tvaRate)
}
