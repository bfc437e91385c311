// Package pricing computes item and cart totals in whole currency units.
// All arithmetic is integer; stale group or option ids contribute nothing.
package pricing

import "github.com/aaravmahajanofficial/foodcart-engine/internal/models"

// UnitPrice is the base price plus the modifier of every selection that
// still resolves against the product definition.
func UnitPrice(product models.Product, selected models.SelectedOptions) int64 {
	price := product.BasePrice

	for groupID, optionID := range selected {
		group, ok := product.Group(groupID)
		if !ok {
			continue
		}
		if option, ok := group.Option(optionID); ok {
			price += option.PriceModifier
		}
	}

	return price
}

func ItemTotal(item models.CartItem) int64 {
	return UnitPrice(item.Product, item.SelectedOptions) * int64(item.Quantity)
}

func CartTotal(items []models.CartItem) int64 {
	var total int64
	for _, item := range items {
		total += ItemTotal(item)
	}

	return total
}

// OptionLabels lists the resolved option names in the product's group order.
func OptionLabels(product models.Product, selected models.SelectedOptions) []string {
	var labels []string

	for _, group := range product.Customizations {
		optionID, ok := selected[group.ID]
		if !ok {
			continue
		}
		if option, ok := group.Option(optionID); ok {
			labels = append(labels, option.Name)
		}
	}

	return labels
}
