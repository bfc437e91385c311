package promo

import (
	"fmt"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
)

// ApplicableDiscount is the amount p takes off an order with the given
// subtotal. Percent discounts round down and respect MaxDiscount; fixed
// discounts are returned as-is once the minimum order is met.
func ApplicableDiscount(p models.PromoCode, subtotal int64) int64 {
	if subtotal < p.MinOrderAmount {
		return 0
	}

	switch p.DiscountType {
	case models.DiscountPercent:
		amount := subtotal * p.Discount / 100
		if p.MaxDiscount != nil && amount > *p.MaxDiscount {
			amount = *p.MaxDiscount
		}
		return amount
	case models.DiscountFixed:
		return p.Discount
	default:
		return 0
	}
}

// DisplayGroup is the listing a code appears in: delivery codes, or the
// food listing that also carries special codes.
type DisplayGroup string

const (
	GroupDelivery DisplayGroup = "delivery"
	GroupFood     DisplayGroup = "food"
)

func ParseDisplayGroup(s string) (DisplayGroup, error) {
	switch DisplayGroup(s) {
	case GroupDelivery, GroupFood:
		return DisplayGroup(s), nil
	default:
		return "", fmt.Errorf("unknown promo group %q", s)
	}
}

func (g DisplayGroup) Includes(c models.PromoCategory) bool {
	if g == GroupDelivery {
		return c == models.PromoCategoryDelivery
	}

	return c == models.PromoCategoryFood || c == models.PromoCategorySpecial
}
