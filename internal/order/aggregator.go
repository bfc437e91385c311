// Package order turns a cart subtotal, the selected promotions and the
// delivery and insurance flags into the payable total.
package order

import (
	"github.com/aaravmahajanofficial/foodcart-engine/internal/config"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/pricing"
)

// DiscountSource reports the discount lines for a subtotal.
type DiscountSource interface {
	Discounts(subtotal int64) []models.DiscountLine
}

type Fees struct {
	DoorDelivery      int64
	AlternateDelivery int64
	Insurance         int64
}

func FeesFromConfig(cfg config.Pricing) Fees {
	return Fees{
		DoorDelivery:      cfg.DoorDeliveryFee,
		AlternateDelivery: cfg.AlternateDeliveryFee,
		Insurance:         cfg.InsuranceFee,
	}
}

// Aggregator starts with door delivery and no insurance. It is not safe
// for concurrent use.
type Aggregator struct {
	fees               Fees
	doorDelivery       bool
	insuranceConfirmed bool
}

func NewAggregator(fees Fees) *Aggregator {
	return &Aggregator{fees: fees, doorDelivery: true}
}

func (a *Aggregator) SetDoorDelivery(door bool) {
	a.doorDelivery = door
}

func (a *Aggregator) DoorDelivery() bool {
	return a.doorDelivery
}

// ToggleInsurance flips the confirmation flag and returns the new value.
func (a *Aggregator) ToggleInsurance() bool {
	a.insuranceConfirmed = !a.insuranceConfirmed
	return a.insuranceConfirmed
}

func (a *Aggregator) InsuranceConfirmed() bool {
	return a.insuranceConfirmed
}

func (a *Aggregator) DeliveryFee() int64 {
	if a.doorDelivery {
		return a.fees.DoorDelivery
	}

	return a.fees.AlternateDelivery
}

func (a *Aggregator) InsuranceFee() int64 {
	if a.insuranceConfirmed {
		return a.fees.Insurance
	}

	return 0
}

// Summary prices items and applies the discounts from promos. The total is
// floored at zero.
func (a *Aggregator) Summary(items []models.CartItem, promos DiscountSource) models.OrderSummary {
	subtotal := pricing.CartTotal(items)

	var discounts []models.DiscountLine
	if promos != nil {
		discounts = promos.Discounts(subtotal)
	}

	var discountTotal int64
	for _, d := range discounts {
		discountTotal += d.Amount
	}

	original := subtotal + a.DeliveryFee() + a.InsuranceFee()
	total := max(original-discountTotal, 0)

	return models.OrderSummary{
		Subtotal:           subtotal,
		DeliveryFee:        a.DeliveryFee(),
		InsuranceFee:       a.InsuranceFee(),
		Discounts:          discounts,
		DiscountTotal:      discountTotal,
		Total:              total,
		OriginalTotal:      original,
		Savings:            original - total,
		DoorDelivery:       a.doorDelivery,
		InsuranceConfirmed: a.insuranceConfirmed,
	}
}
