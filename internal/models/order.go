package models

type DiscountLine struct {
	PromoID string `json:"promo_id"`
	Code    string `json:"code"`
	Amount  int64  `json:"amount"`
}

type OrderSummary struct {
	Subtotal           int64          `json:"subtotal"`
	DeliveryFee        int64          `json:"delivery_fee"`
	InsuranceFee       int64          `json:"insurance_fee"`
	Discounts          []DiscountLine `json:"discounts,omitempty"`
	DiscountTotal      int64          `json:"discount_total"`
	Total              int64          `json:"total"`
	OriginalTotal      int64          `json:"original_total"`
	Savings            int64          `json:"savings"`
	DoorDelivery       bool           `json:"door_delivery"`
	InsuranceConfirmed bool           `json:"insurance_confirmed"`
}

type DeliveryModeRequest struct {
	DoorDelivery *bool `json:"door_delivery" validate:"required"`
}
