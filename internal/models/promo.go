package models

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type PromoCategory string

const (
	PromoCategoryFood     PromoCategory = "food"
	PromoCategoryDelivery PromoCategory = "delivery"
	PromoCategorySpecial  PromoCategory = "special"
)

// TypeCategory is the coarse bucket used for mutual exclusion while selecting promos.
type TypeCategory string

const (
	TypeCategoryDelivery TypeCategory = "delivery"
	TypeCategoryProduct  TypeCategory = "product"
)

func (c PromoCategory) TypeCategory() TypeCategory {
	if c == PromoCategoryDelivery {
		return TypeCategoryDelivery
	}

	return TypeCategoryProduct
}

type PromoCode struct {
	ID             string        `json:"id" yaml:"id" validate:"required"`
	Code           string        `json:"code" yaml:"code" validate:"required"`
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description,omitempty" yaml:"description"`
	Discount       int64         `json:"discount" yaml:"discount" validate:"gte=0"`
	DiscountType   DiscountType  `json:"discount_type" yaml:"discount_type" validate:"required,oneof=percent fixed"`
	MaxDiscount    *int64        `json:"max_discount,omitempty" yaml:"max_discount" validate:"omitempty,gte=0"`
	MinOrderAmount int64         `json:"min_order_amount" yaml:"min_order_amount" validate:"gte=0"`
	Category       PromoCategory `json:"category" yaml:"category" validate:"required,oneof=food delivery special"`
	IsDisabled     bool          `json:"is_disabled" yaml:"is_disabled"`
	DisabledReason string        `json:"disabled_reason,omitempty" yaml:"disabled_reason"`
}

type PromoView struct {
	PromoCode
	Selected    bool   `json:"selected"`
	Selectable  bool   `json:"selectable"`
	BlockReason string `json:"block_reason,omitempty"`
}

type TogglePromoResponse struct {
	Selected    []string `json:"selected"`
	Changed     bool     `json:"changed"`
	BlockReason string   `json:"block_reason,omitempty"`
}

type PromoListResponse struct {
	Promos           []PromoView `json:"promos"`
	SelectionMessage string      `json:"selection_message,omitempty"`
}
