package models

// SelectedOptions maps a customization group id to the chosen option id.
type SelectedOptions map[string]string

// Equal reports whether both maps hold exactly the same group→option pairs.
// A nil map and an empty map are equal.
func (s SelectedOptions) Equal(other SelectedOptions) bool {
	if len(s) != len(other) {
		return false
	}

	for group, option := range s {
		if v, ok := other[group]; !ok || v != option {
			return false
		}
	}

	return true
}

func (s SelectedOptions) Clone() SelectedOptions {
	out := make(SelectedOptions, len(s))
	for k, v := range s {
		out[k] = v
	}

	return out
}

type CartItem struct {
	Product         Product         `json:"product"`
	Quantity        int             `json:"quantity"`
	Note            string          `json:"note,omitempty"`
	SelectedOptions SelectedOptions `json:"selected_options,omitempty"`
}

type AddItemRequest struct {
	ProductID       string            `json:"product_id" validate:"required"`
	Quantity        int               `json:"quantity" validate:"required,min=1,max=99"`
	Note            string            `json:"note,omitempty" validate:"max=500"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
}

type CartLine struct {
	Index           int             `json:"index"`
	ProductID       string          `json:"product_id"`
	Name            string          `json:"name"`
	Quantity        int             `json:"quantity"`
	Note            string          `json:"note,omitempty"`
	SelectedOptions SelectedOptions `json:"selected_options,omitempty"`
	OptionLabels    []string        `json:"option_labels,omitempty"`
	UnitPrice       int64           `json:"unit_price"`
	Total           int64           `json:"total"`
	Selected        bool            `json:"selected"`
}

type CartView struct {
	Items         []CartLine `json:"items"`
	Subtotal      int64      `json:"subtotal"`
	TotalQuantity int        `json:"total_quantity"`
	EditMode      bool       `json:"edit_mode"`
	AllSelected   bool       `json:"all_selected"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=99"`
}

type EditModeRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}
