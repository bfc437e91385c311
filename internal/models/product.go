package models

type Category struct {
	ID   string `json:"id" yaml:"id" validate:"required"`
	Name string `json:"name" yaml:"name" validate:"required"`
}

type CustomizationOption struct {
	ID            string `json:"id" yaml:"id" validate:"required"`
	Name          string `json:"name" yaml:"name" validate:"required"`
	PriceModifier int64  `json:"price_modifier" yaml:"price_modifier" validate:"gte=0"`
}

// CustomizationGroup is one choice axis of a product (size, topping, ...).
// MaxSelection is 1 for every group the storefront ships today.
type CustomizationGroup struct {
	ID           string                `json:"id" yaml:"id" validate:"required"`
	Name         string                `json:"name" yaml:"name" validate:"required"`
	Required     bool                  `json:"required" yaml:"required"`
	MaxSelection int                   `json:"max_selection" yaml:"max_selection" validate:"gte=1"`
	Options      []CustomizationOption `json:"options" yaml:"options" validate:"required,min=1,dive"`
}

func (g CustomizationGroup) Option(id string) (CustomizationOption, bool) {
	for _, opt := range g.Options {
		if opt.ID == id {
			return opt, true
		}
	}

	return CustomizationOption{}, false
}

type Product struct {
	ID             string               `json:"id" yaml:"id" validate:"required"`
	CategoryID     string               `json:"category_id" yaml:"category_id"`
	Name           string               `json:"name" yaml:"name" validate:"required"`
	Description    string               `json:"description,omitempty" yaml:"description"`
	BasePrice      int64                `json:"base_price" yaml:"base_price" validate:"gte=0"`
	Customizations []CustomizationGroup `json:"customizations,omitempty" yaml:"customizations" validate:"dive"`
}

func (p Product) Group(id string) (CustomizationGroup, bool) {
	for _, g := range p.Customizations {
		if g.ID == id {
			return g, true
		}
	}

	return CustomizationGroup{}, false
}
