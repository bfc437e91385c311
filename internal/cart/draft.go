package cart

import (
	"errors"
	"fmt"
	"strings"

	appErrors "github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

var (
	ErrMissingRequired = errors.New("required customization missing")
	ErrUnknownGroup    = errors.New("unknown customization group")
	ErrUnknownOption   = errors.New("unknown customization option")
)

const maxNoteLength = 500

var notePolicy = bluemonday.StrictPolicy()

// SanitizeNote strips markup from a free-text note and trims it to the
// storefront limit.
func SanitizeNote(note string) string {
	clean := strings.TrimSpace(notePolicy.Sanitize(note))

	if r := []rune(clean); len(r) > maxNoteLength {
		clean = string(r[:maxNoteLength])
	}

	return clean
}

// Draft is the item being configured in the customization modal before it is
// confirmed into the cart.
type Draft struct {
	product   models.Product
	quantity  int
	note      string
	selection models.SelectedOptions
}

func NewDraft(product models.Product) *Draft {
	return &Draft{
		product:   product,
		quantity:  1,
		selection: make(models.SelectedOptions),
	}
}

func (d *Draft) Product() models.Product {
	return d.product
}

// Select sets the option for a group, replacing any earlier choice.
func (d *Draft) Select(groupID, optionID string) error {
	group, ok := d.product.Group(groupID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownGroup, groupID)
	}

	if _, ok := group.Option(optionID); !ok {
		return fmt.Errorf("%w: %s/%s", ErrUnknownOption, groupID, optionID)
	}

	d.selection[groupID] = optionID

	return nil
}

// Unselect clears an optional group. Required groups keep their selection.
func (d *Draft) Unselect(groupID string) {
	if group, ok := d.product.Group(groupID); ok && group.Required {
		return
	}

	delete(d.selection, groupID)
}

func (d *Draft) Selection() models.SelectedOptions {
	return d.selection.Clone()
}

func (d *Draft) SetNote(note string) {
	d.note = SanitizeNote(note)
}

func (d *Draft) Increment() {
	d.quantity++
}

// Decrement never goes below one.
func (d *Draft) Decrement() {
	if d.quantity > 1 {
		d.quantity--
	}
}

func (d *Draft) SetQuantity(q int) {
	if q < 1 {
		q = 1
	}
	d.quantity = q
}

func (d *Draft) Quantity() int {
	return d.quantity
}

// Validate returns the group id → message map of required groups without a
// selection. An empty map means the draft can be confirmed.
func (d *Draft) Validate() map[string]string {
	missing := make(map[string]string)

	for _, group := range d.product.Customizations {
		if !group.Required {
			continue
		}
		if _, ok := d.selection[group.ID]; !ok {
			missing[group.ID] = fmt.Sprintf("Vui lòng chọn %s", group.Name)
		}
	}

	return missing
}

// Confirm builds the cart item, or a RequiredCustomization AppError carrying
// the first missing group when validation fails.
func (d *Draft) Confirm() (models.CartItem, error) {
	if missing := d.Validate(); len(missing) > 0 {
		for _, group := range d.product.Customizations {
			if msg, ok := missing[group.ID]; ok {
				return models.CartItem{}, appErrors.RequiredCustomizationError(msg).
					WithDetail(group.ID).
					WithError(ErrMissingRequired)
			}
		}
	}

	return models.CartItem{
		Product:         d.product,
		Quantity:        d.quantity,
		Note:            d.note,
		SelectedOptions: d.selection.Clone(),
	}, nil
}
