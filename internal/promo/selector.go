// Package promo keeps the promotion codes offered for a session and the
// user's current selection. At most one code per type-category can be
// selected, so the selection never holds more than two codes.
package promo

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
)

const DefaultDisplayLimit = 10

const disabledFallbackReason = "Mã giảm giá không khả dụng"

var categoryLabels = map[models.TypeCategory]string{
	models.TypeCategoryProduct:  "sản phẩm",
	models.TypeCategoryDelivery: "vận chuyển",
}

// selectionOrder fixes the order in which Selected reports ids.
var selectionOrder = []models.TypeCategory{models.TypeCategoryProduct, models.TypeCategoryDelivery}

// ConflictMessage is the block reason shown when another code of the same
// type-category is already selected.
func ConflictMessage(tc models.TypeCategory) string {
	return fmt.Sprintf("Bạn chỉ có thể chọn 1 mã giảm giá %s", categoryLabels[tc])
}

func TypeCategoryOf(c models.PromoCategory) models.TypeCategory {
	return c.TypeCategory()
}

type ToggleResult struct {
	Changed     bool
	Selected    bool
	BlockReason string
}

type Option func(*Selector)

func WithDisplayLimit(n int) Option {
	return func(s *Selector) {
		if n > 0 {
			s.limit = n
		}
	}
}

// Selector is not safe for concurrent use; callers serialize access.
type Selector struct {
	codes    []models.PromoCode
	byID     map[string]int
	selected map[models.TypeCategory]models.PromoCode
	limit    int
}

func NewSelector(codes []models.PromoCode, opts ...Option) *Selector {
	s := &Selector{
		codes:    slices.Clone(codes),
		byID:     make(map[string]int, len(codes)),
		selected: make(map[models.TypeCategory]models.PromoCode, 2),
		limit:    DefaultDisplayLimit,
	}

	for i, c := range s.codes {
		s.byID[c.ID] = i
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Selector) Codes() []models.PromoCode {
	return slices.Clone(s.codes)
}

func (s *Selector) Lookup(id string) (models.PromoCode, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.PromoCode{}, false
	}

	return s.codes[i], true
}

func (s *Selector) IsSelected(id string) bool {
	for _, p := range s.selected {
		if p.ID == id {
			return true
		}
	}

	return false
}

func (s *Selector) IsSelectable(p models.PromoCode) bool {
	if p.IsDisabled {
		return false
	}

	if s.IsSelected(p.ID) {
		return true
	}

	_, taken := s.selected[p.Category.TypeCategory()]

	return !taken
}

// BlockReason returns an empty string when p can be toggled.
func (s *Selector) BlockReason(p models.PromoCode) string {
	if p.IsDisabled {
		if p.DisabledReason != "" {
			return p.DisabledReason
		}
		return disabledFallbackReason
	}

	if s.IsSelected(p.ID) {
		return ""
	}

	tc := p.Category.TypeCategory()
	if _, taken := s.selected[tc]; taken {
		return ConflictMessage(tc)
	}

	return ""
}

// Toggle deselects p when selected, otherwise selects it if allowed. A
// blocked toggle leaves the selection unchanged and carries the reason.
func (s *Selector) Toggle(p models.PromoCode) ToggleResult {
	tc := p.Category.TypeCategory()

	if current, ok := s.selected[tc]; ok && current.ID == p.ID {
		delete(s.selected, tc)
		return ToggleResult{Changed: true, Selected: false}
	}

	if !s.IsSelectable(p) {
		return ToggleResult{BlockReason: s.BlockReason(p)}
	}

	s.selected[tc] = p

	return ToggleResult{Changed: true, Selected: true}
}

// Selected returns the selected ids, product code first.
func (s *Selector) Selected() []string {
	ids := make([]string, 0, len(s.selected))
	for _, tc := range selectionOrder {
		if p, ok := s.selected[tc]; ok {
			ids = append(ids, p.ID)
		}
	}

	return ids
}

func (s *Selector) SelectedCodes() []models.PromoCode {
	codes := make([]models.PromoCode, 0, len(s.selected))
	for _, tc := range selectionOrder {
		if p, ok := s.selected[tc]; ok {
			codes = append(codes, p)
		}
	}

	return codes
}

func (s *Selector) Clear() {
	clear(s.selected)
}

// DisplayList filters the codes to group and query, moves disabled codes
// behind enabled ones keeping their relative order, and truncates to the
// display limit.
func (s *Selector) DisplayList(group DisplayGroup, query string) []models.PromoCode {
	needle := strings.ToLower(strings.TrimSpace(query))

	var enabled, disabled []models.PromoCode
	for _, c := range s.codes {
		if !group.Includes(c.Category) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.Code), needle) &&
			!strings.Contains(strings.ToLower(c.Title), needle) {
			continue
		}

		if c.IsDisabled {
			disabled = append(disabled, c)
		} else {
			enabled = append(enabled, c)
		}
	}

	list := append(enabled, disabled...)
	if len(list) > s.limit {
		list = list[:s.limit]
	}

	return list
}

// Views decorates DisplayList with the current selection state.
func (s *Selector) Views(group DisplayGroup, query string) []models.PromoView {
	list := s.DisplayList(group, query)
	views := make([]models.PromoView, 0, len(list))

	for _, c := range list {
		views = append(views, models.PromoView{
			PromoCode:   c,
			Selected:    s.IsSelected(c.ID),
			Selectable:  s.IsSelectable(c),
			BlockReason: s.BlockReason(c),
		})
	}

	return views
}

// Discounts lists the discount each selected code grants on subtotal.
func (s *Selector) Discounts(subtotal int64) []models.DiscountLine {
	lines := make([]models.DiscountLine, 0, len(s.selected))
	for _, p := range s.SelectedCodes() {
		lines = append(lines, models.DiscountLine{
			PromoID: p.ID,
			Code:    p.Code,
			Amount:  ApplicableDiscount(p, subtotal),
		})
	}

	return lines
}
