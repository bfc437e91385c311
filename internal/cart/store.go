// Package cart holds the ordered list of line items for the current session
// and the index-based bulk editing state of the cart screen.
package cart

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
)

var ErrIndexOutOfRange = errors.New("cart index out of range")

// Store is not safe for concurrent use; callers serialize user actions.
type Store struct {
	items    []models.CartItem
	selected map[int]struct{}
	editMode bool
}

func NewStore() *Store {
	return &Store{selected: make(map[int]struct{})}
}

// Add merges item into an existing line with the same product id and option
// selections by summing quantities, keeping the existing line's note and
// options. Otherwise item is appended. Returns the index of the affected line.
func (s *Store) Add(item models.CartItem) int {
	for i := range s.items {
		if sameIdentity(s.items[i], item) {
			s.items[i].Quantity += item.Quantity
			return i
		}
	}

	item.SelectedOptions = item.SelectedOptions.Clone()
	s.items = append(s.items, item)

	return len(s.items) - 1
}

// RemoveOne decrements the first line for productID, dropping it at quantity 1.
// Reports whether a line matched.
func (s *Store) RemoveOne(productID string) bool {
	for i := range s.items {
		if s.items[i].Product.ID != productID {
			continue
		}

		if s.items[i].Quantity > 1 {
			s.items[i].Quantity--
		} else {
			s.removeAt(i)
		}

		return true
	}

	return false
}

// UpdateQuantity sets the quantity of the line at index; zero removes it.
func (s *Store) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}

	if quantity <= 0 {
		s.removeAt(index)
		return nil
	}

	s.items[index].Quantity = quantity

	return nil
}

func (s *Store) ToggleSelection(index int) error {
	if index < 0 || index >= len(s.items) {
		return ErrIndexOutOfRange
	}

	if _, ok := s.selected[index]; ok {
		delete(s.selected, index)
	} else {
		s.selected[index] = struct{}{}
	}

	return nil
}

func (s *Store) SelectAll() {
	for i := range s.items {
		s.selected[i] = struct{}{}
	}
}

func (s *Store) ClearSelection() {
	clear(s.selected)
}

// DeleteSelected removes every selected line, keeps the relative order of the
// rest, clears the selection and leaves edit mode.
func (s *Store) DeleteSelected() {
	if len(s.selected) > 0 {
		kept := s.items[:0:0]
		for i, item := range s.items {
			if _, ok := s.selected[i]; !ok {
				kept = append(kept, item)
			}
		}
		s.items = kept
	}

	clear(s.selected)
	s.editMode = false
}

func (s *Store) AreAllSelected() bool {
	return len(s.items) > 0 && len(s.selected) == len(s.items)
}

func (s *Store) IsSelected(index int) bool {
	_, ok := s.selected[index]
	return ok
}

// SelectedIndices returns the selection in ascending order.
func (s *Store) SelectedIndices() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	sort.Ints(out)

	return out
}

func (s *Store) SetEditMode(on bool) {
	s.editMode = on
	if !on {
		clear(s.selected)
	}
}

func (s *Store) EditMode() bool {
	return s.editMode
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	for i, item := range s.items {
		item.SelectedOptions = item.SelectedOptions.Clone()
		out[i] = item
	}

	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) TotalQuantity() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}

	return total
}

func (s *Store) Clear() {
	s.items = nil
	clear(s.selected)
	s.editMode = false
}

// removeAt drops a line and reindexes the selection so that it keeps pointing
// at the same lines.
func (s *Store) removeAt(index int) {
	s.items = append(s.items[:index], s.items[index+1:]...)

	if len(s.selected) == 0 {
		return
	}

	shifted := make(map[int]struct{}, len(s.selected))
	for i := range s.selected {
		switch {
		case i < index:
			shifted[i] = struct{}{}
		case i > index:
			shifted[i-1] = struct{}{}
		}
	}
	s.selected = shifted
}

// IdentityKey renders the line identity of item (product id plus option
// selections) as a string. Two items merge in Add exactly when their keys
// are equal.
func IdentityKey(item models.CartItem) string {
	groups := make([]string, 0, len(item.SelectedOptions))
	for g := range item.SelectedOptions {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	var b strings.Builder
	b.WriteString(strconv.Quote(item.Product.ID))
	for _, g := range groups {
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(g))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(item.SelectedOptions[g]))
	}

	return b.String()
}

func sameIdentity(a, b models.CartItem) bool {
	return a.Product.ID == b.Product.ID && a.SelectedOptions.Equal(b.SelectedOptions)
}
