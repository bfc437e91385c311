package promo_test

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/promo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

var (
	food1   = models.PromoCode{ID: "food-1", Code: "GIAM20", Title: "Giảm 20%", Discount: 20, DiscountType: models.DiscountPercent, MaxDiscount: ptr(30000), Category: models.PromoCategoryFood}
	food2   = models.PromoCode{ID: "food-2", Code: "GIAM10K", Title: "Giảm 10K", Discount: 10000, DiscountType: models.DiscountFixed, MinOrderAmount: 50000, Category: models.PromoCategoryFood}
	special = models.PromoCode{ID: "special-1", Code: "WEEKEND", Title: "Cuối tuần", Discount: 15, DiscountType: models.DiscountPercent, Category: models.PromoCategorySpecial}
	ship1   = models.PromoCode{ID: "ship-1", Code: "FREESHIP", Title: "Miễn phí vận chuyển", Discount: 15000, DiscountType: models.DiscountFixed, Category: models.PromoCategoryDelivery}
	ship2   = models.PromoCode{ID: "ship-2", Code: "SHIP5K", Title: "Giảm 5K phí ship", Discount: 5000, DiscountType: models.DiscountFixed, Category: models.PromoCategoryDelivery}
	expired = models.PromoCode{ID: "food-x", Code: "OLD50", Title: "Hết hạn", Discount: 50, DiscountType: models.DiscountPercent, Category: models.PromoCategoryFood, IsDisabled: true, DisabledReason: "Mã đã hết hạn"}
)

func allCodes() []models.PromoCode {
	return []models.PromoCode{expired, food1, food2, special, ship1, ship2}
}

func TestToggle(t *testing.T) {
	t.Run("Success - Product conflict blocks second food promo", func(t *testing.T) {
		// Arrange
		s := promo.NewSelector(allCodes())
		require.True(t, s.Toggle(food1).Selected)

		// Act
		res := s.Toggle(food2)

		// Assert
		assert.False(t, res.Changed)
		assert.Contains(t, res.BlockReason, "sản phẩm")
		assert.False(t, s.IsSelected("food-2"))
		assert.Equal(t, []string{"food-1"}, s.Selected())
	})

	t.Run("Success - Special shares the product bucket", func(t *testing.T) {
		s := promo.NewSelector(allCodes())
		s.Toggle(food1)

		assert.False(t, s.IsSelectable(special))
		assert.Equal(t, promo.ConflictMessage(models.TypeCategoryProduct), s.BlockReason(special))
	})

	t.Run("Success - One of each type-category", func(t *testing.T) {
		s := promo.NewSelector(allCodes())

		s.Toggle(ship1)
		s.Toggle(food1)
		res := s.Toggle(ship2)

		assert.Contains(t, res.BlockReason, "vận chuyển")
		assert.Equal(t, []string{"food-1", "ship-1"}, s.Selected())
	})

	t.Run("Success - Selected promo can always be deselected", func(t *testing.T) {
		s := promo.NewSelector(allCodes())
		s.Toggle(food1)

		assert.True(t, s.IsSelectable(food1))
		assert.Empty(t, s.BlockReason(food1))

		res := s.Toggle(food1)
		assert.True(t, res.Changed)
		assert.False(t, res.Selected)
		assert.Empty(t, s.Selected())
	})

	t.Run("Failure - Disabled promo reports its reason", func(t *testing.T) {
		s := promo.NewSelector(allCodes())

		res := s.Toggle(expired)

		assert.False(t, res.Changed)
		assert.Equal(t, "Mã đã hết hạn", res.BlockReason)
		assert.Empty(t, s.Selected())
	})

	t.Run("Failure - Disabled promo without reason gets a generic one", func(t *testing.T) {
		s := promo.NewSelector(nil)
		p := expired
		p.DisabledReason = ""

		assert.NotEmpty(t, s.BlockReason(p))
	})

	t.Run("Success - Clear empties the selection", func(t *testing.T) {
		s := promo.NewSelector(allCodes())
		s.Toggle(food1)
		s.Toggle(ship1)

		s.Clear()

		assert.Empty(t, s.Selected())
		assert.True(t, s.IsSelectable(food2))
	})
}

func TestToggleProperties(t *testing.T) {
	codes := allCodes()
	rng := rand.New(rand.NewPCG(7, 11))

	t.Run("Success - Toggle is an involution", func(t *testing.T) {
		for _, start := range [][]models.PromoCode{nil, {food1}, {ship1}, {food1, ship1}} {
			for _, p := range codes {
				s := promo.NewSelector(codes)
				for _, pre := range start {
					s.Toggle(pre)
				}
				before := s.Selected()

				for n := 1; n <= 4; n++ {
					s.Toggle(p)
					if n%2 == 0 {
						assert.Equal(t, before, s.Selected(), "start=%v promo=%s n=%d", before, p.ID, n)
					}
				}
			}
		}
	})

	t.Run("Success - Selection cap holds for random sequences", func(t *testing.T) {
		for round := range 200 {
			s := promo.NewSelector(codes)
			for range 30 {
				s.Toggle(codes[rng.IntN(len(codes))])

				selected := s.SelectedCodes()
				require.LessOrEqual(t, len(selected), 2, "round %d", round)
				seen := map[models.TypeCategory]bool{}
				for _, p := range selected {
					tc := promo.TypeCategoryOf(p.Category)
					require.False(t, seen[tc], "round %d: duplicate %s", round, tc)
					seen[tc] = true
					require.False(t, p.IsDisabled)
				}
			}
		}
	})

	t.Run("Success - Disabled promo never enters the selection", func(t *testing.T) {
		s := promo.NewSelector(codes)
		for range 11 {
			s.Toggle(expired)
			assert.False(t, s.IsSelected(expired.ID))
		}
	})
}

func TestDisplayList(t *testing.T) {
	t.Run("Success - Food listing includes special codes", func(t *testing.T) {
		s := promo.NewSelector(allCodes())

		list := s.DisplayList(promo.GroupFood, "")

		ids := make([]string, 0, len(list))
		for _, p := range list {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []string{"food-1", "food-2", "special-1", "food-x"}, ids)
	})

	t.Run("Success - Delivery listing", func(t *testing.T) {
		s := promo.NewSelector(allCodes())

		list := s.DisplayList(promo.GroupDelivery, "")

		require.Len(t, list, 2)
		assert.Equal(t, "ship-1", list[0].ID)
	})

	t.Run("Success - Query matches code or title ignoring case", func(t *testing.T) {
		s := promo.NewSelector(allCodes())

		byCode := s.DisplayList(promo.GroupFood, "giam")
		byTitle := s.DisplayList(promo.GroupFood, "CUỐI")

		assert.Len(t, byCode, 2)
		require.Len(t, byTitle, 1)
		assert.Equal(t, "special-1", byTitle[0].ID)
	})

	t.Run("Success - Disabled last and capped at the limit", func(t *testing.T) {
		var codes []models.PromoCode
		for i := range 12 {
			codes = append(codes, models.PromoCode{
				ID:         fmt.Sprintf("p-%02d", i),
				Code:       fmt.Sprintf("CODE%02d", i),
				Category:   models.PromoCategoryFood,
				IsDisabled: i%3 == 0,
			})
		}
		s := promo.NewSelector(codes)

		list := s.DisplayList(promo.GroupFood, "")

		require.Len(t, list, promo.DefaultDisplayLimit)
		seenDisabled := false
		for _, p := range list {
			if p.IsDisabled {
				seenDisabled = true
			} else {
				assert.False(t, seenDisabled, "enabled %s after a disabled entry", p.ID)
			}
		}
		assert.Equal(t, "p-01", list[0].ID)
		assert.Equal(t, "p-00", list[8].ID)
		assert.Equal(t, "p-03", list[9].ID)
	})

	t.Run("Success - Custom limit", func(t *testing.T) {
		s := promo.NewSelector(allCodes(), promo.WithDisplayLimit(2))

		assert.Len(t, s.DisplayList(promo.GroupFood, ""), 2)
	})

	t.Run("Success - Views carry selection state", func(t *testing.T) {
		s := promo.NewSelector(allCodes())
		s.Toggle(food1)

		views := s.Views(promo.GroupFood, "")

		require.Len(t, views, 4)
		assert.True(t, views[0].Selected)
		assert.True(t, views[0].Selectable)
		assert.False(t, views[1].Selectable)
		assert.Contains(t, views[1].BlockReason, "sản phẩm")
	})
}

func TestParseDisplayGroup(t *testing.T) {
	g, err := promo.ParseDisplayGroup("delivery")
	require.NoError(t, err)
	assert.Equal(t, promo.GroupDelivery, g)

	_, err = promo.ParseDisplayGroup("special")
	assert.Error(t, err)
}

func TestApplicableDiscount(t *testing.T) {
	tests := []struct {
		name     string
		promo    models.PromoCode
		subtotal int64
		want     int64
	}{
		{"below minimum order", food2, 49999, 0},
		{"fixed at minimum order", food2, 50000, 10000},
		{"fixed is not prorated", food2, 1_000_000, 10000},
		{"percent rounds down", special, 33333, 4999},
		{"percent under the cap", food1, 100000, 20000},
		{"percent capped", food1, 200000, 30000},
		{"percent on zero", food1, 0, 0},
		{"unknown type", models.PromoCode{DiscountType: "bogus", Discount: 5}, 100, 0},
	}

	for _, tt := range tests {
		t.Run("Success - "+tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, promo.ApplicableDiscount(tt.promo, tt.subtotal))
		})
	}
}

func TestDiscounts(t *testing.T) {
	s := promo.NewSelector(allCodes())
	s.Toggle(ship1)
	s.Toggle(food1)

	lines := s.Discounts(100000)

	assert.Equal(t, []models.DiscountLine{
		{PromoID: "food-1", Code: "GIAM20", Amount: 20000},
		{PromoID: "ship-1", Code: "FREESHIP", Amount: 15000},
	}, lines)
}
