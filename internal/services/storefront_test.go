package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/config"
	appErrors "github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/order"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/promo"
	service "github.com/aaravmahajanofficial/foodcart-engine/internal/services"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productMap map[string]models.Product

func (m productMap) Product(id string) (models.Product, bool) {
	p, ok := m[id]
	return p, ok
}

var (
	pho = models.Product{
		ID: "pho-bo", Name: "Phở bò", BasePrice: 50000,
		Customizations: []models.CustomizationGroup{{
			ID: "size", Name: "Size", Required: true, MaxSelection: 1,
			Options: []models.CustomizationOption{{ID: "m", Name: "Vừa"}, {ID: "l", Name: "Lớn", PriceModifier: 10000}},
		}},
	}
	tea = models.Product{ID: "tra-da", Name: "Trà đá", BasePrice: 5000}

	catalogPromos = []models.PromoCode{
		{ID: "food-1", Code: "GIAM10K", Discount: 10000, DiscountType: models.DiscountFixed, Category: models.PromoCategoryFood},
		{ID: "food-2", Code: "GIAM5K", Discount: 5000, DiscountType: models.DiscountFixed, Category: models.PromoCategoryFood},
		{ID: "ship-1", Code: "FREESHIP", Discount: 15000, DiscountType: models.DiscountFixed, Category: models.PromoCategoryDelivery},
	}

	fastTimers = config.Timers{
		AddSuccess:       40 * time.Millisecond,
		SelectionMessage: 40 * time.Millisecond,
		ModalClose:       10 * time.Millisecond,
	}
)

type recorder struct {
	mu     sync.Mutex
	events []ui.Event
}

func (r *recorder) record(e ui.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []ui.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ui.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func (r *recorder) has(t ui.EventType) bool {
	for _, got := range r.types() {
		if got == t {
			return true
		}
	}
	return false
}

func newStorefront(t *testing.T) (*service.StorefrontService, *recorder) {
	t.Helper()

	return newStorefrontWithTimers(t, fastTimers)
}

func newStorefrontWithTimers(t *testing.T, timers config.Timers) (*service.StorefrontService, *recorder) {
	t.Helper()

	svc := service.NewStorefrontService(
		productMap{pho.ID: pho, tea.ID: tea},
		promo.NewSelector(catalogPromos),
		order.NewAggregator(order.Fees{DoorDelivery: 15000, Insurance: 2000}),
		timers,
		nil,
	)
	rec := &recorder{}
	svc.Subscribe(rec.record)
	t.Cleanup(svc.Dispose)

	return svc, rec
}

func appCode(t *testing.T, err error) string {
	t.Helper()

	appErr, ok := appErrors.IsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func TestAddToCart(t *testing.T) {
	t.Run("Success - Adds priced line and signals success", func(t *testing.T) {
		// Arrange
		svc, rec := newStorefront(t)

		// Act
		view, err := svc.AddToCart(t.Context(), &models.AddItemRequest{
			ProductID: "pho-bo", Quantity: 2, Note: "<b>ít hành</b>",
			SelectedOptions: map[string]string{"size": "l"},
		})

		// Assert
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		line := view.Items[0]
		assert.Equal(t, int64(60000), line.UnitPrice)
		assert.Equal(t, int64(120000), line.Total)
		assert.Equal(t, "ít hành", line.Note)
		assert.Equal(t, []string{"Lớn"}, line.OptionLabels)
		assert.Equal(t, int64(120000), view.Subtotal)
		assert.Equal(t, 2, view.TotalQuantity)
		assert.Equal(t, ui.EventAddToCartSucceeded, rec.types()[0])

		assert.Eventually(t, func() bool { return rec.has(ui.EventAddToCartCleared) }, time.Second, 5*time.Millisecond)
		assert.True(t, rec.has(ui.EventModalClosed))
	})

	t.Run("Failure - Repeated tap during the success window is ignored", func(t *testing.T) {
		// Arrange
		svc, _ := newStorefront(t)
		req := &models.AddItemRequest{ProductID: "tra-da", Quantity: 1}
		_, err := svc.AddToCart(t.Context(), req)
		require.NoError(t, err)

		// Act
		_, err = svc.AddToCart(t.Context(), req)

		// Assert
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appCode(t, err))
		assert.Equal(t, 1, svc.Cart().TotalQuantity)

		// A different product is a separate gesture.
		_, err = svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "pho-bo", Quantity: 1, SelectedOptions: map[string]string{"size": "m"}})
		assert.NoError(t, err)

		// Once the window closes the same product can be added again and merges.
		assert.Eventually(t, func() bool {
			_, err := svc.AddToCart(t.Context(), req)
			return err == nil
		}, time.Second, 10*time.Millisecond)
		view := svc.Cart()
		assert.Len(t, view.Items, 2)
		assert.Equal(t, 2, view.Items[0].Quantity)
	})

	t.Run("Success - Another customization of the same product is a new gesture", func(t *testing.T) {
		// Arrange
		svc, _ := newStorefrontWithTimers(t, config.Timers{AddSuccess: time.Minute, SelectionMessage: time.Minute, ModalClose: time.Minute})
		medium := &models.AddItemRequest{ProductID: "pho-bo", Quantity: 1, SelectedOptions: map[string]string{"size": "m"}}
		large := &models.AddItemRequest{ProductID: "pho-bo", Quantity: 1, SelectedOptions: map[string]string{"size": "l"}}
		_, err := svc.AddToCart(t.Context(), medium)
		require.NoError(t, err)

		// Act
		view, err := svc.AddToCart(t.Context(), large)
		_, repeatErr := svc.AddToCart(t.Context(), medium)

		// Assert
		require.NoError(t, err)
		assert.Len(t, view.Items, 2)
		assert.Equal(t, appErrors.ErrCodeTooManyRequests, appCode(t, repeatErr))
		assert.Equal(t, 2, svc.Cart().TotalQuantity)
	})

	t.Run("Failure - Missing required customization", func(t *testing.T) {
		svc, rec := newStorefront(t)

		_, err := svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "pho-bo", Quantity: 1})

		assert.Equal(t, appErrors.ErrCodeRequiredCustomization, appCode(t, err))
		assert.Empty(t, svc.Cart().Items)
		assert.Empty(t, rec.types())

		// A rejected add holds no guard, so a corrected add goes through at once.
		_, err = svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "pho-bo", Quantity: 1, SelectedOptions: map[string]string{"size": "m"}})
		assert.NoError(t, err)
	})

	t.Run("Failure - Unknown option and product", func(t *testing.T) {
		svc, _ := newStorefront(t)

		_, err := svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "pho-bo", Quantity: 1, SelectedOptions: map[string]string{"size": "xxl"}})
		assert.Equal(t, appErrors.ErrCodeValidation, appCode(t, err))

		_, err = svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "bun-cha", Quantity: 1})
		assert.Equal(t, appErrors.ErrCodeNotFound, appCode(t, err))
	})

	t.Run("Failure - Closed session", func(t *testing.T) {
		svc, _ := newStorefront(t)
		svc.Dispose()

		_, err := svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "tra-da", Quantity: 1})

		assert.Equal(t, appErrors.ErrCodeBadRequest, appCode(t, err))
	})
}

func TestCartEditing(t *testing.T) {
	svc, _ := newStorefront(t)
	for _, id := range []string{"tra-da", "pho-bo"} {
		_, err := svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: id, Quantity: 1, SelectedOptions: optionsFor(id)})
		require.NoError(t, err)
	}

	t.Run("Success - Quantity update and selection", func(t *testing.T) {
		view, err := svc.UpdateQuantity(0, 3)
		require.NoError(t, err)
		assert.Equal(t, 3, view.Items[0].Quantity)

		svc.SetEditMode(true)
		view, err = svc.ToggleSelection(1)
		require.NoError(t, err)
		assert.True(t, view.Items[1].Selected)
		assert.False(t, view.AllSelected)

		view = svc.SelectAll()
		assert.True(t, view.AllSelected)
		view = svc.ClearSelection()
		assert.False(t, view.Items[0].Selected)
	})

	t.Run("Success - Delete selected resets edit mode", func(t *testing.T) {
		svc.SetEditMode(true)
		_, err := svc.ToggleSelection(0)
		require.NoError(t, err)

		view := svc.DeleteSelected()

		require.Len(t, view.Items, 1)
		assert.Equal(t, "pho-bo", view.Items[0].ProductID)
		assert.False(t, view.EditMode)
	})

	t.Run("Failure - Bad index and negative quantity", func(t *testing.T) {
		_, err := svc.UpdateQuantity(9, 1)
		assert.Equal(t, appErrors.ErrCodeNotFound, appCode(t, err))

		_, err = svc.UpdateQuantity(0, -1)
		assert.Equal(t, appErrors.ErrCodeValidation, appCode(t, err))

		_, err = svc.ToggleSelection(-1)
		assert.Equal(t, appErrors.ErrCodeNotFound, appCode(t, err))
	})

	t.Run("Success - Remove one by product", func(t *testing.T) {
		view, err := svc.RemoveOne("pho-bo")
		require.NoError(t, err)
		assert.Empty(t, view.Items)

		_, err = svc.RemoveOne("pho-bo")
		assert.Equal(t, appErrors.ErrCodeNotFound, appCode(t, err))
	})
}

func optionsFor(id string) map[string]string {
	if id == "pho-bo" {
		return map[string]string{"size": "m"}
	}
	return nil
}

func TestTogglePromo(t *testing.T) {
	t.Run("Success - Conflict shows a message that clears itself", func(t *testing.T) {
		// Arrange
		svc, rec := newStorefront(t)
		first, err := svc.TogglePromo("food-1")
		require.NoError(t, err)
		require.True(t, first.Changed)

		// Act
		res, err := svc.TogglePromo("food-2")

		// Assert
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Contains(t, res.BlockReason, "sản phẩm")
		assert.Equal(t, []string{"food-1"}, res.Selected)
		assert.Equal(t, res.BlockReason, svc.SelectionMessage())
		assert.True(t, rec.has(ui.EventSelectionBlocked))

		assert.Eventually(t, func() bool { return svc.SelectionMessage() == "" }, time.Second, 5*time.Millisecond)
		assert.Eventually(t, func() bool { return rec.has(ui.EventSelectionCleared) }, time.Second, 5*time.Millisecond)
	})

	t.Run("Success - Views and deselection", func(t *testing.T) {
		svc, _ := newStorefront(t)
		_, _ = svc.TogglePromo("ship-1")

		views := svc.Promos(promo.GroupDelivery, "")
		require.Len(t, views, 1)
		assert.True(t, views[0].Selected)

		res, err := svc.TogglePromo("ship-1")
		require.NoError(t, err)
		assert.Empty(t, res.Selected)
	})

	t.Run("Failure - Closed session leaves no stuck message", func(t *testing.T) {
		// Arrange
		svc, _ := newStorefront(t)
		_, err := svc.TogglePromo("food-1")
		require.NoError(t, err)
		svc.Dispose()

		// Act
		res, err := svc.TogglePromo("food-2")

		// Assert
		assert.Nil(t, res)
		assert.Equal(t, appErrors.ErrCodeBadRequest, appCode(t, err))
		assert.Empty(t, svc.SelectionMessage())
	})

	t.Run("Failure - Unknown promo", func(t *testing.T) {
		svc, _ := newStorefront(t)

		_, err := svc.TogglePromo("nope")

		assert.Equal(t, appErrors.ErrCodeNotFound, appCode(t, err))
	})
}

func TestSummary(t *testing.T) {
	svc, _ := newStorefront(t)
	_, err := svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "pho-bo", Quantity: 2, SelectedOptions: map[string]string{"size": "m"}})
	require.NoError(t, err)
	_, _ = svc.TogglePromo("food-1")
	_, _ = svc.TogglePromo("ship-1")

	sum := svc.Summary()
	assert.Equal(t, int64(100000), sum.Subtotal)
	assert.Equal(t, int64(25000), sum.DiscountTotal)
	assert.Equal(t, int64(90000), sum.Total)
	assert.Equal(t, int64(115000), sum.OriginalTotal)

	sum = svc.ToggleInsurance()
	assert.Equal(t, int64(92000), sum.Total)
	assert.True(t, sum.InsuranceConfirmed)

	sum = svc.SetDoorDelivery(false)
	assert.Equal(t, int64(0), sum.DeliveryFee)
	assert.Equal(t, int64(77000), sum.Total)

	sum = svc.ToggleInsurance()
	assert.False(t, sum.InsuranceConfirmed)
	assert.Equal(t, int64(75000), sum.Total)
}

func TestDispose(t *testing.T) {
	// Arrange
	svc, rec := newStorefrontWithTimers(t, config.Timers{
		AddSuccess:       50 * time.Millisecond,
		SelectionMessage: 50 * time.Millisecond,
		ModalClose:       50 * time.Millisecond,
	})
	_, err := svc.AddToCart(t.Context(), &models.AddItemRequest{ProductID: "tra-da", Quantity: 1})
	require.NoError(t, err)
	_, _ = svc.TogglePromo("food-1")
	_, _ = svc.TogglePromo("food-2")

	// Act
	svc.Dispose()
	time.Sleep(120 * time.Millisecond)

	// Assert
	assert.Equal(t, []ui.EventType{ui.EventAddToCartSucceeded, ui.EventSelectionBlocked}, rec.types())
	assert.Empty(t, svc.SelectionMessage())
	assert.Equal(t, 1, svc.Cart().TotalQuantity)
}
