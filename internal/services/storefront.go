package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/cart"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/config"
	appErrors "github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/metrics"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/order"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/pricing"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/promo"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/ui"
)

const selectionMessageTask = "selection-message"

// ProductLookup resolves catalog products by id.
type ProductLookup interface {
	Product(id string) (models.Product, bool)
}

// StorefrontService owns the live cart, promo selection and order flags of
// one storefront session. Every mutation runs under one lock, events are
// published after it is released.
type StorefrontService struct {
	mu       sync.Mutex
	products ProductLookup
	store    *cart.Store
	promos   *promo.Selector
	order    *order.Aggregator
	bus      *ui.Bus
	tasks    *ui.Scheduler
	adding   *ui.Guard
	timers   config.Timers
	logger   *slog.Logger

	selectionMessage string
	pending          []ui.Event
	disposed         bool
}

func NewStorefrontService(products ProductLookup, promos *promo.Selector, agg *order.Aggregator, timers config.Timers, logger *slog.Logger) *StorefrontService {
	if logger == nil {
		logger = slog.Default()
	}

	return &StorefrontService{
		products: products,
		store:    cart.NewStore(),
		promos:   promos,
		order:    agg,
		bus:      ui.NewBus(),
		tasks:    ui.NewScheduler(),
		adding:   ui.NewGuard(),
		timers:   timers,
		logger:   logger,
	}
}

func (s *StorefrontService) lock() {
	s.mu.Lock()
}

func (s *StorefrontService) unlock() {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, e := range events {
		s.bus.Publish(e)
	}
}

func (s *StorefrontService) emit(e ui.Event) {
	s.pending = append(s.pending, e)
}

// Subscribe registers fn for storefront events.
func (s *StorefrontService) Subscribe(fn func(ui.Event)) func() {
	return s.bus.Subscribe(fn)
}

// AddToCart validates the customization of req and commits it to the cart.
// A second add of the same product and options while the first one's
// success window is open is rejected with a TooManyRequests error and
// changes nothing.
func (s *StorefrontService) AddToCart(ctx context.Context, req *models.AddItemRequest) (*models.CartView, error) {
	s.lock()
	defer s.unlock()

	if s.disposed {
		return nil, appErrors.BadRequestError("Storefront session is closed")
	}

	product, ok := s.products.Product(req.ProductID)
	if !ok {
		metrics.RecordCartAdd("rejected")
		return nil, appErrors.NotFoundError("Product not found").WithDetail(req.ProductID)
	}

	item, err := s.buildItem(product, req)
	if err != nil {
		metrics.RecordCartAdd("rejected")
		return nil, err
	}

	// A repeat of the same configuration is one gesture; another
	// customization of the product is a new one.
	lineKey := cart.IdentityKey(item)
	if !s.adding.TryAcquire(lineKey) {
		metrics.RecordCartAdd("debounced")
		s.logger.DebugContext(ctx, "Add to cart ignored while previous add is pending", slog.String("product_id", product.ID))
		return nil, appErrors.TooManyRequestsError("Add to cart already in progress").WithDetail(product.ID)
	}

	before := s.store.Len()
	s.store.Add(item)
	if s.store.Len() > before {
		metrics.RecordCartAdd("added")
	} else {
		metrics.RecordCartAdd("merged")
	}

	s.emit(ui.Event{Type: ui.EventAddToCartSucceeded, ProductID: product.ID})

	productID := product.ID
	s.tasks.After("modal:"+productID, s.timers.ModalClose, func() {
		s.afterTimer(ui.Event{Type: ui.EventModalClosed, ProductID: productID})
	})
	s.tasks.After("add:"+lineKey, s.timers.AddSuccess, func() {
		s.adding.Release(lineKey)
		s.afterTimer(ui.Event{Type: ui.EventAddToCartCleared, ProductID: productID})
	})

	view := s.cartView()
	return &view, nil
}

func (s *StorefrontService) buildItem(product models.Product, req *models.AddItemRequest) (models.CartItem, error) {
	draft := cart.NewDraft(product)
	draft.SetQuantity(req.Quantity)
	draft.SetNote(req.Note)

	for groupID, optionID := range req.SelectedOptions {
		if err := draft.Select(groupID, optionID); err != nil {
			switch {
			case errors.Is(err, cart.ErrUnknownGroup), errors.Is(err, cart.ErrUnknownOption):
				return models.CartItem{}, appErrors.ValidationError("Invalid customization").WithError(err)
			default:
				return models.CartItem{}, appErrors.InternalError("Failed to apply customization").WithError(err)
			}
		}
	}

	return draft.Confirm()
}

// afterTimer publishes e unless the session was disposed meanwhile.
func (s *StorefrontService) afterTimer(e ui.Event) {
	s.lock()
	defer s.unlock()

	if s.disposed {
		return
	}
	s.emit(e)
}

// RemoveOne deletes the first line holding productID.
func (s *StorefrontService) RemoveOne(productID string) (*models.CartView, error) {
	s.lock()
	defer s.unlock()

	if !s.store.RemoveOne(productID) {
		return nil, appErrors.NotFoundError("Item not found in the cart").WithDetail(productID)
	}

	view := s.cartView()
	return &view, nil
}

func (s *StorefrontService) UpdateQuantity(index, quantity int) (*models.CartView, error) {
	s.lock()
	defer s.unlock()

	if quantity < 0 {
		return nil, appErrors.ValidationError("Quantity cannot be negative")
	}

	if err := s.store.UpdateQuantity(index, quantity); err != nil {
		return nil, appErrors.NotFoundError("Cart line not found").WithError(err)
	}

	view := s.cartView()
	return &view, nil
}

func (s *StorefrontService) ToggleSelection(index int) (*models.CartView, error) {
	s.lock()
	defer s.unlock()

	if err := s.store.ToggleSelection(index); err != nil {
		return nil, appErrors.NotFoundError("Cart line not found").WithError(err)
	}

	view := s.cartView()
	return &view, nil
}

func (s *StorefrontService) SelectAll() *models.CartView {
	s.lock()
	defer s.unlock()

	s.store.SelectAll()

	view := s.cartView()
	return &view
}

func (s *StorefrontService) ClearSelection() *models.CartView {
	s.lock()
	defer s.unlock()

	s.store.ClearSelection()

	view := s.cartView()
	return &view
}

// DeleteSelected removes the selected lines and leaves edit mode.
func (s *StorefrontService) DeleteSelected() *models.CartView {
	s.lock()
	defer s.unlock()

	s.store.DeleteSelected()

	view := s.cartView()
	return &view
}

func (s *StorefrontService) SetEditMode(on bool) *models.CartView {
	s.lock()
	defer s.unlock()

	s.store.SetEditMode(on)

	view := s.cartView()
	return &view
}

func (s *StorefrontService) Cart() *models.CartView {
	s.lock()
	defer s.unlock()

	view := s.cartView()
	return &view
}

func (s *StorefrontService) cartView() models.CartView {
	items := s.store.Items()
	lines := make([]models.CartLine, 0, len(items))

	for i, item := range items {
		lines = append(lines, models.CartLine{
			Index:           i,
			ProductID:       item.Product.ID,
			Name:            item.Product.Name,
			Quantity:        item.Quantity,
			Note:            item.Note,
			SelectedOptions: item.SelectedOptions,
			OptionLabels:    pricing.OptionLabels(item.Product, item.SelectedOptions),
			UnitPrice:       pricing.UnitPrice(item.Product, item.SelectedOptions),
			Total:           pricing.ItemTotal(item),
			Selected:        s.store.IsSelected(i),
		})
	}

	return models.CartView{
		Items:         lines,
		Subtotal:      pricing.CartTotal(items),
		TotalQuantity: s.store.TotalQuantity(),
		EditMode:      s.store.EditMode(),
		AllSelected:   s.store.AreAllSelected(),
	}
}

func (s *StorefrontService) Promos(group promo.DisplayGroup, query string) []models.PromoView {
	s.lock()
	defer s.unlock()

	return s.promos.Views(group, query)
}

// TogglePromo flips the selection of promo id. A blocked toggle keeps the
// selection and shows its reason until the selection-message timer clears it.
func (s *StorefrontService) TogglePromo(id string) (*models.TogglePromoResponse, error) {
	s.lock()
	defer s.unlock()

	if s.disposed {
		return nil, appErrors.BadRequestError("Storefront session is closed")
	}

	p, ok := s.promos.Lookup(id)
	if !ok {
		return nil, appErrors.NotFoundError("Promo code not found").WithDetail(id)
	}

	res := s.promos.Toggle(p)

	switch {
	case res.BlockReason != "":
		metrics.RecordPromoToggle("blocked")
		s.selectionMessage = res.BlockReason
		s.emit(ui.Event{Type: ui.EventSelectionBlocked, Reason: res.BlockReason})
		s.tasks.After(selectionMessageTask, s.timers.SelectionMessage, s.clearSelectionMessage)
	case res.Selected:
		metrics.RecordPromoToggle("selected")
	default:
		metrics.RecordPromoToggle("deselected")
	}

	return &models.TogglePromoResponse{
		Selected:    s.promos.Selected(),
		Changed:     res.Changed,
		BlockReason: res.BlockReason,
	}, nil
}

func (s *StorefrontService) clearSelectionMessage() {
	s.lock()
	defer s.unlock()

	if s.disposed {
		return
	}
	s.selectionMessage = ""
	s.emit(ui.Event{Type: ui.EventSelectionCleared})
}

// SelectionMessage is the block reason currently on screen, if any.
func (s *StorefrontService) SelectionMessage() string {
	s.lock()
	defer s.unlock()

	return s.selectionMessage
}

func (s *StorefrontService) Summary() *models.OrderSummary {
	s.lock()
	defer s.unlock()

	sum := s.order.Summary(s.store.Items(), s.promos)
	return &sum
}

func (s *StorefrontService) ToggleInsurance() *models.OrderSummary {
	s.lock()
	defer s.unlock()

	s.order.ToggleInsurance()

	sum := s.order.Summary(s.store.Items(), s.promos)
	return &sum
}

func (s *StorefrontService) SetDoorDelivery(door bool) *models.OrderSummary {
	s.lock()
	defer s.unlock()

	s.order.SetDoorDelivery(door)

	sum := s.order.Summary(s.store.Items(), s.promos)
	return &sum
}

// PublishMergeAdjusted forwards merge adjustments to storefront subscribers.
func (s *StorefrontService) PublishMergeAdjusted(items []models.AdjustedItem) {
	s.lock()
	defer s.unlock()

	if s.disposed {
		return
	}
	s.emit(ui.Event{Type: ui.EventMergeAdjusted, Adjustments: items})
}

// Dispose cancels pending timers and detaches subscribers. Cart contents
// are kept.
func (s *StorefrontService) Dispose() {
	s.lock()
	s.disposed = true
	s.pending = nil
	s.tasks.Dispose()
	s.adding.Reset()
	s.selectionMessage = ""
	s.unlock()

	s.bus.Close()
}
