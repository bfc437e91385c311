package service

import (
	"context"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/promo"
)

// Storefront is the session surface the local API drives.
type Storefront interface {
	AddToCart(ctx context.Context, req *models.AddItemRequest) (*models.CartView, error)
	RemoveOne(productID string) (*models.CartView, error)
	UpdateQuantity(index, quantity int) (*models.CartView, error)
	ToggleSelection(index int) (*models.CartView, error)
	SelectAll() *models.CartView
	ClearSelection() *models.CartView
	DeleteSelected() *models.CartView
	SetEditMode(on bool) *models.CartView
	Cart() *models.CartView

	Promos(group promo.DisplayGroup, query string) []models.PromoView
	TogglePromo(id string) (*models.TogglePromoResponse, error)
	SelectionMessage() string

	Summary() *models.OrderSummary
	ToggleInsurance() *models.OrderSummary
	SetDoorDelivery(door bool) *models.OrderSummary
}

type CartMerger interface {
	OnAuthenticated(ctx context.Context, accessToken string) models.MergeResult
	State() models.MergeState
}

var (
	_ Storefront = (*StorefrontService)(nil)
	_ CartMerger = (*MergeService)(nil)
)
