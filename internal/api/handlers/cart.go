package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/middleware"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	service "github.com/aaravmahajanofficial/foodcart-engine/internal/services"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	storefront service.Storefront
	validator  *validator.Validate
}

func NewCartHandler(storefront service.Storefront) *CartHandler {
	return &CartHandler{storefront: storefront, validator: validator.New()}
}

func pathIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, errors.ValidationError("Cart index must be a number").WithError(err)
	}

	return index, nil
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.storefront.Cart())
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add to cart input")
			return
		}

		logger = logger.With(slog.String("productId", req.ProductID))

		cart, err := h.storefront.AddToCart(r.Context(), &req)
		if err != nil {
			logger.Warn("Add to cart rejected", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart", slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		productID := r.PathValue("productId")

		cart, err := h.storefront.RemoveOne(productID)
		if err != nil {
			logger.Warn("Remove from cart failed", slog.String("productId", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		index, err := pathIndex(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid quantity update input")
			return
		}

		cart, err := h.storefront.UpdateQuantity(index, *req.Quantity)
		if err != nil {
			logger.Warn("Quantity update failed", slog.Int("index", index), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) ToggleSelection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		index, err := pathIndex(r)
		if err != nil {
			response.Error(w, err)
			return
		}

		cart, err := h.storefront.ToggleSelection(index)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) SelectAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.storefront.SelectAll())
	}
}

func (h *CartHandler) ClearSelection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.storefront.ClearSelection())
	}
}

func (h *CartHandler) DeleteSelected() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		cart := h.storefront.DeleteSelected()

		middleware.LoggerFromContext(r.Context()).Info("Selected cart lines deleted", slog.Int("remaining", len(cart.Items)))
		response.Success(w, http.StatusOK, cart)
	}
}

func (h *CartHandler) SetEditMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.EditModeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		response.Success(w, http.StatusOK, h.storefront.SetEditMode(*req.Enabled))
	}
}
