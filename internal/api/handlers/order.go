package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/middleware"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	service "github.com/aaravmahajanofficial/foodcart-engine/internal/services"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type OrderHandler struct {
	storefront service.Storefront
	validator  *validator.Validate
}

func NewOrderHandler(storefront service.Storefront) *OrderHandler {
	return &OrderHandler{storefront: storefront, validator: validator.New()}
}

func (h *OrderHandler) GetSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.storefront.Summary())
	}
}

func (h *OrderHandler) ToggleInsurance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		summary := h.storefront.ToggleInsurance()

		middleware.LoggerFromContext(r.Context()).Info("Insurance toggled", slog.Bool("confirmed", summary.InsuranceConfirmed))
		response.Success(w, http.StatusOK, summary)
	}
}

func (h *OrderHandler) SetDeliveryMode() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.DeliveryModeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			middleware.LoggerFromContext(r.Context()).Warn("Invalid delivery mode input")
			return
		}

		response.Success(w, http.StatusOK, h.storefront.SetDoorDelivery(*req.DoorDelivery))
	}
}
