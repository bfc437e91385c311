package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/middleware"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/promo"
	service "github.com/aaravmahajanofficial/foodcart-engine/internal/services"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
)

type PromoHandler struct {
	storefront service.Storefront
}

func NewPromoHandler(storefront service.Storefront) *PromoHandler {
	return &PromoHandler{storefront: storefront}
}

// ListPromos serves one listing: ?type=food (default) or ?type=delivery,
// optionally filtered by ?q= over code and title.
func (h *PromoHandler) ListPromos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		groupParam := r.URL.Query().Get("type")
		if groupParam == "" {
			groupParam = string(promo.GroupFood)
		}

		group, err := promo.ParseDisplayGroup(groupParam)
		if err != nil {
			response.Error(w, errors.ValidationError("Unknown promo type").WithDetail(groupParam))
			return
		}

		response.Success(w, http.StatusOK, models.PromoListResponse{
			Promos:           h.storefront.Promos(group, r.URL.Query().Get("q")),
			SelectionMessage: h.storefront.SelectionMessage(),
		})
	}
}

func (h *PromoHandler) TogglePromo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())
		id := r.PathValue("id")

		res, err := h.storefront.TogglePromo(id)
		if err != nil {
			logger.Warn("Promo toggle failed", slog.String("promoId", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		if res.BlockReason != "" {
			logger.Info("Promo selection blocked", slog.String("promoId", id), slog.String("reason", res.BlockReason))
		}

		response.Success(w, http.StatusOK, res)
	}
}
