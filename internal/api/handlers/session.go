package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/middleware"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/errors"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	service "github.com/aaravmahajanofficial/foodcart-engine/internal/services"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/session"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
)

type SessionHandler struct {
	merger       service.CartMerger
	mergeTimeout time.Duration
}

func NewSessionHandler(merger service.CartMerger, mergeTimeout time.Duration) *SessionHandler {
	return &SessionHandler{merger: merger, mergeTimeout: mergeTimeout}
}

// Authenticated is called by the login flow once the user has a token. It
// merges the guest cart and tells the caller how long to wait before
// redirecting. A failed merge still answers 200.
func (h *SessionHandler) Authenticated() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		ctx, cancel := utils.WithMergeTimeout(r.Context(), h.mergeTimeout)
		defer cancel()

		result := h.merger.OnAuthenticated(ctx, middleware.TokenFromContext(r.Context()))

		logger.Info("Authentication handled",
			slog.String("mergeState", string(result.State)),
			slog.Duration("redirectAfter", result.RedirectAfter),
		)

		response.Success(w, http.StatusOK, models.AuthenticatedResponse{
			UserID:          session.Subject(claims),
			State:           result.State,
			Adjustments:     result.Adjustments,
			RedirectAfterMs: result.RedirectAfter.Milliseconds(),
		})
	}
}
