package handlers

import (
	"context"
	"net/http"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/utils/response"
)

type DeviceInfo interface {
	GetDeviceID(ctx context.Context) string
	Persistent() bool
}

type DeviceHandler struct {
	devices DeviceInfo
}

func NewDeviceHandler(devices DeviceInfo) *DeviceHandler {
	return &DeviceHandler{devices: devices}
}

func (h *DeviceHandler) GetDevice() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := h.devices.GetDeviceID(r.Context())

		response.Success(w, http.StatusOK, models.DeviceResponse{
			DeviceID:   id,
			Persistent: h.devices.Persistent(),
		})
	}
}
