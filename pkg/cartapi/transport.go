package cartapi

import (
	"context"
	"net/http"
	"strings"
)

const DeviceIDHeader = "X-Device-Id"

// DeviceIDSource supplies the identifier attached to cart requests.
type DeviceIDSource interface {
	GetDeviceID(ctx context.Context) string
}

// DeviceTransport adds the device identifier to requests whose path is one
// of the cart patterns or lies below one. Other requests pass through untouched.
type DeviceTransport struct {
	Base     http.RoundTripper
	Devices  DeviceIDSource
	Patterns []string
}

func (t *DeviceTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	if t.Devices == nil || !t.IsCartPath(req.URL.Path) {
		return base.RoundTrip(req)
	}

	id := t.Devices.GetDeviceID(req.Context())
	if id == "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set(DeviceIDHeader, id)

	return base.RoundTrip(clone)
}

// IsCartPath matches whole path segments: "/api/v1/cart" covers
// "/api/v1/cart/items" but not "/api/v1/cartoons".
func (t *DeviceTransport) IsCartPath(path string) bool {
	for _, p := range t.Patterns {
		prefix := strings.TrimRight(p, "/")
		if prefix == "" {
			continue
		}

		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}

	return false
}
