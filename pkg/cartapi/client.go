// Package cartapi talks to the storefront backend for cart-domain calls.
package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const MergePath = "/api/v1/cart/merge"

// Client is the set of backend calls the engine makes.
type Client interface {
	MergeCart(ctx context.Context, accessToken, deviceID string) (*models.MergeResponse, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cart api responded %d: %s", e.StatusCode, e.Body)
}

type Options struct {
	BaseURL         string
	Timeout         time.Duration
	CartURLPatterns []string
	Devices         DeviceIDSource
	Transport       http.RoundTripper
}

type httpClient struct {
	baseURL string
	client  *http.Client
}

// NewClient builds a client whose transport attaches the device id to cart
// paths and records a span per request.
func NewClient(opts Options) Client {
	device := &DeviceTransport{
		Base:     opts.Transport,
		Devices:  opts.Devices,
		Patterns: opts.CartURLPatterns,
	}

	return &httpClient{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: otelhttp.NewTransport(device),
		},
	}
}

func (c *httpClient) MergeCart(ctx context.Context, accessToken, deviceID string) (*models.MergeResponse, error) {
	body, err := json.Marshal(models.MergeRequest{DeviceID: deviceID})
	if err != nil {
		return nil, fmt.Errorf("encoding merge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+MergePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building merge request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending merge request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	var out models.MergeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding merge response: %w", err)
	}

	return &out, nil
}
