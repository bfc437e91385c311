package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/metrics"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/models"
	"github.com/aaravmahajanofficial/foodcart-engine/pkg/cartapi"
)

type DeviceIdentity interface {
	GetDeviceID(ctx context.Context) string
}

// MergeNotifier surfaces server-side cart adjustments to the user.
type MergeNotifier interface {
	PublishMergeAdjusted(items []models.AdjustedItem)
}

type MergeOption func(*MergeService)

func WithNotifier(n MergeNotifier) MergeOption {
	return func(m *MergeService) { m.notifier = n }
}

func WithLogger(logger *slog.Logger) MergeOption {
	return func(m *MergeService) { m.logger = logger }
}

// WithStateObserver is called on every state transition.
func WithStateObserver(fn func(models.MergeState)) MergeOption {
	return func(m *MergeService) { m.observe = fn }
}

// MergeService folds the guest cart of this device into the account cart
// right after authentication. It never fails the login: errors are logged
// and reported as a failed merge with an immediate redirect.
type MergeService struct {
	client        cartapi.Client
	devices       DeviceIdentity
	redirectDelay time.Duration
	notifier      MergeNotifier
	logger        *slog.Logger
	observe       func(models.MergeState)

	mu    sync.Mutex
	state models.MergeState
}

func NewMergeService(client cartapi.Client, devices DeviceIdentity, redirectDelay time.Duration, opts ...MergeOption) *MergeService {
	m := &MergeService{
		client:        client,
		devices:       devices,
		redirectDelay: redirectDelay,
		logger:        slog.Default(),
		state:         models.MergeStateIdle,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

func (m *MergeService) State() models.MergeState {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

func (m *MergeService) transition(to models.MergeState) {
	m.mu.Lock()
	m.state = to
	m.mu.Unlock()

	if m.observe != nil {
		m.observe(to)
	}
}

// OnAuthenticated runs one merge for the authentication event carrying
// accessToken. A call made while another merge is running is skipped.
func (m *MergeService) OnAuthenticated(ctx context.Context, accessToken string) models.MergeResult {
	m.mu.Lock()
	if m.state != models.MergeStateIdle {
		m.mu.Unlock()
		m.logger.WarnContext(ctx, "Cart merge already running, skipping")
		return models.MergeResult{State: models.MergeStateMerging}
	}
	m.state = models.MergeStateMerging
	m.mu.Unlock()

	if m.observe != nil {
		m.observe(models.MergeStateMerging)
	}

	result := m.merge(ctx, accessToken)
	m.transition(result.State)
	metrics.RecordMerge(string(result.State))
	m.transition(models.MergeStateIdle)

	return result
}

func (m *MergeService) merge(ctx context.Context, accessToken string) models.MergeResult {
	deviceID := m.devices.GetDeviceID(ctx)

	resp, err := m.client.MergeCart(ctx, accessToken, deviceID)
	if err != nil {
		m.logger.ErrorContext(ctx, "Cart merge failed, continuing login",
			slog.String("device_id", deviceID),
			slog.String("error", err.Error()),
		)
		return models.MergeResult{State: models.MergeStateFailed}
	}

	if !resp.Success {
		m.logger.ErrorContext(ctx, "Cart merge rejected by server, continuing login",
			slog.String("device_id", deviceID),
		)
		return models.MergeResult{State: models.MergeStateFailed}
	}

	if len(resp.AdjustedItems) == 0 {
		m.logger.InfoContext(ctx, "Guest cart merged", slog.String("device_id", deviceID))
		return models.MergeResult{State: models.MergeStateMergedNoChange}
	}

	m.logger.InfoContext(ctx, "Guest cart merged with adjustments",
		slog.String("device_id", deviceID),
		slog.Int("adjusted_items", len(resp.AdjustedItems)),
	)

	if m.notifier != nil {
		m.notifier.PublishMergeAdjusted(resp.AdjustedItems)
	}

	return models.MergeResult{
		State:         models.MergeStateMergedWithAdjustments,
		Adjustments:   resp.AdjustedItems,
		RedirectAfter: m.redirectDelay,
	}
}
