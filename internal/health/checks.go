package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

var ErrDeviceIDNotPersistent = errors.New("device id is held in memory only")

// DeviceStatus reports whether the device id currently survives restarts.
type DeviceStatus interface {
	Persistent() bool
}

type Endpoints struct {
	Devices DeviceStatus
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {

	checks := []health.Config{
		{
			Name:      "storefront-api",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check: healthHttp.New(healthHttp.Config{
				URL:            cfg.API.BaseURL,
				RequestTimeout: 3 * time.Second,
			}),
		},
	}

	if cfg.Storage.Driver == "redis" {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	}

	if endpoints != nil && endpoints.Devices != nil {
		checks = append(checks, health.Config{
			Name:      "device-storage",
			Timeout:   time.Second,
			SkipOnErr: true,
			Check: func(context.Context) error {
				if !endpoints.Devices.Persistent() {
					return ErrDeviceIDNotPersistent
				}
				return nil
			},
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "foodcart-engine",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
