package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/handlers"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/api/middleware"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/cache"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/catalog"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/config"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/deviceid"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/health"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/metrics"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/order"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/promo"
	service "github.com/aaravmahajanofficial/foodcart-engine/internal/services"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/telemetry"
	"github.com/aaravmahajanofficial/foodcart-engine/internal/ui"
	"github.com/aaravmahajanofficial/foodcart-engine/pkg/cartapi"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// newDeviceStorage picks the backend named by the storage driver. A redis
// outage at boot is not fatal: the provider then serves an in-memory id.
func newDeviceStorage(ctx context.Context, cfg *config.Config) (deviceid.Storage, func() error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case "memory":
		return deviceid.NewMemoryStorage(), noop
	case "redis":
		client, err := cache.NewRedisClient(ctx, &cfg.RedisConnect)
		if err != nil {
			slog.Error("❌ Error accessing the redis instance, device id will not persist", slog.String("error", err.Error()))
			return nil, noop
		}
		redisCache := cache.NewRedisCache(client, cfg.Storage.DeviceTTL)
		return deviceid.NewCacheStorage(redisCache, cfg.Storage.DeviceTTL), redisCache.Close
	default:
		return deviceid.NewFileStorage(cfg.Storage.Path), noop
	}
}

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Otel)
	if err != nil {
		slog.Error("❌ Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	menu, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		slog.Error("❌ Error loading the catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}

	storage, closeStorage := newDeviceStorage(ctx, cfg)
	defer func() {
		if err := closeStorage(); err != nil {
			slog.Error("⚠️ Error closing device storage", slog.String("error", err.Error()))
		}
	}()

	devices := deviceid.NewProvider(storage,
		deviceid.WithKey(cfg.Storage.Key),
		deviceid.WithLogger(logger),
		deviceid.WithOnDegraded(metrics.RecordDeviceDegraded),
	)

	cartClient := cartapi.NewClient(cartapi.Options{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		CartURLPatterns: cfg.API.CartURLPatterns,
		Devices:         devices,
	})

	storefront := service.NewStorefrontService(
		menu,
		promo.NewSelector(menu.Promos, promo.WithDisplayLimit(cfg.Promo.DisplayLimit)),
		order.NewAggregator(order.FeesFromConfig(cfg.Pricing)),
		cfg.Timers,
		logger,
	)
	storefront.Subscribe(func(e ui.Event) {
		slog.Debug("Storefront event", slog.String("type", string(e.Type)), slog.String("productId", e.ProductID))
	})

	merger := service.NewMergeService(cartClient, devices, cfg.Timers.MergeRedirectDelay,
		service.WithNotifier(storefront),
		service.WithLogger(logger),
	)

	healthChecker, err := health.NewHealthHandler(cfg, &health.Endpoints{Devices: devices})
	if err != nil {
		slog.Error("❌ Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cartHandler := handlers.NewCartHandler(storefront)
	promoHandler := handlers.NewPromoHandler(storefront)
	orderHandler := handlers.NewOrderHandler(storefront)
	productHandler := handlers.NewProductHandler(menu)
	sessionHandler := handlers.NewSessionHandler(merger, cfg.API.Timeout)
	deviceHandler := handlers.NewDeviceHandler(devices)

	slog.Info("storefront initialized",
		slog.String("env", cfg.Env),
		slog.Int("products", len(menu.Products)),
		slog.Int("promos", len(menu.Promos)),
		slog.Bool("deviceIdPersistent", devices.Persistent()),
		slog.Bool("deviceIdPresent", devices.HasDeviceID(ctx)),
	)

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/products", productHandler.ListProducts())
	routerMux.HandleFunc("GET /api/v1/products/{id}", productHandler.GetProduct())
	routerMux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	routerMux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{productId}", cartHandler.RemoveItem())
	routerMux.HandleFunc("PATCH /api/v1/cart/items/{index}", cartHandler.UpdateQuantity())
	routerMux.HandleFunc("PUT /api/v1/cart/edit-mode", cartHandler.SetEditMode())
	routerMux.HandleFunc("POST /api/v1/cart/selection/{index}", cartHandler.ToggleSelection())
	routerMux.HandleFunc("POST /api/v1/cart/selection", cartHandler.SelectAll())
	routerMux.HandleFunc("DELETE /api/v1/cart/selection", cartHandler.ClearSelection())
	routerMux.HandleFunc("POST /api/v1/cart/selection/delete", cartHandler.DeleteSelected())
	routerMux.HandleFunc("GET /api/v1/promos", promoHandler.ListPromos())
	routerMux.HandleFunc("POST /api/v1/promos/{id}/toggle", promoHandler.TogglePromo())
	routerMux.HandleFunc("GET /api/v1/order/summary", orderHandler.GetSummary())
	routerMux.HandleFunc("POST /api/v1/order/insurance", orderHandler.ToggleInsurance())
	routerMux.HandleFunc("PUT /api/v1/order/delivery", orderHandler.SetDeliveryMode())
	routerMux.HandleFunc("POST /api/v1/session/authenticated", middleware.BearerSession(sessionHandler.Authenticated()))
	routerMux.HandleFunc("GET /api/v1/device", deviceHandler.GetDevice())
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthChecker.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "foodcart-engine")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	storefront.Dispose()

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}

}
