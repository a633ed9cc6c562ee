package app

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oakhaus/furnish/internal/domain/cart"
	"github.com/oakhaus/furnish/internal/domain/catalog"
	"github.com/oakhaus/furnish/internal/domain/checkout"
	"github.com/oakhaus/furnish/internal/handler"
	"github.com/oakhaus/furnish/internal/storage/jsonfile"
	"github.com/oakhaus/furnish/pkg/health"
	"github.com/oakhaus/furnish/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server and the catalog
// flusher, and handles graceful shutdown. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.String("data_dir", cfg.DataDir))

	// JSON-file stores.
	catalogFile := jsonfile.NewCatalogFile(cfg.DataDir)
	items, err := catalogFile.LoadAll()
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	cat := catalog.New()
	if err := cat.Load(items); err != nil {
		return errors.Wrap(err, "build catalog")
	}
	lg.Info("Catalog loaded", zap.Int("items", len(items)))

	orderStore, err := jsonfile.OpenOrderStore(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "open order store")
	}

	apikeys, err := jsonfile.OpenAPIKeyFile(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "open api key file")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("data-dir", 5*time.Second, func(ctx context.Context) error {
		// Probes that the data directory is still writable.
		probe := filepath.Join(cfg.DataDir, ".healthz")
		if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
			return err
		}
		return os.Remove(probe)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Domain services.
	carts := cart.NewManager(cat)
	locator := catalog.NewLocator(cat)
	checkoutSvc := checkout.NewService(cat, carts, orderStore)

	// HTTP handlers.
	h := handler.New(cat, locator, carts, checkoutSvc, orderStore)
	security := handler.NewSecurity(apikeys, []byte(cfg.APIKeyPepper))

	api := http.NewServeMux()
	h.Register(api)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", security.Middleware()(api))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "api_key"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	g, gctx := errgroup.WithContext(ctx)

	// Periodic catalog flush: inventory mutations mark the catalog dirty and
	// the flusher writes the snapshot back to catalog.json.
	g.Go(func() error {
		ticker := time.NewTicker(cfg.Flush.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if !cat.Dirty() {
					continue
				}
				if err := catalogFile.SaveAll(cat.Snapshot()); err != nil {
					lg.Error("Catalog flush failed", zap.Error(err))
					continue
				}
				cat.MarkClean()
			}
		}
	})

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	g.Go(func() error {
		<-gctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()

		// Final flush so admin mutations and checkout decrements survive restarts.
		if cat.Dirty() {
			if err := catalogFile.SaveAll(cat.Snapshot()); err != nil {
				lg.Error("Final catalog flush failed", zap.Error(err))
			}
		}
		return nil
	})

	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	return g.Wait()
}
