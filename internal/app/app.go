package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xanter/salesboard/internal/handler"
	"github.com/xanter/salesboard/internal/report"
	"github.com/xanter/salesboard/internal/snapshot"
	"github.com/xanter/salesboard/internal/storage/postgres"
	"github.com/xanter/salesboard/pkg/health"
	"github.com/xanter/salesboard/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)

	// Repositories.
	sellerRepo := postgres.NewSellerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	recordRepo := postgres.NewRecordRepository(pool)
	apikeyRepo := postgres.NewAPIKeyRepository(pool)

	// Report snapshot cache: compute once at startup, then on schedule.
	reports := snapshot.New(sellerRepo, productRepo, recordRepo, report.DefaultOptions())
	if err := reports.Refresh(ctx); err != nil {
		// An empty database is a normal cold start; the endpoint reports 503
		// until the first successful refresh.
		lg.Warn("Initial report refresh failed", zap.Error(err))
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := reports.Refresh(refreshCtx); err != nil {
			lg.Error("Scheduled report refresh failed", zap.Error(err))
		}
	}); err != nil {
		return errors.Wrapf(err, "invalid refresh schedule %q", cfg.RefreshSchedule)
	}
	scheduler.Start()
	defer scheduler.Stop()

	healthSvc.SetReady(true)

	// HTTP handlers.
	h := handler.New(
		handler.Config{MaxBodyBytes: cfg.MaxBodyBytes},
		reports,
		sellerRepo,
		productRepo,
	)
	auth := handler.NewAPIKeyAuth(apikeyRepo, []byte(cfg.APIKeyPepper))

	apiMux := http.NewServeMux()
	h.Register(apiMux, auth.Middleware)

	// Mux: health endpoints + instrumented API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", otelhttp.NewHandler(apiMux, "salesboard-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	))

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

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
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
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
