package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/kamga/mokolo/internal/checkout"
	"github.com/kamga/mokolo/internal/domain/cart"
	"github.com/kamga/mokolo/internal/domain/order"
	"github.com/kamga/mokolo/internal/domain/product"
	"github.com/kamga/mokolo/internal/domain/profile"
	"github.com/kamga/mokolo/internal/domain/reward"
	"github.com/kamga/mokolo/internal/handler"
	"github.com/kamga/mokolo/internal/notify"
	"github.com/kamga/mokolo/internal/payment"
	"github.com/kamga/mokolo/internal/prefs"
	"github.com/kamga/mokolo/internal/storage/memory"
	"github.com/kamga/mokolo/internal/storage/postgres"
	"github.com/kamga/mokolo/pkg/health"
	"github.com/kamga/mokolo/pkg/httpmiddleware"
)

// repositories bundles the storage backends the services are wired with.
type repositories struct {
	products   product.Repository
	categories product.CategoryRepository
	orders     order.Repository
	rewards    reward.Repository
	profiles   profile.Repository
	prefs      prefs.Store
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var repos repositories
	switch cfg.Storage {
	case StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		productRepo := postgres.NewProductRepository(pool)
		repos = repositories{
			products:   productRepo,
			categories: productRepo,
			orders:     postgres.NewOrderRepository(pool),
			rewards:    postgres.NewRewardRepository(pool),
			profiles:   postgres.NewProfileRepository(pool),
			prefs:      postgres.NewPrefsStore(pool),
		}
	case StorageMemory:
		productRepo := memory.NewProductRepository()
		repos = repositories{
			products:   productRepo,
			categories: productRepo,
			orders:     memory.NewOrderRepository(),
			rewards:    memory.NewRewardRepository(),
			profiles:   memory.NewProfileRepository(),
			prefs:      memory.NewPrefsStore(),
		}
	default:
		return errors.Errorf("unknown storage backend %q", cfg.Storage)
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Shared in-process state.
	carts := cart.NewStore()
	hub := notify.NewHub()

	// Payment providers.
	providers := map[order.PaymentMethod]payment.Provider{
		order.MethodMTNMoMo: payment.NewMTN(
			payment.WithDelay(cfg.Payment.MTNDelay),
			payment.WithSuccessRate(cfg.Payment.MTNSuccessRate),
		),
		order.MethodOrangeMoney: payment.NewOrange(
			payment.WithDelay(cfg.Payment.OrangeDelay),
			payment.WithSuccessRate(cfg.Payment.OrangeSuccessRate),
		),
		order.MethodCashOnDelivery: payment.NewCOD(
			payment.WithDelay(cfg.Payment.CODDelay),
		),
	}

	// Domain services.
	rewardSvc := reward.NewService(repos.rewards, hub)
	checkoutSvc, err := checkout.NewService(
		carts, providers, repos.orders, hub,
		m.MeterProvider().Meter("mokolo"),
	)
	if err != nil {
		return errors.Wrap(err, "create checkout service")
	}

	// HTTP handlers.
	h := handler.New(
		repos.products,
		repos.categories,
		carts,
		checkoutSvc,
		repos.orders,
		rewardSvc,
		repos.profiles,
		repos.prefs,
		hub,
	)

	// Mux: health endpoints + API routes on one server.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", otelhttp.NewHandler(h.Routes(), "mokolo-api",
		otelhttp.WithTracerProvider(m.TracerProvider()),
		otelhttp.WithMeterProvider(m.MeterProvider()),
	))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      0, // /api/events holds SSE connections open
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", "X-User-ID"},
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
