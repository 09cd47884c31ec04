// Package app wires each service binary: configuration, storage, domain
// services, HTTP handlers, and the shared server loop.
package app

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	sdkapp "github.com/go-faster/sdk/app"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/THARU12342000/CMS/internal/clients"
	"github.com/THARU12342000/CMS/internal/domain/audit"
	"github.com/THARU12342000/CMS/internal/domain/consent"
	"github.com/THARU12342000/CMS/internal/domain/customer"
	"github.com/THARU12342000/CMS/internal/domain/order"
	"github.com/THARU12342000/CMS/internal/gateway"
	"github.com/THARU12342000/CMS/internal/handler"
	"github.com/THARU12342000/CMS/internal/repository"
	"github.com/THARU12342000/CMS/pkg/health"
)

func openDatabase(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	if err := cfg.requireDatabase(); err != nil {
		return nil, err
	}
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, errors.Wrap(err, "create db pool")
	}
	if err := repository.RunMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "run migrations")
	}
	return pool, nil
}

func newHealth(pool *pgxpool.Pool) *health.Health {
	h := health.New()
	h.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	if pool != nil {
		h.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	}
	return h
}

func (c *Config) clientOptions() clients.Options {
	return clients.Options{
		Timeout: c.Client.Timeout,
		Retries: c.Client.Retries,
	}
}

// RunCustomer starts the customer service: registration, login, profile.
func RunCustomer(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	if err := cfg.requireJWTSecret(); err != nil {
		return err
	}
	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	auth := handler.NewJWTAuth(cfg.JWTSecret, cfg.TokenTTL)
	svc := customer.NewService(repository.NewCustomerRepository(pool), auth)

	router := chi.NewRouter()
	handler.NewCustomerHandler(svc, auth, !cfg.production()).Routes(router)

	addr := withPortEnv(cfg.CustomerAddr, "0.0.0.0:8081")
	return serve(ctx, m, cfg, "customer-api", addr, router, newHealth(pool))
}

// RunProduct starts the catalog service. Catalog mutations emit audit
// events through the best-effort recorder backed by the audit service.
func RunProduct(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	if err := cfg.requireJWTSecret(); err != nil {
		return err
	}
	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	auth := handler.NewJWTAuth(cfg.JWTSecret, cfg.TokenTTL)
	repo := repository.NewProductRepository(pool)

	auditClient := clients.NewAudit(cfg.Upstream.AuditURL, cfg.clientOptions())
	recorder := audit.NewRecorder(auditClient, lg.Named("audit"), cfg.Recorder.Buffer, cfg.Recorder.Timeout)

	router := chi.NewRouter()
	handler.NewProductHandler(repo, auth, recorder, !cfg.production()).Routes(router)

	addr := withPortEnv(cfg.ProductAddr, "0.0.0.0:8082")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return recorder.Run(ctx)
	})
	g.Go(func() error {
		return serve(ctx, m, cfg, "product-api", addr, router, newHealth(pool))
	})
	return g.Wait()
}

// RunConsent starts the agreement service.
func RunConsent(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	if err := cfg.requireJWTSecret(); err != nil {
		return err
	}
	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	auth := handler.NewJWTAuth(cfg.JWTSecret, cfg.TokenTTL)
	svc := consent.NewService(repository.NewConsentRepository(pool))

	router := chi.NewRouter()
	handler.NewConsentHandler(svc, auth, !cfg.production()).Routes(router)

	addr := withPortEnv(cfg.ConsentAddr, "0.0.0.0:8083")
	return serve(ctx, m, cfg, "consent-api", addr, router, newHealth(pool))
}

// RunOrder starts the order workflow service. Orders are gated on the
// product and consent services; audit emission is detached best-effort.
func RunOrder(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	if err := cfg.requireJWTSecret(); err != nil {
		return err
	}
	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	auth := handler.NewJWTAuth(cfg.JWTSecret, cfg.TokenTTL)
	opts := cfg.clientOptions()

	auditClient := clients.NewAudit(cfg.Upstream.AuditURL, opts)
	recorder := audit.NewRecorder(auditClient, lg.Named("audit"), cfg.Recorder.Buffer, cfg.Recorder.Timeout)

	svc := order.NewService(
		clients.NewProduct(cfg.Upstream.ProductURL, opts),
		clients.NewConsent(cfg.Upstream.ConsentURL, opts),
		repository.NewOrderRepository(pool),
		recorder,
	)

	router := chi.NewRouter()
	handler.NewOrderHandler(svc, auth, !cfg.production()).Routes(router)

	addr := withPortEnv(cfg.OrderAddr, "0.0.0.0:8084")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return recorder.Run(ctx)
	})
	g.Go(func() error {
		return serve(ctx, m, cfg, "order-api", addr, router, newHealth(pool))
	})
	return g.Wait()
}

// RunAudit starts the audit sink.
func RunAudit(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	pool, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	router := chi.NewRouter()
	handler.NewAuditHandler(repository.NewAuditRepository(pool), !cfg.production()).Routes(router)

	addr := withPortEnv(cfg.AuditAddr, "0.0.0.0:8085")
	return serve(ctx, m, cfg, "audit-api", addr, router, newHealth(pool))
}

// RunGateway starts the reverse proxy. It owns no database.
func RunGateway(ctx context.Context, lg *zap.Logger, m *sdkapp.Telemetry, cfg *Config) error {
	gw, err := gateway.New(gateway.Routes{
		CustomerURL:  cfg.Upstream.CustomerURL,
		ProductURL:   cfg.Upstream.ProductURL,
		AgreementURL: cfg.Upstream.ConsentURL,
		OrderURL:     cfg.Upstream.OrderURL,
		AuditURL:     cfg.Upstream.AuditURL,
	})
	if err != nil {
		return errors.Wrap(err, "build gateway")
	}

	addr := withPortEnv(cfg.GatewayAddr, "0.0.0.0:8080")
	return serve(ctx, m, cfg, "gateway", addr, gw, newHealth(nil))
}
