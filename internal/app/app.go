// Package app wires configuration, storage, integrations and use cases into
// a running register.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/fekuna/omnipos-register/config"
	"github.com/fekuna/omnipos-register/internal/analytics"
	analyticsH "github.com/fekuna/omnipos-register/internal/analytics/handler"
	analyticsUC "github.com/fekuna/omnipos-register/internal/analytics/usecase"
	"github.com/fekuna/omnipos-register/internal/broker"
	"github.com/fekuna/omnipos-register/internal/cache"
	"github.com/fekuna/omnipos-register/internal/cart"
	cartH "github.com/fekuna/omnipos-register/internal/cart/handler"
	cartRepoPkg "github.com/fekuna/omnipos-register/internal/cart/repository"
	cartUC "github.com/fekuna/omnipos-register/internal/cart/usecase"
	"github.com/fekuna/omnipos-register/internal/category"
	catH "github.com/fekuna/omnipos-register/internal/category/handler"
	catRepoPkg "github.com/fekuna/omnipos-register/internal/category/repository"
	catUC "github.com/fekuna/omnipos-register/internal/category/usecase"
	"github.com/fekuna/omnipos-register/internal/clock"
	"github.com/fekuna/omnipos-register/internal/event"
	"github.com/fekuna/omnipos-register/internal/inventory"
	invH "github.com/fekuna/omnipos-register/internal/inventory/handler"
	invListenerPkg "github.com/fekuna/omnipos-register/internal/inventory/listener"
	invRepoPkg "github.com/fekuna/omnipos-register/internal/inventory/repository"
	invUC "github.com/fekuna/omnipos-register/internal/inventory/usecase"
	"github.com/fekuna/omnipos-register/internal/invoice"
	invoiceH "github.com/fekuna/omnipos-register/internal/invoice/handler"
	invoiceRepoPkg "github.com/fekuna/omnipos-register/internal/invoice/repository"
	invoiceUC "github.com/fekuna/omnipos-register/internal/invoice/usecase"
	"github.com/fekuna/omnipos-register/internal/logger"
	"github.com/fekuna/omnipos-register/internal/product"
	prodH "github.com/fekuna/omnipos-register/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-register/internal/product/repository"
	prodUC "github.com/fekuna/omnipos-register/internal/product/usecase"
	"github.com/fekuna/omnipos-register/internal/search"
	"github.com/fekuna/omnipos-register/internal/server"
	"github.com/fekuna/omnipos-register/internal/settings"
	settingsH "github.com/fekuna/omnipos-register/internal/settings/handler"
	settingsRepoPkg "github.com/fekuna/omnipos-register/internal/settings/repository"
	settingsUC "github.com/fekuna/omnipos-register/internal/settings/usecase"
	"github.com/fekuna/omnipos-register/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type App struct {
	Config *config.Config
	Logger logger.ZapLogger
	Store  store.Store
	Bus    *event.Bus
	Hub    *event.Hub

	Products   product.UseCase
	Categories category.UseCase
	Inventory  inventory.UseCase
	Cart       cart.UseCase
	Invoices   invoice.UseCase
	Analytics  analytics.UseCase
	Settings   settings.UseCase

	clock    clock.Clock
	redis    *cache.RedisClient
	index    *search.ProductIndex
	listener *invListenerPkg.InventoryListener
	closers  []func() error
}

type Option func(*App)

// WithClock replaces the system clock, e.g. for reproducible dates.
func WithClock(c clock.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithStore uses st instead of opening the configured backend.
func WithStore(st store.Store) Option {
	return func(a *App) { a.Store = st }
}

// NewLogger builds the process logger; development switches to console
// output at debug level.
func NewLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.IsDevelopment() {
		logConfig.IsDevelopment = true
		logConfig.Encoding = "console"
		logConfig.Level = "debug"
	}
	return logger.NewZapLogger(logConfig)
}

func New(ctx context.Context, cfg *config.Config, log logger.ZapLogger, opts ...Option) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: log,
		clock:  clock.System{},
	}
	for _, opt := range opts {
		opt(a)
	}

	if err := a.connect(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	a.wire()
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config

	if cfg.Redis.Enabled || (a.Store == nil && cfg.Store.Driver == "redis") {
		rc, err := cache.NewRedisClient(ctx, &cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.redis = rc
		a.Logger.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr))
	}

	if a.Store == nil {
		st, err := a.openStore(ctx)
		if err != nil {
			if a.redis != nil {
				_ = a.redis.Close()
			}
			return err
		}
		a.Store = st
	}
	a.closers = append(a.closers, a.Store.Close)
	// RedisStore owns the client it was given.
	if _, ok := a.Store.(*store.RedisStore); !ok && a.redis != nil {
		a.closers = append(a.closers, a.redis.Close)
	}

	if cfg.Elastic.Enabled {
		esClient, err := search.NewClient(&search.Config{
			Addresses: cfg.Elastic.Addresses,
			Username:  cfg.Elastic.Username,
			Password:  cfg.Elastic.Password,
		})
		if err == nil {
			idx := search.NewProductIndex(esClient, cfg.Elastic.Index)
			err = idx.EnsureIndex(ctx)
			if err == nil {
				a.index = idx
			}
		}
		if err != nil {
			a.Logger.Warn("Could not connect to Elasticsearch, search falls back to the stored catalog", zap.Error(err))
		} else {
			a.Logger.Info("Connected to Elasticsearch", zap.Strings("addresses", cfg.Elastic.Addresses))
		}
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (store.Store, error) {
	cfg := a.Config.Store
	switch cfg.Driver {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		return store.NewRedisStore(a.redis, cfg.KeyPrefix), nil
	case "sqlite3", "mysql":
		st, err := store.NewSQLStore(ctx, &store.SQLConfig{
			Driver:          cfg.Driver,
			DSN:             cfg.DSN,
			MaxOpenConns:    cfg.MaxOpenConns,
			MaxIdleConns:    cfg.MaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetime) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("open %s store: %w", cfg.Driver, err)
		}
		a.Logger.Info("Connected to SQL store", zap.String("driver", cfg.Driver))
		return st, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func (a *App) wire() {
	a.Bus = event.NewBus(a.Logger)
	a.Hub = event.NewHub(a.Logger)
	a.Bus.Subscribe(a.Hub.Handle)

	productRepo := prodRepoPkg.NewKVRepository(a.Store)
	categoryRepo := catRepoPkg.NewKVRepository(a.Store)
	movementRepo := invRepoPkg.NewKVRepository(a.Store)
	cartRepo := cartRepoPkg.NewKVRepository(a.Store)
	invoiceRepo := invoiceRepoPkg.NewKVRepository(a.Store)
	settingsRepo := settingsRepoPkg.NewKVRepository(a.Store)

	// Leave the interfaces nil rather than holding typed nil pointers.
	var indexer product.Indexer
	if a.index != nil {
		indexer = a.index
	}
	var locker inventory.Locker
	if a.redis != nil {
		locker = a.redis
	}

	a.Categories = catUC.NewCategoryUseCase(a.Store, categoryRepo, a.Bus, a.Logger)
	a.Products = prodUC.NewProductUseCase(a.Store, productRepo, categoryRepo, indexer, a.Bus, a.clock, a.Logger)
	a.Inventory = invUC.NewInventoryUseCase(a.Store, movementRepo, productRepo, locker, a.Bus, a.clock, a.Logger)
	a.Settings = settingsUC.NewSettingsUseCase(settingsRepo, a.Bus, a.Logger)
	a.Cart = cartUC.NewCartUseCase(a.Store, cartRepo, productRepo, settingsRepo, a.Bus, a.Logger)
	a.Invoices = invoiceUC.NewInvoiceUseCase(a.Store, invoiceUC.Repos{
		Invoices:  invoiceRepo,
		Cart:      cartRepo,
		Products:  productRepo,
		Movements: movementRepo,
		Settings:  settingsRepo,
	}, a.Bus, a.clock, a.Logger)
	a.Analytics = analyticsUC.NewAnalyticsUseCase(invoiceRepo, productRepo, a.clock, a.Logger)

	kc := a.Config.Kafka
	if kc.Enabled {
		producer := broker.NewProducer(&broker.Config{Brokers: kc.Brokers, Topic: kc.SalesTopic})
		a.closers = append(a.closers, producer.Close)
		sales := event.NewSalesPublisher(producer, a.Logger)
		a.Bus.Subscribe(func(e event.Event) { go sales.Handle(e) })

		consumer := broker.NewConsumer(&broker.Config{Brokers: kc.Brokers, Topic: kc.OrdersTopic, GroupID: kc.GroupID})
		a.closers = append(a.closers, consumer.Close)
		a.listener = invListenerPkg.NewInventoryListener(consumer, a.Inventory, a.Logger)
		a.Logger.Info("Kafka enabled",
			zap.Strings("brokers", kc.Brokers),
			zap.String("orders_topic", kc.OrdersTopic),
			zap.String("sales_topic", kc.SalesTopic),
		)
	}
}

// Router returns the HTTP API with every domain mounted.
func (a *App) Router() *gin.Engine {
	return server.NewRouter(a.Logger, a.Store, a.Hub,
		prodH.NewProductHandler(a.Products, a.Logger),
		catH.NewCategoryHandler(a.Categories, a.Logger),
		invH.NewInventoryHandler(a.Inventory, a.Logger),
		cartH.NewCartHandler(a.Cart, a.Logger),
		invoiceH.NewInvoiceHandler(a.Invoices, a.Settings, a.Logger),
		analyticsH.NewAnalyticsHandler(a.Analytics, a.Config.Engine.LowStockThreshold, a.Logger),
		settingsH.NewSettingsHandler(a.Settings, a.Logger),
	)
}

// Prepare seeds the starter catalog when configured and pushes the catalog
// to the search index.
func (a *App) Prepare(ctx context.Context) error {
	if a.Config.Engine.SeedOnStart {
		seeded, err := a.Products.SeedIfEmpty(ctx)
		if err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
		if seeded {
			a.Logger.Info("Seeded starter catalog")
		}
	}
	if a.index != nil {
		n, err := a.Products.Reindex(ctx)
		if err != nil {
			a.Logger.Warn("Reindex failed", zap.Int("indexed", n), zap.Error(err))
		}
	}
	return nil
}

// Run serves HTTP and gRPC and consumes orders until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.Prepare(ctx); err != nil {
		return err
	}

	if a.listener != nil {
		go a.listener.Start(ctx)
	}

	lis, err := net.Listen("tcp", normalizePort(a.Config.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("listen grpc: %w", err)
	}
	grpcServer := server.NewGRPCServer(a.Store, a.Logger)
	go func() {
		if err := grpcServer.Serve(ctx, lis); err != nil {
			a.Logger.Error("gRPC server stopped", zap.Error(err))
		}
	}()
	defer grpcServer.Stop()

	httpServer := server.NewHTTPServer(normalizePort(a.Config.Server.HTTPPort), a.Router(), a.Logger)
	return httpServer.Run(ctx)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func normalizePort(port string) string {
	if !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
