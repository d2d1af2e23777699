package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"swapquote-service/internal/application"
	"swapquote-service/internal/config"
	"swapquote-service/internal/infrastructure/assets"
	infraconfig "swapquote-service/internal/infrastructure/config"
	httpserver "swapquote-service/internal/infrastructure/http"
	"swapquote-service/internal/infrastructure/httpx"
	"swapquote-service/internal/infrastructure/inmem"
	"swapquote-service/internal/infrastructure/logx"
	"swapquote-service/internal/infrastructure/pg"
	"swapquote-service/internal/infrastructure/provider"
	redisstore "swapquote-service/internal/infrastructure/redis"
	"swapquote-service/internal/infrastructure/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func ProvideLogger() *zap.Logger { return logx.L() }

func ProvideStorage(ctx context.Context, log *zap.Logger, cfg config.Config) (Storage, func(), error) {
	switch cfg.Storage {
	case "", "memory":
		return Storage{Receipts: inmem.NewReceipts()}, func() {}, nil
	case "pg":
		if cfg.DatabaseURL == "" {
			return Storage{}, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Storage{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Storage{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Storage{Receipts: pg.NewReceiptRepo(db), Ping: db.Ping}, cleanup, nil
	default:
		return Storage{}, func() {}, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
	}
}

func ProvideReceipts(st Storage) application.ReceiptRepo { return st.Receipts }

func ProvideIdempotency(ctx context.Context, cfg config.Config) (application.IdempotencyStore, func(), error) {
	switch cfg.IdempotencyBackend {
	case "", "none":
		return application.NoopIdempotency{}, func() {}, nil
	case "redis":
		client, err := redisstore.Dial(ctx, &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, infraconfig.DefaultConnectRetry)
		if err != nil {
			return nil, func() {}, err
		}
		return redisstore.New(client, cfg.RedisTTL), func() { _ = client.Close() }, nil
	default:
		return nil, func() {}, fmt.Errorf("%w: %q", ErrUnknownIdem, cfg.IdempotencyBackend)
	}
}

func ProvidePriceFeed(cfg config.Config) (application.PriceFeed, error) {
	switch cfg.PriceFeed {
	case "", "http":
		// The cache owns the deadline; the client timeout only backs it up.
		client := &httpx.Client{HTTP: &http.Client{Timeout: cfg.PriceTimeout + cfg.PriceTimeout/2}}
		return provider.NewSwitcheoFeed(cfg.PriceFeedURL, client), nil
	case "fake":
		return provider.NewFake(nil), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFeed, cfg.PriceFeed)
	}
}

// ProvidePriceCache builds the single process-wide cache.
func ProvidePriceCache(feed application.PriceFeed, cfg config.Config, log *zap.Logger) *application.PriceCache {
	return application.NewPriceCache(feed,
		application.WithTTL(cfg.PriceTTL),
		application.WithFetchTimeout(cfg.PriceTimeout),
		application.WithCacheLogger(log.With(zap.String("component", "price_cache"))),
	)
}

func ProvidePriceBoard(cache *application.PriceCache, log *zap.Logger) *application.PriceBoard {
	return application.NewPriceBoard(cache, log)
}

func ProvideCatalog() (*application.AssetCatalog, error) {
	metas, balances, err := assets.Load()
	if err != nil {
		return nil, err
	}
	return application.NewAssetCatalog(metas, balances), nil
}

func ProvideSettler(cfg config.Config) application.Settler {
	return application.NewSimulatedSettler(cfg.SettleDelay)
}

func ProvideRegistry(settler application.Settler, receipts application.ReceiptRepo, log *zap.Logger) *application.Registry {
	return application.NewRegistry(settler, receipts, log)
}

func ProvideSwapQueue(reg *application.Registry, cfg config.Config) *worker.SwapQueue {
	return worker.NewSwapQueue(reg, 0, cfg.SettleDelay+infraconfig.DefaultShutdownTimeout)
}

func ProvideRefresher(
	cache *application.PriceCache,
	catalog *application.AssetCatalog,
	reg *application.Registry,
	cfg config.Config,
	log *zap.Logger,
) *worker.Refresher {
	return &worker.Refresher{
		Cache:    cache,
		Catalog:  catalog,
		Sessions: reg,
		Every:    cfg.RefreshEvery,
		IdleTTL:  cfg.SessionIdleTTL,
		Log:      log.With(zap.String("worker", "refresher")),
	}
}

func ProvideServer(
	cache *application.PriceCache,
	board *application.PriceBoard,
	catalog *application.AssetCatalog,
	reg *application.Registry,
	receipts application.ReceiptRepo,
	idem application.IdempotencyStore,
	queue *worker.SwapQueue,
) *httpserver.Server {
	return httpserver.NewServer(cache, board, catalog, reg, receipts, idem, queue)
}
