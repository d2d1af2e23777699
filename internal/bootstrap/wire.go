//go:build wireinject

package bootstrap

import (
	"context"

	"swapquote-service/internal/config"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideStorage,
	ProvideReceipts,
	ProvideIdempotency,
	ProvidePriceFeed,
)

var appSet = wire.NewSet(
	ProvidePriceCache,
	ProvidePriceBoard,
	ProvideCatalog,
	ProvideSettler,
	ProvideRegistry,
	ProvideSwapQueue,
	ProvideRefresher,
	ProvideServer,
	NewApp,
)

// InitApp builds the API process and its workers plus a cleanup func.
func InitApp(ctx context.Context, cfg config.Config) (*App, func(), error) {
	wire.Build(infraSet, appSet)
	return nil, nil, nil
}
