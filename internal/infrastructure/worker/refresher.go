package worker

import (
	"context"
	"time"

	"swapquote-service/internal/application"
	"swapquote-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

var _ application.Worker = (*Refresher)(nil)

// Refresher keeps the price cache warm and pushes the rebuilt catalog into
// live sessions. It also evicts idle sessions.
type Refresher struct {
	Cache    *application.PriceCache
	Catalog  *application.AssetCatalog
	Sessions *application.Registry

	Every   time.Duration
	IdleTTL time.Duration
	Log     *zap.Logger
}

func (w *Refresher) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	if w.Every <= 0 {
		w.Every = application.DefaultPriceTTL
	}

	t := time.NewTicker(w.Every)
	defer t.Stop()

	log.Info("refresher.started", zap.Duration("every", w.Every), zap.Duration("idle_ttl", w.IdleTTL))
	w.tick(ctx, log)
	for {
		select {
		case <-ctx.Done():
			log.Info("refresher.stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *Refresher) tick(ctx context.Context, log *zap.Logger) {
	res, err := w.Cache.Fetch(ctx, false)
	switch {
	case err != nil:
		metrics.ObservePriceFetch(metrics.FetchError)
		log.Warn("refresher.fetch_failed", zap.Error(err))
	case res.Stale:
		metrics.ObservePriceFetch(metrics.FetchStale)
		log.Warn("refresher.serving_stale", zap.Error(res.Cause), zap.Time("fetched_at", res.Snapshot.FetchedAt))
	default:
		metrics.ObservePriceFetch(metrics.FetchFresh)
	}
	assets := w.Catalog.Build(res.Snapshot.Quotes)
	w.Sessions.Broadcast(assets)
	if n := w.Sessions.Evict(w.IdleTTL); n > 0 {
		log.Info("refresher.sessions_evicted", zap.Int("count", n))
	}
	metrics.SetLiveSessions(w.Sessions.Len())
}
