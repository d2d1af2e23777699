package bootstrap

import (
	"context"
	"errors"
	"net/http"

	"swapquote-service/internal/application"
	httpserver "swapquote-service/internal/infrastructure/http"
	"swapquote-service/internal/infrastructure/worker"
)

var (
	ErrMissingDBURL   = errors.New("DATABASE_URL is required for STORAGE=pg")
	ErrUnknownStorage = errors.New("unknown STORAGE")
	ErrUnknownFeed    = errors.New("unknown PRICE_FEED")
	ErrUnknownIdem    = errors.New("unknown IDEMPOTENCY_BACKEND")
)

// Storage is the receipt ledger plus its readiness probe.
type Storage struct {
	Receipts application.ReceiptRepo
	Ping     func(ctx context.Context) error
}

// App is the wired API process: the HTTP handler and the background
// workers that must run alongside it.
type App struct {
	Handler http.Handler
	Workers []application.Worker
}

func NewApp(srv *httpserver.Server, st Storage, refresher *worker.Refresher, queue *worker.SwapQueue) *App {
	srv.SetReadyCheck(st.Ping)
	return &App{
		Handler: httpserver.NewRouter(srv),
		Workers: []application.Worker{refresher, queue},
	}
}

// StartWorkers launches every worker; they stop when ctx is canceled.
func (a *App) StartWorkers(ctx context.Context) {
	for _, w := range a.Workers {
		go w.Start(ctx)
	}
}
