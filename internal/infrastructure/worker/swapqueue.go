package worker

import (
	"context"
	"errors"
	"time"

	"swapquote-service/internal/application"
	"swapquote-service/internal/infrastructure/logx"
	"swapquote-service/internal/infrastructure/metrics"

	"go.uber.org/zap"
)

var _ application.Worker = (*SwapQueue)(nil)

type SwapMsg struct {
	SessionID string
	TraceID   string
}

// SwapQueue runs accepted swap submissions off the request path.
type SwapQueue struct {
	sessions *application.Registry
	jobs     chan SwapMsg
	timeout  time.Duration
}

func NewSwapQueue(sessions *application.Registry, size int, timeout time.Duration) *SwapQueue {
	if size <= 0 {
		size = 64
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SwapQueue{sessions: sessions, jobs: make(chan SwapMsg, size), timeout: timeout}
}

// Enqueue reports false when the queue is full.
func (q *SwapQueue) Enqueue(m SwapMsg) bool {
	select {
	case q.jobs <- m:
		return true
	default:
		metrics.ObserveSwap(metrics.SwapDropped)
		return false
	}
}

func (q *SwapQueue) Start(ctx context.Context) {
	log := logx.L().With(zap.String("worker", "swap_queue"))
	for {
		select {
		case <-ctx.Done():
			log.Info("swap_queue.stop")
			return
		case m := <-q.jobs:
			q.processOne(ctx, log, m)
		}
	}
}

func (q *SwapQueue) processOne(ctx context.Context, log *zap.Logger, m SwapMsg) {
	log = log.With(zap.String("session_id", m.SessionID), zap.String("trace_id", m.TraceID))
	defer func() {
		if r := recover(); r != nil {
			metrics.ObserveSwap(metrics.SwapFailed)
			log.Warn("swap_queue.panic", zap.Any("r", r))
		}
	}()
	s, err := q.sessions.Get(m.SessionID)
	if err != nil {
		log.Warn("swap_queue.session_gone")
		return
	}
	c, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	r, err := s.Submit(c)
	var vErr *application.ValidationError
	switch {
	case errors.As(err, &vErr):
		metrics.ObserveSwap(metrics.SwapRejected)
		log.Info("swap_queue.rejected", zap.String("reason", vErr.Message))
	case err != nil:
		metrics.ObserveSwap(metrics.SwapFailed)
		log.Warn("swap_queue.failed", zap.Error(err))
	default:
		metrics.ObserveSwap(metrics.SwapSettled)
		log.Info("swap_queue.settled", zap.String("receipt_id", r.ID))
	}
}
