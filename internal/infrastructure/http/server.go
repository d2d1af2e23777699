package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"swapquote-service/internal/application"
	"swapquote-service/internal/domain"
	infraconfig "swapquote-service/internal/infrastructure/config"
	"swapquote-service/internal/infrastructure/logx"
	"swapquote-service/internal/infrastructure/worker"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"
)

// SwapSubmitter accepts swaps for asynchronous settlement.
type SwapSubmitter interface {
	Enqueue(m worker.SwapMsg) bool
}

type Server struct {
	cache    *application.PriceCache
	board    *application.PriceBoard
	catalog  *application.AssetCatalog
	sessions *application.Registry
	receipts application.ReceiptRepo
	idem     application.IdempotencyStore
	swaps    SwapSubmitter
	ping     func(ctx context.Context) error
}

func NewServer(
	cache *application.PriceCache,
	board *application.PriceBoard,
	catalog *application.AssetCatalog,
	sessions *application.Registry,
	receipts application.ReceiptRepo,
	idem application.IdempotencyStore,
	swaps SwapSubmitter,
) *Server {
	if idem == nil {
		idem = application.NoopIdempotency{}
	}
	return &Server{
		cache:    cache,
		board:    board,
		catalog:  catalog,
		sessions: sessions,
		receipts: receipts,
		idem:     idem,
		swaps:    swaps,
	}
}

func (s *Server) SetReadyCheck(fn func(ctx context.Context) error) { s.ping = fn }

type priceResponse struct {
	Currency string  `json:"currency"`
	Price    float64 `json:"price"`
	Display  string  `json:"display"`
}

type rateResponse struct {
	From string   `json:"from"`
	To   string   `json:"to"`
	Rate *float64 `json:"rate"`
}

type swapAccepted struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type symbolRequest struct {
	Symbol string `json:"symbol"`
}

type amountRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) GetPrices(w http.ResponseWriter, r *http.Request) {
	var fresh *bool
	if err := runtime.BindQueryParameter("form", true, false, "fresh", r.URL.Query(), &fresh); err != nil {
		badRequest(w, "invalid fresh parameter")
		return
	}
	useCache := fresh == nil || !*fresh
	writeBoard(w, s.board.Load(r.Context(), useCache))
}

func (s *Server) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	writeBoard(w, s.board.Refetch(r.Context()))
}

func writeBoard(w http.ResponseWriter, st application.BoardState) {
	if st.Error != "" {
		writeError(w, http.StatusBadGateway, st.Error)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) GetPrice(w http.ResponseWriter, r *http.Request) {
	var symbol string
	if err := bindPath(r, "symbol", &symbol); err != nil {
		badRequest(w, "invalid symbol")
		return
	}
	p, ok := s.cache.Price(r.Context(), symbol)
	if !ok {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, priceResponse{Currency: strings.ToUpper(symbol), Price: p, Display: application.FormatPrice(p)})
}

func (s *Server) ListAssets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.currentAssets(r.Context()))
}

// currentAssets builds the catalog from whatever prices the cache can
// serve; with none, the fallback table prices it.
func (s *Server) currentAssets(ctx context.Context) []domain.Asset {
	res, err := s.cache.Fetch(ctx, true)
	if err != nil {
		logx.WithFields(ctx).Warn("assets.prices_unavailable", zap.Error(err))
	}
	return s.catalog.Build(res.Snapshot.Quotes)
}

func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create(s.currentAssets(r.Context()))
	writeJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := bindPath(r, "id", &id); err != nil {
		badRequest(w, "invalid session id")
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) SelectFrom(w http.ResponseWriter, r *http.Request) {
	s.selectAsset(w, r, (*application.SwapSession).SelectFrom)
}

func (s *Server) SelectTo(w http.ResponseWriter, r *http.Request) {
	s.selectAsset(w, r, (*application.SwapSession).SelectTo)
}

func (s *Server) selectAsset(w http.ResponseWriter, r *http.Request, pick func(*application.SwapSession, domain.Asset) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body symbolRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Symbol == "" {
		badRequest(w, "symbol is required")
		return
	}
	asset, found := sess.Asset(body.Symbol)
	if !found {
		writeError(w, http.StatusUnprocessableEntity, domain.ErrUnknownAsset.Error())
		return
	}
	if err := pick(sess, asset); err != nil {
		writeSessionErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) SetAmount(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var body amountRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	accepted, err := sess.SetAmount(body.Amount)
	if err != nil {
		writeSessionErr(w, err)
		return
	}
	if !accepted {
		writeError(w, http.StatusUnprocessableEntity, "amount must be digits with at most one decimal point")
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) Flip(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, (*application.SwapSession).Flip)
}

func (s *Server) MaxAmount(w http.ResponseWriter, r *http.Request) {
	s.edit(w, r, (*application.SwapSession).MaxAmount)
}

func (s *Server) edit(w http.ResponseWriter, r *http.Request, fn func(*application.SwapSession) error) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := fn(sess); err != nil {
		writeSessionErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) GetRate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	st := sess.Snapshot()
	resp := rateResponse{}
	if st.From != nil {
		resp.From = st.From.Symbol
	}
	if st.To != nil {
		resp.To = st.To.Symbol
	}
	if rate, ok := sess.Rate(); ok {
		resp.Rate = &rate
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Swap(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var key *string
	if v := r.Header.Values("X-Idempotency-Key"); len(v) == 1 {
		var k string
		if err := runtime.BindStyledParameterWithLocation("simple", false, "X-Idempotency-Key", runtime.ParamLocationHeader, v[0], &k); err != nil {
			badRequest(w, "invalid X-Idempotency-Key")
			return
		}
		key = &k
	} else if len(v) > 1 {
		badRequest(w, "expected one X-Idempotency-Key")
		return
	}

	if st := sess.Snapshot(); st.Busy {
		writeSessionErr(w, application.ErrSessionBusy)
		return
	}
	if msg := sess.Validate(); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	idemKey := ""
	if key != nil && *key != "" {
		idemKey = sess.ID() + ":" + *key
		fresh, err := s.idem.TryReserve(r.Context(), idemKey)
		if err != nil {
			logx.WithFields(r.Context()).Error("swap.idempotency_failed", zap.Error(err))
			internalError(w)
			return
		}
		if !fresh {
			writeError(w, http.StatusConflict, "duplicate swap request")
			return
		}
	}
	if !s.swaps.Enqueue(worker.SwapMsg{SessionID: sess.ID(), TraceID: traceIDFromContext(r.Context())}) {
		if idemKey != "" {
			if err := s.idem.Release(r.Context(), idemKey); err != nil {
				logx.WithFields(r.Context()).Warn("swap.idempotency_release_failed", zap.Error(err))
			}
		}
		writeError(w, http.StatusServiceUnavailable, "swap queue is full")
		return
	}
	writeJSON(w, http.StatusAccepted, swapAccepted{SessionID: sess.ID(), Status: "accepted"})
}

func (s *Server) ListReceipts(w http.ResponseWriter, r *http.Request) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		badRequest(w, "invalid limit")
		return
	}
	n := infraconfig.DefaultReceiptListLimit
	if limit != nil {
		n = min(max(*limit, 1), infraconfig.MaxReceiptListLimit)
	}
	list, err := s.receipts.List(r.Context(), n)
	if err != nil {
		logx.WithFields(r.Context()).Error("receipts.list_failed", zap.Error(err))
		internalError(w)
		return
	}
	if list == nil {
		list = []domain.Receipt{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*application.SwapSession, bool) {
	var id string
	if err := bindPath(r, "id", &id); err != nil {
		badRequest(w, "invalid session id")
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		notFound(w)
		return nil, false
	}
	return sess, true
}

func bindPath(r *http.Request, name string, dest *string) error {
	return runtime.BindStyledParameterWithLocation("simple", false, name, runtime.ParamLocationPath, chi.URLParam(r, name), dest)
}

func writeSessionErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, application.ErrSessionBusy):
		writeError(w, http.StatusConflict, "swap in progress")
	case errors.Is(err, application.ErrNotFound):
		notFound(w)
	default:
		internalError(w)
	}
}
