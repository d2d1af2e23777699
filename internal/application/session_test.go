package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"swapquote-service/internal/domain"

	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T, settler Settler) (*SwapSession, *memReceipts) {
	t.Helper()
	receipts := &memReceipts{}
	s := NewSwapSession("s1", settler, WithSessionClock(newFakeClock()), WithReceipts(receipts))
	s.SetAssets(testAssets())
	return s, receipts
}

func Test_SwapSession_Uninitialized(t *testing.T) {
	t.Parallel()
	s := NewSwapSession("s1", &fakeSettler{})
	st := s.Snapshot()
	require.Equal(t, domain.PhaseUninitialized, st.Phase)
	require.Nil(t, st.From)
	require.Nil(t, st.To)
	require.Equal(t, MsgSelectBoth, st.ValidationMessage)
	require.Equal(t, "0", st.OutputAmount)
}

func Test_SwapSession_DefaultPair(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	st := s.Snapshot()
	require.Equal(t, "ETH", st.From.Symbol)
	require.Equal(t, "BTC", st.To.Symbol)
	require.Equal(t, "", st.InputAmount)
	require.Equal(t, MsgEnterAmount, st.ValidationMessage)
	require.Equal(t, domain.PhaseSelecting, st.Phase)
}

func Test_SwapSession_SingleAssetCatalog(t *testing.T) {
	t.Parallel()
	s := NewSwapSession("s1", &fakeSettler{})
	s.SetAssets([]domain.Asset{assetETH})
	st := s.Snapshot()
	require.Equal(t, "ETH", st.From.Symbol)
	require.Nil(t, st.To)
	require.Equal(t, MsgSelectBoth, st.ValidationMessage)
}

func Test_SwapSession_QuoteOnAmount(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	ok, err := s.SetAmount("5")
	require.NoError(t, err)
	require.True(t, ok)

	st := s.Snapshot()
	require.Equal(t, "0.216667", st.OutputAmount)
	require.Equal(t, "13000.00", st.USDValue)
	require.Equal(t, "", st.ValidationMessage)
	require.Equal(t, domain.PhaseReady, st.Phase)
}

func Test_SwapSession_RejectsMalformedAmount(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	_, err := s.SetAmount("1.5")
	require.NoError(t, err)

	for _, in := range []string{"1.2.3", "-1", "abc", "1e5", " 1"} {
		ok, err := s.SetAmount(in)
		require.NoError(t, err)
		require.False(t, ok, in)
		require.Equal(t, "1.5", s.Snapshot().InputAmount)
	}

	ok, err := s.SetAmount("")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, MsgEnterAmount, s.Snapshot().ValidationMessage)
}

func Test_SwapSession_InsufficientBalance(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	_, err := s.SetAmount("11")
	require.NoError(t, err)
	require.Equal(t, "Insufficient balance. Available: 10 ETH", s.Validate())
	require.Equal(t, domain.PhaseSelecting, s.Snapshot().Phase)

	_, err = s.SetAmount("10")
	require.NoError(t, err)
	require.Equal(t, "", s.Validate())
}

func Test_SwapSession_SelectionCollisionClearsOtherSide(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})

	require.NoError(t, s.SelectTo(assetETH))
	st := s.Snapshot()
	require.Nil(t, st.From)
	require.Equal(t, "ETH", st.To.Symbol)
	require.Equal(t, MsgSelectBoth, st.ValidationMessage)

	require.NoError(t, s.SelectFrom(assetUSDC))
	require.NoError(t, s.SelectFrom(assetETH))
	st = s.Snapshot()
	require.Equal(t, "ETH", st.From.Symbol)
	require.Nil(t, st.To)
}

func Test_SwapSession_FlipTwiceRestoresPair(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	_, err := s.SetAmount("5")
	require.NoError(t, err)

	require.NoError(t, s.Flip())
	st := s.Snapshot()
	require.Equal(t, "BTC", st.From.Symbol)
	require.Equal(t, "ETH", st.To.Symbol)
	require.Equal(t, "", st.InputAmount)

	require.NoError(t, s.Flip())
	st = s.Snapshot()
	require.Equal(t, "ETH", st.From.Symbol)
	require.Equal(t, "BTC", st.To.Symbol)
}

func Test_SwapSession_FlipNeedsBothSides(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	require.NoError(t, s.SelectTo(assetETH))
	require.NoError(t, s.Flip())
	st := s.Snapshot()
	require.Nil(t, st.From)
	require.Equal(t, "ETH", st.To.Symbol)
}

func Test_SwapSession_UnpricedDestination(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	require.NoError(t, s.SelectTo(assetFOO))
	_, err := s.SetAmount("1")
	require.NoError(t, err)

	st := s.Snapshot()
	require.Equal(t, "Unable to quote: FOO has no price", st.ValidationMessage)
	require.Equal(t, "0", st.OutputAmount)
	require.Equal(t, "2600.00", st.USDValue)

	_, ok := s.Rate()
	require.False(t, ok)
}

func Test_SwapSession_MaxThenSubmit(t *testing.T) {
	t.Parallel()
	s, receipts := newTestSession(t, &fakeSettler{})
	require.NoError(t, s.MaxAmount())
	require.Equal(t, "10", s.Snapshot().InputAmount)

	r, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "10", r.FromAmount)
	require.Equal(t, "0.433333", r.ToAmount)
	require.Equal(t, "26000.00", r.USDValue)

	st := s.Snapshot()
	require.Equal(t, "", st.InputAmount)
	require.False(t, st.Busy)
	require.Equal(t, domain.PhaseSelecting, st.Phase)
	require.NotNil(t, st.LastReceipt)
	require.Len(t, receipts.list, 1)
}

func Test_SwapSession_SubmitInvalid(t *testing.T) {
	t.Parallel()
	s, receipts := newTestSession(t, &fakeSettler{})
	_, err := s.Submit(context.Background())

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, MsgEnterAmount, vErr.Message)
	require.Equal(t, domain.PhaseSelecting, s.Snapshot().Phase)
	require.Empty(t, receipts.list)
}

func Test_SwapSession_SettlementFailure(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		settler *fakeSettler
	}{
		{"error", &fakeSettler{err: errors.New("rejected")}},
		{"panic", &fakeSettler{panic: true}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, receipts := newTestSession(t, tc.settler)
			_, err := s.SetAmount("1")
			require.NoError(t, err)

			_, err = s.Submit(context.Background())
			require.Error(t, err)

			st := s.Snapshot()
			require.False(t, st.Busy)
			require.Equal(t, domain.PhaseError, st.Phase)
			require.Equal(t, MsgSwapFailed, st.ValidationMessage)
			require.Equal(t, "1", st.InputAmount)
			require.Empty(t, receipts.list)

			// Any edit recovers from the error phase.
			_, err = s.SetAmount("2")
			require.NoError(t, err)
			require.Equal(t, domain.PhaseReady, s.Snapshot().Phase)
		})
	}
}

func Test_SwapSession_SettlementFailureSurvivesCatalogRefresh(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{err: errors.New("rejected")})
	_, err := s.SetAmount("1")
	require.NoError(t, err)
	_, err = s.Submit(context.Background())
	require.Error(t, err)

	s.SetAssets(testAssets())
	st := s.Snapshot()
	require.Equal(t, domain.PhaseError, st.Phase)
	require.Equal(t, MsgSwapFailed, st.ValidationMessage)

	repriced := testAssets()
	repriced[0].Price = 3000
	s.SetAssets(repriced)
	st = s.Snapshot()
	require.Equal(t, domain.PhaseReady, st.Phase)
	require.Empty(t, st.ValidationMessage)
	require.Equal(t, "3000.00", st.USDValue)
}

func Test_SwapSession_EditsRefusedWhileBusy(t *testing.T) {
	t.Parallel()
	settler := &fakeSettler{gate: make(chan struct{})}
	s, _ := newTestSession(t, settler)
	_, err := s.SetAmount("1")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool { return s.Snapshot().Busy }, time.Second, time.Millisecond)

	require.ErrorIs(t, s.SelectFrom(assetUSDC), ErrSessionBusy)
	require.ErrorIs(t, s.Flip(), ErrSessionBusy)
	require.ErrorIs(t, s.MaxAmount(), ErrSessionBusy)
	_, err = s.SetAmount("2")
	require.ErrorIs(t, err, ErrSessionBusy)
	_, err = s.Submit(context.Background())
	require.ErrorIs(t, err, ErrSessionBusy)

	close(settler.gate)
	require.NoError(t, <-done)
	require.False(t, s.Snapshot().Busy)
}

func Test_SwapSession_SetAssetsReprices(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(t, &fakeSettler{})
	_, err := s.SetAmount("1")
	require.NoError(t, err)

	eth := assetETH
	eth.Price = 3000
	s.SetAssets([]domain.Asset{eth, assetBTC})
	st := s.Snapshot()
	require.InDelta(t, 3000, st.From.Price, 1e-9)
	require.Equal(t, "3000.00", st.USDValue)

	s.SetAssets([]domain.Asset{eth, assetUSDC})
	st = s.Snapshot()
	require.Equal(t, "ETH", st.From.Symbol)
	require.Nil(t, st.To)
	require.Equal(t, MsgSelectBoth, st.ValidationMessage)
}
