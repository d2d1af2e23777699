package provider_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"swapquote-service/internal/domain"
	"swapquote-service/internal/infrastructure/httpx"
	"swapquote-service/internal/infrastructure/provider"

	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) *http.Response

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r), nil }

func httpClient(resBody string, code int) *httpx.Client {
	return &httpx.Client{HTTP: &http.Client{
		Timeout: 2 * time.Second,
		Transport: roundTripFunc(func(r *http.Request) *http.Response {
			return &http.Response{
				StatusCode: code,
				Body:       io.NopCloser(strings.NewReader(resBody)),
				Header:     make(http.Header),
			}
		}),
	}}
}

const sampleOK = `[
  {"currency":"BLUR","date":"2023-08-29T07:10:40.000Z","price":0.20811525423728813},
  {"currency":"ETH","date":"2023-08-29T07:10:52.000Z","price":1645.9337373737374},
  {"currency":"USD","date":"not a date","price":1}
]`

func TestFetch_OK(t *testing.T) {
	p := provider.NewSwitcheoFeed("https://example.com/prices.json", httpClient(sampleOK, 200))
	quotes, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 3)
	require.Equal(t, "ETH", quotes[1].Currency)
	require.InDelta(t, 1645.9337, quotes[1].Price, 0.0001)
	require.Equal(t, time.Date(2023, 8, 29, 7, 10, 52, 0, time.UTC), quotes[1].AsOf)
	require.True(t, quotes[2].AsOf.IsZero())
}

func TestFetch_EmptyArray(t *testing.T) {
	p := provider.NewSwitcheoFeed("", httpClient(`[]`, 200))
	require.Equal(t, provider.DefaultSwitcheoURL, p.URL)
	quotes, err := p.Fetch(context.Background())
	require.NoError(t, err)
	require.Empty(t, quotes)
}

func TestFetch_APIError(t *testing.T) {
	p := provider.NewSwitcheoFeed("https://example.com", httpClient("oops", 500))
	_, err := p.Fetch(context.Background())
	var apiErr *domain.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 500, apiErr.Status)
}

func TestFetch_NotAnArray(t *testing.T) {
	p := provider.NewSwitcheoFeed("https://example.com", httpClient(`{"prices":[]}`, 200))
	_, err := p.Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestFake(t *testing.T) {
	quotes, err := provider.NewFake(nil).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 4)
	require.Equal(t, "ATOM", quotes[0].Currency)

	quotes, err = provider.NewFake(map[string]float64{"FOO": 2}).Fetch(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"FOO"}, []string{quotes[0].Currency})
}
