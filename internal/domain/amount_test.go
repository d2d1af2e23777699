package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAmountText(t *testing.T) {
	for _, s := range []string{"", "0", "12", "1.", ".5", "0.000001", "."} {
		require.True(t, IsAmountText(s), s)
	}
	for _, s := range []string{"-1", "1.2.3", "1e3", "abc", "1,5", " 1"} {
		require.False(t, IsAmountText(s), s)
	}
}

func TestParseAmount(t *testing.T) {
	d, ok := ParseAmount("5.")
	require.True(t, ok)
	require.Equal(t, "5", d.String())

	d, ok = ParseAmount(".25")
	require.True(t, ok)
	require.Equal(t, "0.25", d.String())

	for _, s := range []string{"", ".", "0", "0.000", "abc"} {
		_, ok := ParseAmount(s)
		require.False(t, ok, s)
	}
}

func TestErrors(t *testing.T) {
	require.Equal(t, "Network request failed", (&NetworkError{}).Error())
	require.Equal(t, "HTTP 404: Not Found", (&APIError{Status: 404, Msg: "Not Found"}).Error())
	require.Equal(t, "Invalid response format", (&APIError{Msg: "Invalid response format", Err: ErrInvalidPayload}).Error())
	require.ErrorIs(t, &APIError{Msg: "x", Err: ErrInvalidPayload}, ErrInvalidPayload)
}
