package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/K1llByte/ben/internal/services/economy"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFetcher(serverURL string) *QuoteFetcher {
	return NewQuoteFetcher(serverURL, "test-key", "EUR", 2*time.Second, zerolog.Nop())
}

func TestQuoteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/cryptocurrency/quotes/latest", r.URL.Path)
		assert.Equal(t, "BTC", r.URL.Query().Get("symbol"))
		assert.Equal(t, "EUR", r.URL.Query().Get("convert"))
		assert.Equal(t, "test-key", r.Header.Get("X-CMC_PRO_API_KEY"))
		fmt.Fprint(w, `{
			"status": {"error_code": 0},
			"data": {"BTC": {"name": "Bitcoin", "quote": {"EUR": {"price": 25000.5}}}}
		}`)
	}))
	defer server.Close()

	quote, err := newFetcher(server.URL).Quote(context.Background(), "btc")
	require.NoError(t, err)
	assert.Equal(t, "BTC", quote.Symbol)
	assert.Equal(t, "Bitcoin", quote.Name)
	assert.InDelta(t, 25000.5, quote.Price, 1e-9)
}

func TestQuoteUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": {"error_code": 400, "error_message": "Invalid value for symbol"}, "data": {}}`)
	}))
	defer server.Close()

	_, err := newFetcher(server.URL).Quote(context.Background(), "NOPE")
	assert.ErrorIs(t, err, economy.ErrUnknownSymbol)
}

func TestQuoteErrorCodeWithDataStillSucceeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": {"error_code": 1008},
			"data": {"ETH": {"name": "Ethereum", "quote": {"EUR": {"price": 2000}}}}
		}`)
	}))
	defer server.Close()

	quote, err := newFetcher(server.URL).Quote(context.Background(), "ETH")
	require.NoError(t, err)
	assert.InDelta(t, 2000, quote.Price, 1e-9)
}

func TestQuoteServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newFetcher(server.URL).Quote(context.Background(), "BTC")
	assert.ErrorIs(t, err, economy.ErrUnavailable)
}

func TestQuoteMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json at all`)
	}))
	defer server.Close()

	_, err := newFetcher(server.URL).Quote(context.Background(), "BTC")
	assert.ErrorIs(t, err, economy.ErrUnavailable)
}

func TestQuoteNullPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": {"error_code": 0},
			"data": {"XYZ": {"name": "Dead Coin", "quote": {"EUR": {"price": null}}}}
		}`)
	}))
	defer server.Close()

	_, err := newFetcher(server.URL).Quote(context.Background(), "XYZ")
	assert.ErrorIs(t, err, economy.ErrUnavailable)
}

func TestQuoteNonPositivePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"status": {"error_code": 0},
			"data": {"XYZ": {"name": "Dead Coin", "quote": {"EUR": {"price": 0}}}}
		}`)
	}))
	defer server.Close()

	_, err := newFetcher(server.URL).Quote(context.Background(), "XYZ")
	assert.ErrorIs(t, err, economy.ErrUnavailable)
}

func TestQuoteMissingConvertCurrency(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": {"error_code": 0}, "data": {"BTC": {"name": "Bitcoin", "quote": {"USD": {"price": 27000}}}}}`)
	}))
	defer server.Close()

	_, err := newFetcher(server.URL).Quote(context.Background(), "BTC")
	assert.ErrorIs(t, err, economy.ErrUnavailable)
}

func TestQuoteTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	_, err := newFetcher(server.URL).Quote(context.Background(), "BTC")
	assert.ErrorIs(t, err, economy.ErrUnavailable)
}
