package market

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, retries uint64) *Client {
	c := NewClient(url, url, "token", "EUR", time.Second, retries)
	c.retryInterval = time.Millisecond
	return c
}

func TestPrices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "bitcoin,ethereum", q.Get("ids"))
		assert.Equal(t, "eur", q.Get("vs_currencies"))
		assert.Equal(t, "true", q.Get("include_24hr_change"))
		fmt.Fprintln(w, `{"bitcoin":{"eur":50000.5,"eur_24h_change":6.25},"ethereum":{"eur":null}}`)
	}))
	defer ts.Close()

	quotes, err := newTestClient(ts.URL, 0).Prices(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	btc := quotes["bitcoin"]
	require.NotNil(t, btc.Price)
	require.NotNil(t, btc.Change24h)
	assert.Equal(t, 50000.5, *btc.Price)
	assert.Equal(t, 6.25, *btc.Change24h)

	eth := quotes["ethereum"]
	assert.Nil(t, eth.Price)
	assert.Nil(t, eth.Change24h)
}

func TestPrices_EmptyListSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer ts.Close()

	quotes, err := newTestClient(ts.URL, 0).Prices(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, quotes)
	assert.Zero(t, calls.Load())
}

func TestPrices_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprintln(w, `{"bitcoin":{"eur":1,"eur_24h_change":0}}`)
	}))
	defer ts.Close()

	quotes, err := newTestClient(ts.URL, 3).Prices(context.Background(), []string{"bitcoin"})
	require.NoError(t, err)
	assert.Contains(t, quotes, "bitcoin")
	assert.Equal(t, int32(3), calls.Load())
}

func TestPrices_ClientErrorIsPermanent(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).Prices(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPrices_GivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 2).Prices(context.Background(), []string{"bitcoin"})
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, int32(3), calls.Load())
}

func TestNews(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "token", q.Get("auth_token"))
		assert.Equal(t, "BITCOIN,ETHEREUM", q.Get("currencies"))
		assert.Equal(t, "news", q.Get("kind"))
		fmt.Fprintln(w, `{"count":2,"results":[{"title":"BTC up","url":"https://n/1"},{"title":"ETH down","url":"https://n/2"}]}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts.URL, 0).News(context.Background(), []string{"bitcoin", "ethereum"})
	require.NoError(t, err)
	assert.Equal(t, []NewsItem{
		{Title: "BTC up", URL: "https://n/1"},
		{Title: "ETH down", URL: "https://n/2"},
	}, items)
}

func TestNews_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `<html>`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL, 3).News(context.Background(), []string{"bitcoin"})
	require.Error(t, err)
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("", "", "", "", 0, 0)
	assert.Equal(t, DefaultPriceURL, c.PriceURL)
	assert.Equal(t, DefaultNewsURL, c.NewsURL)
	assert.Equal(t, DefaultCurrency, c.Currency)
}
