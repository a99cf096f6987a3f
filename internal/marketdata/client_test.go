package marketdata

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quant-backtest-go/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func setupKlineServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(&config.Data{
		BaseURL:        server.URL,
		RateLimit:      1000,
		RateLimitBurst: 10,
	}, zap.NewNop())
}

func TestGetKlines(t *testing.T) {
	client := setupKlineServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			[1672531200000,"16500.0","16750.5","16400.0","16600.25","1234.5",1672617599999,"0",0,"0","0","0"],
			[1672617600000,"16600.25","16900.0","16550.0","16850.75","2345.6",1672703999999,"0",0,"0","0","0"]
		]`))
	})

	bars, err := client.GetKlines("BTCUSDT", "1d", 2)
	assert.NoError(t, err)
	assert.Len(t, bars, 2)

	assert.Equal(t, "BTCUSDT", bars[0].Symbol)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), bars[0].Timestamp)
	assert.Equal(t, 16500.0, bars[0].Open)
	assert.Equal(t, 16750.5, bars[0].High)
	assert.Equal(t, 16400.0, bars[0].Low)
	assert.Equal(t, 16600.25, bars[0].Close)
	assert.Equal(t, 1234.5, bars[0].Volume)
	assert.Equal(t, 16850.75, bars[1].Close)
}

func TestGetKlinesServerError(t *testing.T) {
	client := setupKlineServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	})

	_, err := client.GetKlines("NOPE", "1d", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestGetKlinesMalformedRow(t *testing.T) {
	client := setupKlineServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[1672531200000,"16500.0"]]`))
	})

	_, err := client.GetKlines("BTCUSDT", "1d", 10)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "malformed kline row")
}

func TestGetDataset(t *testing.T) {
	client := setupKlineServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Same single bar for every requested symbol.
		w.Write([]byte(`[[1672531200000,"100","101","99","100.5","10",1672617599999,"0",0,"0","0","0"]]`))
	})

	d, err := client.GetDataset([]string{"BTCUSDT", "ETHUSDT"}, "1d", 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, d.Symbols())
}

func TestGetDatasetEmpty(t *testing.T) {
	client := setupKlineServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.GetDataset([]string{"BTCUSDT"}, "1d", 1)
	assert.Error(t, err)
}
