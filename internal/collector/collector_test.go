package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"StockPulse/internal/model"
)

const avPayload = `{
  "Meta Data": {"2. Symbol": "TSLA"},
  "Time Series (Daily)": {
    "2024-03-13": {"1. open": "100.0000", "2. high": "101.0000", "3. low": "99.0000", "4. close": "100.0000", "5. volume": "1000"},
    "2024-03-15": {"1. open": "104.0000", "2. high": "106.0000", "3. low": "103.5000", "4. close": "105.0000", "5. volume": "3000"},
    "2024-03-14": {"1. open": "100.5000", "2. high": "102.0000", "3. low": "100.0000", "4. close": "100.0000", "5. volume": "2000"}
  }
}`

func TestAlphaVantage_FetchDailySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "TIME_SERIES_DAILY", r.URL.Query().Get("function"))
		require.Equal(t, "TSLA", r.URL.Query().Get("symbol"))
		require.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, avPayload)
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "test-key", "")
	points, err := f.FetchDailySeries(context.Background(), "TSLA")
	require.NoError(t, err)
	require.Len(t, points, 3)

	require.Equal(t, "2024-03-15", points[0].Date.Format(model.DateLayout))
	require.Equal(t, "2024-03-14", points[1].Date.Format(model.DateLayout))
	require.Equal(t, "2024-03-13", points[2].Date.Format(model.DateLayout))
	require.True(t, points[0].Close.Equal(decimal.NewFromInt(105)))
	require.True(t, points[0].Low.Equal(decimal.RequireFromString("103.5")))
	require.Equal(t, int64(3000), points[0].Volume)
	require.Equal(t, model.RawQuote{Open: "104.0000", High: "106.0000", Low: "103.5000", Close: "105.0000", Volume: "3000"}, points[0].Raw)
}

func TestAlphaVantage_APIErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid symbol", `{"Error Message": "Invalid API call."}`, "Invalid API call."},
		{"rate limited", `{"Note": "Thank you for using Alpha Vantage!"}`, "Thank you"},
		{"premium", `{"Information": "premium endpoint"}`, "premium endpoint"},
		{"bad number", `{"Time Series (Daily)": {"2024-03-15": {"4. close": "n/a"}}}`, "parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			_, err := NewAlphaVantageFetcher(srv.URL, "k", "").FetchDailySeries(context.Background(), "TSLA")
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestYahoo_FetchDailySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v8/finance/chart/TSLA", r.URL.Path)
		require.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1710336600,1710423000,1710509400],
			"indicators":{"quote":[{"open":[1,null,3],"high":[1,null,3],"low":[1,null,3],
			"close":[100,null,105.5],"volume":[10,null,30]}]}}],"error":null}}`)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	points, err := f.FetchDailySeries(context.Background(), "TSLA")
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.True(t, points[0].Close.Equal(decimal.RequireFromString("105.5")))
	require.True(t, points[1].Close.Equal(decimal.NewFromInt(100)))
	require.True(t, points[0].Date.After(points[1].Date))
}

func TestCollect_WrapsProviderError(t *testing.T) {
	c := NewCollector(&MockFetcher{Err: errors.New("connection refused")}, zap.NewNop())

	_, err := c.Collect(context.Background(), "TSLA")

	var pe *model.ProviderError
	require.ErrorAs(t, err, &pe)
	require.Equal(t, "mock", pe.Provider)
	require.Contains(t, err.Error(), "connection refused")
}

func TestCollect_OrdersMostRecentFirst(t *testing.T) {
	c := NewCollector(&MockFetcher{Price: 250}, zap.NewNop())

	points, err := c.Collect(context.Background(), "TSLA")
	require.NoError(t, err)
	require.Len(t, points, 30)
	for i := 1; i < len(points); i++ {
		require.True(t, points[i-1].Date.After(points[i].Date))
	}
}

func TestNewFetcher(t *testing.T) {
	for _, provider := range []string{"", "alphavantage", "Yahoo", "mock"} {
		f, err := NewFetcher(provider, "", "k", "")
		require.NoError(t, err, provider)
		require.NotEmpty(t, f.Name())
	}
	_, err := NewFetcher("bloomberg", "", "", "")
	require.Error(t, err)
}

func TestCollect_LeavesFetcherSliceUntouched(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	shared := []model.QuotePoint{
		{Date: day, Close: decimal.NewFromInt(100)},
		{Date: day.AddDate(0, 0, 1), Close: decimal.NewFromInt(101)},
	}
	c := NewCollector(&MockFetcher{Points: shared}, zap.NewNop())

	points, err := c.Collect(context.Background(), "TSLA")
	require.NoError(t, err)
	require.True(t, points[0].Close.Equal(decimal.NewFromInt(101)))
	require.True(t, shared[0].Close.Equal(decimal.NewFromInt(100)), "shared series must keep its order")
}
