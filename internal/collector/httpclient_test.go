package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"WalletScore/internal/observability"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(source string, retries int, m *observability.Metrics) *HTTPClient {
	return NewHTTPClient(HTTPOptions{
		Source:     source,
		Timeout:    5 * time.Second,
		MaxRetries: retries,
		BaseDelay:  time.Millisecond,
		Metrics:    m,
	})
}

func TestHTTPClientRetriesTransient(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	m := observability.NewMetrics("test")
	c := testClient("up", 3, m)
	var out struct{ OK bool }
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, nil, &out))
	assert.True(t, out.OK)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamRetries.WithLabelValues("up")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.UpstreamCalls.WithLabelValues("up", "503")))
}

func TestHTTPClientGivesUp(t *testing.T) {
	tests := []struct {
		name    string
		retries int
		calls   int32
	}{
		{"two retries", 2, 3},
		{"retries disabled", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusTooManyRequests)
			}))
			defer srv.Close()

			err := testClient("up", tt.retries, nil).GetJSON(context.Background(), srv.URL, nil, nil)
			require.Error(t, err)
			var se *StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, http.StatusTooManyRequests, se.Code)
			assert.Equal(t, tt.calls, atomic.LoadInt32(&calls))
		})
	}
}

func TestHTTPClientNoRetryOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad address", http.StatusBadRequest)
	}))
	defer srv.Close()

	err := testClient("up", 3, nil).GetJSON(context.Background(), srv.URL, nil, nil)
	require.Error(t, err)
	assert.False(t, IsTransient(err))
	assert.Contains(t, err.Error(), "bad address")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestHTTPClientHonoursCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewHTTPClient(HTTPOptions{Source: "up", MaxRetries: 5, BaseDelay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := c.GetJSON(ctx, srv.URL, nil, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.False(t, IsTransient(context.Canceled))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(&StatusError{Code: 500}))
	assert.True(t, IsTransient(&StatusError{Code: 429}))
	assert.False(t, IsTransient(&StatusError{Code: 404}))
	assert.False(t, IsTransient(errors.New("decode")))
}

func TestFlexValues(t *testing.T) {
	var f struct {
		A flexFloat `json:"a"`
		B flexFloat `json:"b"`
		C flexFloat `json:"c"`
		D flexInt   `json:"d"`
		E flexInt   `json:"e"`
		F flexInt   `json:"f"`
		G flexInt   `json:"g"`
	}
	require.NoError(t, jsonUnmarshal(`{"a":"1.5","b":2,"c":null,"d":"6","e":null,"f":"18.0","g":18.5}`, &f))
	assert.Equal(t, flexFloat(1.5), f.A)
	assert.Equal(t, flexFloat(2), f.B)
	assert.Zero(t, f.C)
	assert.Equal(t, flexInt{Value: 6, Set: true}, f.D)
	assert.False(t, f.E.Set)
	assert.False(t, f.F.Set, "non-integer string is unset, not an error")
	assert.False(t, f.G.Set, "fractional number is unset, not an error")
}

func TestParseHex(t *testing.T) {
	n, err := parseHexBig("0xde0b6b3a7640000")
	require.NoError(t, err)
	assert.Equal(t, 1.0, weiToETH(n))

	_, err = parseHexBig("0xzz")
	assert.Error(t, err)
}
