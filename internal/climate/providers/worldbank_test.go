package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

func TestWorldBankFetchCountryContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/SYR/prcp/data.json":
			_, _ = w.Write([]byte(`[{"year": 2000, "data": 251.3}]`))
		case "/SYR/tas/data.json":
			_, _ = w.Write([]byte(`{"annual": 18.1}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewWorldBankProvider(srv.Client(), srv.URL, "SYR", nil)
	got, err := p.FetchCountryContext(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, []any{map[string]any{"year": 2000.0, "data": 251.3}}, got["precipitation"])
	require.Equal(t, map[string]any{"annual": 18.1}, got["temperature"])
}

func TestWorldBankPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/SYR/tas/data.json" {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := NewWorldBankProvider(srv.Client(), srv.URL, "SYR", nil)
	got, err := p.FetchCountryContext(context.Background())
	require.NoError(t, err)
	require.Contains(t, got, "precipitation")
	require.NotContains(t, got, "temperature")
}

func TestWorldBankUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewWorldBankProvider(srv.Client(), srv.URL, "SYR", nil)
	_, err := p.FetchCountryContext(context.Background())
	require.ErrorIs(t, err, climate.ErrProviderUnavailable)

	_, err = NewWorldBankProvider(srv.Client(), srv.URL, "", nil).FetchCountryContext(context.Background())
	require.ErrorIs(t, err, climate.ErrProviderUnavailable)
}
