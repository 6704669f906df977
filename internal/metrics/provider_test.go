package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()

	provider, err := NewProvider("keyvault_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})
	return provider
}

func TestProvider_RecordAndScrape(t *testing.T) {
	provider := newTestProvider(t)

	meter := provider.MeterProvider().Meter("scrape_test")
	counter, err := meter.Int64Counter("handled_requests")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "handled_requests_total")
}

func TestProvider_ScrapeEmptyRegistry(t *testing.T) {
	provider := newTestProvider(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	provider.Handler().ServeHTTP(w, req)

	// No instruments registered yet, but the endpoint still answers.
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProvider_Shutdown(t *testing.T) {
	t.Run("Success_FlushesAndStops", func(t *testing.T) {
		provider, err := NewProvider("keyvault_test")
		require.NoError(t, err)

		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	t.Run("Success_ZeroValueProvider", func(t *testing.T) {
		var provider Provider

		assert.NoError(t, provider.Shutdown(context.Background()))
	})
}
