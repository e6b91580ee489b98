package retrieval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chimera-labs/chimera/pkg/health"
	"github.com/chimera-labs/chimera/pkg/metrics"
)

func TestGenerateSeriesIsDeterministicForSameSymbol(t *testing.T) {
	a := generateSeries("BTC", 10)
	b := generateSeries("BTC", 10)
	assert.Equal(t, a, b)
}

func TestGenerateSeriesDiffersAcrossSymbols(t *testing.T) {
	a := generateSeries("BTC", 10)
	b := generateSeries("ETH", 10)
	assert.NotEqual(t, a, b)
}

func TestGenerateSeriesReturnsRequestedLength(t *testing.T) {
	values := generateSeries("SOL", 7)
	assert.Len(t, values, 7)
}

func TestCheckUpstreamIsNoOpWithoutHealthURL(t *testing.T) {
	a := &Agent{}
	assert.NotPanics(t, func() { a.CheckUpstream(context.Background()) })
}

func TestCheckUpstreamUpdatesDataSourceComponent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	metrics.RegisterComponent("data_source", false, "not yet checked")
	a := &Agent{checker: health.NewHTTPChecker(srv.URL)}

	a.CheckUpstream(context.Background())

	report := metrics.GetHealth()
	status, ok := report.Components["data_source"]
	assert.True(t, ok)
	assert.Equal(t, "healthy", status)
}
