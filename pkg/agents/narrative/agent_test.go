package narrative

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chimera-labs/chimera/pkg/agents/analysis"
)

func TestRenderTrendingUp(t *testing.T) {
	text := render(analysis.Result{Symbol: "BTC", Latest: 120, Mean: 100, ZScore: 1.5})
	assert.True(t, strings.Contains(text, "trending up"))
	assert.True(t, strings.Contains(text, "BTC"))
}

func TestRenderTrendingDown(t *testing.T) {
	text := render(analysis.Result{Symbol: "ETH", Latest: 80, Mean: 100, ZScore: -1.5})
	assert.True(t, strings.Contains(text, "trending down"))
}

func TestRenderSteady(t *testing.T) {
	text := render(analysis.Result{Symbol: "SOL", Latest: 101, Mean: 100, ZScore: 0.1})
	assert.True(t, strings.Contains(text, "steady"))
}
