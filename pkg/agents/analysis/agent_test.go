package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeanStdDevOnFlatSeries(t *testing.T) {
	mean, stddev := meanStdDev([]float64{10, 10, 10, 10})
	assert.Equal(t, 10.0, mean)
	assert.Equal(t, 0.0, stddev)
}

func TestMeanStdDevOnVaryingSeries(t *testing.T) {
	mean, stddev := meanStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, 5.0, mean, 0.001)
	assert.InDelta(t, 2.0, stddev, 0.001)
}

func TestMeanStdDevOnEmptySeries(t *testing.T) {
	mean, stddev := meanStdDev(nil)
	assert.Equal(t, 0.0, mean)
	assert.Equal(t, 0.0, stddev)
}

func TestZScoreWithZeroStdDevIsZero(t *testing.T) {
	assert.Equal(t, 0.0, zScore(15, 10, 0))
}

func TestZScoreComputesDeviation(t *testing.T) {
	assert.InDelta(t, 2.0, zScore(20, 10, 5), 0.001)
	assert.InDelta(t, -2.0, zScore(0, 10, 5), 0.001)
}
