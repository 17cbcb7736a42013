package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKm(t *testing.T) {
	assert.InDelta(t, 1.11, DistanceKm(40.0, -73.0, 40.01, -73.0), 0.01)
	assert.InDelta(t, 0, DistanceKm(51.5, -0.12, 51.5, -0.12), 1e-9)
	// Paris -> London
	assert.InDelta(t, 343.5, DistanceKm(48.8566, 2.3522, 51.5074, -0.1278), 1.0)
}
