package routesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trailnet/internal/config"
	"trailnet/internal/entities"
)

func defaultCostConfig() config.CostConfig {
	return config.CostConfig{
		PriorityWeights:   config.PriorityWeights{Elevation: 0.4, Distance: 0.4, Shape: 0.2},
		DeviationWeight:   1.0,
		DeviationExponent: 2.0,
	}
}

func TestCostExactMatchIsCheapestForShape(t *testing.T) {
	cfg := defaultCostConfig()
	pattern := &entities.RoutePattern{
		Name: "classic-loop", TargetDistanceKM: 10, TargetElevationM: 300, Shape: entities.ShapeLoop,
	}

	exact := Cost(cfg, pattern, 10, 300, entities.ShapeLoop)
	off := Cost(cfg, pattern, 15, 500, entities.ShapeLoop)

	assert.Less(t, exact, off, "an exact match should cost less than a deviating route")
}

func TestCostPenalizesWrongShape(t *testing.T) {
	cfg := defaultCostConfig()
	pattern := &entities.RoutePattern{TargetDistanceKM: 10, TargetElevationM: 300, Shape: entities.ShapeLoop}

	loop := Cost(cfg, pattern, 10, 300, entities.ShapeLoop)
	pointToPoint := Cost(cfg, pattern, 10, 300, entities.ShapePointToPoint)

	assert.Less(t, loop, pointToPoint, "the matching shape should cost less")
}

func TestBandCostFallsBackToLastBand(t *testing.T) {
	got := bandCost(elevationBands, 10000)
	assert.Equal(t, elevationBands[len(elevationBands)-1].Cost, got, "extreme ratio should fall into the final band")
}
