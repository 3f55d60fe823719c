package routesearch

import (
	"math"

	"trailnet/internal/config"
	"trailnet/internal/entities"
)

// band is one entry of a piecewise preference table: values whose rate
// falls in [Min, Max) score Cost.
type band struct {
	Min, Max, Cost float64
}

var elevationBands = []band{
	{0, 50, 0.2},
	{50, 100, 0.0},
	{100, 150, 0.1},
	{150, 200, 0.3},
	{200, math.Inf(1), 0.5},
}

var distanceBands = []band{
	{0, 0.5, 0.3},
	{0.5, 0.9, 0.1},
	{0.9, 1.1, 0.0},
	{1.1, 1.5, 0.1},
	{1.5, math.Inf(1), 0.3},
}

func bandCost(bands []band, ratio float64) float64 {
	for _, b := range bands {
		if ratio >= b.Min && ratio < b.Max {
			return b.Cost
		}
	}
	return bands[len(bands)-1].Cost
}

func shapeCost(shape entities.RouteShape) float64 {
	switch shape {
	case entities.ShapeLoop:
		return 0.0
	case entities.ShapeOutAndBack:
		return 0.1
	default:
		return 0.3
	}
}

// Cost computes the enhanced preference cost of a candidate path
// against a route pattern, per the three-component weighted model:
// elevation-rate deviation+preference, distance deviation+preference,
// and a fixed shape cost.
func Cost(cfg config.CostConfig, pattern *entities.RoutePattern, achievedDistanceKM, achievedElevationM float64, shape entities.RouteShape) float64 {
	targetRate := 0.0
	if pattern.TargetDistanceKM > 0 {
		targetRate = pattern.TargetElevationM / pattern.TargetDistanceKM
	}
	achievedRate := 0.0
	if achievedDistanceKM > 0 {
		achievedRate = achievedElevationM / achievedDistanceKM
	}

	elevDeviation := deviationTerm(cfg, achievedRate, targetRate)
	elevPreference := bandCost(elevationBands, achievedRate)
	elevationCost := 0.7*elevDeviation + 0.3*elevPreference

	distRatio := 1.0
	if pattern.TargetDistanceKM > 0 {
		distRatio = achievedDistanceKM / pattern.TargetDistanceKM
	}
	distDeviation := deviationTerm(cfg, achievedDistanceKM, pattern.TargetDistanceKM)
	distPreference := bandCost(distanceBands, distRatio)
	distanceCost := 0.7*distDeviation + 0.3*distPreference

	shapeComponent := shapeCost(shape)

	w := cfg.PriorityWeights
	return elevationCost*w.Elevation + distanceCost*w.Distance + shapeComponent*w.Shape
}

func deviationTerm(cfg config.CostConfig, achieved, target float64) float64 {
	if target == 0 {
		return 0
	}
	ratio := math.Abs(achieved-target) / target * cfg.DeviationWeight
	return math.Pow(ratio, cfg.DeviationExponent)
}
