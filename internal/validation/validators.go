package validation

import (
	"trailnet/internal/entities"
)

// GeographicValidator validates geographic data.
type GeographicValidator struct{}

// NewGeographicValidator creates a new geographic validator.
func NewGeographicValidator() *GeographicValidator {
	return &GeographicValidator{}
}

// ValidateBoundingBox validates a bounding box against WGS84 ranges.
func (v *GeographicValidator) ValidateBoundingBox(bbox *entities.BoundingBox) *entities.MultiValidationError {
	errors := entities.NewMultiValidationError()

	if bbox == nil {
		return errors
	}

	if bbox.North < -90 || bbox.North > 90 {
		errors.Add("north", "north latitude must be between -90 and 90")
	}
	if bbox.South < -90 || bbox.South > 90 {
		errors.Add("south", "south latitude must be between -90 and 90")
	}
	if bbox.North <= bbox.South {
		errors.Add("bounding_box", "north latitude must be greater than south latitude")
	}
	if bbox.East < -180 || bbox.East > 180 {
		errors.Add("east", "east longitude must be between -180 and 180")
	}
	if bbox.West < -180 || bbox.West > 180 {
		errors.Add("west", "west longitude must be between -180 and 180")
	}

	return errors
}

// ToleranceValidator validates the tolerance block of the pipeline
// configuration: the hard CLI gate that rejects an unset or oversized
// minTrailLength before the pipeline runs.
type ToleranceValidator struct{}

// NewToleranceValidator creates a new tolerance validator.
func NewToleranceValidator() *ToleranceValidator {
	return &ToleranceValidator{}
}

// ValidateTolerances checks the hard CLI gate (minTrailLength present
// and <= 10m) plus sanity bounds on the remaining tolerances.
func (v *ToleranceValidator) ValidateTolerances(
	minTrailLengthM float64,
	minTrailLengthSet bool,
	intersectionToleranceM float64,
	edgeSnapToleranceM float64,
	trailBridgingToleranceM float64,
	shortConnectorMaxLengthM float64,
) *entities.MultiValidationError {
	errors := entities.NewMultiValidationError()

	if !minTrailLengthSet {
		errors.Add("minTrailLength", "minTrailLength must be present")
	} else if minTrailLengthM <= 0 || minTrailLengthM > 10 {
		errors.Add("minTrailLength", "minTrailLength must be > 0 and <= 10 meters")
	}
	if intersectionToleranceM <= 0 {
		errors.Add("intersectionTolerance", "intersectionTolerance must be positive")
	}
	if edgeSnapToleranceM <= 0 {
		errors.Add("edgeSnapTolerance", "edgeSnapTolerance must be positive")
	}
	if trailBridgingToleranceM < 0 {
		errors.Add("trailBridgingTolerance", "trailBridgingTolerance cannot be negative")
	}
	if shortConnectorMaxLengthM < 0 {
		errors.Add("shortConnectorMaxLength", "shortConnectorMaxLength cannot be negative")
	}

	return errors
}

// RoutePatternValidator validates configured route patterns and cost weights.
type RoutePatternValidator struct{}

// NewRoutePatternValidator creates a new route pattern validator.
func NewRoutePatternValidator() *RoutePatternValidator {
	return &RoutePatternValidator{}
}

// ValidatePattern checks a single route pattern's numeric ranges.
func (v *RoutePatternValidator) ValidatePattern(p *entities.RoutePattern) *entities.MultiValidationError {
	errors := entities.NewMultiValidationError()

	if p.Name == "" {
		errors.Add("pattern_name", "pattern_name cannot be empty")
	}
	if p.TargetDistanceKM <= 0 {
		errors.Add("target_distance_km", "target_distance_km must be positive")
	}
	if p.TargetElevationM < 0 {
		errors.Add("target_elevation_gain", "target_elevation_gain cannot be negative")
	}
	if p.TolerancePercent <= 0 || p.TolerancePercent > 1 {
		errors.Add("tolerance_percent", "tolerance_percent must be in (0, 1]")
	}
	switch p.Shape {
	case entities.ShapeLoop, entities.ShapeOutAndBack, entities.ShapePointToPoint, "":
	default:
		errors.Add("route_shape", "unknown route_shape")
	}

	return errors
}

// ValidateCostWeights checks that priority weights sum to 1.0.
func (v *RoutePatternValidator) ValidateCostWeights(elevation, distance, shape float64) *entities.MultiValidationError {
	errors := entities.NewMultiValidationError()

	sum := elevation + distance + shape
	const epsilon = 1e-6
	if sum < 1-epsilon || sum > 1+epsilon {
		errors.Add("priority_weights", "elevation + distance + shape weights must sum to 1.0")
	}
	if elevation < 0 || distance < 0 || shape < 0 {
		errors.Add("priority_weights", "priority weights cannot be negative")
	}

	return errors
}

// ValidatorSuite provides access to all validators.
type ValidatorSuite struct {
	Geographic *GeographicValidator
	Tolerance  *ToleranceValidator
	Route      *RoutePatternValidator
}

// NewValidatorSuite creates a new validator suite.
func NewValidatorSuite() *ValidatorSuite {
	return &ValidatorSuite{
		Geographic: NewGeographicValidator(),
		Tolerance:  NewToleranceValidator(),
		Route:      NewRoutePatternValidator(),
	}
}
