package types

import "github.com/google/uuid"

// Event types for pipeline stage lifecycle and warnings.
const (
	StageStartedEvent         = "stage.started"
	StageCompletedEvent       = "stage.completed"
	CoverageWarningEvent      = "coverage.warning"
	RouteSearchExhaustedEvent = "route_search.exhausted"
)

// StageStarted marks the beginning of a pipeline stage.
type StageStarted struct {
	BaseEvent
	Stage     string `json:"stage"`
	Workspace string `json:"workspace"`
}

// NewStageStarted creates a stage-started event.
func NewStageStarted(stage, workspace string) *StageStarted {
	return &StageStarted{
		BaseEvent: NewBaseEvent(uuid.New().String(), StageStartedEvent, workspace, stage),
		Stage:     stage,
		Workspace: workspace,
	}
}

// StageCompleted marks the end of a pipeline stage with its stats.
type StageCompleted struct {
	BaseEvent
	Stage      string      `json:"stage"`
	Workspace  string      `json:"workspace"`
	DurationMS int64       `json:"duration_ms"`
	Stats      interface{} `json:"stats"`
}

// NewStageCompleted creates a stage-completed event.
func NewStageCompleted(stage, workspace string, durationMS int64, stats interface{}) *StageCompleted {
	return &StageCompleted{
		BaseEvent:  NewBaseEvent(uuid.New().String(), StageCompletedEvent, workspace, stats),
		Stage:      stage,
		Workspace:  workspace,
		DurationMS: durationMS,
		Stats:      stats,
	}
}

// CoverageWarning reports a trail whose geometry is insufficiently
// covered by the final edge set.
type CoverageWarning struct {
	BaseEvent
	TrailUUID       string  `json:"trail_uuid"`
	UncoveredMeters float64 `json:"uncovered_meters"`
}

// NewCoverageWarning creates a coverage-warning event.
func NewCoverageWarning(trailUUID string, uncoveredMeters float64) *CoverageWarning {
	return &CoverageWarning{
		BaseEvent:       NewBaseEvent(uuid.New().String(), CoverageWarningEvent, trailUUID, uncoveredMeters),
		TrailUUID:       trailUUID,
		UncoveredMeters: uncoveredMeters,
	}
}

// RouteSearchExhaustedWarning reports a pattern that could not reach
// the requested route count even after adaptive relaxation.
type RouteSearchExhaustedWarning struct {
	BaseEvent
	Pattern        string  `json:"pattern"`
	Found          int     `json:"found"`
	Requested      int     `json:"requested"`
	FinalTolerance float64 `json:"final_tolerance"`
}

// NewRouteSearchExhaustedWarning creates a route-search-exhausted event.
func NewRouteSearchExhaustedWarning(pattern string, found, requested int, finalTolerance float64) *RouteSearchExhaustedWarning {
	return &RouteSearchExhaustedWarning{
		BaseEvent:      NewBaseEvent(uuid.New().String(), RouteSearchExhaustedEvent, pattern, found),
		Pattern:        pattern,
		Found:          found,
		Requested:      requested,
		FinalTolerance: finalTolerance,
	}
}
