package events

import (
	"context"

	"github.com/sirupsen/logrus"

	"trailnet/internal/events/types"
	"trailnet/internal/interfaces"
)

// EventRegistry wires the pipeline's lifecycle and warning events to a
// structured logger.
type EventRegistry struct {
	dispatcher *Dispatcher
	log        *logrus.Logger
}

// NewEventRegistry creates a registry and subscribes the logging handler.
func NewEventRegistry(log *logrus.Logger) *EventRegistry {
	r := &EventRegistry{
		dispatcher: NewDispatcher(),
		log:        log,
	}
	r.registerHandlers()
	return r
}

// Dispatcher returns the underlying event dispatcher.
func (r *EventRegistry) Dispatcher() *Dispatcher {
	return r.dispatcher
}

func (r *EventRegistry) registerHandlers() {
	r.dispatcher.Subscribe(types.StageStartedEvent, r.handleStageStarted)
	r.dispatcher.Subscribe(types.StageCompletedEvent, r.handleStageCompleted)
	r.dispatcher.Subscribe(types.CoverageWarningEvent, r.handleCoverageWarning)
	r.dispatcher.Subscribe(types.RouteSearchExhaustedEvent, r.handleRouteSearchExhausted)
}

func (r *EventRegistry) handleStageStarted(_ context.Context, event interfaces.Event) error {
	e, ok := event.(*types.StageStarted)
	if !ok {
		return nil
	}
	r.log.WithFields(logrus.Fields{"stage": e.Stage, "run": e.Workspace}).Info("stage started")
	return nil
}

func (r *EventRegistry) handleStageCompleted(_ context.Context, event interfaces.Event) error {
	e, ok := event.(*types.StageCompleted)
	if !ok {
		return nil
	}
	r.log.WithFields(logrus.Fields{
		"stage":       e.Stage,
		"run":         e.Workspace,
		"duration_ms": e.DurationMS,
	}).WithField("stats", e.Stats).Info("stage completed")
	return nil
}

func (r *EventRegistry) handleCoverageWarning(_ context.Context, event interfaces.Event) error {
	e, ok := event.(*types.CoverageWarning)
	if !ok {
		return nil
	}
	r.log.WithFields(logrus.Fields{
		"trail_uuid":       e.TrailUUID,
		"uncovered_meters": e.UncoveredMeters,
	}).Warn("coverage gap")
	return nil
}

func (r *EventRegistry) handleRouteSearchExhausted(_ context.Context, event interfaces.Event) error {
	e, ok := event.(*types.RouteSearchExhaustedWarning)
	if !ok {
		return nil
	}
	r.log.WithFields(logrus.Fields{
		"pattern":         e.Pattern,
		"found":           e.Found,
		"requested":       e.Requested,
		"final_tolerance": e.FinalTolerance,
	}).Warn("route search exhausted")
	return nil
}
