package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"trailnet/internal/entities"
)

// Bridge inserts short synthetic connector trails between endpoints of
// distinct trails separated by less than the configured bridging
// tolerance, so planar noding later stitches the networks together.
// A no-op when bridging is disabled in configuration.
func Bridge(ctx context.Context, pc *Context, trails []*entities.Trail) ([]*entities.Trail, Stats, error) {
	start := pc.emitStarted(ctx, "trail_bridging")

	if !pc.Cfg.Tolerance.BridgingEnabled {
		stats := Stats{Stage: "trail_bridging", InputCount: len(trails), OutputCount: len(trails)}
		pc.emitCompleted(ctx, "trail_bridging", start, stats)
		return trails, stats, nil
	}

	tolerance := pc.Cfg.Tolerance.TrailBridgingToleranceM
	type endpoint struct {
		trailIdx int
		isStart  bool
		p        entities.Point
	}

	var endpoints []endpoint
	for i, t := range trails {
		if t.Geom2D.NumPoints() < 2 {
			continue
		}
		endpoints = append(endpoints, endpoint{i, true, t.Geom2D.Start()})
		endpoints = append(endpoints, endpoint{i, false, t.Geom2D.End()})
	}

	seen := make(map[[2]int]bool)
	var bridges []*entities.Trail

	for i := 0; i < len(endpoints); i++ {
		for j := i + 1; j < len(endpoints); j++ {
			a, b := endpoints[i], endpoints[j]
			if a.trailIdx == b.trailIdx {
				continue
			}
			key := [2]int{a.trailIdx, b.trailIdx}
			if a.trailIdx > b.trailIdx {
				key = [2]int{b.trailIdx, a.trailIdx}
			}
			if seen[key] {
				continue
			}
			d := haversineMeters(a.p.Lng, a.p.Lat, b.p.Lng, b.p.Lat)
			if d == 0 || d > tolerance {
				continue
			}
			seen[key] = true

			geom := entities.NewLineString([]entities.Point{a.p, b.p})
			bridge := &entities.Trail{
				UUID:        fmt.Sprintf("bridge-%s", uuid.New().String()),
				Name:        "connector",
				TrailType:   "connector",
				LengthKM:    d / 1000.0,
				Geom2D:      geom,
				Geom3D:      geom,
				IsConnector: true,
			}
			bridges = append(bridges, bridge)
		}
	}

	out := append(append([]*entities.Trail{}, trails...), bridges...)
	stats := Stats{Stage: "trail_bridging", InputCount: len(trails), OutputCount: len(out)}
	pc.emitCompleted(ctx, "trail_bridging", start, stats)
	return out, stats, nil
}
