package entities

import "time"

// BoundingBox represents a geographical bounding box in WGS84 degrees.
type BoundingBox struct {
	West  float64 `json:"west"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	North float64 `json:"north"`
}

// Intersects reports whether two bounding boxes overlap, including edges.
func (b BoundingBox) Intersects(other BoundingBox) bool {
	return b.West <= other.East && other.West <= b.East &&
		b.South <= other.North && other.South <= b.North
}

// ElevationPoint is a single sample in an elevation profile.
type ElevationPoint struct {
	DistanceKM float64 `json:"distance_km"`
	Elevation  float64 `json:"elevation"`
}

// ElevationData summarizes gain/loss/profile for a trail or edge.
type ElevationData struct {
	Gain    float64          `json:"gain"`
	Loss    float64          `json:"loss"`
	Max     float64          `json:"max"`
	Min     float64          `json:"min"`
	Avg     float64          `json:"avg"`
	Profile []ElevationPoint `json:"profile,omitempty"`
}

// Trail is the input record ingested from the trail loader collaborator.
type Trail struct {
	UUID        string
	Name        string
	Region      string
	Source      string
	TrailType   string
	Surface     string
	Difficulty  string
	LengthKM    float64
	Elevation   ElevationData
	BBox        BoundingBox
	Geom3D      Geometry // WGS84 lng,lat,elevation
	Geom2D      Geometry // working copy, 2D only
	IsConnector bool     // synthetic trail inserted by trail-level bridging
	CreatedAt   time.Time
}

// Valid reports whether the trail satisfies the basic Trail invariants:
// geometry non-null, at least two distinct points, length > 0.
func (t *Trail) Valid() bool {
	if !t.Geom2D.Valid() || t.Geom2D.NumPoints() < 2 || t.LengthKM <= 0 {
		return false
	}
	first := t.Geom2D.Points[0]
	for _, p := range t.Geom2D.Points[1:] {
		if p.Lng != first.Lng || p.Lat != first.Lat {
			return true
		}
	}
	return false
}
