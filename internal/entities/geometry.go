package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a single WGS84 coordinate, optionally carrying elevation.
type Point struct {
	Lng       float64
	Lat       float64
	Elevation float64 // meters, 0 when the geometry is 2D
	Has3D     bool
}

// Geometry is a minimal in-process representation of a linestring or
// point. Heavyweight planar operations (noding, snapping, simplify,
// union, difference) are delegated to the geometry engine capability
// set (internal/geometry) backed by PostGIS; this type only carries
// coordinates between the pipeline and that engine.
type Geometry struct {
	Points []Point
}

// NewLineString builds a Geometry from raw coordinates.
func NewLineString(points []Point) Geometry {
	return Geometry{Points: points}
}

// NumPoints returns the number of vertices in the geometry; repeated
// coordinates are counted each time they occur.
func (g Geometry) NumPoints() int {
	return len(g.Points)
}

// Valid reports the minimal planar-validity check a caller can make
// without invoking the geometry engine: non-empty, at least one point.
func (g Geometry) Valid() bool {
	return len(g.Points) > 0
}

// Start returns the first point of the geometry.
func (g Geometry) Start() Point {
	return g.Points[0]
}

// End returns the last point of the geometry.
func (g Geometry) End() Point {
	return g.Points[len(g.Points)-1]
}

// Is2D reports whether every point lacks an elevation component.
func (g Geometry) Is2D() bool {
	for _, p := range g.Points {
		if p.Has3D {
			return false
		}
	}
	return true
}

// To2D drops elevation, returning a copy forced to 2D for topology work.
func (g Geometry) To2D() Geometry {
	out := make([]Point, len(g.Points))
	for i, p := range g.Points {
		out[i] = Point{Lng: p.Lng, Lat: p.Lat}
	}
	return Geometry{Points: out}
}

// WKT renders the geometry as WGS84 Well-Known Text, the wire format
// the PostGIS-backed geometry engine accepts via ST_GeomFromText.
func (g Geometry) WKT() string {
	if len(g.Points) == 1 {
		p := g.Points[0]
		if p.Has3D {
			return fmt.Sprintf("POINT Z(%s %s %s)", ftoa(p.Lng), ftoa(p.Lat), ftoa(p.Elevation))
		}
		return fmt.Sprintf("POINT(%s %s)", ftoa(p.Lng), ftoa(p.Lat))
	}

	coords := make([]string, len(g.Points))
	for i, p := range g.Points {
		if p.Has3D {
			coords[i] = fmt.Sprintf("%s %s %s", ftoa(p.Lng), ftoa(p.Lat), ftoa(p.Elevation))
		} else {
			coords[i] = fmt.Sprintf("%s %s", ftoa(p.Lng), ftoa(p.Lat))
		}
	}
	tag := "LINESTRING"
	if len(g.Points) > 0 && g.Points[0].Has3D {
		tag = "LINESTRING Z"
	}
	return fmt.Sprintf("%s(%s)", tag, strings.Join(coords, ","))
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
