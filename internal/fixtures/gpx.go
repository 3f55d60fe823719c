// Package fixtures builds pipeline-ready Trail entities from sample
// GPX files, standing in for a production OSM-backed trail loader when
// tests or local runs need real ingest input.
package fixtures

import (
	"fmt"
	"math"
	"os"

	"github.com/tkrajina/gpxgo/gpx"

	"trailnet/internal/entities"
)

// LoadTrailFromGPX parses a .gpx file and converts its first track into
// a Trail, computing length and elevation gain/loss via Haversine
// distance accumulation between consecutive points.
func LoadTrailFromGPX(path, region, source string) (*entities.Trail, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", path, err)
	}

	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("fixtures: parse gpx: %w", err)
	}
	if len(g.Tracks) == 0 {
		return nil, fmt.Errorf("fixtures: %s has no tracks", path)
	}

	var points []entities.Point
	for _, seg := range g.Tracks[0].Segments {
		for _, p := range seg.Points {
			ep := entities.Point{Lng: p.Longitude, Lat: p.Latitude}
			if p.Elevation.NotNull() {
				ep.Elevation = p.Elevation.Value()
				ep.Has3D = true
			}
			points = append(points, ep)
		}
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("fixtures: %s has fewer than 2 track points", path)
	}

	lengthKM, elev := summarize(points)

	name := g.Tracks[0].Name
	if name == "" {
		name = g.Name
	}

	trail := &entities.Trail{
		UUID:      uuidFromPath(path),
		Name:      name,
		Region:    region,
		Source:    source,
		LengthKM:  lengthKM,
		Elevation: elev,
		BBox:      boundingBox(points),
		Geom3D:    entities.NewLineString(points),
		Geom2D:    entities.NewLineString(points).To2D(),
	}
	return trail, nil
}

func summarize(points []entities.Point) (float64, entities.ElevationData) {
	var distanceKM float64
	elev := entities.ElevationData{Profile: make([]entities.ElevationPoint, 0, len(points))}

	for i, p := range points {
		if i > 0 {
			prev := points[i-1]
			distanceKM += haversineKM(prev.Lat, prev.Lng, p.Lat, p.Lng)

			if p.Has3D && prev.Has3D {
				delta := p.Elevation - prev.Elevation
				if delta > 0 {
					elev.Gain += delta
				} else {
					elev.Loss += -delta
				}
			}
		}
		if p.Has3D {
			elev.Profile = append(elev.Profile, entities.ElevationPoint{
				DistanceKM: distanceKM,
				Elevation:  p.Elevation,
			})
		}
	}

	elev.Max, elev.Min, elev.Avg = profileStats(elev.Profile)
	return distanceKM, elev
}

func profileStats(profile []entities.ElevationPoint) (max, min, avg float64) {
	if len(profile) == 0 {
		return 0, 0, 0
	}
	max, min = profile[0].Elevation, profile[0].Elevation
	var sum float64
	for _, p := range profile {
		if p.Elevation > max {
			max = p.Elevation
		}
		if p.Elevation < min {
			min = p.Elevation
		}
		sum += p.Elevation
	}
	return max, min, sum / float64(len(profile))
}

func boundingBox(points []entities.Point) entities.BoundingBox {
	bb := entities.BoundingBox{West: points[0].Lng, East: points[0].Lng, South: points[0].Lat, North: points[0].Lat}
	for _, p := range points[1:] {
		if p.Lng < bb.West {
			bb.West = p.Lng
		}
		if p.Lng > bb.East {
			bb.East = p.Lng
		}
		if p.Lat < bb.South {
			bb.South = p.Lat
		}
		if p.Lat > bb.North {
			bb.North = p.Lat
		}
	}
	return bb
}

// haversineKM returns great-circle distance between two WGS84 points in km.
func haversineKM(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKM = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c
}

func uuidFromPath(path string) string {
	// Deterministic, test-friendly id derived from the file path rather
	// than a random uuid.New() so fixture-based tests are reproducible.
	h := fnv32(path)
	return fmt.Sprintf("fixture-%08x", h)
}

func fnv32(s string) uint32 {
	const prime32 = 16777619
	hash := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		hash ^= uint32(s[i])
		hash *= prime32
	}
	return hash
}
