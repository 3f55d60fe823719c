package geometry

import (
	"fmt"
	"strconv"
	"strings"

	"trailnet/internal/entities"
)

// parseWKTLineString parses the WKT text PostGIS returns from ST_AsText
// back into a Geometry. Handles POINT, POINT Z, LINESTRING and
// LINESTRING Z, plus MULTILINESTRING, of which only the first component
// is kept; anything else (polygons, other collections) is reported as
// an error.
func parseWKTLineString(wkt string) (entities.Geometry, error) {
	wkt = strings.TrimSpace(wkt)
	if wkt == "" {
		return entities.Geometry{}, fmt.Errorf("geometry: empty wkt")
	}

	upper := strings.ToUpper(wkt)
	open := strings.IndexByte(wkt, '(')
	if open < 0 {
		if strings.Contains(upper, "EMPTY") {
			return entities.Geometry{}, nil
		}
		return entities.Geometry{}, fmt.Errorf("geometry: unparseable wkt: %s", wkt)
	}
	tag := strings.TrimSpace(wkt[:open])
	body := strings.TrimSuffix(wkt[open+1:], ")")
	has3D := strings.Contains(strings.ToUpper(tag), "Z")

	switch {
	case strings.HasPrefix(upper, "POINT"):
		pts, err := parseCoordList(body, has3D)
		if err != nil {
			return entities.Geometry{}, err
		}
		return entities.Geometry{Points: pts}, nil
	case strings.HasPrefix(upper, "LINESTRING"):
		pts, err := parseCoordList(body, has3D)
		if err != nil {
			return entities.Geometry{}, err
		}
		return entities.Geometry{Points: pts}, nil
	case strings.HasPrefix(upper, "MULTILINESTRING"):
		// Take the first component; degree-2 collapse and line-merge
		// inputs are expected to resolve to a single chain upstream.
		inner := strings.TrimPrefix(body, "(")
		if i := strings.IndexByte(inner, ')'); i >= 0 {
			inner = inner[:i]
		}
		pts, err := parseCoordList(inner, has3D)
		if err != nil {
			return entities.Geometry{}, err
		}
		return entities.Geometry{Points: pts}, nil
	default:
		return entities.Geometry{}, fmt.Errorf("geometry: unsupported wkt type in: %s", wkt)
	}
}

func parseCoordList(body string, has3D bool) ([]entities.Point, error) {
	parts := strings.Split(body, ",")
	points := make([]entities.Point, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) < 2 {
			return nil, fmt.Errorf("geometry: malformed coordinate %q", part)
		}
		lng, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("geometry: parse lng: %w", err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("geometry: parse lat: %w", err)
		}
		p := entities.Point{Lng: lng, Lat: lat}
		if has3D && len(fields) >= 3 {
			elev, err := strconv.ParseFloat(fields[2], 64)
			if err != nil {
				return nil, fmt.Errorf("geometry: parse elevation: %w", err)
			}
			p.Elevation = elev
			p.Has3D = true
		}
		points = append(points, p)
	}
	return points, nil
}
