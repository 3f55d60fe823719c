package repositories

import (
	"fmt"
	"strconv"
	"strings"

	"trailnet/internal/entities"
)

// parseSimpleWKT parses POINT/POINT Z/LINESTRING/LINESTRING Z text back
// into a Geometry for rows read out of a workspace schema.
func parseSimpleWKT(wkt string) (entities.Geometry, error) {
	wkt = strings.TrimSpace(wkt)
	open := strings.IndexByte(wkt, '(')
	if open < 0 {
		return entities.Geometry{}, fmt.Errorf("repositories: unparseable wkt: %s", wkt)
	}
	tag := strings.ToUpper(wkt[:open])
	body := strings.TrimSuffix(wkt[open+1:], ")")
	has3D := strings.Contains(tag, "Z")

	parts := strings.Split(body, ",")
	points := make([]entities.Point, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(strings.TrimSpace(part))
		if len(fields) < 2 {
			continue
		}
		lng, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return entities.Geometry{}, fmt.Errorf("repositories: parse lng: %w", err)
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return entities.Geometry{}, fmt.Errorf("repositories: parse lat: %w", err)
		}
		p := entities.Point{Lng: lng, Lat: lat}
		if has3D && len(fields) >= 3 {
			if elev, err := strconv.ParseFloat(fields[2], 64); err == nil {
				p.Elevation = elev
				p.Has3D = true
			}
		}
		points = append(points, p)
	}
	return entities.Geometry{Points: points}, nil
}
