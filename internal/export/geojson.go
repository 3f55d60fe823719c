package export

import (
	"encoding/json"
	"fmt"

	"trailnet/internal/config"
	"trailnet/internal/entities"
)

// Feature is a minimal GeoJSON Feature: geometry plus a property bag,
// enough to drive the map-tile consumer this exporter feeds without
// pulling in a full GeoJSON library the rest of the pack doesn't use.
type Feature struct {
	Type       string                 `json:"type"`
	Geometry   geometryJSON           `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type geometryJSON struct {
	Type        string      `json:"type"`
	Coordinates interface{} `json:"coordinates"`
}

// FeatureCollection is a named, visibility-gated GeoJSON layer.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Layer    string    `json:"-"`
	Features []Feature `json:"features"`
}

func lineGeometry(g entities.Geometry) geometryJSON {
	coords := make([][]float64, len(g.Points))
	for i, p := range g.Points {
		if p.Has3D {
			coords[i] = []float64{p.Lng, p.Lat, p.Elevation}
		} else {
			coords[i] = []float64{p.Lng, p.Lat}
		}
	}
	return geometryJSON{Type: "LineString", Coordinates: coords}
}

func pointGeometry(p entities.Point) geometryJSON {
	if p.Has3D {
		return geometryJSON{Type: "Point", Coordinates: []float64{p.Lng, p.Lat, p.Elevation}}
	}
	return geometryJSON{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}}
}

func trailFeature(t *entities.Trail) (string, error) {
	f := Feature{
		Type:     "Feature",
		Geometry: lineGeometry(t.Geom3D),
		Properties: map[string]interface{}{
			"trail_uuid": t.UUID, "name": t.Name, "trail_type": t.TrailType,
			"length_km": t.LengthKM, "elevation_gain": t.Elevation.Gain, "elevation_loss": t.Elevation.Loss,
		},
	}
	b, err := json.Marshal(f)
	return string(b), err
}

func edgeFeature(e *entities.Edge) (string, error) {
	f := Feature{
		Type:     "Feature",
		Geometry: lineGeometry(e.Geom),
		Properties: map[string]interface{}{
			"edge_id": e.ID, "trail_uuid": e.TrailUUID, "trail_name": e.TrailName,
			"length_km": e.LengthKM, "source": e.Source, "target": e.Target,
		},
	}
	b, err := json.Marshal(f)
	return string(b), err
}

// degreeColor assigns the node color convention: degree 1 endpoints,
// degree 2 connectors, degree >= 3 intersections.
func degreeColor(degree int) string {
	switch {
	case degree <= 1:
		return "#2ecc71"
	case degree == 2:
		return "#3498db"
	default:
		return "#e74c3c"
	}
}

func shapeColor(shape entities.RouteShape) string {
	switch shape {
	case entities.ShapeLoop:
		return "#9b59b6"
	case entities.ShapeOutAndBack:
		return "#f39c12"
	default:
		return "#1abc9c"
	}
}

// BuildLayers produces the five-layer GeoJSON set — trails, edges,
// trail_vertices, edge_network_vertices, routes — filtered by the
// per-layer visibility flags in configuration.
func BuildLayers(cfg *config.ExportConfig, trails []*entities.Trail, vertices []*entities.Vertex, edges []*entities.Edge, routes []*entities.Route) map[string]*FeatureCollection {
	layers := make(map[string]*FeatureCollection)

	if cfg.GeoJSONLayers["trails"] {
		fc := &FeatureCollection{Type: "FeatureCollection", Layer: "trails"}
		for _, t := range trails {
			fc.Features = append(fc.Features, Feature{
				Type: "Feature", Geometry: lineGeometry(t.Geom3D),
				Properties: map[string]interface{}{"trail_uuid": t.UUID, "name": t.Name},
			})
		}
		layers["trails"] = fc
	}

	if cfg.GeoJSONLayers["edges"] {
		fc := &FeatureCollection{Type: "FeatureCollection", Layer: "edges"}
		for _, e := range edges {
			fc.Features = append(fc.Features, Feature{
				Type: "Feature", Geometry: lineGeometry(e.Geom),
				Properties: map[string]interface{}{"edge_id": e.ID, "trail_name": e.TrailName, "length_km": e.LengthKM},
			})
		}
		layers["edges"] = fc
	}

	if cfg.GeoJSONLayers["edge_network_vertices"] {
		fc := &FeatureCollection{Type: "FeatureCollection", Layer: "edge_network_vertices"}
		for _, v := range vertices {
			fc.Features = append(fc.Features, Feature{
				Type: "Feature", Geometry: pointGeometry(v.Point),
				Properties: map[string]interface{}{"vertex_id": v.ID, "degree": v.Degree, "color": degreeColor(v.Degree)},
			})
		}
		layers["edge_network_vertices"] = fc
	}

	if cfg.GeoJSONLayers["trail_vertices"] {
		fc := &FeatureCollection{Type: "FeatureCollection", Layer: "trail_vertices"}
		for _, v := range vertices {
			if !v.IsTrailTerm {
				continue
			}
			fc.Features = append(fc.Features, Feature{
				Type: "Feature", Geometry: pointGeometry(v.Point),
				Properties: map[string]interface{}{"vertex_id": v.ID},
			})
		}
		layers["trail_vertices"] = fc
	}

	if cfg.GeoJSONLayers["routes"] {
		fc := &FeatureCollection{Type: "FeatureCollection", Layer: "routes"}
		for _, r := range routes {
			fc.Features = append(fc.Features, Feature{
				Type: "Feature", Geometry: lineGeometry(r.Geom),
				Properties: map[string]interface{}{
					"route_uuid": r.UUID, "name": r.Name, "shape": string(r.Shape),
					"distance_km": r.AchievedDistanceKM, "elevation_gain": r.AchievedElevationM,
					"color": shapeColor(r.Shape),
				},
			})
		}
		layers["routes"] = fc
	}

	return layers
}

// WriteGeoJSONFiles marshals each visible layer to "<prefix>.<layer>.geojson".
func WriteGeoJSONFiles(prefix string, layers map[string]*FeatureCollection, write func(path string, data []byte) error) error {
	for name, fc := range layers {
		data, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			return fmt.Errorf("export: marshal layer %s: %w", name, err)
		}
		path := fmt.Sprintf("%s.%s.geojson", prefix, name)
		if err := write(path, data); err != nil {
			return fmt.Errorf("export: write layer %s: %w", name, err)
		}
	}
	return nil
}
