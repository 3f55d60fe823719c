// Package config loads the YAML pipeline configuration described in
// the YAML pipeline configuration surface, grounded on a viper
// defaults-struct load pattern (spf13/viper + a defaults struct + environment overrides).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds every configuration surface the pipeline reads.
type Config struct {
	Database  DatabaseConfig            `yaml:"database" mapstructure:"database"`
	Regions   map[string]RegionConfig   `yaml:"regions" mapstructure:"regions"`
	Tolerance ToleranceConfig           `yaml:"tolerance" mapstructure:"tolerance"`
	Patterns  []RoutePatternConfig      `yaml:"route_patterns" mapstructure:"route_patterns"`
	Cost      CostConfig                `yaml:"cost" mapstructure:"cost"`
	Export    ExportConfig              `yaml:"export" mapstructure:"export"`
	Trailhead TrailheadConfig           `yaml:"trailheads" mapstructure:"trailheads"`
	Workspace WorkspaceConfig           `yaml:"workspace" mapstructure:"workspace"`
}

// DatabaseConfig holds the geometry-engine connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	User     string `yaml:"user" mapstructure:"user"`
	Database string `yaml:"database" mapstructure:"database"`
	Password string `yaml:"password" mapstructure:"password"`
}

// BBoxPreset is a named small/medium/large envelope for a region.
type BBoxPreset struct {
	West  float64 `yaml:"west" mapstructure:"west"`
	South float64 `yaml:"south" mapstructure:"south"`
	East  float64 `yaml:"east" mapstructure:"east"`
	North float64 `yaml:"north" mapstructure:"north"`
}

// RegionConfig holds a region's bbox presets.
type RegionConfig struct {
	Small  BBoxPreset `yaml:"small" mapstructure:"small"`
	Medium BBoxPreset `yaml:"medium" mapstructure:"medium"`
	Large  BBoxPreset `yaml:"large" mapstructure:"large"`
}

// ToleranceConfig holds every tolerance the pipeline enforces.
type ToleranceConfig struct {
	IntersectionToleranceM    float64 `yaml:"intersectionTolerance" mapstructure:"intersectionTolerance"`
	EdgeSnapToleranceM        float64 `yaml:"edgeSnapTolerance" mapstructure:"edgeSnapTolerance"`
	TrailBridgingToleranceM   float64 `yaml:"trailBridgingTolerance" mapstructure:"trailBridgingTolerance"`
	ShortConnectorMaxLengthM  float64 `yaml:"shortConnectorMaxLength" mapstructure:"shortConnectorMaxLength"`
	MinTrailLengthM           float64 `yaml:"minTrailLength" mapstructure:"minTrailLength"`
	MinTrailLengthSet         bool    `yaml:"-" mapstructure:"-"`
	SimplificationToleranceDg float64 `yaml:"simplificationTolerance" mapstructure:"simplificationTolerance"`
	MinPointsForSimplify      int     `yaml:"minPointsForSimplification" mapstructure:"minPointsForSimplification"`
	MinRouteScore             float64 `yaml:"minRouteScore" mapstructure:"minRouteScore"`
	MaxRoutesPerBin           int     `yaml:"maxRoutesPerBin" mapstructure:"maxRoutesPerBin"`
	BridgingEnabled           bool    `yaml:"bridgingEnabled" mapstructure:"bridgingEnabled"`
	CoverageStrict            bool    `yaml:"coverageStrict" mapstructure:"coverageStrict"`
	MaxCollapseIterations     int     `yaml:"maxCollapseIterations" mapstructure:"maxCollapseIterations"`
}

// RoutePatternConfig mirrors entities.RoutePattern in its YAML shape.
type RoutePatternConfig struct {
	Name             string  `yaml:"pattern_name" mapstructure:"pattern_name"`
	TargetDistanceKM float64 `yaml:"target_distance_km" mapstructure:"target_distance_km"`
	TargetElevationM float64 `yaml:"target_elevation_gain" mapstructure:"target_elevation_gain"`
	RouteShape       string  `yaml:"route_shape" mapstructure:"route_shape"`
	TolerancePercent float64 `yaml:"tolerance_percent" mapstructure:"tolerance_percent"`
	K                int     `yaml:"k" mapstructure:"k"`
	MinRoutes        int     `yaml:"min_routes" mapstructure:"min_routes"`
	MaxRoutes        int     `yaml:"max_routes" mapstructure:"max_routes"`
}

// CostConfig holds the enhanced preference cost weights and bands
// driving the enhanced preference cost model.
type CostConfig struct {
	PriorityWeights     PriorityWeights `yaml:"priority_weights" mapstructure:"priority_weights"`
	DeviationWeight     float64         `yaml:"deviation_weight" mapstructure:"deviation_weight"`
	DeviationExponent   float64         `yaml:"deviation_exponent" mapstructure:"deviation_exponent"`
	MinInterRouteMeters float64         `yaml:"min_inter_route_meters" mapstructure:"min_inter_route_meters"`
}

// PriorityWeights must sum to 1.0.
type PriorityWeights struct {
	Elevation float64 `yaml:"elevation" mapstructure:"elevation"`
	Distance  float64 `yaml:"distance" mapstructure:"distance"`
	Shape     float64 `yaml:"shape" mapstructure:"shape"`
}

// ExportConfig controls output format layer visibility.
type ExportConfig struct {
	GeoJSONLayers map[string]bool `yaml:"geojson_layers" mapstructure:"geojson_layers"`
}

// TrailheadConfig lists preferred route-start coordinates.
type TrailheadConfig struct {
	Enabled bool            `yaml:"enabled" mapstructure:"enabled"`
	Points  []TrailheadPoint `yaml:"points" mapstructure:"points"`
}

// TrailheadPoint is one configured trailhead coordinate.
type TrailheadPoint struct {
	Lng float64 `yaml:"lng" mapstructure:"lng"`
	Lat float64 `yaml:"lat" mapstructure:"lat"`
}

// WorkspaceConfig controls staging-schema retention.
type WorkspaceConfig struct {
	MaxStagingSchemas int  `yaml:"max_staging_schemas" mapstructure:"max_staging_schemas"`
	NoCleanup         bool `yaml:"no_cleanup" mapstructure:"no_cleanup"`
}

// Default returns the configuration defaults, expressed as a single
// literal rather than a chain of getEnv-with-fallback calls.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "trailnet",
			Database: "trailnet",
			Password: "trailnet",
		},
		Regions: map[string]RegionConfig{},
		Tolerance: ToleranceConfig{
			IntersectionToleranceM:    2.0,
			EdgeSnapToleranceM:        5.0,
			TrailBridgingToleranceM:   15.0,
			ShortConnectorMaxLengthM:  5.0,
			MinTrailLengthM:           1.0,
			MinTrailLengthSet:         true,
			SimplificationToleranceDg: 1.1 / 111320.0,
			MinPointsForSimplify:      10,
			MinRouteScore:             0.0,
			MaxRoutesPerBin:           5,
			BridgingEnabled:           true,
			CoverageStrict:            false,
			MaxCollapseIterations:     8,
		},
		Cost: CostConfig{
			PriorityWeights:     PriorityWeights{Elevation: 0.4, Distance: 0.4, Shape: 0.2},
			DeviationWeight:     1.0,
			DeviationExponent:   2.0,
			MinInterRouteMeters: 200,
		},
		Export: ExportConfig{
			GeoJSONLayers: map[string]bool{
				"trails": true, "edges": true, "trail_vertices": true,
				"edge_network_vertices": true, "routes": true,
			},
		},
		Workspace: WorkspaceConfig{MaxStagingSchemas: 5},
	}
}

// Load reads YAML configuration from path (or standard locations when
// empty) via viper, layering it over Default(), and applying
// TRAILNET_-prefixed environment variable overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	cfg := Default()
	v.SetDefault("database", cfg.Database)
	v.SetDefault("tolerance", cfg.Tolerance)
	v.SetDefault("cost", cfg.Cost)
	v.SetDefault("export", cfg.Export)
	v.SetDefault("workspace", cfg.Workspace)

	v.SetEnvPrefix("TRAILNET")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("trailnet")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/trailnet")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".trailnet"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if _, ok := v.Get("tolerance.minTrailLength").(float64); !ok && !v.IsSet("tolerance.minTrailLength") {
		cfg.Tolerance.MinTrailLengthSet = cfg.Tolerance.MinTrailLengthM > 0
	} else {
		cfg.Tolerance.MinTrailLengthSet = true
	}

	return cfg, nil
}

// Dump renders the configuration back to YAML, used by tests that
// round-trip a Config through YAML.
func (c *Config) Dump() ([]byte, error) {
	return yaml.Marshal(c)
}
