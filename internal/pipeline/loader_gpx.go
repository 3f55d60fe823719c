package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"trailnet/internal/entities"
	"trailnet/internal/fixtures"
)

// GPXDirLoader is a reference TrailLoader implementation that reads
// every .gpx file in a directory. A production OSM-backed loader with
// full attribute enrichment stays an external collaborator; this
// loader exists so the CLI and small-scale local runs have something
// concrete to point at without requiring that external system.
type GPXDirLoader struct {
	Dir string
}

var _ TrailLoader = (*GPXDirLoader)(nil)

// LoadTrails parses every .gpx file under Dir into a Trail, tagging
// each with region and source.
func (l *GPXDirLoader) LoadTrails(ctx context.Context, region string, bbox *entities.BoundingBox, source string) ([]*entities.Trail, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("pipeline: read gpx dir %s: %w", l.Dir, err)
	}

	var trails []*entities.Trail
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".gpx") {
			continue
		}
		path := filepath.Join(l.Dir, entry.Name())
		t, err := fixtures.LoadTrailFromGPX(path, region, source)
		if err != nil {
			return nil, fmt.Errorf("pipeline: load %s: %w", path, err)
		}
		trails = append(trails, t)
	}
	return trails, nil
}
