// Command trailnet builds a routable trail network from a regional
// trail corpus and generates scored route recommendations, exporting
// to a columnar SQLite database or layered GeoJSON. Grounded on the
// cobra root-command-plus-subcommand-files layout of the pack's own
// cmd/crisk.
package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"trailnet/internal/config"
)

// flags holds every CLI surface option, bound once in newRootCmd,
// applied to the loaded configuration in PersistentPreRunE, and read by
// each subcommand's RunE.
type flags struct {
	configPath           string
	region               string
	out                  string
	format               string
	bbox                 string
	testSize             string
	source               string
	gpxDir               string
	simplifyTolerance    float64
	intersectionTol      float64
	useTrailheadsOnly    bool
	noTrailheads         bool
	disableTrailheadsOnly bool
	noCleanup            bool
	cleanupOldSchemas    bool
	cleanupTempFiles     bool
	maxStagingSchemas    int
	skipValidation       bool
	skipBBoxValidation   bool
	skipGeometryValidation bool
	listTestBBoxes       bool
	strict               bool
	verbose              bool
}

var (
	f   flags
	cfg *config.Config
	log = logrus.New()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "trailnet",
		Short: "Build a routable trail network and generate route recommendations",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if f.verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			loaded, err := config.Load(f.configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			applyFlagOverrides()
			return nil
		},
		RunE: runPipeline,
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to YAML configuration")
	root.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "enable debug logging")

	pf := root.Flags()
	pf.StringVar(&f.region, "region", "boulder", "region tag to ingest")
	pf.StringVar(&f.out, "out", "", "output path (required)")
	pf.StringVar(&f.format, "format", "sqlite", "output format: sqlite|geojson|trails-only")
	pf.StringVar(&f.bbox, "bbox", "", "minLng,minLat,maxLng,maxLat")
	pf.StringVar(&f.testSize, "test-size", "", "bbox preset: small|medium|large")
	pf.StringVar(&f.source, "source", "", "restrict ingest to a trail source tag")
	pf.StringVar(&f.gpxDir, "gpx-dir", "", "directory of .gpx files for the reference trail loader")
	pf.Float64Var(&f.simplifyTolerance, "simplify-tolerance", 0, "override simplificationTolerance (degrees)")
	pf.Float64Var(&f.intersectionTol, "intersection-tolerance", 0, "override intersectionTolerance (m)")
	pf.BoolVar(&f.useTrailheadsOnly, "use-trailheads-only", false, "restrict route starts to configured trailheads")
	pf.BoolVar(&f.noTrailheads, "no-trailheads", false, "ignore configured trailheads")
	pf.BoolVar(&f.disableTrailheadsOnly, "disable-trailheads-only", false, "disable the trailheads-only restriction")
	pf.BoolVar(&f.noCleanup, "no-cleanup", false, "preserve the staging workspace after the run")
	pf.BoolVar(&f.cleanupOldSchemas, "cleanup-old-schemas", false, "prune old staging schemas before running")
	pf.BoolVar(&f.cleanupTempFiles, "cleanup-temp-files", false, "remove temporary export files before running")
	pf.IntVar(&f.maxStagingSchemas, "max-staging-schemas", 0, "override workspace.max_staging_schemas")
	pf.BoolVar(&f.skipValidation, "skip-validation", false, "skip all pre-flight validation")
	pf.BoolVar(&f.skipBBoxValidation, "skip-bbox-validation", false, "skip bounding box validation")
	pf.BoolVar(&f.skipGeometryValidation, "skip-geometry-validation", false, "skip geometry validation")
	pf.BoolVar(&f.listTestBBoxes, "list-test-bboxes", false, "print configured region bbox presets and exit")
	pf.BoolVar(&f.strict, "strict", false, "treat geometry invariant violations as fatal")

	root.AddCommand(newInstallCmd())
	root.AddCommand(newCleanupCmd())

	return root
}

func applyFlagOverrides() {
	if f.simplifyTolerance > 0 {
		cfg.Tolerance.SimplificationToleranceDg = f.simplifyTolerance
	}
	if f.intersectionTol > 0 {
		cfg.Tolerance.IntersectionToleranceM = f.intersectionTol
	}
	if f.maxStagingSchemas > 0 {
		cfg.Workspace.MaxStagingSchemas = f.maxStagingSchemas
	}
	cfg.Workspace.NoCleanup = f.noCleanup
	if f.useTrailheadsOnly {
		cfg.Trailhead.Enabled = true
	}
	if f.noTrailheads || f.disableTrailheadsOnly {
		cfg.Trailhead.Enabled = false
	}
}
