package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/travelpics/tpg/internal/pointset"
	"github.com/travelpics/tpg/internal/scoring"
	"github.com/travelpics/tpg/internal/tpg"
)

// loadInputRounds merges rounds from JSON file arguments (globs
// allowed) and KML/KMZ submission trackers.
func loadInputRounds(args, trackers []string, startRound int, antipode bool) ([]tpg.Round, error) {
	var rounds []tpg.Round
	for _, arg := range args {
		loaded, err := tpg.LoadRoundsGlob(arg)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, loaded...)
	}
	if len(trackers) > 0 {
		loaded, err := pointset.LoadTrackers(trackers, startRound, antipode)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, loaded...)
	}
	if len(rounds) == 0 {
		return nil, eris.New("no rounds given: pass rounds JSON files or --tracker")
	}
	return rounds, nil
}

// resolveScoring applies the --preset flag over the configured scoring
// selection.
func resolveScoring(cmd *cobra.Command) (scoring.Options, error) {
	scoringCfg := cfg
	if preset, _ := cmd.Flags().GetString("preset"); preset != "" {
		c := *cfg
		c.Scoring.Preset = preset
		scoringCfg = &c
	}
	return scoringCfg.ScoringOptions()
}

// outputWriter opens the --output path, or stdout when it is empty.
// The returned closer is a no-op for stdout.
func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

// loadPointSets reads one point set per file, the format picked by
// extension, named after the file.
func loadPointSets(paths []string) ([]pointset.PointSet, error) {
	sets := make([]pointset.PointSet, 0, len(paths))
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		var (
			ps  pointset.PointSet
			err error
		)
		switch strings.ToLower(filepath.Ext(path)) {
		case ".geojson", ".json":
			ps, err = pointset.LoadGeoJSON(path, name)
		case ".shp":
			ps, err = pointset.LoadShapefile(path, name)
		default:
			return nil, eris.Errorf("unsupported point set format %s", path)
		}
		if err != nil {
			return nil, err
		}
		sets = append(sets, ps)
	}
	return sets, nil
}
