package tpg

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadRounds reads a list of rounds from a JSON file. This format is a
// contract shared with other tools; null fields are absent rather than
// written as null.
func LoadRounds(path string) ([]Round, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "tpg: read rounds %s", path)
	}
	var rounds []Round
	if err := json.Unmarshal(data, &rounds); err != nil {
		return nil, eris.Wrapf(err, "tpg: parse rounds %s", path)
	}
	return rounds, nil
}

// SaveRounds writes a list of rounds to a JSON file, tab-indented, with
// null fields omitted so that LoadRounds round-trips losslessly.
func SaveRounds(path string, rounds []Round) error {
	data, err := json.MarshalIndent(rounds, "", "\t")
	if err != nil {
		return eris.Wrap(err, "tpg: marshal rounds")
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "tpg: write rounds %s", path)
	}
	return nil
}

// LoadRoundsGlob loads every rounds file matching the glob pattern
// concurrently and merges them in filename order.
func LoadRoundsGlob(pattern string) ([]Round, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, eris.Wrapf(err, "tpg: bad glob %s", pattern)
	}
	if len(paths) == 0 {
		return nil, eris.Errorf("tpg: no rounds files match %s", pattern)
	}
	sort.Strings(paths)

	perFile := make([][]Round, len(paths))
	var g errgroup.Group
	var mu sync.Mutex
	for i, path := range paths {
		g.Go(func() error {
			rounds, loadErr := LoadRounds(path)
			if loadErr != nil {
				return loadErr
			}
			mu.Lock()
			perFile[i] = rounds
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Round
	for i, rounds := range perFile {
		zap.L().Debug("loaded rounds file",
			zap.String("path", paths[i]),
			zap.Int("rounds", len(rounds)),
		)
		merged = append(merged, rounds...)
	}
	return merged, nil
}
