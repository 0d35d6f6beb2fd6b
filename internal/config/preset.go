package config

import (
	"github.com/rotisserie/eris"

	"github.com/travelpics/tpg/internal/scoring"
)

// ScoringOptions resolves the configured preset into scoring rules.
// With a presets file, named entries there take precedence over the
// built-in presets.
func (c *Config) ScoringOptions() (scoring.Options, error) {
	if c.Scoring.PresetsFile != "" {
		presets, err := scoring.LoadPresets(c.Scoring.PresetsFile)
		if err != nil {
			return scoring.Options{}, err
		}
		if opts, ok := presets[c.Scoring.Preset]; ok {
			return opts, nil
		}
	}
	opts, err := scoring.Preset(c.Scoring.Preset)
	if err != nil {
		return scoring.Options{}, eris.Wrap(err, "config: scoring preset")
	}
	return opts, nil
}
