// Package scoring converts raw distances into point scores and ranks.
// All the game-variant knobs live in Options; the engine itself is pure.
package scoring

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// DefaultFiveKThresholdKm is how close to the target a submission has
// to be to count as a 5K, when the flag wasn't already known.
const DefaultFiveKThresholdKm = 0.1

// Options configures how a game variant scores a round. Each field is
// independently toggle-able; one Options value exists per competition
// variant (main game, regional spin-offs, ...).
type Options struct {
	// FiveKFlatScore, if set, forces any 5K submission's score to this
	// value, overriding everything else for that submission.
	FiveKFlatScore *float64 `yaml:"fivek_flat_score"`
	// FiveKBonus, if set (and FiveKFlatScore is not), is added to a 5K
	// submission's computed score, on top of any rank bonus.
	FiveKBonus *float64 `yaml:"fivek_bonus"`
	// RankBonuses adds a bonus to submissions whose final rank (after
	// base scoring, dense-ranked) equals a listed rank. The main game
	// uses {1: 3000, 2: 2000, 3: 1000}.
	RankBonuses map[int]float64 `yaml:"rank_bonuses"`
	// AntipodeFiveKFlatScore, if set, forces the score of antipode-5K
	// submissions. Applied after the ordinary 5K override, so antipode
	// wins when both flags are set.
	AntipodeFiveKFlatScore *float64 `yaml:"antipode_5k_flat_score"`
	// WorldDistanceKm is the notional maximum distance on the playing
	// field: 20,000 for the whole world, usually 5,000 for regionals.
	WorldDistanceKm float64 `yaml:"world_distance_km"`
	// RoundTo rounds the final score to this many decimal places, or
	// nil to leave it alone.
	RoundTo *int `yaml:"round_to"`
	// DistanceDivisor, if set, switches the distance component to
	// world/4 − (km / divisor). This is basically just for the main game.
	DistanceDivisor *float64 `yaml:"distance_divisor"`
	// ClipNegative floors the distance component at zero, so players
	// outside a regional's world still collect rank points.
	ClipNegative bool `yaml:"clip_negative"`
	// AverageDistanceAndRank averages the distance and rank components
	// instead of summing them (the main game sums, with a compensating
	// DistanceDivisor).
	AverageDistanceAndRank bool `yaml:"average_distance_and_rank"`
}

// Default returns the baseline options: world-sized field, two decimal
// places, clip negatives, average the two components.
func Default() Options {
	roundTo := 2
	return Options{
		WorldDistanceKm:        20_000,
		RoundTo:                &roundTo,
		ClipNegative:           true,
		AverageDistanceAndRank: true,
	}
}

// MainGame returns the scoring used by the main game: a 2000 point 5K
// bonus, podium bonuses, a flat 10,000 for antipode 5Ks, and the summed
// distance/rank combination with its compensating divisor.
func MainGame() Options {
	opts := Default()
	bonus := 2000.0
	antipode := 10_000.0
	divisor := 4.003006
	opts.FiveKBonus = &bonus
	opts.AntipodeFiveKFlatScore = &antipode
	opts.DistanceDivisor = &divisor
	opts.RankBonuses = map[int]float64{1: 3000, 2: 2000, 3: 1000}
	opts.AverageDistanceAndRank = false
	return opts
}

// Preset returns a built-in options set by name ("default" or "main").
func Preset(name string) (Options, error) {
	switch name {
	case "default":
		return Default(), nil
	case "main":
		return MainGame(), nil
	default:
		return Options{}, eris.Errorf("scoring: unknown preset %q", name)
	}
}

// rawOptions is Options with every default-carrying field made optional
// so preset files only have to state what they change.
type rawOptions struct {
	FiveKFlatScore         *float64        `yaml:"fivek_flat_score"`
	FiveKBonus             *float64        `yaml:"fivek_bonus"`
	RankBonuses            map[int]float64 `yaml:"rank_bonuses"`
	AntipodeFiveKFlatScore *float64        `yaml:"antipode_5k_flat_score"`
	WorldDistanceKm        *float64        `yaml:"world_distance_km"`
	RoundTo                *int            `yaml:"round_to"`
	NoRounding             bool            `yaml:"no_rounding"`
	DistanceDivisor        *float64        `yaml:"distance_divisor"`
	ClipNegative           *bool           `yaml:"clip_negative"`
	AverageDistanceAndRank *bool           `yaml:"average_distance_and_rank"`
}

func (r rawOptions) toOptions() Options {
	opts := Default()
	opts.FiveKFlatScore = r.FiveKFlatScore
	opts.FiveKBonus = r.FiveKBonus
	opts.RankBonuses = r.RankBonuses
	opts.AntipodeFiveKFlatScore = r.AntipodeFiveKFlatScore
	opts.DistanceDivisor = r.DistanceDivisor
	if r.WorldDistanceKm != nil {
		opts.WorldDistanceKm = *r.WorldDistanceKm
	}
	if r.RoundTo != nil {
		opts.RoundTo = r.RoundTo
	}
	if r.NoRounding {
		opts.RoundTo = nil
	}
	if r.ClipNegative != nil {
		opts.ClipNegative = *r.ClipNegative
	}
	if r.AverageDistanceAndRank != nil {
		opts.AverageDistanceAndRank = *r.AverageDistanceAndRank
	}
	return opts
}

// LoadPresets reads named scoring variants from a YAML file of the form
//
//	presets:
//	  oceania:
//	    world_distance_km: 5000
//	    rank_bonuses: {1: 500}
//
// Unstated fields keep their Default() values.
func LoadPresets(path string) (map[string]Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "scoring: read presets %s", path)
	}
	var file struct {
		Presets map[string]rawOptions `yaml:"presets"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(err, "scoring: parse presets %s", path)
	}
	presets := make(map[string]Options, len(file.Presets))
	for name, raw := range file.Presets {
		presets[name] = raw.toOptions()
	}
	return presets, nil
}
