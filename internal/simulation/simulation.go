// Package simulation replays round targets against substitute
// per-player pic collections, as though everyone had been there to
// submit their best pic, and feeds the synthetic rounds through the
// ordinary scoring engine.
package simulation

import (
	"math/rand/v2"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/geodist"
	"github.com/travelpics/tpg/internal/pointset"
	"github.com/travelpics/tpg/internal/scoring"
	"github.com/travelpics/tpg/internal/tpg"
)

// Strategy is how a simulated player chooses a pic for a target.
type Strategy int

const (
	// StrategyClosest picks the nearest candidate. The sensible option
	// and the default.
	StrategyClosest Strategy = iota
	// StrategyFurthest picks the farthest-away candidate, for whatever
	// reason.
	StrategyFurthest
	// StrategyRandom ignores the target and picks uniformly at random,
	// reproducibly from the simulation seed.
	StrategyRandom
)

// String returns the strategy's CLI name.
func (s Strategy) String() string {
	switch s {
	case StrategyFurthest:
		return "furthest"
	case StrategyRandom:
		return "random"
	default:
		return "closest"
	}
}

// ParseStrategy converts a CLI flag value into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(name) {
	case "closest":
		return StrategyClosest, nil
	case "furthest":
		return StrategyFurthest, nil
	case "random":
		return StrategyRandom, nil
	default:
		return StrategyClosest, eris.Errorf("simulation: unknown strategy %q", name)
	}
}

// RoundTarget is one round to simulate: a display name and the secret
// location. A slice of these keeps insertion order, which is the
// default round order.
type RoundTarget struct {
	Name   string
	Target tpg.Coordinate
}

// Simulation bundles the parameters for one simulation run. It holds
// no state between calls: SimulateRounds re-derives everything from
// the bundle each time, so calling it twice gives identical results.
type Simulation struct {
	// Targets to play, in insertion order unless Order says otherwise.
	Targets []RoundTarget
	// Order optionally maps round name to a sort key; rounds missing
	// from it keep their slice position as the key.
	Order map[string]int
	// Players are the candidate pic collections, one per simulated
	// player.
	Players []pointset.PointSet
	// Scoring rules to apply to each simulated round.
	Scoring scoring.Options
	// FiveKThresholdKm resolves 5K flags on simulated submissions.
	FiveKThresholdKm float64
	Strategy         Strategy
	// UseHaversine keeps the game's historical metric; the WGS84
	// geodesic otherwise.
	UseHaversine bool
	// Seed makes StrategyRandom reproducible.
	Seed uint64
}

func (s Simulation) metric() geodist.Metric {
	if s.UseHaversine {
		return geodist.MetricHaversine
	}
	return geodist.MetricGeodesic
}

// choosePic selects one pic from a player's set per the strategy.
// Distance is nil for the random strategy; ScoreRound recomputes it.
func (s Simulation) choosePic(ps pointset.PointSet, target tpg.Coordinate, rng *rand.Rand) (pointset.Pic, *float64) {
	if s.Strategy == StrategyRandom {
		return ps.Pics[rng.IntN(len(ps.Pics))], nil
	}
	lats, lngs := ps.LatLngs()
	var idx int
	var distance float64
	if s.Strategy == StrategyFurthest {
		idx, distance = geodist.Furthest(s.metric(), target.Lat, target.Lng, lats, lngs)
	} else {
		idx, distance = geodist.Nearest(s.metric(), target.Lat, target.Lng, lats, lngs)
	}
	return ps.Pics[idx], &distance
}

// SimulateRound plays out a single target: every player with at least
// one pic submits per the strategy, and the assembled round goes
// through the scoring engine. rng may be nil for deterministic
// strategies.
func (s Simulation) SimulateRound(name string, number int, target tpg.Coordinate, rng *rand.Rand) tpg.Round {
	r := tpg.Round{
		Name:      name,
		Number:    number,
		Latitude:  target.Lat,
		Longitude: target.Lng,
	}
	for _, ps := range s.Players {
		if ps.Len() == 0 {
			continue
		}
		pic, distance := s.choosePic(ps, target, rng)
		r.Submissions = append(r.Submissions, tpg.Submission{
			Name:        ps.Name,
			Latitude:    pic.Location.Lat,
			Longitude:   pic.Location.Lng,
			Description: pic.Description,
			Distance:    distance,
		})
	}
	return scoring.ScoreRound(r, s.Scoring, s.FiveKThresholdKm, s.UseHaversine)
}

// SimulateRounds plays every target and returns the scored rounds in
// round order. Idempotent: the seed resets on each call.
func (s Simulation) SimulateRounds() []tpg.Round {
	ordered := s.orderedTargets()
	rng := rand.New(rand.NewPCG(s.Seed, s.Seed))

	rounds := make([]tpg.Round, 0, len(ordered))
	for i, rt := range ordered {
		zap.L().Debug("simulating round", zap.String("round", rt.Name), zap.Int("number", i+1))
		rounds = append(rounds, s.SimulateRound(rt.Name, i+1, rt.Target, rng))
	}
	return rounds
}

func (s Simulation) orderedTargets() []RoundTarget {
	ordered := make([]RoundTarget, len(s.Targets))
	copy(ordered, s.Targets)
	if len(s.Order) == 0 {
		return ordered
	}
	keys := make(map[string]int, len(ordered))
	for i, rt := range ordered {
		if key, ok := s.Order[rt.Name]; ok {
			keys[rt.Name] = key
		} else {
			keys[rt.Name] = i
		}
	}
	// Stable, so rounds sharing a key keep insertion order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return keys[ordered[i].Name] < keys[ordered[j].Name]
	})
	return ordered
}

// FromRounds builds a Simulation that replays historical rounds. When
// players is nil, point sets are derived from the rounds' own
// submissions, so the simulation answers "what if everyone had always
// submitted their best past pic".
func FromRounds(rounds []tpg.Round, players []pointset.PointSet, opts scoring.Options, strategy Strategy, useHaversine bool) Simulation {
	if players == nil {
		zap.L().Info("deriving point sets from rounds", zap.Int("rounds", len(rounds)))
		players = pointset.FromRounds(rounds)
	}
	sim := Simulation{
		Order:            make(map[string]int, len(rounds)),
		Players:          players,
		Scoring:          opts,
		FiveKThresholdKm: scoring.DefaultFiveKThresholdKm,
		Strategy:         strategy,
		UseHaversine:     useHaversine,
	}
	for _, r := range rounds {
		name := r.DisplayName()
		sim.Targets = append(sim.Targets, RoundTarget{Name: name, Target: r.Target()})
		sim.Order[name] = r.Number
	}
	return sim
}
