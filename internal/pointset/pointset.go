// Package pointset handles per-player candidate pic collections: the
// pool a simulated player picks from. Loaders here own the validation
// the scoring core assumes has already happened.
package pointset

import (
	"math"

	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/tpg"
)

// Pic is one candidate location in a player's collection.
type Pic struct {
	// Description or label for the pic, if any.
	Description string
	Location    tpg.Coordinate
}

// PointSet is a named collection of candidate pics, usually one per
// player.
type PointSet struct {
	Name string
	Pics []Pic
}

// Len returns the number of pics in the set.
func (ps PointSet) Len() int { return len(ps.Pics) }

// LatLngs returns parallel latitude/longitude slices for batch distance
// queries.
func (ps PointSet) LatLngs() ([]float64, []float64) {
	lats := make([]float64, len(ps.Pics))
	lngs := make([]float64, len(ps.Pics))
	for i, pic := range ps.Pics {
		lats[i] = pic.Location.Lat
		lngs[i] = pic.Location.Lng
	}
	return lats, lngs
}

// Validate returns a copy of the point set with invalid and duplicate
// pics removed: coordinates must be finite and in WGS84 range, and two
// pics are duplicates when their coordinates match after rounding to
// six decimal places. The first of a duplicate group is kept. Dropped
// pics are logged and counted.
func (ps PointSet) Validate() (PointSet, int) {
	seen := make(map[[2]float64]struct{}, len(ps.Pics))
	kept := make([]Pic, 0, len(ps.Pics))
	dropped := 0
	log := zap.L().With(zap.String("point_set", ps.Name))

	for i, pic := range ps.Pics {
		if reason := invalidReason(pic.Location); reason != "" {
			log.Info("dropping pic", zap.Int("index", i), zap.String("reason", reason))
			dropped++
			continue
		}
		key := [2]float64{roundTo6(pic.Location.Lat), roundTo6(pic.Location.Lng)}
		if _, ok := seen[key]; ok {
			log.Info("dropping duplicate pic", zap.Int("index", i),
				zap.String("location", pic.Location.String()))
			dropped++
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, pic)
	}
	return PointSet{Name: ps.Name, Pics: kept}, dropped
}

func roundTo6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func invalidReason(c tpg.Coordinate) string {
	switch {
	case math.IsNaN(c.Lat) || math.IsNaN(c.Lng):
		return "NaN coordinate"
	case math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0):
		return "infinite coordinate"
	case c.Lat > 90:
		return "latitude too north"
	case c.Lat < -90:
		return "latitude too south"
	case c.Lng > 180:
		return "longitude too east"
	case c.Lng < -180:
		return "longitude too west"
	}
	return ""
}

// FromRounds combines players' historical submissions into one point
// set per player, deduplicated the same way Validate does. Rounds don't
// need to be scored. Order of the returned sets follows first
// appearance of each player.
func FromRounds(rounds []tpg.Round) []PointSet {
	var order []string
	pics := map[string][]Pic{}
	for _, r := range rounds {
		for _, sub := range r.Submissions {
			if _, ok := pics[sub.Name]; !ok {
				order = append(order, sub.Name)
			}
			pics[sub.Name] = append(pics[sub.Name], Pic{
				Description: sub.Description,
				Location:    sub.Coordinate(),
			})
		}
	}

	sets := make([]PointSet, 0, len(order))
	for _, name := range order {
		ps, _ := PointSet{Name: name, Pics: pics[name]}.Validate()
		sets = append(sets, ps)
	}
	return sets
}
