// Package tpg holds the round/submission data model that the scoring
// core operates on. Values are treated as immutable: scoring and
// comparison return new values rather than mutating in place.
package tpg

import "fmt"

// Coordinate is a WGS84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// String formats the coordinate as "lat, lng" with six decimal places,
// which is more precision than anyone can stand in (see xkcd 2170).
func (c Coordinate) String() string {
	return fmt.Sprintf("%.6f, %.6f", c.Lat, c.Lng)
}

// Antipode returns the point diametrically opposite this one.
func (c Coordinate) Antipode() Coordinate {
	anti := Coordinate{Lat: -c.Lat, Lng: c.Lng + 180}
	if c.Lng > 0 {
		anti.Lng = c.Lng - 180
	}
	return anti
}

// Submission is one player's entry for one round. Score, Rank and
// Distance are nil until the round has been through the scoring engine.
type Submission struct {
	// Name of whoever submitted this. Unique within a round.
	Name string `json:"name"`
	// WGS84 location of the picture.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	// Description of the picture/location, if we have one.
	Description string `json:"description,omitempty"`

	// IsFiveK reports whether this submission counted as a 5K, or nil if
	// not known yet (the scoring engine resolves it from distance).
	IsFiveK *bool `json:"is_5k,omitempty"`
	// IsAntipodeFiveK reports whether this counted as a 5K for the
	// antipode of the target, nil if unknown (treated as false).
	IsAntipodeFiveK *bool `json:"is_antipode_5k,omitempty"`
	// IsTie marks this submission as tied with nearby pics that also
	// have IsTie set. Currently informational only; tie-group score
	// averaging is a known gap.
	IsTie bool `json:"is_tie,omitempty"`

	// Score for this submission, nil if not calculated yet.
	Score *float64 `json:"score,omitempty"`
	// Rank is 1-based placement, 1 being first place, nil if unscored.
	Rank *int `json:"rank,omitempty"`
	// Distance in metres from the round target, nil if not calculated.
	Distance *float64 `json:"distance,omitempty"`

	// Extra carries provenance fields (discord id, game id, etc) that
	// the scoring core never reads.
	Extra map[string]string `json:"extra,omitempty"`
}

// Coordinate returns the submission's location as a Coordinate.
func (s Submission) Coordinate() Coordinate {
	return Coordinate{Lat: s.Latitude, Lng: s.Longitude}
}

// IsScored reports whether this submission has a score.
func (s Submission) IsScored() bool {
	return s.Score != nil
}

// Round is one instance of the game: a single secret target and a set
// of player submissions, which may or may not be scored. After scoring,
// submissions are sorted ascending by rank; before, the order carries
// no meaning.
type Round struct {
	// Name of the round, if it has one.
	Name string `json:"name,omitempty"`
	// Number of the round, starting at 1 and incrementing.
	Number int `json:"number"`
	// Season this round belongs to, if known.
	Season *int `json:"season,omitempty"`
	// CountryCode is the two letter ISO 3166-1 code of the target's
	// country, if applicable.
	CountryCode string `json:"country_code,omitempty"`
	// Target location of the round.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Submissions []Submission `json:"submissions"`

	// Extra carries provenance fields the scoring core never reads.
	Extra map[string]string `json:"extra,omitempty"`
}

// Target returns the round's secret location as a Coordinate.
func (r Round) Target() Coordinate {
	return Coordinate{Lat: r.Latitude, Lng: r.Longitude}
}

// DisplayName returns the round's name, or "Round N" if it has none.
func (r Round) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("Round %d", r.Number)
}

// IsScored reports whether every submission in the round has a score.
// An empty round counts as scored.
func (r Round) IsScored() bool {
	for _, sub := range r.Submissions {
		if sub.Score == nil {
			return false
		}
	}
	return true
}

// FindPlayer returns the submission for a player name (case-sensitive),
// or nil if that player did not submit this round. Not every player
// submits every round, so a nil result is normal.
func (r Round) FindPlayer(name string) *Submission {
	for i := range r.Submissions {
		if r.Submissions[i].Name == name {
			sub := r.Submissions[i]
			return &sub
		}
	}
	return nil
}

// Float64 returns a pointer to v, for filling optional fields.
func Float64(v float64) *float64 { return &v }

// Int returns a pointer to v, for filling optional fields.
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for filling optional fields.
func Bool(v bool) *bool { return &v }
