package tpgapi

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/travelpics/tpg/internal/tpg"
)

// ToRounds converts API rounds and their submissions into the local
// round format. Player names come from the players list; a submission
// whose discord id is unknown keeps the raw id as its name. Scores and
// distances are not in the API, so the result is unscored; final
// placements carry over as ranks when the round has finished.
func ToRounds(rounds []Round, subsByRound map[int][]Submission, players []Player) []tpg.Round {
	names := make(map[string]string, len(players))
	for _, p := range players {
		names[p.DiscordID] = p.Name
	}

	out := make([]tpg.Round, 0, len(rounds))
	for _, r := range rounds {
		lr := tpg.Round{
			Name:        fmt.Sprintf("Round %d", r.Number),
			Number:      r.Number,
			Season:      tpg.Int(r.Season),
			CountryCode: r.Country,
			Latitude:    r.Latitude,
			Longitude:   r.Longitude,
		}
		for _, sub := range subsByRound[r.Number] {
			name, ok := names[sub.DiscordID]
			if !ok {
				name = sub.DiscordID
			}
			ls := tpg.Submission{
				Name:            name,
				Latitude:        sub.Latitude,
				Longitude:       sub.Longitude,
				IsFiveK:         tpg.Bool(sub.FiveK),
				IsAntipodeFiveK: tpg.Bool(sub.Antipode5K),
				IsTie:           sub.IsTie,
				Extra:           map[string]string{"discord_id": sub.DiscordID},
			}
			if sub.Place > 0 {
				ls.Rank = tpg.Int(sub.Place)
			}
			lr.Submissions = append(lr.Submissions, ls)
		}
		out = append(out, lr)
	}
	return out
}

// FetchGame downloads a game's finished rounds with submissions and
// converts them. Ongoing rounds have no final placements yet and are
// skipped.
func (c *Client) FetchGame(ctx context.Context, game int) ([]tpg.Round, error) {
	rounds, err := c.Rounds(ctx, game)
	if err != nil {
		return nil, err
	}
	players, err := c.Players(ctx)
	if err != nil {
		return nil, err
	}

	finished := rounds[:0]
	for _, r := range rounds {
		if r.Ongoing {
			zap.L().Debug("skipping ongoing round", zap.Int("round", r.Number))
			continue
		}
		finished = append(finished, r)
	}

	subs := make(map[int][]Submission, len(finished))
	for _, r := range finished {
		s, err := c.RoundSubmissions(ctx, game, r.Number)
		if err != nil {
			return nil, err
		}
		subs[r.Number] = s
	}
	return ToRounds(finished, subs, players), nil
}
