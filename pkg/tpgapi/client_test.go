package tpgapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL), WithRateLimit(1000))
}

func TestClientRounds(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/rounds/1", r.URL.Path)
		assert.Contains(t, r.Header.Get("User-Agent"), "travelpics")
		w.Write([]byte(`[
			{"number": 1, "latitude": -33.87, "longitude": 151.21, "water": false, "ongoing": false,
			 "country": "AU", "start_timestamp": "1700000000", "end_timestamp": "1700086400",
			 "season": 2, "game": 1},
			{"number": 2, "latitude": 64.15, "longitude": -21.94, "water": false, "ongoing": true,
			 "country": "IS", "start_timestamp": null, "end_timestamp": null, "season": 2, "game": 1}
		]`))
	}))

	rounds, err := c.Rounds(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rounds, 2)
	assert.Equal(t, "AU", rounds[0].Country)
	assert.False(t, rounds[0].Ongoing)
	assert.True(t, rounds[1].Ongoing)
	assert.Nil(t, rounds[1].StartTimestamp)
}

func TestClientRoundSubmissions(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/submissions/game/1/round/3", r.URL.Path)
		w.Write([]byte(`[
			{"id": 10, "round": 3, "latitude": -33.8, "longitude": 151.2, "place": 1,
			 "5k": true, "antipode_5k": false, "discord_id": "111", "is_tie": false, "game": 1}
		]`))
	}))

	subs, err := c.RoundSubmissions(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	// The 5K flag arrives under the bare "5k" key.
	assert.True(t, subs[0].FiveK)
	assert.Equal(t, "111", subs[0].DiscordID)
}

func TestClientErrorStatus(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))

	_, err := c.Players(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestClientFetchGame(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/rounds/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"number": 1, "latitude": -33.87, "longitude": 151.21, "water": false, "ongoing": false,
			 "country": "AU", "start_timestamp": null, "end_timestamp": null, "season": 1, "game": 1},
			{"number": 2, "latitude": 0, "longitude": 0, "water": true, "ongoing": true,
			 "country": null, "start_timestamp": null, "end_timestamp": null, "season": 1, "game": 1}
		]`))
	})
	mux.HandleFunc("/api/v1/players", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"discord_id": "111", "name": "alice", "username": null}]`))
	})
	mux.HandleFunc("/api/v1/submissions/game/1/round/1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"id": 1, "round": 1, "latitude": -37.8, "longitude": 144.9, "place": 1,
			 "5k": false, "antipode_5k": false, "discord_id": "111", "is_tie": false, "game": 1},
			{"id": 2, "round": 1, "latitude": 51.5, "longitude": -0.1, "place": 2,
			 "5k": false, "antipode_5k": false, "discord_id": "222", "is_tie": false, "game": 1}
		]`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s", r.URL.Path)
	})

	c := newTestClient(t, mux)
	rounds, err := c.FetchGame(context.Background(), 1)
	require.NoError(t, err)
	// The ongoing round is skipped.
	require.Len(t, rounds, 1)

	r := rounds[0]
	assert.Equal(t, "Round 1", r.Name)
	assert.Equal(t, "AU", r.CountryCode)
	require.Len(t, r.Submissions, 2)

	// Known discord id maps to the player name; unknown keeps the id.
	assert.Equal(t, "alice", r.Submissions[0].Name)
	assert.Equal(t, "222", r.Submissions[1].Name)
	assert.Equal(t, 1, *r.Submissions[0].Rank)
	assert.Equal(t, "111", r.Submissions[0].Extra["discord_id"])
	// No scores in the API payloads.
	assert.False(t, r.IsScored())
}

func TestToRoundsUnplacedSubmissionHasNoRank(t *testing.T) {
	t.Parallel()

	rounds := ToRounds(
		[]Round{{Number: 1, Latitude: 1, Longitude: 2}},
		map[int][]Submission{1: {{Round: 1, Place: 0, DiscordID: "9"}}},
		nil,
	)
	require.Len(t, rounds, 1)
	require.Len(t, rounds[0].Submissions, 1)
	assert.Nil(t, rounds[0].Submissions[0].Rank)
}
