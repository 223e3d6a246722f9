package geoguessr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

func highscoresServer(t *testing.T, items []map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/results/highscores/abc", r.URL.Path)
		require.Equal(t, "false", r.URL.Query().Get("friends"))
		require.Equal(t, "26", r.URL.Query().Get("limit"))
		require.Equal(t, "5", r.URL.Query().Get("minRounds"))
		json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}))
}

func playerItem(nick string, score interface{}, totalTime interface{}, guesses []map[string]interface{}) map[string]interface{} {
	player := map[string]interface{}{
		"nick":    nick,
		"guesses": guesses,
	}
	if score != nil {
		player["totalScore"] = score
	}
	if totalTime != nil {
		player["totalTime"] = totalTime
	}
	return map[string]interface{}{"game": map[string]interface{}{"player": player}}
}

func realGuesses(times ...int) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(times))
	for _, tm := range times {
		out = append(out, map[string]interface{}{"timedOut": false, "time": tm})
	}
	return out
}

func TestHighscores_SortedByScoreThenTime(t *testing.T) {
	server := highscoresServer(t, []map[string]interface{}{
		playerItem("Ann", 4500, 120, realGuesses(60, 60)),
		playerItem("Bo", 4500, 90, realGuesses(45, 45)),
		playerItem("Cid", 5000, 200, realGuesses(100, 100)),
	})
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	entries, err := client.Highscores(context.Background(), "abc")

	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Cid d'abord (meilleur score), puis Bo devant Ann (même score, temps plus court)
	assert.Equal(t, "Cid", entries[0].Nick)
	assert.Equal(t, "Bo", entries[1].Nick)
	assert.Equal(t, "Ann", entries[2].Nick)
}

func TestHighscores_FiltersNonAttempts(t *testing.T) {
	server := highscoresServer(t, []map[string]interface{}{
		playerItem("NoGuesses", 0, 0, nil),
		playerItem("AllTimedOut", 0, 180, []map[string]interface{}{
			{"timedOut": true, "time": 90},
			{"timedOut": true, "time": 90},
		}),
		playerItem("Real", 3000, 100, realGuesses(50, 50)),
	})
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	entries, err := client.Highscores(context.Background(), "abc")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Real", entries[0].Nick)
}

func TestHighscores_NormalizesStructuredScore(t *testing.T) {
	server := highscoresServer(t, []map[string]interface{}{
		playerItem("Structured", map[string]interface{}{"amount": 4321, "unit": "points"}, 100, realGuesses(50, 50)),
		playerItem("Plain", 1234, 80, realGuesses(40, 40)),
		playerItem("StringAmount", map[string]interface{}{"amount": "777"}, 60, realGuesses(30, 30)),
	})
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	entries, err := client.Highscores(context.Background(), "abc")

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, model.LeaderboardEntry{Nick: "Structured", TotalScore: 4321, TotalTime: 100}, entries[0])
	assert.Equal(t, model.LeaderboardEntry{Nick: "Plain", TotalScore: 1234, TotalTime: 80}, entries[1])
	assert.Equal(t, model.LeaderboardEntry{Nick: "StringAmount", TotalScore: 777, TotalTime: 60}, entries[2])
}

func TestHighscores_MissingTotalTimeSummedFromGuesses(t *testing.T) {
	server := highscoresServer(t, []map[string]interface{}{
		playerItem("NoTotal", 2000, nil, realGuesses(30, 45)),
	})
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	entries, err := client.Highscores(context.Background(), "abc")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 75, entries[0].TotalTime)
}

func TestHighscores_NickFallback(t *testing.T) {
	item := map[string]interface{}{
		"game": map[string]interface{}{
			"player": map[string]interface{}{
				"totalScore": 100,
				"totalTime":  10,
				"guesses":    realGuesses(10),
			},
			"playerName": "FromGame",
		},
	}
	server := highscoresServer(t, []map[string]interface{}{item})
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	entries, err := client.Highscores(context.Background(), "abc")

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "FromGame", entries[0].Nick)
}

func TestHighscores_MinRoundsFollowsRoundCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "3", r.URL.Query().Get("minRounds"))
		json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]interface{}{}})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL), WithMinRounds(3))
	_, err := client.Highscores(context.Background(), "abc")
	require.NoError(t, err)
}

func TestHighscores_UpstreamErrorBubbles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "not played"})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	_, err := client.Highscores(context.Background(), "abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not played")
}

func TestScoreValue(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`4500`, 4500},
		{`{"amount": 4500}`, 4500},
		{`{"amount": "4500"}`, 4500},
		{`null`, 0},
		{``, 0},
		{`"garbage"`, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreValue(json.RawMessage(tt.raw)), "raw=%s", tt.raw)
	}
}
