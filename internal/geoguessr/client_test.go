package geoguessr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

func testSettings() model.ChallengeSettings {
	return model.ChallengeSettings{
		MapID:       "map-1",
		Rounds:      5,
		TimeLimit:   90,
		AccessLevel: 1,
	}
}

func TestCreateChallenge_FirstPayloadAccepted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/challenges", r.URL.Path)
		require.Equal(t, "_ncfa=cookie-1", r.Header.Get("Cookie"))
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"token": "xyz"})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	url, err := client.CreateChallenge(context.Background(), testSettings())

	require.NoError(t, err)
	assert.Equal(t, "https://www.geoguessr.com/challenge/xyz", url)
	assert.Equal(t, int32(1), calls)
}

func TestCreateChallenge_SecondPayloadAfter400(t *testing.T) {
	var payloads []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		payloads = append(payloads, body)

		if len(payloads) == 1 {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "InvalidParameters"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"token": "xyz"})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	url, err := client.CreateChallenge(context.Background(), testSettings())

	require.NoError(t, err)
	assert.Equal(t, "https://www.geoguessr.com/challenge/xyz", url)
	// Une seule relance après le 400, pas plus
	require.Len(t, payloads, 2)
	// Le premier format porte rounds, le second roundCount
	assert.Contains(t, payloads[0], "rounds")
	assert.Contains(t, payloads[1], "roundCount")
}

func TestCreateChallenge_AllPayloadsRejected(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "nope"})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	_, err := client.CreateChallenge(context.Background(), testSettings())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAllPayloadsRejected)
	assert.Contains(t, err.Error(), "nope")
	assert.Equal(t, int32(4), calls)
}

func TestCreateChallenge_MoveLimitAddedToAllPayloads(t *testing.T) {
	settings := testSettings()
	settings.MoveLimit = 3

	for _, p := range creationPayloads(settings) {
		assert.Equal(t, 3, p["moveLimit"])
	}
}

func TestCreateChallenge_ResolvesMapWithFallbackSlug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/maps/world":
			w.WriteHeader(http.StatusNotFound)
		case "/maps/a-community-world":
			json.NewEncoder(w).Encode(map[string]string{"id": "community-map"})
		case "/challenges":
			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "community-map", body["map"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"token": "xyz"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	settings := testSettings()
	settings.MapID = ""
	_, err := client.CreateChallenge(context.Background(), settings)
	require.NoError(t, err)
}

func TestResolveMapID_HardcodedFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL), WithFallbackMapID("last-resort"))
	assert.Equal(t, "last-resort", client.ResolveMapID(context.Background()))
}

func TestEnsurePlayed_StartRefusedIsNotAnError(t *testing.T) {
	var gameCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/challenges/abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		atomic.AddInt32(&gameCalls, 1)
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	err := client.EnsurePlayed(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, int32(0), gameCalls, "no round submission after a refused start")
}

func TestEnsurePlayed_SubmitsUntilRefused(t *testing.T) {
	var submits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/challenges/abc" && r.Method == http.MethodPost:
			json.NewEncoder(w).Encode(map[string]string{"token": "game-1"})
		case r.URL.Path == "/games/game-1" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(map[string]string{"state": "started"})
		case r.URL.Path == "/games/game-1" && r.Method == http.MethodPost:
			var guess map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&guess))
			assert.Equal(t, true, guess["timedOut"])
			if atomic.AddInt32(&submits, 1) >= 5 {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"state": "ok"})
		default:
			t.Errorf("unexpected call %s %s", r.Method, r.URL.Path)
		}
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	err := client.EnsurePlayed(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, int32(5), submits, "stops on the first non-200 submit")
}

func TestChallengeDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/challenges/abc", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"challenge": map[string]interface{}{
				"token":      "abc",
				"timeLimit":  90,
				"roundCount": 5,
				"moveLimit":  0,
			},
			"map": map[string]interface{}{"name": "A Community World"},
		})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	record, err := client.ChallengeDetails(context.Background(), "abc")

	require.NoError(t, err)
	assert.Equal(t, model.ChallengeRecord{
		ID:        "abc",
		MapName:   "A Community World",
		TimeLimit: 90,
		Rounds:    5,
		MoveLimit: 0,
	}, record)
}

func TestTodayChallenge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/challenges/daily-challenges/today", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":     "daily42",
			"mapName":   "World",
			"timeLimit": 180,
			"moveLimit": 0,
		})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	record, err := client.TodayChallenge(context.Background())

	require.NoError(t, err)
	assert.Equal(t, model.ChallengeRecord{
		ID:        "daily42",
		MapName:   "World",
		TimeLimit: 180,
	}, record)
}

func TestTodayChallenge_MapNameDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"challengeId": "daily42"})
	}))
	defer server.Close()

	client := New("cookie-1", WithBaseURL(server.URL))
	record, err := client.TodayChallenge(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "daily42", record.ID)
	assert.Equal(t, "Daily Challenge", record.MapName)
}

func TestChallengeIDFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://www.geoguessr.com/challenge/xyz", "xyz"},
		{"https://www.geoguessr.com/challenge/xyz/", "xyz"},
		{"https://www.geoguessr.com/challenge/xyz?utm=1", "xyz"},
		{"xyz", "xyz"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ChallengeIDFromURL(tt.in))
	}
}
