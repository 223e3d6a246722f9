package state

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// gistTestStore fabrique un GistStore branché sur un faux serveur GitHub
func gistTestStore(t *testing.T, handler http.HandlerFunc) *GistStore {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return NewGistStore("token", "gist-1", WithGithubClient(client))
}

func TestGistStore_Load(t *testing.T) {
	store := gistTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/gists/gist-1", r.URL.Path)
		fmt.Fprint(w, `{
			"id": "gist-1",
			"files": {
				"notes.md": {"filename": "notes.md", "content": "unrelated"},
				"state.json": {"filename": "state.json", "content": "{\"last_challenge_id\":\"abc\",\"last_challenge_date\":\"2024-05-01\",\"challenges_today_count\":2}"}
			}
		}`)
	})

	st, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, model.RunState{
		LastChallengeID:   "abc",
		LastChallengeDate: "2024-05-01",
		ChallengesToday:   2,
	}, st)
}

func TestGistStore_LoadMissingStateFile(t *testing.T) {
	store := gistTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "gist-1", "files": {"notes.md": {"filename": "notes.md", "content": "x"}}}`)
	})

	st, err := store.Load()
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}

func TestGistStore_LoadUnreachableGist(t *testing.T) {
	store := gistTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	st, err := store.Load()
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}

func TestGistStore_LoadCorruptContent(t *testing.T) {
	store := gistTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "gist-1", "files": {"state.json": {"filename": "state.json", "content": "{broken"}}}`)
	})

	st, err := store.Load()
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}

func TestGistStore_SavePatchesOnlyStateFile(t *testing.T) {
	var patched map[string]interface{}
	store := gistTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/gists/gist-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
		fmt.Fprint(w, `{"id": "gist-1"}`)
	})

	err := store.Save(model.RunState{
		LastChallengeID:   "abc",
		LastChallengeDate: "2024-05-01",
		ChallengesToday:   1,
	})
	require.NoError(t, err)

	files, ok := patched["files"].(map[string]interface{})
	require.True(t, ok)
	// Seul state.json apparaît dans le PATCH : les autres fichiers du gist
	// restent intacts côté API
	require.Len(t, files, 1)
	stateFile, ok := files["state.json"].(map[string]interface{})
	require.True(t, ok)
	content, _ := stateFile["content"].(string)
	assert.Contains(t, content, `"last_challenge_id": "abc"`)
}

func TestGistStore_SaveErrorBubbles(t *testing.T) {
	store := gistTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := store.Save(model.RunState{LastChallengeID: "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to update state gist")
}
