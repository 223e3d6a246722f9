package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

func TestFileStore_LoadMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "state.json"))

	st, err := store.Load()
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	st, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.True(t, st.IsZero())
}

func TestFileStore_SaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	saved := model.RunState{
		LastChallengeID:   "abc",
		LastChallengeDate: "2024-05-01",
		ChallengesToday:   2,
	}
	require.NoError(t, store.Save(saved))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	// Le document persisté porte exactement les trois champs attendus
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"last_challenge_id"`)
	assert.Contains(t, string(raw), `"last_challenge_date"`)
	assert.Contains(t, string(raw), `"challenges_today_count"`)
}

func TestFileStore_SaveOverwritesWholeDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"last_challenge_id":"old","extra":"field"}`), 0o644))

	store := NewFileStore(path)
	require.NoError(t, store.Save(model.RunState{LastChallengeID: "new", LastChallengeDate: "2024-05-01", ChallengesToday: 1}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "extra")
	assert.Contains(t, string(raw), `"new"`)
}

func TestFileStore_Lock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := NewFileStore(path)

	release, err := store.Lock()
	require.NoError(t, err)

	// Un second verrou est refusé tant que le premier tient
	_, err = store.Lock()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "another run holds the state lock")

	release()
	release2, err := store.Lock()
	require.NoError(t, err)
	release2()
}

func TestFileStore_LockReclaimsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	lockPath := path + ".lock"
	require.NoError(t, os.WriteFile(lockPath, []byte("12345\n"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(lockPath, old, old))

	release, err := NewFileStore(path).Lock()
	require.NoError(t, err)
	release()
}
