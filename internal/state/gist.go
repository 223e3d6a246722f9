package state

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/go-github/v60/github"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// stateFilename est le nom fixe du fichier d'état dans le gist. Les autres
// fichiers du gist ne sont jamais touchés.
const stateFilename = "state.json"

// GistStore persiste l'état dans un gist GitHub, pour les runs sans disque
// persistant (GitHub Actions)
type GistStore struct {
	client  *github.Client
	gistID  string
	timeout time.Duration
}

// GistOption personnalise le store à la construction
type GistOption func(*GistStore)

// WithGithubClient remplace le client GitHub (tests)
func WithGithubClient(client *github.Client) GistOption {
	return func(s *GistStore) { s.client = client }
}

// NewGistStore construit un store pour le gist donné
func NewGistStore(token, gistID string, opts ...GistOption) *GistStore {
	s := &GistStore{
		client:  github.NewClient(nil).WithAuthToken(token),
		gistID:  gistID,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load lit state.json depuis le gist. Gist inaccessible, fichier absent ou
// contenu corrompu = aucun état antérieur.
func (s *GistStore) Load() (model.RunState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	gist, _, err := s.client.Gists.Get(ctx, s.gistID)
	if err != nil {
		return model.RunState{}, nil
	}

	file, ok := gist.Files[stateFilename]
	if !ok || file.Content == nil {
		return model.RunState{}, nil
	}

	var st model.RunState
	if err := json.Unmarshal([]byte(*file.Content), &st); err != nil {
		return model.RunState{}, nil
	}
	return st, nil
}

// Save met à jour state.json dans le gist. Seul ce fichier apparaît dans le
// PATCH : l'API préserve les fichiers non mentionnés.
func (s *GistStore) Save(st model.RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode state: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	update := &github.Gist{
		Files: map[github.GistFilename]github.GistFile{
			stateFilename: {Content: github.String(string(data))},
		},
	}
	if _, _, err := s.client.Gists.Edit(ctx, s.gistID, update); err != nil {
		return fmt.Errorf("unable to update state gist: %w", err)
	}
	return nil
}
