package state

import (
	"github.com/MassBabyGeek/GeoDaily-bot/internal/config"
	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// Store persiste le RunState entre deux runs. Load ne renvoie jamais
// d'erreur pour un état absent ou corrompu : il dégrade en zero value,
// un run doit toujours pouvoir démarrer.
type Store interface {
	Load() (model.RunState, error)
	Save(model.RunState) error
}

// FromConfig choisit le backend : gist quand un token GitHub et un id de
// gist sont configurés (CI), fichier local sinon
func FromConfig(cfg *config.Config) Store {
	if cfg.GithubToken != "" && cfg.GistID != "" {
		return NewGistStore(cfg.GithubToken, cfg.GistID)
	}
	return NewFileStore(cfg.StateFile)
}
