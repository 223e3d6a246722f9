package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// staleLockAge au-delà duquel un verrou abandonné (run tué par le
// scheduler) est repris
const staleLockAge = 10 * time.Minute

// FileStore persiste l'état dans un fichier JSON local, réécrit en entier
// à chaque sauvegarde
type FileStore struct {
	path string
}

// NewFileStore construit un store pour le chemin donné
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load lit l'état. Fichier absent ou illisible = aucun état antérieur.
func (s *FileStore) Load() (model.RunState, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return model.RunState{}, nil
	}
	var st model.RunState
	if err := json.Unmarshal(raw, &st); err != nil {
		return model.RunState{}, nil
	}
	return st, nil
}

// Save réécrit le fichier d'état en entier
func (s *FileStore) Save(st model.RunState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("unable to write state file: %w", err)
	}
	return nil
}

// Lock pose un verrou fichier autour de la séquence load-decide-save, pour
// éviter que deux runs déclenchés trop près ne se recouvrent. Un verrou
// plus vieux que staleLockAge est considéré abandonné et repris.
func (s *FileStore) Lock() (release func(), err error) {
	lockPath := s.path + ".lock"

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("unable to create lock file: %w", err)
		}

		info, statErr := os.Stat(lockPath)
		if statErr != nil || time.Since(info.ModTime()) < staleLockAge {
			return nil, fmt.Errorf("another run holds the state lock (%s)", lockPath)
		}
		// Verrou périmé : on le retire et on retente une fois
		os.Remove(lockPath)
	}
	return nil, fmt.Errorf("unable to acquire state lock (%s)", lockPath)
}
