package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config regroupe toute la configuration du bot, chargée une seule fois
// au démarrage puis passée explicitement aux constructeurs
type Config struct {
	// GeoGuessr
	GeoGuessrCookie string // valeur du cookie _ncfa
	GeoGuessrEmail  string // optionnel, pour le fallback navigateur
	GeoGuessrPass   string
	FallbackMapID   string // identifiant de carte de dernier recours
	Rounds          int
	TimeLimit       int // secondes par round

	// Slack
	SlackBotToken  string
	SlackChannelID string

	// Stockage de l'état (fichier en local, gist sur CI)
	StateFile   string
	GithubToken string
	GistID      string

	// Fenêtre de publication (heures locales, jours ouvrés)
	WindowStart int
	WindowEnd   int

	// Navigateur visible pour le debug
	Headed bool
}

const (
	defaultStateFile = ".daily_challenge_state"
	defaultRounds    = 5
	defaultTimeLimit = 90

	// Identifiant connu de la carte "world" communautaire. Peut devenir
	// obsolète côté GeoGuessr, d'où la variable GEOGUESSR_FALLBACK_MAP_ID.
	defaultFallbackMapID = "62a44b22040f04bd36e8a914"
)

// LoadConfig charge .env puis les variables d'environnement
func LoadConfig() (*Config, error) {
	// .env est optionnel (absent sur CI)
	_ = godotenv.Load()

	cfg := &Config{
		GeoGuessrCookie: os.Getenv("GEOGUESSR_COOKIE"),
		GeoGuessrEmail:  os.Getenv("GEOGUESSR_EMAIL"),
		GeoGuessrPass:   os.Getenv("GEOGUESSR_PASSWORD"),
		FallbackMapID:   getEnv("GEOGUESSR_FALLBACK_MAP_ID", defaultFallbackMapID),
		Rounds:          getEnvInt("GEODAILY_ROUNDS", defaultRounds),
		TimeLimit:       getEnvInt("GEODAILY_TIME_LIMIT", defaultTimeLimit),
		SlackBotToken:   os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannelID:  os.Getenv("SLACK_CHANNEL_ID"),
		StateFile:       getEnv("GEODAILY_STATE_FILE", defaultStateFile),
		GithubToken:     os.Getenv("GITHUB_TOKEN"),
		GistID:          os.Getenv("GITHUB_GIST_ID"),
		WindowStart:     getEnvInt("GEODAILY_WINDOW_START", 8),
		WindowEnd:       getEnvInt("GEODAILY_WINDOW_END", 15),
		Headed:          getEnvBool("GEODAILY_HEADED"),
	}

	return cfg, nil
}

// Validate vérifie les identifiants obligatoires pour un run complet
func (c *Config) Validate() error {
	if c.GeoGuessrCookie == "" && (c.GeoGuessrEmail == "" || c.GeoGuessrPass == "") {
		return fmt.Errorf("GEOGUESSR_COOKIE (or GEOGUESSR_EMAIL + GEOGUESSR_PASSWORD) not set")
	}
	if c.SlackBotToken == "" {
		return fmt.Errorf("SLACK_BOT_TOKEN not set")
	}
	if c.SlackChannelID == "" {
		return fmt.Errorf("SLACK_CHANNEL_ID not set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
