package geoguessr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// Formes brutes renvoyées par /results/highscores. Le score est tantôt un
// entier nu, tantôt un objet {amount} : la normalisation se fait ici, à la
// frontière du client, et ne fuit jamais plus loin.
type highscoresResponse struct {
	Items []highscoreItem `json:"items"`
}

type highscoreItem struct {
	Game       highscoreGame `json:"game"`
	PlayerName string        `json:"playerName"`
}

type highscoreGame struct {
	Player     highscorePlayer `json:"player"`
	PlayerName string          `json:"playerName"`
}

type highscorePlayer struct {
	Nick       string           `json:"nick"`
	PlayerName string           `json:"playerName"`
	TotalScore json.RawMessage  `json:"totalScore"`
	TotalTime  *int             `json:"totalTime"`
	Guesses    []highscoreGuess `json:"guesses"`
}

type highscoreGuess struct {
	TimedOut bool `json:"timedOut"`
	Time     int  `json:"time"`
}

// normalize convertit une entrée brute en LeaderboardEntry, ou renvoie
// false pour une entrée sans tentative réelle (aucune réponse, ou que des
// rounds timed-out)
func (item highscoreItem) normalize() (model.LeaderboardEntry, bool) {
	player := item.Game.Player
	if len(player.Guesses) == 0 {
		return model.LeaderboardEntry{}, false
	}

	allTimedOut := true
	summedTime := 0
	for _, g := range player.Guesses {
		if !g.TimedOut {
			allTimedOut = false
		}
		summedTime += g.Time
	}
	if allTimedOut {
		return model.LeaderboardEntry{}, false
	}

	totalTime := summedTime
	if player.TotalTime != nil {
		totalTime = *player.TotalTime
	}

	nick := firstNonEmpty(player.Nick, player.PlayerName, item.Game.PlayerName, item.PlayerName, "Unknown")

	return model.LeaderboardEntry{
		Nick:       nick,
		TotalScore: scoreValue(player.TotalScore),
		TotalTime:  totalTime,
	}, true
}

// scoreValue accepte un score entier nu ou structuré {"amount": ...}
func scoreValue(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	if n, err := strconv.Atoi(string(raw)); err == nil {
		return n
	}
	var plain float64
	if err := json.Unmarshal(raw, &plain); err == nil {
		return int(plain)
	}
	var structured struct {
		Amount float64 `json:"amount"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil {
		return int(structured.Amount)
	}
	// Certains backends renvoient l'amount en string
	var asString struct {
		Amount string `json:"amount"`
	}
	if err := json.Unmarshal(raw, &asString); err == nil {
		if n, err := strconv.Atoi(asString.Amount); err == nil {
			return n
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Highscores récupère le classement d'un challenge : entrées sans tentative
// réelle écartées, scores normalisés, tri par score décroissant puis temps
// croissant. Le compte du bot doit avoir joué le challenge (EnsurePlayed),
// sinon l'API renvoie une liste vide ou un refus.
func (c *Client) Highscores(ctx context.Context, challengeID string) ([]model.LeaderboardEntry, error) {
	query := url.Values{
		"friends":   {"false"},
		"limit":     {strconv.Itoa(c.fetchLimit)},
		"minRounds": {strconv.Itoa(c.minRounds)},
	}

	var resp highscoresResponse
	if err := c.getJSON(ctx, "/results/highscores/"+challengeID, query, &resp); err != nil {
		return nil, fmt.Errorf("unable to fetch highscores for %s: %w", challengeID, err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(resp.Items))
	for _, item := range resp.Items {
		if entry, ok := item.normalize(); ok {
			entries = append(entries, entry)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].TotalTime < entries[j].TotalTime
	})
	return entries, nil
}
