package geoguessr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// ErrAllPayloadsRejected signale que tous les formats de payload de
// création ont été refusés par l'API
var ErrAllPayloadsRejected = errors.New("all challenge payload formats rejected")

type payload map[string]interface{}

// creationPayloads construit la liste ordonnée des formats de payload à
// essayer. Le schéma accepté par l'API a changé plusieurs fois et n'est pas
// documenté : présence de rounds vs roundCount, présence de accessLevel.
func creationPayloads(s model.ChallengeSettings) []payload {
	payloads := []payload{
		// Format 1 : rounds + accessLevel + allowGuests
		{
			"map":            s.MapID,
			"rounds":         s.Rounds,
			"timeLimit":      s.TimeLimit,
			"forbidMoving":   false,
			"forbidRotating": false,
			"forbidZooming":  false,
			"accessLevel":    s.AccessLevel,
			"allowGuests":    s.AllowGuests,
		},
		// Format 2 : roundCount à la place de rounds
		{
			"map":            s.MapID,
			"roundCount":     s.Rounds,
			"timeLimit":      s.TimeLimit,
			"forbidMoving":   false,
			"forbidRotating": false,
			"forbidZooming":  false,
			"accessLevel":    s.AccessLevel,
			"allowGuests":    s.AllowGuests,
		},
		// Format 3 : minimal avec accessLevel
		{
			"map":         s.MapID,
			"rounds":      s.Rounds,
			"timeLimit":   s.TimeLimit,
			"accessLevel": s.AccessLevel,
			"allowGuests": s.AllowGuests,
		},
		// Format 4 : sans accessLevel (public)
		{
			"map":            s.MapID,
			"rounds":         s.Rounds,
			"timeLimit":      s.TimeLimit,
			"forbidMoving":   false,
			"forbidRotating": false,
			"forbidZooming":  false,
			"allowGuests":    s.AllowGuests,
		},
	}

	if s.MoveLimit > 0 {
		for _, p := range payloads {
			p["moveLimit"] = s.MoveLimit
		}
	}
	return payloads
}

// ResolveMapID résout l'identifiant canonique de la carte "world" : slug
// principal, puis slug communautaire, puis identifiant configuré en
// dernier recours
func (c *Client) ResolveMapID(ctx context.Context) string {
	for _, slug := range []string{"world", "a-community-world"} {
		var m struct {
			ID string `json:"id"`
		}
		if err := c.getJSON(ctx, "/maps/"+slug, nil, &m); err == nil && m.ID != "" {
			return m.ID
		}
	}
	logger.Warning("Map lookup failed for both slugs, using fallback map id %s", c.fallbackMapID)
	return c.fallbackMapID
}

// CreateChallenge crée un challenge avec les règles données et renvoie son
// URL partageable. Chaque format de payload est essayé dans l'ordre ; un
// refus 4xx fait passer au suivant, seule une erreur de transport arrête
// la séquence.
func (c *Client) CreateChallenge(ctx context.Context, settings model.ChallengeSettings) (string, error) {
	if settings.MapID == "" {
		settings.MapID = c.ResolveMapID(ctx)
	}

	lastError := "InvalidParameters"
	for i, p := range creationPayloads(settings) {
		status, raw, err := c.do(ctx, http.MethodPost, "/challenges", nil, p)
		if err != nil {
			return "", err
		}

		if status == http.StatusOK || status == http.StatusCreated {
			var created struct {
				Token       string `json:"token"`
				ChallengeID string `json:"challengeId"`
				ID          string `json:"id"`
			}
			if err := json.Unmarshal(raw, &created); err != nil {
				return "", fmt.Errorf("unable to decode challenge creation response: %w", err)
			}
			token := created.Token
			if token == "" {
				token = created.ChallengeID
			}
			if token == "" {
				token = created.ID
			}
			if token == "" {
				return "", fmt.Errorf("challenge creation response carries no token")
			}
			return "https://www.geoguessr.com/challenge/" + token, nil
		}

		lastError = apiMessage(raw)
		logger.Debug("Challenge payload format %d rejected (status %d): %s", i+1, status, lastError)
	}

	return "", fmt.Errorf("%w: %s", ErrAllPayloadsRejected, lastError)
}

// ChallengeDetails récupère les métadonnées d'un challenge existant
func (c *Client) ChallengeDetails(ctx context.Context, challengeID string) (model.ChallengeRecord, error) {
	var resp struct {
		Challenge struct {
			Token      string `json:"token"`
			TimeLimit  int    `json:"timeLimit"`
			RoundCount int    `json:"roundCount"`
			MoveLimit  int    `json:"moveLimit"`
		} `json:"challenge"`
		Map struct {
			Name string `json:"name"`
		} `json:"map"`
	}
	if err := c.getJSON(ctx, "/challenges/"+challengeID, nil, &resp); err != nil {
		return model.ChallengeRecord{}, fmt.Errorf("unable to fetch challenge %s: %w", challengeID, err)
	}

	record := model.ChallengeRecord{
		ID:        challengeID,
		MapName:   resp.Map.Name,
		TimeLimit: resp.Challenge.TimeLimit,
		Rounds:    resp.Challenge.RoundCount,
		MoveLimit: resp.Challenge.MoveLimit,
	}
	if record.MapName == "" {
		record.MapName = "World"
	}
	return record, nil
}

// TodayChallenge récupère le challenge quotidien officiel de GeoGuessr.
// La réponse est plate (pas d'enveloppe challenge/map) et n'indique pas le
// nombre de rounds.
func (c *Client) TodayChallenge(ctx context.Context) (model.ChallengeRecord, error) {
	var resp struct {
		ChallengeID string `json:"challengeId"`
		Token       string `json:"token"`
		MapName     string `json:"mapName"`
		TimeLimit   int    `json:"timeLimit"`
		MoveLimit   int    `json:"moveLimit"`
	}
	if err := c.getJSON(ctx, "/challenges/daily-challenges/today", nil, &resp); err != nil {
		return model.ChallengeRecord{}, fmt.Errorf("unable to fetch today's daily challenge: %w", err)
	}

	id := resp.ChallengeID
	if id == "" {
		id = resp.Token
	}
	record := model.ChallengeRecord{
		ID:        id,
		MapName:   resp.MapName,
		TimeLimit: resp.TimeLimit,
		MoveLimit: resp.MoveLimit,
	}
	if record.MapName == "" {
		record.MapName = "Daily Challenge"
	}
	return record, nil
}

// ValidateCookie vérifie que le cookie de session est encore accepté.
// Renvoie une description lisible du compte quand c'est le cas.
func (c *Client) ValidateCookie(ctx context.Context) (bool, string) {
	status, _, err := c.do(ctx, http.MethodGet, "/challenges/daily-challenges/today", nil, nil)
	if err != nil {
		return false, fmt.Sprintf("cookie validation error: %v", err)
	}
	switch {
	case status == http.StatusOK:
		var profile struct {
			Nick      string `json:"nick"`
			IsProUser bool   `json:"isProUser"`
		}
		if err := c.getJSON(ctx, "/accounts/profile", nil, &profile); err == nil && profile.Nick != "" {
			return true, fmt.Sprintf("Valid cookie for user: %s (Pro: %t)", profile.Nick, profile.IsProUser)
		}
		return true, "Cookie is valid and authorized"
	case status == http.StatusUnauthorized:
		return false, "Cookie expired or invalid (401 Unauthorized)"
	case status == http.StatusForbidden:
		return false, "Cookie not authorized (403 Forbidden)"
	default:
		return false, fmt.Sprintf("Cookie validation failed (Status: %d)", status)
	}
}
