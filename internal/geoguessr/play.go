package geoguessr

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// maxRounds borne la simulation de partie, même si le serveur annonce un
// nombre de rounds aberrant
const maxRounds = 100

// EnsurePlayed joue le challenge à blanc pour le compte du bot : GeoGuessr
// ne renvoie le classement d'un challenge qu'aux comptes qui l'ont eux-mêmes
// terminé. Chaque round reçoit une réponse hors-jeu explicitement marquée
// timed-out ; aucun score réel n'est produit. Toute réponse non-200 arrête
// la simulation sans erreur (challenge déjà joué, API modifiée).
func (c *Client) EnsurePlayed(ctx context.Context, challengeID string) error {
	status, raw, err := c.do(ctx, http.MethodPost, "/challenges/"+challengeID, nil, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return nil
	}

	var game struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &game); err != nil || game.Token == "" {
		return nil
	}

	guess := payload{
		"lat":      0,
		"lng":      0,
		"timedOut": true,
		"token":    game.Token,
	}
	for i := 0; i < maxRounds; i++ {
		// Rafraîchir l'état de la partie avant chaque soumission
		query := url.Values{"client": {"web"}}
		if _, _, err := c.do(ctx, http.MethodGet, "/games/"+game.Token, query, nil); err != nil {
			return err
		}

		status, _, err := c.do(ctx, http.MethodPost, "/games/"+game.Token, nil, guess)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			break
		}
	}
	return nil
}
