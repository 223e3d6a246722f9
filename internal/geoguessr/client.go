package geoguessr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
)

const (
	// DefaultBaseURL est la racine de l'API v3 de GeoGuessr
	DefaultBaseURL = "https://www.geoguessr.com/api/v3"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// Client encapsule les appels authentifiés à l'API GeoGuessr.
// L'authentification passe par le cookie de session _ncfa.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	cookie        string
	fallbackMapID string
	fetchLimit    int
	minRounds     int
}

// Option personnalise le client à la construction
type Option func(*Client)

// WithBaseURL remplace la racine de l'API (tests)
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient remplace le client HTTP sous-jacent
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFallbackMapID fixe l'identifiant de carte de dernier recours
func WithFallbackMapID(id string) Option {
	return func(c *Client) { c.fallbackMapID = id }
}

// WithFetchLimit fixe le nombre de résultats demandés au serveur (un
// sur-ensemble du top affiché, pour laisser de la marge au filtrage)
func WithFetchLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.fetchLimit = n
		}
	}
}

// WithMinRounds fixe le nombre de rounds terminés exigé pour figurer au
// classement ; doit suivre le nombre de rounds du challenge
func WithMinRounds(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.minRounds = n
		}
	}
}

// New construit un client pour le cookie de session donné
func New(cookie string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		cookie:     cookie,
		fetchLimit: 26,
		minRounds:  5,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do exécute une requête JSON et renvoie le status et le corps brut.
// Seules les erreurs de transport remontent en error ; un status non-2xx
// est laissé à l'appelant (nécessaire pour la détection des formats de
// payload refusés à la création).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload interface{}) (int, []byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("unable to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, nil, fmt.Errorf("unable to build request: %w", err)
	}
	req.Header.Set("Cookie", "_ncfa="+c.cookie)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("geoguessr request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.Request(method, endpoint, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("unable to read response body: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// getJSON exécute un GET et décode une réponse 2xx dans dest
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, dest interface{}) error {
	status, raw, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("geoguessr returned status %d for %s: %s", status, path, apiMessage(raw))
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unable to decode response for %s: %w", path, err)
	}
	return nil
}

// apiMessage extrait le champ message d'une réponse d'erreur GeoGuessr
func apiMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "InvalidParameters"
}

// ChallengeIDFromURL extrait l'identifiant depuis une URL de challenge
func ChallengeIDFromURL(challengeURL string) string {
	trimmed := strings.TrimRight(challengeURL, "/")
	idx := strings.LastIndex(trimmed, "/challenge/")
	if idx < 0 {
		return trimmed
	}
	id := trimmed[idx+len("/challenge/"):]
	if q := strings.IndexByte(id, '?'); q >= 0 {
		id = id[:q]
	}
	return id
}
