package daily

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	slackapi "github.com/slack-go/slack"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/browser"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/config"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/geoguessr"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/message"
	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/schedule"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/slack"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/state"
)

// GeoClient couvre les opérations GeoGuessr dont le run a besoin ;
// *geoguessr.Client l'implémente
type GeoClient interface {
	EnsurePlayed(ctx context.Context, challengeID string) error
	Highscores(ctx context.Context, challengeID string) ([]model.LeaderboardEntry, error)
	CreateChallenge(ctx context.Context, settings model.ChallengeSettings) (string, error)
	ChallengeDetails(ctx context.Context, challengeID string) (model.ChallengeRecord, error)
}

// Poster publie le message quotidien ; *slack.Client l'implémente
type Poster interface {
	Post(ctx context.Context, channelID, text string, blocks []slackapi.Block) (string, error)
}

// deps regroupe les collaborateurs du run. Les valeurs par défaut parlent
// aux vrais services ; les options les remplacent dans les tests.
type deps struct {
	newGeoClient    func(cookie string) GeoClient
	createInBrowser func(ctx context.Context, opts browser.Options) (*browser.Result, error)
	newPoster       func(token string) Poster
	store           state.Store
}

// Option remplace un collaborateur du run
type Option func(*deps)

// WithGeoClient remplace la fabrique de client GeoGuessr. Une fabrique,
// pas une instance : un cookie frais obtenu via le navigateur reconstruit
// le client en cours de run.
func WithGeoClient(fn func(cookie string) GeoClient) Option {
	return func(d *deps) { d.newGeoClient = fn }
}

// WithBrowserCreate remplace la création de challenge par navigateur
func WithBrowserCreate(fn func(ctx context.Context, opts browser.Options) (*browser.Result, error)) Option {
	return func(d *deps) { d.createInBrowser = fn }
}

// WithPoster remplace la fabrique de client Slack
func WithPoster(fn func(token string) Poster) Option {
	return func(d *deps) { d.newPoster = fn }
}

// WithStore remplace le store d'état choisi par la configuration
func WithStore(s state.Store) Option {
	return func(d *deps) { d.store = s }
}

// Run exécute un cycle complet : réconciliation de l'état, résultats du
// challenge précédent, création du nouveau challenge (REST puis navigateur
// en secours), publication Slack, persistance de l'état.
//
// Seuls la création du challenge et le post Slack font échouer le run ; la
// récupération des résultats précédents et le détail du challenge dégradent
// en avertissement : mieux vaut un message sans tableau qu'aucun message.
func Run(ctx context.Context, cfg *config.Config, now time.Time, opts ...Option) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	d := deps{
		newGeoClient: func(cookie string) GeoClient {
			return geoguessr.New(cookie,
				geoguessr.WithFallbackMapID(cfg.FallbackMapID),
				geoguessr.WithMinRounds(cfg.Rounds))
		},
		createInBrowser: browser.CreateChallenge,
		newPoster:       func(token string) Poster { return slack.New(token) },
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.store == nil {
		d.store = state.FromConfig(cfg)
	}

	runID := uuid.NewString()[:8]
	logger.Info("Starting daily challenge run %s", runID)

	if fileStore, ok := d.store.(*state.FileStore); ok {
		release, err := fileStore.Lock()
		if err != nil {
			return fmt.Errorf("run %s: %w", runID, err)
		}
		defer release()
	}

	previousState, _ := d.store.Load()
	run := schedule.Reconcile(now, previousState)
	logger.Info("Run #%d for %s (previous results shown for %s)", run.Number, run.Today, run.ResultsLabel)

	geo := d.newGeoClient(cfg.GeoGuessrCookie)

	// Classement du challenge précédent. GeoGuessr ne l'expose qu'aux
	// comptes qui ont joué le challenge, d'où la partie jouée à blanc.
	var previousResults []model.LeaderboardEntry
	if previousState.LastChallengeID != "" {
		if err := geo.EnsurePlayed(ctx, previousState.LastChallengeID); err != nil {
			logger.Warning("Could not play through previous challenge: %v", err)
		} else if previousResults, err = geo.Highscores(ctx, previousState.LastChallengeID); err != nil {
			logger.Warning("Could not fetch previous challenge results: %v", err)
			previousResults = nil
		}
	}

	settings := model.ChallengeSettings{
		Rounds:      cfg.Rounds,
		TimeLimit:   cfg.TimeLimit,
		AccessLevel: 1, // privé, connexion requise
		AllowGuests: false,
	}
	challengeURL, err := geo.CreateChallenge(ctx, settings)
	if err != nil {
		logger.Warning("API create failed (%v), trying browser fallback", err)
		result, browserErr := d.createInBrowser(ctx, browser.Options{
			Cookie:   cfg.GeoGuessrCookie,
			Email:    cfg.GeoGuessrEmail,
			Password: cfg.GeoGuessrPass,
			MapSlug:  "world",
			Headed:   cfg.Headed,
		})
		if browserErr != nil {
			return fmt.Errorf("could not create challenge: %w", browserErr)
		}
		challengeURL = result.ChallengeURL
		if result.FreshCookie != "" {
			geo = d.newGeoClient(result.FreshCookie)
		}
	}

	challengeID := geoguessr.ChallengeIDFromURL(challengeURL)
	if err := d.store.Save(schedule.Next(run, challengeID)); err != nil {
		logger.Warning("Could not persist run state: %v", err)
	}

	record, err := geo.ChallengeDetails(ctx, challengeID)
	if err != nil {
		logger.Warning("Could not fetch challenge details, using defaults: %v", err)
		record = model.ChallengeRecord{
			ID:        challengeID,
			MapName:   "World",
			TimeLimit: cfg.TimeLimit,
			Rounds:    cfg.Rounds,
		}
	}

	text, blocks := message.Daily(message.DailyInput{
		ChallengeURL: challengeURL,
		MapName:      record.MapName,
		TimeString:   message.TimeString(record.TimeLimit),
		Rounds:       record.Rounds,
		MoveLimit:    record.MoveLimit,
		TodayDate:    run.Today,
		RunNumber:    run.Number,
		ResultsDate:  run.ResultsLabel,
		Leaderboard:  previousResults,
	})

	chat := d.newPoster(cfg.SlackBotToken)
	if _, err := chat.Post(ctx, cfg.SlackChannelID, text, blocks); err != nil {
		return err
	}

	logger.Success("Posted Softhouse Daily Challenge: %s", challengeURL)
	return nil
}
