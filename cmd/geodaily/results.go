package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/geoguessr"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/message"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/schedule"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/slack"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/state"
)

// newResultsCmd republie le tableau de résultats du dernier challenge
// stocké, sans en créer un nouveau
func newResultsCmd() *cobra.Command {
	var printOnly bool
	var challengeID string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Fetch and post the results table for the last stored challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.GeoGuessrCookie == "" {
				return fmt.Errorf("GEOGUESSR_COOKIE not set")
			}

			st, _ := state.FromConfig(cfg).Load()
			dateLabel := schedule.DisplayDate(st.LastChallengeDate)
			if challengeID == "" {
				challengeID = st.LastChallengeID
			}
			if challengeID == "" {
				return fmt.Errorf("no stored challenge, pass --challenge explicitly")
			}

			geo := geoguessr.New(cfg.GeoGuessrCookie,
				geoguessr.WithFallbackMapID(cfg.FallbackMapID),
				geoguessr.WithMinRounds(cfg.Rounds))
			if err := geo.EnsurePlayed(cmd.Context(), challengeID); err != nil {
				logger.Warning("Could not play through challenge: %v", err)
			}
			entries, err := geo.Highscores(cmd.Context(), challengeID)
			if err != nil {
				return err
			}

			text, blocks := message.ResultsOnly(entries, dateLabel, challengeID)
			if text == "" {
				logger.Info("No results yet for challenge %s", challengeID)
				return nil
			}

			if printOnly {
				fmt.Println(text)
				return nil
			}

			if cfg.SlackBotToken == "" || cfg.SlackChannelID == "" {
				return fmt.Errorf("SLACK_BOT_TOKEN and SLACK_CHANNEL_ID must be set")
			}
			chat := slack.New(cfg.SlackBotToken)
			if _, err := chat.Post(cmd.Context(), cfg.SlackChannelID, text, blocks); err != nil {
				return err
			}
			logger.Success("Posted results for challenge %s", challengeID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "print the table instead of posting it")
	cmd.Flags().StringVar(&challengeID, "challenge", "", "challenge id (defaults to the last stored one)")
	return cmd
}
