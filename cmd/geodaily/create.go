package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/browser"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/geoguessr"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
	model "github.com/MassBabyGeek/GeoDaily-bot/internal/models"
)

// newCreateCmd crée un challenge sans rien publier, et affiche son URL
func newCreateCmd() *cobra.Command {
	var useBrowser bool
	var mapSlug string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a challenge and print its URL (no Slack post)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if !useBrowser {
				if cfg.GeoGuessrCookie == "" {
					return fmt.Errorf("GEOGUESSR_COOKIE not set")
				}
				geo := geoguessr.New(cfg.GeoGuessrCookie, geoguessr.WithFallbackMapID(cfg.FallbackMapID))
				challengeURL, err := geo.CreateChallenge(cmd.Context(), model.ChallengeSettings{
					Rounds:      cfg.Rounds,
					TimeLimit:   cfg.TimeLimit,
					AccessLevel: 1,
					AllowGuests: false,
				})
				if err == nil {
					fmt.Println(challengeURL)
					return nil
				}
				logger.Warning("API create failed (%v), trying browser fallback", err)
			}

			result, err := browser.CreateChallenge(cmd.Context(), browser.Options{
				Cookie:   cfg.GeoGuessrCookie,
				Email:    cfg.GeoGuessrEmail,
				Password: cfg.GeoGuessrPass,
				MapSlug:  mapSlug,
				Headed:   cfg.Headed,
			})
			if err != nil {
				return fmt.Errorf("could not create challenge: %w", err)
			}
			fmt.Println(result.ChallengeURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&useBrowser, "browser", false, "skip the REST API and go straight to the browser")
	cmd.Flags().StringVar(&mapSlug, "map", "world", "map slug for the browser flow")
	return cmd
}
