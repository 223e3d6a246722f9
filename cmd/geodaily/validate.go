package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/geoguessr"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
)

// newValidateCmd vérifie que le cookie GeoGuessr est encore accepté
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the GeoGuessr session cookie still works",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.GeoGuessrCookie == "" {
				return fmt.Errorf("GEOGUESSR_COOKIE not set")
			}

			geo := geoguessr.New(cfg.GeoGuessrCookie, geoguessr.WithFallbackMapID(cfg.FallbackMapID))
			ok, detail := geo.ValidateCookie(cmd.Context())
			if !ok {
				return fmt.Errorf("%s", detail)
			}
			logger.Success("%s", detail)
			return nil
		},
	}
}
