package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/geoguessr"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/message"
)

// newTodayCmd affiche le challenge quotidien officiel de GeoGuessr (celui de
// geoguessr.com, pas celui créé par le bot)
func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's official GeoGuessr daily challenge",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.GeoGuessrCookie == "" {
				return fmt.Errorf("GEOGUESSR_COOKIE not set")
			}

			geo := geoguessr.New(cfg.GeoGuessrCookie, geoguessr.WithFallbackMapID(cfg.FallbackMapID))
			record, err := geo.TodayChallenge(cmd.Context())
			if err != nil {
				return err
			}

			// La limite de temps du challenge quotidien est globale, pas par round
			timeStr := "No time limit"
			if record.TimeLimit > 0 {
				timeStr = fmt.Sprintf("%dm %ds total", record.TimeLimit/60, record.TimeLimit%60)
			}

			fmt.Printf("Map: %s\n", record.MapName)
			fmt.Printf("Time: %s\n", timeStr)
			fmt.Printf("Moves: %s\n", message.MoveLimitString(record.MoveLimit))
			fmt.Printf("Play here: https://www.geoguessr.com/challenge/%s\n", record.ID)
			return nil
		},
	}
}
