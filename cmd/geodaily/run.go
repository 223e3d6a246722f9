package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/daily"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/schedule"
)

// newRunCmd exécute le cycle quotidien complet. Hors de la fenêtre de
// publication (jours ouvrés, heures configurées), la commande sort
// immédiatement en succès : le scheduler externe la relance toutes les
// heures sans distinction.
func newRunCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Create today's challenge and post it (gated to the posting window)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			now := time.Now()
			if !force && !schedule.InWindow(now, cfg.WindowStart, cfg.WindowEnd) {
				logger.Info("Outside posting window (weekdays %02d:00-%02d:00), nothing to do", cfg.WindowStart, cfg.WindowEnd)
				return nil
			}

			return daily.Run(cmd.Context(), cfg, now)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "run even outside the posting window")
	return cmd
}
