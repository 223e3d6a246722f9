package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/config"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "geodaily",
		Short:         "Posts the Softhouse daily GeoGuessr challenge to Slack",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newCreateCmd(),
		newResultsCmd(),
		newPurgeCmd(),
		newStateCmd(),
		newTodayCmd(),
		newValidateCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

// loadConfig charge la configuration pour toutes les sous-commandes
func loadConfig() (*config.Config, error) {
	return config.LoadConfig()
}
