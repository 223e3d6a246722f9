package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/logger"
	"github.com/MassBabyGeek/GeoDaily-bot/internal/slack"
)

// newPurgeCmd supprime les anciens messages du bot dans le channel
func newPurgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Delete the bot's own messages in the channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.SlackBotToken == "" || cfg.SlackChannelID == "" {
				return fmt.Errorf("SLACK_BOT_TOKEN and SLACK_CHANNEL_ID must be set")
			}

			chat := slack.New(cfg.SlackBotToken)
			deleted, err := chat.PurgeOwnMessages(cmd.Context(), cfg.SlackChannelID)
			if err != nil {
				return err
			}
			logger.Success("Deleted %d message(s)", deleted)
			return nil
		},
	}
}
