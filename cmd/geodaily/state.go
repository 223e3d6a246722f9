package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MassBabyGeek/GeoDaily-bot/internal/state"
)

// newStateCmd affiche l'état persisté (debug)
func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the stored run state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			st, err := state.FromConfig(cfg).Load()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
