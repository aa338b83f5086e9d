package cli

import (
	"errors"
	"net/url"

	"github.com/mcoot/spellgame/internal/api/response"
	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player commands",
	}

	cmd.AddCommand(newPlayerStatsCmd())

	return cmd
}

func newPlayerStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [player-id]",
		Short: "Show career stats for a player",
		Long:  "Show career stats for a player. Defaults to the player given by --player-id.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := cfg.PlayerID
			if len(args) == 1 {
				id = args[0]
			}
			if id == "" {
				return errors.New("a player ID is required")
			}

			var result response.PlayerStats
			if err := client.Get(cmd.Context(), "/api/v1/players/"+url.PathEscape(id)+"/stats", &result); err != nil {
				return err
			}

			out.Print(result)
			return nil
		},
	}
}
