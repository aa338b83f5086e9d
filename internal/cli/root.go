package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
	out    *Output
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var envErr error
	cfg, envErr = DefaultConfig()
	if envErr != nil {
		cfg = &Config{ServerURL: "http://localhost:8080", Output: "text"}
	}

	rootCmd := &cobra.Command{
		Use:   "spella",
		Short: "CLI tool for the spelling game API",
		Long: `spella is a CLI tool for interacting with the spelling game JSON API.

It covers session management, round play, career stats and real-time
SSE event streaming. Requests act as the player named by --player-id.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return envErr
			}
			if cfg.Output != "text" && cfg.Output != "json" {
				return errors.New("--output must be text or json")
			}
			client = NewClient(cfg.ServerURL, cfg.PlayerID, cfg.PlayerName)
			out = NewOutput(cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: SPELLA_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerID, "player-id", cfg.PlayerID, "Player ID sent with requests (env: SPELLA_PLAYER_ID)")
	rootCmd.PersistentFlags().StringVar(&cfg.PlayerName, "player-name", cfg.PlayerName, "Display name sent with requests (env: SPELLA_PLAYER_NAME)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
