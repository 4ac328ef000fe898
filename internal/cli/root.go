package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "pmoney",
		Short: "CLI tool for the play-money bank",
		Long: `pmoney is a CLI tool for the play-money bank JSON API.

Create or join a game to get a ticket; the ticket is saved and used by every
later command. Money moves, player changes and house rules are proposed to
the server, which applies only what the proposing player is allowed to do.
Use "pmoney watch" to follow a game live.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load ticket from file if not provided via flag/env
			if err := cfg.LoadTicket(); err != nil {
				return err
			}

			// Create HTTP client
			client = NewClient(cfg.ServerURL, cfg.Token)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PMONEY_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.GameID, "game", cfg.GameID, "Game ID (env: PMONEY_GAME)")
	rootCmd.PersistentFlags().StringVar(&cfg.Token, "token", cfg.Token, "Player token (env: PMONEY_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&cfg.TicketFile, "ticket-file", cfg.TicketFile, "Ticket file path (env: PMONEY_TICKET_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newPlayerCmd())
	rootCmd.AddCommand(newPayCmd())
	rootCmd.AddCommand(newAuctionCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newArchiveCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
