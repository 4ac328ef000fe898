package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

func newArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Browse ended games",
	}

	cmd.AddCommand(newArchiveListCmd())
	cmd.AddCommand(newArchiveShowCmd())
	cmd.AddCommand(newArchiveDeleteCmd())

	return cmd
}

func newArchiveListCmd() *cobra.Command {
	var (
		limit  int
		gameID string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently ended games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Archive(gameID, limit)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of games to list")
	cmd.Flags().StringVar(&gameID, "game-id", "", "Only games that used this game ID")

	return cmd
}

func newArchiveShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an ended game's final balances",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.Summary(args[0])
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newArchiveDeleteCmd() *cobra.Command {
	var adminToken string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an ended game from the archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if adminToken == "" {
				return errors.New("an admin token is required: pass --admin-token or set PMONEY_ADMIN_TOKEN")
			}
			if err := NewClient(cfg.ServerURL, adminToken).DeleteSummary(args[0]); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Deleted " + args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&adminToken, "admin-token", os.Getenv("PMONEY_ADMIN_TOKEN"), "The server's archive admin token")

	return cmd
}
