package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/playmoney/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameStateCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameOpenCmd())
	cmd.AddCommand(newGameFreeParkingCmd())
	cmd.AddCommand(newGameAuctionsCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new game and become its banker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.CreateGame(args[0])
			if err != nil {
				return err
			}

			// Save ticket
			if err := cfg.SaveTicket(result); err != nil {
				return fmt.Errorf("failed to save ticket: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <gameId> <name>",
		Short: "Join an open game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := client.JoinGame(args[0], args[1])
			if err != nil {
				return err
			}

			// Save ticket
			if err := cfg.SaveTicket(result); err != nil {
				return fmt.Errorf("failed to save ticket: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show balances and house rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			state, err := client.State(cfg.GameID)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(state)
			return nil
		},
	}
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the game for everyone (banker only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			if err := client.EndGame(cfg.GameID); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("End of game requested")
			return nil
		},
	}
}

func newGameOpenCmd() *cobra.Command {
	return newSwitchCmd("open", "Allow or refuse new players (banker only)", func(on bool) model.Payload {
		return model.GameOpenStateChange{Open: on}
	})
}

func newGameFreeParkingCmd() *cobra.Command {
	return newSwitchCmd("free-parking", "Turn the free parking house rule on or off (banker only)", func(on bool) model.Payload {
		return model.UseFreeParkingChange{UseFreeParking: on}
	})
}

func newGameAuctionsCmd() *cobra.Command {
	return newSwitchCmd("auctions", "Turn property auctions on or off (banker only)", func(on bool) model.Payload {
		return model.UseAuctionsChange{UseAuctions: on}
	})
}

// newSwitchCmd builds a command proposing an on/off house rule change
func newSwitchCmd(use, short string, payload func(on bool) model.Payload) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <on|off>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			on, err := parseSwitch(args[0])
			if err != nil {
				return err
			}

			return propose(payload(on))
		},
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	on, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return on, nil
}

// propose sends an event and reports that it was sent
func propose(p model.Payload) error {
	if err := client.Propose(cfg.GameID, p); err != nil {
		return err
	}

	out := NewOutput(cfg.Output)
	out.PrintMessage(fmt.Sprintf("Proposed %s", p.Type()))
	return nil
}
