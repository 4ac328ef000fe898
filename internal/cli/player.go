package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/playmoney/internal/model"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRenameCmd())
	cmd.AddCommand(newPlayerAvatarCmd())
	cmd.AddCommand(newPlayerBankerCmd())
	cmd.AddCommand(newPlayerKickCmd())
	cmd.AddCommand(newPlayerLeaveCmd())

	return cmd
}

func newPlayerRenameCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "rename <name>",
		Short: "Change your name, or another player's as banker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			id, err := newResolver().Player(player)
			if err != nil {
				return err
			}

			return propose(model.PlayerNameChange{PlayerID: id, Name: args[0]})
		},
	}

	cmd.Flags().StringVar(&player, "player", "me", "Player to rename")

	return cmd
}

func newPlayerAvatarCmd() *cobra.Command {
	var player string

	cmd := &cobra.Command{
		Use:   "avatar <avatar>",
		Short: "Change your avatar, or another player's as banker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			id, err := newResolver().Player(player)
			if err != nil {
				return err
			}

			return propose(model.PlayerAvatarChange{PlayerID: id, Avatar: args[0]})
		},
	}

	cmd.Flags().StringVar(&player, "player", "me", "Player whose avatar to change")

	return cmd
}

func newPlayerBankerCmd() *cobra.Command {
	var revoke bool

	cmd := &cobra.Command{
		Use:   "banker <player>",
		Short: "Grant or revoke banker status (banker only)",
		Long: `Grant or revoke banker status (banker only).

The game ends when its last banker steps down.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			id, err := newResolver().Player(args[0])
			if err != nil {
				return err
			}

			return propose(model.PlayerBankerStatusChange{PlayerID: id, IsBanker: !revoke})
		},
	}

	cmd.Flags().BoolVar(&revoke, "revoke", false, "Revoke instead of grant")

	return cmd
}

func newPlayerKickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kick <player>",
		Short: "Remove a player from the game (banker only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			id, err := newResolver().Player(args[0])
			if err != nil {
				return err
			}

			return propose(model.PlayerDelete{PlayerID: id})
		},
	}
}

func newPlayerLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave",
		Short: "Leave the game; your ticket stops working",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			id, err := newResolver().Player("me")
			if err != nil {
				return err
			}

			return propose(model.PlayerDelete{PlayerID: id})
		},
	}
}
