package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/playmoney/internal/model"
)

func newPayCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "pay <to> <amount>",
		Short: "Move money between players, the bank and free parking",
		Long: `Move money between players, the bank and free parking.

<to> and --from accept "bank", "free-parking", "me", a player ID or a player
name. Paying from anyone but yourself needs banker status.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			r := newResolver()
			src, err := r.Entity(from)
			if err != nil {
				return err
			}
			dst, err := r.Entity(args[0])
			if err != nil {
				return err
			}

			return propose(model.Transaction{From: src, To: dst, Amount: amount})
		},
	}

	cmd.Flags().StringVar(&from, "from", "me", "Where the money comes from")

	return cmd
}

func newAuctionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auction",
		Short: "Property auction commands",
	}

	cmd.AddCommand(newAuctionStartCmd())
	cmd.AddCommand(newAuctionBidCmd())
	cmd.AddCommand(newAuctionEndCmd())

	return cmd
}

func newAuctionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <property> <starting-price>",
		Short: "Open an auction (banker only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			price, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || price < 0 {
				return fmt.Errorf("invalid starting price %q", args[1])
			}

			return propose(model.AuctionStart{PropertyName: args[0], StartingPrice: price})
		},
	}
}

func newAuctionBidCmd() *cobra.Command {
	var bidder string

	cmd := &cobra.Command{
		Use:   "bid <amount>",
		Short: "Bid in the active auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}

			id, err := newResolver().Player(bidder)
			if err != nil {
				return err
			}

			return propose(model.AuctionBid{BidderID: id, Amount: amount})
		},
	}

	cmd.Flags().StringVar(&bidder, "bidder", "me", "Player bidding")

	return cmd
}

func newAuctionEndCmd() *cobra.Command {
	var cancel bool

	cmd := &cobra.Command{
		Use:   "end",
		Short: "Close the active auction; the highest bidder pays (banker only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			return propose(model.AuctionEnd{Cancelled: cancel})
		},
	}

	cmd.Flags().BoolVar(&cancel, "cancel", false, "Close without a sale")

	return cmd
}

func parseAmount(s string) (int64, error) {
	amount, err := strconv.ParseInt(s, 10, 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("amount must be a positive whole number, got %q", s)
	}
	return amount, nil
}
