package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mcoot/playmoney/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Ticket:
		o.printTicket(v)
	case model.GameState:
		o.printGameState(v)
	case ArchiveList:
		o.printArchiveList(v)
	case model.GameSummary:
		o.printSummary(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// ArchiveItem response type
type ArchiveItem struct {
	ID          string    `json:"id"`
	GameID      string    `json:"gameId"`
	Reason      string    `json:"reason"`
	PlayerCount int       `json:"playerCount"`
	EventCount  int       `json:"eventCount"`
	CreatedAt   time.Time `json:"createdAt"`
	EndedAt     time.Time `json:"endedAt"`
}

// ArchiveList response type
type ArchiveList struct {
	Summaries []ArchiveItem `json:"summaries"`
}

// HealthResult response type
type HealthResult struct {
	Status    string `json:"status"`
	LiveGames int    `json:"liveGames"`
}

func (o *Output) printTicket(t Ticket) {
	fmt.Printf("Game: %s\n", t.GameID)
	fmt.Printf("Player: %s\n", t.PlayerID)
	fmt.Printf("Token: %s\n", t.UserToken)
}

func (o *Output) printGameState(s model.GameState) {
	fmt.Printf("Open: %s\n", yesNo(s.Open))
	if s.UseFreeParking {
		fmt.Printf("Free parking: on (%d)\n", s.FreeParkingBalance)
	} else {
		fmt.Println("Free parking: off")
	}
	fmt.Printf("Auctions: %s\n", onOff(s.UseAuctions))
	if a := s.ActiveAuction; a != nil {
		fmt.Printf("Auction: %s, %s\n", a.PropertyName, describeBid(&s, a))
	}
	o.printPlayers(s.Players)
}

func (o *Output) printPlayers(players []model.Player) {
	fmt.Printf("Players (%d):\n", len(players))
	for _, p := range players {
		var tags []string
		if p.IsBanker {
			tags = append(tags, "banker")
		}
		if p.Connected {
			tags = append(tags, "online")
		}
		tagStr := ""
		if len(tags) > 0 {
			tagStr = " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Printf("  - %s (%s): %d%s\n", p.Name, p.ID, p.Balance, tagStr)
	}
}

func (o *Output) printArchiveList(l ArchiveList) {
	if len(l.Summaries) == 0 {
		fmt.Println("No archived games")
		return
	}
	for _, s := range l.Summaries {
		fmt.Printf("%s  game %s  %s  %d players  %d events  ended %s\n",
			s.ID, s.GameID, s.Reason, s.PlayerCount, s.EventCount,
			s.EndedAt.Local().Format("2006-01-02 15:04"))
	}
}

func (o *Output) printSummary(s model.GameSummary) {
	fmt.Printf("Summary: %s\n", s.ID)
	fmt.Printf("Game: %s\n", s.GameID)
	fmt.Printf("Ended: %s (%s)\n", s.EndedAt.Local().Format("2006-01-02 15:04:05"), s.Reason)
	fmt.Printf("Free parking: %d\n", s.FreeParkingBalance)
	o.printPlayers(s.Players)
	for _, p := range removedPlayers(s) {
		fmt.Printf("Removed: %s with a balance of %d\n", p.Name, p.Balance)
	}
	fmt.Printf("Events: %d\n", len(s.Events))
}

// removedPlayers lists the players no longer in the final state, as they
// stood when they were removed
func removedPlayers(s model.GameSummary) []model.Player {
	final := model.GameState{Players: s.Players}
	seen := make(map[model.PlayerID]bool)
	var removed []model.Player
	for _, e := range s.Events {
		p, ok := e.Payload.(model.PlayerDelete)
		if !ok || seen[p.PlayerID] || final.HasPlayer(p.PlayerID) {
			continue
		}
		seen[p.PlayerID] = true
		if player, ok := standingAtRemoval(s.Events, p.PlayerID); ok {
			removed = append(removed, player)
		}
	}
	return removed
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
	fmt.Printf("Live games: %d\n", h.LiveGames)
}

// describeEvent renders an event using the names known in the state it applies to
func describeEvent(s *model.GameState, e model.Event) string {
	actor := playerName(s, e.ActionedBy)

	switch p := e.Payload.(type) {
	case model.PlayerJoin:
		return fmt.Sprintf("%s joined", p.Name)
	case model.PlayerDelete:
		return fmt.Sprintf("%s removed %s", actor, playerName(s, p.PlayerID))
	case model.PlayerNameChange:
		return fmt.Sprintf("%s is now called %s", playerName(s, p.PlayerID), p.Name)
	case model.PlayerAvatarChange:
		return fmt.Sprintf("%s changed avatar to %s", playerName(s, p.PlayerID), p.Avatar)
	case model.PlayerBankerStatusChange:
		if p.IsBanker {
			return fmt.Sprintf("%s is now a banker", playerName(s, p.PlayerID))
		}
		return fmt.Sprintf("%s is no longer a banker", playerName(s, p.PlayerID))
	case model.PlayerConnectionChange:
		if p.Connected {
			return fmt.Sprintf("%s connected", playerName(s, p.PlayerID))
		}
		return fmt.Sprintf("%s disconnected", playerName(s, p.PlayerID))
	case model.Transaction:
		return fmt.Sprintf("%s: %s paid %d to %s", actor, entityName(s, p.From), p.Amount, entityName(s, p.To))
	case model.GameOpenStateChange:
		if p.Open {
			return fmt.Sprintf("%s opened the game", actor)
		}
		return fmt.Sprintf("%s closed the game", actor)
	case model.UseFreeParkingChange:
		return fmt.Sprintf("%s turned free parking %s", actor, onOff(p.UseFreeParking))
	case model.UseAuctionsChange:
		return fmt.Sprintf("%s turned auctions %s", actor, onOff(p.UseAuctions))
	case model.AuctionStart:
		return fmt.Sprintf("%s started an auction for %s at %d", actor, p.PropertyName, p.StartingPrice)
	case model.AuctionBid:
		return fmt.Sprintf("%s bid %d", playerName(s, p.BidderID), p.Amount)
	case model.AuctionEnd:
		if p.Cancelled {
			return fmt.Sprintf("%s cancelled the auction", actor)
		}
		if a := s.ActiveAuction; a != nil {
			return fmt.Sprintf("%s closed the auction for %s, %s", actor, a.PropertyName, describeBid(s, a))
		}
		return fmt.Sprintf("%s closed the auction", actor)
	case nil:
		return "empty event"
	}
	return string(e.Type())
}

func describeBid(s *model.GameState, a *model.Auction) string {
	if a.HighestBidderID == nil {
		return fmt.Sprintf("no bids, starting at %d", a.StartingPrice)
	}
	return fmt.Sprintf("highest bid %d by %s", a.HighestBid, playerName(s, *a.HighestBidderID))
}

func playerName(s *model.GameState, id model.PlayerID) string {
	if p := s.GetPlayer(id); p != nil {
		return p.Name
	}
	return string(id)
}

func entityName(s *model.GameState, e model.Entity) string {
	switch e {
	case model.EntityBank:
		return "the bank"
	case model.EntityFreeParking:
		return "free parking"
	}
	return playerName(s, e.PlayerID())
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
