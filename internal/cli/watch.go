package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/realtime"
	"github.com/mcoot/playmoney/internal/services/ledger"
)

// Time between heartbeats sent to keep the connection alive
const heartbeatPeriod = 30 * time.Second

func newWatchCmd() *cobra.Command {
	var (
		jsonOutput bool
		useSSE     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the game live",
		Long: `Connect to the game's live stream and print every event as it is applied.

The whole history is replayed first. By default the WebSocket endpoint is
used; --sse reads the server-sent event stream instead.

Press Ctrl+C to disconnect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.RequireTicket(); err != nil {
				return err
			}

			// Set up cancellation
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := newWatcher(model.PlayerID(cfg.PlayerID), jsonOutput, NewOutput(cfg.Output))
			var err error
			if useSSE {
				err = w.streamSSE(ctx)
			} else {
				err = w.streamWS(ctx)
			}
			if ctx.Err() != nil {
				err = nil
			}
			if !jsonOutput {
				fmt.Println("Disconnected")
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.Flags().BoolVar(&useSSE, "sse", false, "Use server-sent events instead of WebSocket")

	return cmd
}

// watcher folds the stream into a local copy of the state so events can be
// printed with player names. self is the watching player, if known.
type watcher struct {
	self       model.PlayerID
	events     []model.Event
	state      model.GameState
	jsonOutput bool
	out        *Output
}

func newWatcher(self model.PlayerID, jsonOutput bool, out *Output) *watcher {
	return &watcher{self: self, state: model.DefaultGameState(), jsonOutput: jsonOutput, out: out}
}

func (w *watcher) streamWS(ctx context.Context) error {
	conn, _, err := websocket.Dial(ctx, wsURL(cfg.ServerURL), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	if err := wsjson.Write(ctx, conn, realtime.Incoming{
		Type:      realtime.MessageAuth,
		GameID:    model.GameID(cfg.GameID),
		UserToken: model.Credential(cfg.Token),
	}); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	if !w.jsonOutput {
		fmt.Printf("Connected to game %s\n", cfg.GameID)
	}

	go func() {
		ticker := time.NewTicker(heartbeatPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := wsjson.Write(ctx, conn, realtime.Incoming{Type: realtime.MessageHeartBeat}); err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg realtime.Outgoing
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		if done := w.handle(msg); done {
			return nil
		}
	}
}

func (w *watcher) streamSSE(ctx context.Context) error {
	target := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/game/" + url.PathEscape(cfg.GameID) + "/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Authorization", "Bearer "+cfg.Token)

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if !w.jsonOutput {
		fmt.Printf("Connected to game %s\n", cfg.GameID)
	}

	// Parse SSE stream
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "" && len(dataLines) > 0:
			// End of event
			var msg realtime.Outgoing
			if err := json.Unmarshal([]byte(strings.Join(dataLines, "\n")), &msg); err != nil {
				return fmt.Errorf("malformed event: %w", err)
			}
			dataLines = nil
			if done := w.handle(msg); done {
				return nil
			}
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stream error: %w", err)
	}
	return nil
}

// handle prints one message and returns true once the game has ended
func (w *watcher) handle(msg realtime.Outgoing) bool {
	switch msg.Type {
	case realtime.MessageInitialEventArray:
		for _, e := range msg.Events {
			w.print(e)
		}
	case realtime.MessageNewEvent:
		if msg.Event == nil {
			break
		}
		w.print(*msg.Event)
		// The server drops a removed player's connection right after this
		if p, ok := msg.Event.Payload.(model.PlayerDelete); ok && w.self != "" && p.PlayerID == w.self {
			if standing, ok := standingAtRemoval(w.events, w.self); ok {
				w.out.PrintMessage(fmt.Sprintf("You were removed from the game with a balance of %d", standing.Balance))
			}
			return true
		}
	case realtime.MessageGameEnd:
		w.out.PrintMessage("Game ended")
		return true
	}
	return false
}

func (w *watcher) print(e model.Event) {
	// Describe against the state before the event so removed players keep their names
	line := describeEvent(&w.state, e)
	w.state = ledger.Apply(w.state, e)
	w.events = append(w.events, e)

	if w.jsonOutput {
		data, _ := json.Marshal(e)
		fmt.Println(string(data))
		return
	}
	fmt.Printf("[%s] %s\n", e.Time.Local().Format("2006-01-02 15:04:05"), line)
}

// standingAtRemoval returns how a player stood just before their last removal
func standingAtRemoval(events []model.Event, id model.PlayerID) (model.Player, bool) {
	for i := len(events) - 1; i >= 0; i-- {
		if p, ok := events[i].Payload.(model.PlayerDelete); ok && p.PlayerID == id {
			before := ledger.StateBefore(events, i)
			if player := before.GetPlayer(id); player != nil {
				return *player, true
			}
			return model.Player{}, false
		}
	}
	return model.Player{}, false
}

// wsURL maps the server's HTTP URL to its WebSocket endpoint
func wsURL(serverURL string) string {
	base := strings.TrimSuffix(serverURL, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/api/events"
}
