package e2e_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/playmoney/internal/api"
	"github.com/mcoot/playmoney/internal/factory"
	"github.com/mcoot/playmoney/internal/model"
	"github.com/mcoot/playmoney/internal/testutil"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	serverURL  string
	ticketFile string
}

func newCLIRunner(t *testing.T, serverURL string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "pmoney-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/pmoney")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		ticketFile: filepath.Join(t.TempDir(), "ticket.json"),
	}
}

// another returns a runner for a second player with its own ticket
func (r *cliRunner) another(t *testing.T) *cliRunner {
	t.Helper()
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		ticketFile: filepath.Join(t.TempDir(), "ticket.json"),
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--ticket-file", r.ticketFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	// Keep the caller's environment from leaking a ticket in
	cmd.Env = append(os.Environ(), "PMONEY_GAME=", "PMONEY_TOKEN=")
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func (r *cliRunner) state(t *testing.T) model.GameState {
	t.Helper()
	output, err := r.run("game", "state")
	require.NoError(t, err, "output: %s", output)

	var state model.GameState
	require.NoError(t, json.Unmarshal([]byte(output), &state))
	return state
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

func startTestServer(t *testing.T) (*httptest.Server, *factory.App) {
	t.Helper()

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	server := httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
		Archive:  app.Storage,
	}))
	t.Cleanup(func() {
		server.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Close(ctx)
	})
	return server, app
}

type ticketResponse struct {
	GameID    string `json:"gameId"`
	UserToken string `json:"userToken"`
	PlayerID  string `json:"playerId"`
}

type healthResponse struct {
	Status    string `json:"status"`
	LiveGames int    `json:"liveGames"`
}

type archiveResponse struct {
	Summaries []struct {
		ID     string `json:"id"`
		GameID string `json:"gameId"`
		Reason string `json:"reason"`
	} `json:"summaries"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts, _ := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 0, resp.LiveGames)
}

func TestCLI_CommandsNeedATicket(t *testing.T) {
	ts, _ := startTestServer(t)
	cli := newCLIRunner(t, ts.URL)

	output, err := cli.run("game", "state")
	require.Error(t, err)
	assert.Contains(t, output, "no game ticket")
}

func TestCLI_FullGameFlow(t *testing.T) {
	ts, _ := startTestServer(t)
	alice := newCLIRunner(t, ts.URL)
	bob := alice.another(t)

	// Alice creates the game and is its banker
	output, err := alice.run("game", "create", "Alice")
	require.NoError(t, err, "output: %s", output)
	var aliceTicket ticketResponse
	require.NoError(t, json.Unmarshal([]byte(output), &aliceTicket))
	require.NotEmpty(t, aliceTicket.GameID)
	require.NotEmpty(t, aliceTicket.UserToken)
	t.Logf("Created game: %s", aliceTicket.GameID)

	// Bob joins by code
	output, err = bob.run("game", "join", aliceTicket.GameID, "Bob")
	require.NoError(t, err, "output: %s", output)
	var bobTicket ticketResponse
	require.NoError(t, json.Unmarshal([]byte(output), &bobTicket))
	assert.Equal(t, aliceTicket.GameID, bobTicket.GameID)

	state := alice.state(t)
	require.Len(t, state.Players, 2)
	assert.True(t, state.IsBanker(model.PlayerID(aliceTicket.PlayerID)))
	assert.False(t, state.IsBanker(model.PlayerID(bobTicket.PlayerID)))

	// The banker pays Bob out of the bank, by name
	output, err = alice.run("pay", "bob", "1500", "--from", "bank")
	require.NoError(t, err, "output: %s", output)

	// Bob pays Alice from his own balance
	output, err = bob.run("pay", "Alice", "200")
	require.NoError(t, err, "output: %s", output)

	// Bob cannot take money from the bank; the proposal is accepted but ignored
	output, err = bob.run("pay", "me", "1000", "--from", "bank")
	require.NoError(t, err, "output: %s", output)

	state = bob.state(t)
	assert.Equal(t, int64(1300), state.GetPlayer(model.PlayerID(bobTicket.PlayerID)).Balance)
	assert.Equal(t, int64(200), state.GetPlayer(model.PlayerID(aliceTicket.PlayerID)).Balance)

	// Bob pays into free parking and the banker pays it out to Alice
	output, err = bob.run("pay", "free-parking", "50")
	require.NoError(t, err, "output: %s", output)
	output, err = alice.run("pay", "me", "50", "--from", "fp")
	require.NoError(t, err, "output: %s", output)

	state = alice.state(t)
	assert.Equal(t, int64(0), state.FreeParkingBalance)
	assert.Equal(t, int64(250), state.GetPlayer(model.PlayerID(aliceTicket.PlayerID)).Balance)

	// Bob renames himself
	output, err = bob.run("player", "rename", "Robert")
	require.NoError(t, err, "output: %s", output)
	state = bob.state(t)
	assert.Equal(t, "Robert", state.GetPlayer(model.PlayerID(bobTicket.PlayerID)).Name)

	// An auction, won by Bob
	output, err = alice.run("game", "auctions", "on")
	require.NoError(t, err, "output: %s", output)
	output, err = alice.run("auction", "start", "Boardwalk", "100")
	require.NoError(t, err, "output: %s", output)
	output, err = bob.run("auction", "bid", "150")
	require.NoError(t, err, "output: %s", output)

	state = alice.state(t)
	require.NotNil(t, state.ActiveAuction)
	assert.Equal(t, "Boardwalk", state.ActiveAuction.PropertyName)
	assert.Equal(t, int64(150), state.ActiveAuction.HighestBid)

	output, err = alice.run("auction", "end")
	require.NoError(t, err, "output: %s", output)
	state = alice.state(t)
	assert.Nil(t, state.ActiveAuction)
	assert.Equal(t, int64(1100), state.GetPlayer(model.PlayerID(bobTicket.PlayerID)).Balance)

	// The banker ends the game; it lands in the archive
	output, err = alice.run("game", "end")
	require.NoError(t, err, "output: %s", output)

	output, err = alice.run("game", "state")
	require.Error(t, err, "output: %s", output)

	output, err = alice.run("archive", "list", "--game-id", aliceTicket.GameID)
	require.NoError(t, err, "output: %s", output)
	var archive archiveResponse
	require.NoError(t, json.Unmarshal([]byte(output), &archive))
	require.Len(t, archive.Summaries, 1)
	assert.Equal(t, aliceTicket.GameID, archive.Summaries[0].GameID)
	assert.Equal(t, string(model.EndReasonBankerEnded), archive.Summaries[0].Reason)

	output, err = alice.run("archive", "show", archive.Summaries[0].ID)
	require.NoError(t, err, "output: %s", output)
	var summary model.GameSummary
	require.NoError(t, json.Unmarshal([]byte(output), &summary))
	assert.Len(t, summary.Players, 2)
}

func TestCLI_KickedPlayerLosesAccess(t *testing.T) {
	ts, _ := startTestServer(t)
	alice := newCLIRunner(t, ts.URL)
	bob := alice.another(t)

	output, err := alice.run("game", "create", "Alice")
	require.NoError(t, err, "output: %s", output)
	var ticket ticketResponse
	require.NoError(t, json.Unmarshal([]byte(output), &ticket))

	output, err = bob.run("game", "join", ticket.GameID, "Bob")
	require.NoError(t, err, "output: %s", output)

	// Closing the game refuses new players
	output, err = alice.run("game", "open", "off")
	require.NoError(t, err, "output: %s", output)
	carol := alice.another(t)
	output, err = carol.run("game", "join", ticket.GameID, "Carol")
	require.Error(t, err, "output: %s", output)

	output, err = alice.run("player", "kick", "Bob")
	require.NoError(t, err, "output: %s", output)

	output, err = bob.run("game", "state")
	require.Error(t, err, "output: %s", output)

	state := alice.state(t)
	assert.Len(t, state.Players, 1)
}
