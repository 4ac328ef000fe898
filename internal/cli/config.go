package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL  string
	GameID     string
	Token      string
	PlayerID   string
	TicketFile string
	Output     string
	Verbose    bool
}

// Ticket is what the server hands out on create or join
type Ticket struct {
	GameID    string `json:"gameId"`
	UserToken string `json:"userToken"`
	PlayerID  string `json:"playerId"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:  getEnvOrDefault("PMONEY_SERVER", "http://localhost:8080"),
		GameID:     os.Getenv("PMONEY_GAME"),
		Token:      os.Getenv("PMONEY_TOKEN"),
		TicketFile: getEnvOrDefault("PMONEY_TICKET_FILE", defaultTicketFile()),
		Output:     "text",
		Verbose:    false,
	}
}

// LoadTicket fills whatever was not given by flag or env from the ticket file
func (c *Config) LoadTicket() error {
	if c.GameID != "" && c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TicketFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No ticket file is fine
		}
		return err
	}

	var t Ticket
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}

	// A ticket only holds together as a whole
	if c.GameID != "" && c.GameID != t.GameID {
		return nil
	}
	c.GameID = t.GameID
	if c.Token == "" {
		c.Token = t.UserToken
		c.PlayerID = t.PlayerID
	}
	return nil
}

// SaveTicket saves the ticket to the ticket file
func (c *Config) SaveTicket(t Ticket) error {
	c.GameID = t.GameID
	c.Token = t.UserToken
	c.PlayerID = t.PlayerID

	dir := filepath.Dir(c.TicketFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(c.TicketFile, data, 0600)
}

// RequireTicket returns an error unless a game and token are known
func (c *Config) RequireTicket() error {
	if c.GameID == "" || c.Token == "" {
		return errors.New("no game ticket: run \"pmoney game create\" or \"pmoney game join\" first")
	}
	return nil
}

func defaultTicketFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".pmoney/ticket.json"
	}
	return filepath.Join(home, ".pmoney", "ticket.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
