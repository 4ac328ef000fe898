package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/playmoney/internal/model"
)

// Client talks to the play-money JSON API as one player
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client. token may be empty for calls that
// need no credential.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is an error response from the server
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

// Do sends body as JSON and decodes the response into result. Any status of
// 400 or above comes back as an *APIError.
func (c *Client) Do(method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var env errorEnvelope
		if err := json.Unmarshal(respBody, &env); err != nil || env.Error.Code == "" {
			return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
		}
		env.Error.Status = resp.StatusCode
		return &env.Error
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// Get performs a GET request
func (c *Client) Get(path string, result any) error {
	return c.Do(http.MethodGet, path, nil, result)
}

// Post performs a POST request
func (c *Client) Post(path string, body, result any) error {
	return c.Do(http.MethodPost, path, body, result)
}

// CreateGame starts a new game with the caller as banker
func (c *Client) CreateGame(name string) (Ticket, error) {
	var t Ticket
	err := c.Post("/api/game", map[string]string{"name": name}, &t)
	return t, err
}

// JoinGame joins an open game
func (c *Client) JoinGame(gameID, name string) (Ticket, error) {
	var t Ticket
	err := c.Post(gamePath(gameID, ""), map[string]string{"name": name}, &t)
	return t, err
}

// State returns the current state of the game
func (c *Client) State(gameID string) (model.GameState, error) {
	var state model.GameState
	err := c.Get(gamePath(gameID, ""), &state)
	return state, err
}

// Propose sends an event to the game. The server accepts every proposal from
// a player of the game; whether it was applied shows on the live stream.
func (c *Client) Propose(gameID string, p model.Payload) error {
	return c.Post(gamePath(gameID, "/events"), model.Event{Payload: p}, nil)
}

// EndGame asks the server to end the game. Only a banker's request has an effect.
func (c *Client) EndGame(gameID string) error {
	return c.Post(gamePath(gameID, "/end"), nil, nil)
}

// Archive lists ended games, newest first
func (c *Client) Archive(gameID string, limit int) (ArchiveList, error) {
	query := url.Values{}
	if gameID != "" {
		query.Set("gameId", gameID)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	path := "/api/archive"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var list ArchiveList
	err := c.Get(path, &list)
	return list, err
}

// Summary returns one archived game
func (c *Client) Summary(id string) (model.GameSummary, error) {
	var summary model.GameSummary
	err := c.Get("/api/archive/"+url.PathEscape(id), &summary)
	return summary, err
}

// DeleteSummary removes one archived game. The client's token must be the
// server's archive admin token.
func (c *Client) DeleteSummary(id string) error {
	return c.Do(http.MethodDelete, "/api/archive/"+url.PathEscape(id), nil, nil)
}

// Health checks that the server is up
func (c *Client) Health() (HealthResult, error) {
	var result HealthResult
	err := c.Get("/api/health", &result)
	return result, err
}

func gamePath(gameID, suffix string) string {
	return "/api/game/" + url.PathEscape(gameID) + suffix
}
