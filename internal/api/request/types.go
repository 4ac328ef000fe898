package request

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Name string `json:"name"`
}

// JoinGameRequest is the request body for joining a game
type JoinGameRequest struct {
	Name string `json:"name"`
}
