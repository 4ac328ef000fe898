package realtime

import (
	"sync"
	"time"

	"github.com/mcoot/playmoney/internal/model"
)

// DefaultSendBufferSize is the number of frames a client may fall behind before it is dropped
const DefaultSendBufferSize = 256

// Client is one live connection of a player. Frames are queued without
// blocking; the transport drains them from Send until Done is closed.
type Client struct {
	playerID    model.PlayerID
	credential  model.Credential
	connectedAt time.Time

	send      chan Frame
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a new client with the given buffer size
func NewClient(playerID model.PlayerID, credential model.Credential, bufferSize int, connectedAt time.Time) *Client {
	if bufferSize <= 0 {
		bufferSize = DefaultSendBufferSize
	}
	return &Client{
		playerID:    playerID,
		credential:  credential,
		connectedAt: connectedAt,
		send:        make(chan Frame, bufferSize),
		done:        make(chan struct{}),
	}
}

// PlayerID returns the player this connection acts for
func (c *Client) PlayerID() model.PlayerID {
	return c.playerID
}

// Credential returns the credential the connection authenticated with
func (c *Client) Credential() model.Credential {
	return c.credential
}

// ConnectedAt returns when the connection subscribed
func (c *Client) ConnectedAt() time.Time {
	return c.connectedAt
}

// Send returns the queue of frames to write to the connection
func (c *Client) Send() <-chan Frame {
	return c.send
}

// Done is closed once the connection should be shut down
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close marks the client as finished. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Closed returns true once Close has been called
func (c *Client) Closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Drain returns the frames still queued, without blocking
func (c *Client) Drain() []Frame {
	var frames []Frame
	for {
		select {
		case f := <-c.send:
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

// enqueue queues a frame without blocking. A client whose buffer is full
// is closed, since it can no longer follow the log.
func (c *Client) enqueue(f Frame) bool {
	if c.Closed() {
		return false
	}
	select {
	case c.send <- f:
		return true
	default:
		c.Close()
		return false
	}
}
