package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/mcoot/playmoney/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Largest message accepted from a client
	maxMessageSize = 64 * 1024

	// DefaultIdleTimeout closes connections that send nothing, not even a heartbeat
	DefaultIdleTimeout = 2 * time.Minute
)

// WSOptions configures the WebSocket transport
type WSOptions struct {
	// OriginPatterns are host patterns allowed to open cross-origin connections
	OriginPatterns []string
	// IdleTimeout is how long a connection may stay silent before it is considered dead
	IdleTimeout time.Duration
}

// WSServer serves the live event stream over WebSocket. The first message on
// a connection must authenticate it; after that the server pushes the log and
// accepts proposals until either side goes away.
type WSServer struct {
	lookup Lookup
	opts   WSOptions
	logger *slog.Logger
}

// NewWSServer creates a new WSServer
func NewWSServer(lookup Lookup, opts WSOptions, logger *slog.Logger) *WSServer {
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	return &WSServer{
		lookup: lookup,
		opts:   opts,
		logger: logger.With(slog.String("component", "websocket")),
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes
func (s *WSServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.opts.OriginPatterns,
	})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	defer func() { _ = conn.Close(websocket.StatusInternalError, "unexpected exit") }()
	conn.SetReadLimit(maxMessageSize)

	ctx := context.WithoutCancel(r.Context())

	session, client, err := s.authenticate(ctx, conn)
	if err != nil {
		s.logger.Info("websocket authentication failed", slog.Any("error", err))
		_ = conn.Close(websocket.StatusPolicyViolation, "authentication failed")
		return
	}

	logger := s.logger.With(slog.String("player_id", string(client.PlayerID())))

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(ctx, conn, client, logger)
	}()

	s.readLoop(ctx, conn, session, client, logger)

	client.Close()
	<-writerDone
	session.Unsubscribe(client)
}

// authenticate waits for the auth message and subscribes its credential.
// Heartbeats may arrive first; anything else closes the connection.
func (s *WSServer) authenticate(ctx context.Context, conn *websocket.Conn) (Session, *Client, error) {
	var msg Incoming
	for {
		var err error
		msg, err = s.read(ctx, conn)
		if err != nil {
			return nil, nil, err
		}
		if msg.Type != MessageHeartBeat {
			break
		}
	}
	if msg.Type != MessageAuth {
		return nil, nil, model.ErrUnauthorized
	}

	session, err := s.lookup(msg.GameID)
	if err != nil {
		return nil, nil, err
	}
	client, err := session.Subscribe(msg.UserToken)
	if err != nil {
		return nil, nil, err
	}
	return session, client, nil
}

// readLoop dispatches client messages until the connection fails or goes idle
func (s *WSServer) readLoop(ctx context.Context, conn *websocket.Conn, session Session, client *Client, logger *slog.Logger) {
	for {
		msg, err := s.read(ctx, conn)
		if err != nil {
			if !client.Closed() {
				logger.Info("websocket read ended", slog.Any("error", err))
			}
			return
		}

		switch msg.Type {
		case MessageProposeEvent:
			var e model.Event
			if err := json.Unmarshal(msg.Event, &e); err != nil {
				logger.Debug("malformed event dropped", slog.Any("error", err))
				continue
			}
			reason, err := session.Propose(ctx, client.Credential(), e)
			if err != nil {
				logger.Info("proposal failed", slog.Any("error", err))
				return
			}
			if !reason.Admitted() {
				logger.Debug("event rejected",
					slog.String("event_type", string(e.Type())),
					slog.String("reason", string(reason)))
			}

		case MessageProposeEndGame:
			err := session.EndGame(ctx, client.Credential())
			if errors.Is(err, model.ErrNotBanker) {
				logger.Debug("end game rejected", slog.Any("error", err))
				continue
			}
			if err != nil {
				logger.Info("end game failed", slog.Any("error", err))
				return
			}

		case MessageHeartBeat, MessageAuth:
			// Reading it already reset the idle timer

		default:
			logger.Debug("unknown message dropped", slog.String("message_type", string(msg.Type)))
		}
	}
}

// writeLoop writes queued frames until the client is closed, then flushes
// whatever is still queued and closes the connection
func (s *WSServer) writeLoop(ctx context.Context, conn *websocket.Conn, client *Client, logger *slog.Logger) {
	for {
		select {
		case frame := <-client.Send():
			if err := s.write(ctx, conn, frame); err != nil {
				logger.Info("websocket write failed", slog.Any("error", err))
				client.Close()
				return
			}

		case <-client.Done():
			for _, frame := range client.Drain() {
				if err := s.write(ctx, conn, frame); err != nil {
					return
				}
			}
			_ = conn.Close(websocket.StatusNormalClosure, "")
			return
		}
	}
}

// read returns the next message, or an error if none arrives within the idle timeout.
// Messages that are not valid JSON are skipped.
func (s *WSServer) read(ctx context.Context, conn *websocket.Conn) (Incoming, error) {
	for {
		readCtx, cancel := context.WithTimeout(ctx, s.opts.IdleTimeout)
		_, data, err := conn.Read(readCtx)
		cancel()
		if err != nil {
			return Incoming{}, err
		}

		var msg Incoming
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Debug("malformed message dropped", slog.Any("error", err))
			continue
		}
		return msg, nil
	}
}

func (s *WSServer) write(ctx context.Context, conn *websocket.Conn, frame Frame) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, frame.Data)
}
