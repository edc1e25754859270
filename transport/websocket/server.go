package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/pkg"
)

const writeTimeout = 5 * time.Second

var errNoSession = errors.New("no session on this connection, send session:new first")

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error)
	ResetGame(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

// client is the per-connection state. A connection owns at most one session.
type client struct {
	conn      *websocket.Conn
	sessionID string
}

type handlerFunc func(ctx context.Context, c *client, msg *Message) (ResponsePayload, error)

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase

	// host patterns of pages allowed to connect from another origin
	originPatterns []string

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, sessions sessionUseCase, originPatterns []string) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,

		originPatterns: originPatterns,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionSessionNew] = server.handleNewSession
	server.handlers[actionSessionState] = server.handleSessionState
	server.handlers[actionGameMove] = server.handleMove
	server.handlers[actionGameReset] = server.handleReset

	return server
}

func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.handleConnection)

	return mux
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	return pkg.RunHTTPServer(ctx, srv)
}

func (that *Server) handleConnection(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handleConnection")

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: that.originPatterns,
	})
	if err != nil {
		log.Error("failed to accept websocket", "error", err)
		return
	}
	defer conn.Close(websocket.StatusInternalError, "")

	log.Info("WebSocket connection established")

	c := &client{conn: conn}
	defer that.endSession(c)

	err = that.handleMessages(r.Context(), c)

	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		log.Info("WebSocket connection closed")
		conn.Close(websocket.StatusNormalClosure, "")
	default:
		if !errors.Is(err, context.Canceled) {
			log.Error("error handling messages", "error", err)
		}
	}
}

// handleMessages - processes messages from the client until the connection closes.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			if err = that.send(ctx, c, actionError, ResponsePayload{Error: "invalid message"}); err != nil {
				return err
			}
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			if err = that.send(ctx, c, message.Action, ResponsePayload{Error: "unknown action"}); err != nil {
				return err
			}
			continue
		}

		payload, err := handler(ctx, c, &message)
		if err != nil {
			log.Debug("error processing message", "action", message.Action, "error", err)
			payload = ResponsePayload{Error: err.Error()}
		}

		if err = that.send(ctx, c, message.Action, payload); err != nil {
			return err
		}
	}
}

func (that *Server) send(ctx context.Context, c *client, action string, payload ResponsePayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	responseBytes, err := json.Marshal(Message{Action: action, Payload: payloadJSON})
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err = c.conn.Write(writeCtx, websocket.MessageText, responseBytes); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) endSession(c *client) {
	if c.sessionID == "" {
		return
	}

	// the request context is already done once the connection is gone
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := that.sessions.EndSession(ctx, c.sessionID); err != nil {
		that.logger.Error("failed to end session", "session_id", c.sessionID, "error", err)
	}
}
