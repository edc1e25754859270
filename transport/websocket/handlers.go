package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
)

var errCellRequired = errors.New("cell is required")

func (that *Server) handleNewSession(ctx context.Context, c *client, _ *Message) (ResponsePayload, error) {
	// a connection plays one session at a time
	that.endSession(c)
	c.sessionID = ""

	session, err := that.sessions.CreateSession(ctx)
	if err != nil {
		that.logger.Error("failed to create session", "error", err)
		return ResponsePayload{}, errors.New("failed to create a new session")
	}

	c.sessionID = session.ID

	return sessionPayload(session), nil
}

func (that *Server) handleSessionState(ctx context.Context, c *client, _ *Message) (ResponsePayload, error) {
	if c.sessionID == "" {
		return ResponsePayload{}, errNoSession
	}

	session, err := that.sessions.GetSession(ctx, c.sessionID)
	if err != nil {
		return ResponsePayload{}, that.clientError(err)
	}

	return sessionPayload(session), nil
}

func (that *Server) handleMove(ctx context.Context, c *client, msg *Message) (ResponsePayload, error) {
	if c.sessionID == "" {
		return ResponsePayload{}, errNoSession
	}

	var payload MovePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return ResponsePayload{}, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.Cell == nil {
		return ResponsePayload{}, errCellRequired
	}

	session, err := that.sessions.MakeMove(ctx, c.sessionID, *payload.Cell)
	if err != nil {
		return ResponsePayload{}, that.clientError(err)
	}

	return sessionPayload(session), nil
}

func (that *Server) handleReset(ctx context.Context, c *client, _ *Message) (ResponsePayload, error) {
	if c.sessionID == "" {
		return ResponsePayload{}, errNoSession
	}

	session, err := that.sessions.ResetGame(ctx, c.sessionID)
	if err != nil {
		return ResponsePayload{}, that.clientError(err)
	}

	return sessionPayload(session), nil
}

// clientError keeps known errors and hides the rest behind a generic message.
func (that *Server) clientError(err error) error {
	switch {
	case errors.Is(err, apperror.ErrInvalidCell):
		return apperror.ErrInvalidCell
	case errors.Is(err, apperror.ErrSessionNotFound):
		return apperror.ErrSessionNotFound
	default:
		that.logger.Error("request failed", "error", err)
		return errors.New("internal error")
	}
}
