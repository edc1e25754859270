package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/view"
)

const (
	actionSessionNew   = "session:new"
	actionSessionState = "session:state"
	actionGameMove     = "game:move"
	actionGameReset    = "game:reset"
	actionError        = "error"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type MovePayload struct {
	Cell *int `json:"cell"`
}

type ResponsePayload struct {
	Session *entity.Session `json:"session,omitempty"`
	View    *view.Board     `json:"view,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func sessionPayload(session *entity.Session) ResponsePayload {
	board := view.Render(session)

	return ResponsePayload{
		Session: session,
		View:    &board,
	}
}
