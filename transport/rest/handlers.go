package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/view"
)

type moveRequest struct {
	Cell *int `json:"cell"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) createSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.CreateSession(r.Context())
	if err != nil {
		that.writeError(w, "createSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view.Render(session))
}

func (that *Server) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.GetSession(r.Context(), r.PathValue("id"))
	that.writeSession(w, "getSession", session, err)
}

func (that *Server) makeMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Cell == nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "body must be {\"cell\": 0-8}"})
		return
	}

	session, err := that.sessions.MakeMove(r.Context(), r.PathValue("id"), *req.Cell)
	that.writeSession(w, "makeMove", session, err)
}

func (that *Server) resetGame(w http.ResponseWriter, r *http.Request) {
	session, err := that.sessions.ResetGame(r.Context(), r.PathValue("id"))
	that.writeSession(w, "resetGame", session, err)
}

func (that *Server) endSession(w http.ResponseWriter, r *http.Request) {
	if err := that.sessions.EndSession(r.Context(), r.PathValue("id")); err != nil {
		that.writeError(w, "endSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) writeSession(w http.ResponseWriter, method string, session *entity.Session, err error) {
	if err != nil {
		that.writeError(w, method, err)
		return
	}

	that.writeJSON(w, http.StatusOK, view.Render(session))
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrSessionNotFound.Error()})
	case errors.Is(err, apperror.ErrInvalidCell):
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: apperror.ErrInvalidCell.Error()})
	default:
		that.logger.Error("request failed", "method", method, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
