package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/tictactoe"
)

type sessionRepo interface {
	Save(ctx context.Context, session *entity.Session) error
	GetByID(ctx context.Context, id string) (*entity.Session, error)
	DeleteByID(ctx context.Context, id string) error
}

type SessionManager struct {
	logger      *slog.Logger
	sessionRepo sessionRepo

	now func() time.Time
}

func NewSessionManager(logger *slog.Logger, sessionRepo sessionRepo) *SessionManager {
	return &SessionManager{
		logger: logger.With("component", "session-manager"),

		sessionRepo: sessionRepo,
		now:         time.Now,
	}
}

// CreateSession starts a session with an empty board and a zero score.
func (that *SessionManager) CreateSession(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString(), that.now())

	if err := that.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	that.logger.Info("session created", "session_id", session.ID)

	return session, nil
}

func (that *SessionManager) GetSession(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.sessionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MakeMove plays the active player's mark on cell. Moves on an occupied cell or a
// finished game are ignored and the session is returned as it was.
func (that *SessionManager) MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error) {
	log := that.logger.With("method", "MakeMove", "session_id", id)

	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	controller := tictactoe.NewGameController(&session.Game, &session.Score)
	if err = controller.ApplyMove(cell); err != nil {
		if apperror.IsIgnoredMove(err) {
			log.Debug("move ignored", "cell", cell, "reason", err)
			return session, nil
		}

		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if err = that.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	if session.Game.IsOver() {
		log.Info("game finished", "winner", session.Game.Winner, "score", session.Score)
	}

	return session, nil
}

// ResetGame clears the board for a new round and keeps the score.
func (that *SessionManager) ResetGame(ctx context.Context, id string) (*entity.Session, error) {
	session, err := that.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}

	tictactoe.NewGameController(&session.Game, &session.Score).ResetGame()

	if err = that.sessionRepo.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	that.logger.Debug("game reset", "session_id", id)

	return session, nil
}

// EndSession drops the session and its score.
func (that *SessionManager) EndSession(ctx context.Context, id string) error {
	if err := that.sessionRepo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	that.logger.Info("session ended", "session_id", id)

	return nil
}
