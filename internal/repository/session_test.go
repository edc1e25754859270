package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/testing/suite"
)

func newTestSession(id string) *entity.Session {
	session := entity.NewSession(id, time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC))
	session.Game.Board[4] = entity.PlayerX
	session.Game.Turn = entity.PlayerO
	session.Score = entity.Score{X: 2, O: 1, Draw: 3}

	return session
}

func TestSessionRepository_Save(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, time.Minute)

	// Given: a session in progress
	session := newTestSession("123")

	// When: Save is called
	err := sessionRepo.Save(ctx, session)

	// Then: no error should be returned, and the key expires
	require.NoError(t, err)

	assert.Equal(t, []string{sessionKeyPrefix + session.ID}, st.Keys(ctx, sessionKeyPrefix))

	ttl := st.ExpiresIn(ctx, sessionKeyPrefix+session.ID)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl %s", ttl)
}

func TestSessionRepository_GetByID(t *testing.T) {
	t.Run("GetByID_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// Given: a saved session
		session := newTestSession("123")
		require.NoError(t, sessionRepo.Save(ctx, session))

		// When: GetByID is called with the existing ID
		retrieved, err := sessionRepo.GetByID(ctx, session.ID)

		// Then: the retrieved session should match the saved one
		require.NoError(t, err)
		assert.Equal(t, session.Game, retrieved.Game)
		assert.Equal(t, session.Score, retrieved.Score)
		assert.True(t, session.CreatedAt.Equal(retrieved.CreatedAt))
	})

	t.Run("GetByID_NotFound", func(t *testing.T) {
		ctx, st := suite.New(t)

		sessionRepo := NewSessionRepository(st.Storage, time.Minute)

		// When: GetByID is called with an unknown ID
		retrieved, err := sessionRepo.GetByID(ctx, "9999999")

		// Then: an ErrSessionNotFound error should be returned
		require.ErrorIs(t, err, apperror.ErrSessionNotFound)
		assert.Nil(t, retrieved)
	})
}

func TestSessionRepository_DeleteByID(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, 0)

	// Given: a saved session
	session := newTestSession("123")
	require.NoError(t, sessionRepo.Save(ctx, session))

	// When: the session is deleted
	err := sessionRepo.DeleteByID(ctx, session.ID)
	require.NoError(t, err)

	// Then: it can no longer be found
	_, err = sessionRepo.GetByID(ctx, session.ID)
	require.ErrorIs(t, err, apperror.ErrSessionNotFound)
}

func TestSessionRepository_SaveWithoutTTL(t *testing.T) {
	ctx, st := suite.New(t)

	sessionRepo := NewSessionRepository(st.Storage, 0)

	// Given: a repository without idle expiry
	session := newTestSession("456")

	// When: a session is saved
	require.NoError(t, sessionRepo.Save(ctx, session))

	// Then: redis keeps the key without a ttl
	assert.Equal(t, time.Duration(-1), st.ExpiresIn(ctx, sessionKeyPrefix+session.ID))
}
