package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-local/internal/view"
)

var errBoom = errors.New("boom")

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewSessionManager(logger, repository.NewMemorySessionRepository())

	srv := httptest.NewServer(New(logger, manager).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func doRequest(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, reader)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func decodeBoard(t *testing.T, data []byte) view.Board {
	t.Helper()

	var board view.Board
	require.NoError(t, json.Unmarshal(data, &board))

	return board
}

func createSession(t *testing.T, srv *httptest.Server) view.Board {
	t.Helper()

	status, data := doRequest(t, http.MethodPost, srv.URL+"/api/sessions", "")
	require.Equal(t, http.StatusCreated, status)

	return decodeBoard(t, data)
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	status, data := doRequest(t, http.MethodGet, srv.URL+"/ping", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(data))
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)

	status, data := doRequest(t, http.MethodGet, srv.URL+"/", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(data), "Reset Game")
}

func TestSessionAPI(t *testing.T) {
	t.Run("Create returns a fresh board", func(t *testing.T) {
		srv := newTestServer(t)

		board := createSession(t, srv)

		assert.NotEmpty(t, board.SessionID)
		assert.Equal(t, "Turn: X", board.Status)
		assert.Len(t, board.Cells, entity.BoardSize)
		assert.Equal(t, "X: 0", board.X)
	})

	t.Run("Moves until X wins", func(t *testing.T) {
		srv := newTestServer(t)
		id := createSession(t, srv).SessionID

		// When: X:0, O:1, X:4, O:2, X:8
		var board view.Board
		for _, cell := range []string{"0", "1", "4", "2", "8"} {
			status, data := doRequest(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/moves", `{"cell": `+cell+`}`)
			require.Equal(t, http.StatusOK, status)
			board = decodeBoard(t, data)
		}

		// Then: X has won and every cell is disabled
		assert.Equal(t, "Winner: X", board.Status)
		assert.True(t, board.Over)
		assert.Equal(t, entity.Score{X: 1}, board.Score)
		for _, cell := range board.Cells {
			assert.True(t, cell.Disabled)
		}

		// And: reset keeps the score
		status, data := doRequest(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/reset", "")
		require.Equal(t, http.StatusOK, status)
		board = decodeBoard(t, data)
		assert.Equal(t, "Turn: X", board.Status)
		assert.Equal(t, "X: 1", board.X)
	})

	t.Run("Move on an occupied cell is a no-op", func(t *testing.T) {
		srv := newTestServer(t)
		id := createSession(t, srv).SessionID

		_, first := doRequest(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/moves", `{"cell": 3}`)
		status, second := doRequest(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/moves", `{"cell": 3}`)

		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, decodeBoard(t, first), decodeBoard(t, second))
	})

	t.Run("Bad move requests", func(t *testing.T) {
		srv := newTestServer(t)
		id := createSession(t, srv).SessionID

		for _, body := range []string{`{"cell": 9}`, `{"cell": -1}`, `{}`, `not json`} {
			status, _ := doRequest(t, http.MethodPost, srv.URL+"/api/sessions/"+id+"/moves", body)
			assert.Equal(t, http.StatusBadRequest, status, body)
		}
	})

	t.Run("Unknown session", func(t *testing.T) {
		srv := newTestServer(t)

		status, _ := doRequest(t, http.MethodGet, srv.URL+"/api/sessions/missing", "")
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = doRequest(t, http.MethodPost, srv.URL+"/api/sessions/missing/moves", `{"cell": 0}`)
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Delete ends the session", func(t *testing.T) {
		srv := newTestServer(t)
		id := createSession(t, srv).SessionID

		status, _ := doRequest(t, http.MethodDelete, srv.URL+"/api/sessions/"+id, "")
		require.Equal(t, http.StatusNoContent, status)

		status, _ = doRequest(t, http.MethodGet, srv.URL+"/api/sessions/"+id, "")
		assert.Equal(t, http.StatusNotFound, status)
	})
}

type failingSessions struct{}

func (failingSessions) CreateSession(context.Context) (*entity.Session, error) { return nil, errBoom }
func (failingSessions) GetSession(context.Context, string) (*entity.Session, error) {
	return nil, errBoom
}
func (failingSessions) MakeMove(context.Context, string, int) (*entity.Session, error) {
	return nil, errBoom
}
func (failingSessions) ResetGame(context.Context, string) (*entity.Session, error) {
	return nil, errBoom
}
func (failingSessions) EndSession(context.Context, string) error { return errBoom }

func TestSessionAPI_InternalError(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	srv := httptest.NewServer(New(logger, failingSessions{}).Handler())
	t.Cleanup(srv.Close)

	status, data := doRequest(t, http.MethodPost, srv.URL+"/api/sessions", "")

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.NotContains(t, string(data), "boom")
}
