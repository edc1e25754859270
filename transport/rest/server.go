package rest

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/pkg"
)

//go:embed web
var webFS embed.FS

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error)
	ResetGame(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	return &Server{
		logger:   logger.With("component", "rest"),
		sessions: sessions,
	}
}

// Handler routes the page, the health check and the session API.
func (that *Server) Handler() http.Handler {
	web, err := fs.Sub(webFS, "web")
	if err != nil {
		// the directory is embedded at build time
		panic(fmt.Errorf("failed to open embedded web files: %w", err))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServerFS(web))
	mux.HandleFunc("GET /ping", pingHandler)

	mux.HandleFunc("POST /api/sessions", that.createSession)
	mux.HandleFunc("GET /api/sessions/{id}", that.getSession)
	mux.HandleFunc("POST /api/sessions/{id}/moves", that.makeMove)
	mux.HandleFunc("POST /api/sessions/{id}/reset", that.resetGame)
	mux.HandleFunc("DELETE /api/sessions/{id}", that.endSession)

	return mux
}

// Start serves until ctx is canceled, then shuts the server down.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	return pkg.RunHTTPServer(ctx, srv)
}
