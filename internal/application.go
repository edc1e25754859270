package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/tictactoe-local/internal/config"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository"
	"github.com/rocketscienceinc/tictactoe-local/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-local/internal/terminal"
	"github.com/rocketscienceinc/tictactoe-local/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-local/transport/rest"
	"github.com/rocketscienceinc/tictactoe-local/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunServer - serves the web page, the session API and the WebSocket channel until ctx is canceled.
func RunServer(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	sessionRepo, closeRepo, err := newSessionRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	sessionManager := usecase.NewSessionManager(logger, sessionRepo)

	group, groupCtx := errgroup.WithContext(ctx)

	// run HTTP server
	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, sessionManager).Start(groupCtx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	// run Websocket server
	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		originPatterns := []string{"localhost:" + conf.HTTPPort, "127.0.0.1:" + conf.HTTPPort}
		if wsErr := websocket.New(logger, sessionManager, originPatterns).Start(groupCtx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	if err = group.Wait(); err != nil {
		return err
	}

	log.Info("Application context canceled, shutting down")

	return nil
}

// RunTerminal - plays one session on in/out.
func RunTerminal(ctx context.Context, logger *slog.Logger, conf *config.Config, in io.Reader, out io.Writer) error {
	sessionRepo, closeRepo, err := newSessionRepository(ctx, logger, conf)
	if err != nil {
		return err
	}
	defer closeRepo()

	sessionManager := usecase.NewSessionManager(logger, sessionRepo)

	if err = terminal.New(logger, sessionManager, in, out).Run(ctx); err != nil {
		return fmt.Errorf("terminal error: %w", err)
	}

	return nil
}

func newSessionRepository(ctx context.Context, logger *slog.Logger, conf *config.Config) (repository.SessionRepository, func(), error) {
	log := logger.With("component", "app")

	switch conf.Storage {
	case config.StorageRedis:
		redisAddrString := conf.Redis.GetRedisAddr()
		if redisAddrString == "" {
			return nil, nil, ErrAddrNotFound
		}

		redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
		if err != nil {
			return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
		}

		closeFn := func() {
			if err := redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}

		log.Info("Using redis session storage", "addr", redisAddrString, "ttl", conf.SessionTTL)

		return repository.NewSessionRepository(redisStorage.Connection, conf.SessionTTL), closeFn, nil
	case config.StorageMemory:
		log.Info("Using in-memory session storage")

		return repository.NewMemorySessionRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownStorage, conf.Storage)
	}
}
