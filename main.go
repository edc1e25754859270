package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	app "github.com/rocketscienceinc/tictactoe-local/internal"
	"github.com/rocketscienceinc/tictactoe-local/internal/config"
)

// main - is the entry point of the application. It builds the CLI and runs the chosen command.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		conf       *config.Config
	)

	root := &cobra.Command{
		Use:           "tictactoe",
		Short:         "Two-player Tic-Tac-Toe on one keyboard or one browser tab",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			var err error
			conf, err = config.Load(configPath)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "./config.yml", "path to the yaml config file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the game page, the session API and the WebSocket channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.RunServer(cmd.Context(), initLogger(conf, os.Stdout), conf)
		},
	}

	playCmd := &cobra.Command{
		Use:   "play",
		Short: "Play in this terminal, both players sharing the keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.RunTerminal(cmd.Context(), initLogger(conf, os.Stderr), conf, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	root.AddCommand(serveCmd, playCmd)

	return root
}

// initialize logger.
func initLogger(conf *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelInfo:
		level = slog.LevelInfo
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
