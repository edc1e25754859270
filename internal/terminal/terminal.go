// Package terminal runs a game on a shared keyboard: both players type into the same input.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/rocketscienceinc/tictactoe-local/internal/view"
)

const help = "Enter 1-9 to place a mark, r to reset the board, q to quit."

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	MakeMove(ctx context.Context, id string, cell int) (*entity.Session, error)
	ResetGame(ctx context.Context, id string) (*entity.Session, error)
	EndSession(ctx context.Context, id string) error
}

type Terminal struct {
	logger   *slog.Logger
	sessions sessionUseCase

	in  io.Reader
	out io.Writer
}

func New(logger *slog.Logger, sessions sessionUseCase, in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		logger:   logger.With("component", "terminal"),
		sessions: sessions,
		in:       in,
		out:      out,
	}
}

// Run plays until the input ends, q is entered or ctx is canceled.
func (that *Terminal) Run(ctx context.Context) error {
	session, err := that.sessions.CreateSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}

	defer func() {
		if endErr := that.sessions.EndSession(context.WithoutCancel(ctx), session.ID); endErr != nil {
			that.logger.Error("failed to end session", "error", endErr)
		}
	}()

	if err = that.print(help + "\n\n"); err != nil {
		return err
	}

	if err = that.render(session); err != nil {
		return err
	}

	// a read blocked on the input must not hold up cancellation
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go that.readLines(readCtx, lines, readErr)

	for {
		if err = that.print("> "); err != nil {
			return err
		}

		var line string
		select {
		case <-ctx.Done():
			return nil
		case err = <-readErr:
			return err
		case line = <-lines:
		}

		next, quit, err := that.handle(ctx, session, strings.TrimSpace(line))
		if err != nil {
			return err
		}

		if quit {
			return that.print("Bye!\n")
		}

		if next == nil {
			continue
		}

		session = next
		if err = that.render(session); err != nil {
			return err
		}
	}
}

// readLines sends input lines until the input ends or ctx is done.
// errCh receives nil at the end of the input.
func (that *Terminal) readLines(ctx context.Context, lines chan<- string, errCh chan<- error) {
	scanner := bufio.NewScanner(that.in)
	for scanner.Scan() {
		select {
		case lines <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		errCh <- fmt.Errorf("failed to read input: %w", err)
		return
	}

	errCh <- nil
}

// handle applies one line of input. A nil session means nothing to redraw.
func (that *Terminal) handle(ctx context.Context, session *entity.Session, line string) (*entity.Session, bool, error) {
	switch strings.ToLower(line) {
	case "":
		return nil, false, nil
	case "q", "quit":
		return nil, true, nil
	case "r", "reset":
		next, err := that.sessions.ResetGame(ctx, session.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to reset game: %w", err)
		}
		return next, false, nil
	}

	key, err := strconv.Atoi(line)
	if err != nil || key < 1 || key > entity.BoardSize {
		that.logger.Debug("unknown command", "input", line)
		return nil, false, that.print(help + "\n")
	}

	next, err := that.sessions.MakeMove(ctx, session.ID, key-1)
	if err != nil {
		return nil, false, fmt.Errorf("failed to make move: %w", err)
	}

	return next, false, nil
}

func (that *Terminal) render(session *entity.Session) error {
	if err := view.WriteText(that.out, view.Render(session)); err != nil {
		return err
	}

	return that.print("\n")
}

func (that *Terminal) print(s string) error {
	if _, err := io.WriteString(that.out, s); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
