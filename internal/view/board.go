// Package view turns a session into what a front-end shows: cells, a status line and the scoreboard.
package view

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const drawStatus = "It's a draw!"

type Cell struct {
	Index    int         `json:"index"`
	Mark     entity.Mark `json:"mark"`
	Disabled bool        `json:"disabled"`
	Label    string      `json:"label"`
}

type Scoreboard struct {
	X    string `json:"x"`
	O    string `json:"o"`
	Draw string `json:"draw"`
}

type Board struct {
	SessionID string       `json:"session_id"`
	Cells     []Cell       `json:"cells"`
	Status    string       `json:"status"`
	Over      bool         `json:"over"`
	Score     entity.Score `json:"score"`
	Scoreboard
}

// Status is the line shown above the board.
func Status(game entity.Game) string {
	if !game.IsOver() {
		return fmt.Sprintf("Turn: %s", game.Turn)
	}

	if game.IsDraw() {
		return drawStatus
	}

	return fmt.Sprintf("Winner: %s", game.Winner)
}

// CellLabel names a cell by its 1-based row and column.
func CellLabel(index int, mark entity.Mark) string {
	value := string(mark)
	if mark.IsEmpty() {
		value = "empty"
	}

	return fmt.Sprintf("Square %d-%d, value: %s", index/3+1, index%3+1, value)
}

func Cells(game entity.Game) []Cell {
	cells := make([]Cell, 0, entity.BoardSize)
	for i, mark := range game.Board {
		cells = append(cells, Cell{
			Index:    i,
			Mark:     mark,
			Disabled: !mark.IsEmpty() || game.IsOver(),
			Label:    CellLabel(i, mark),
		})
	}

	return cells
}

func ScoreLine(score entity.Score) Scoreboard {
	return Scoreboard{
		X:    fmt.Sprintf("X: %d", score.X),
		O:    fmt.Sprintf("O: %d", score.O),
		Draw: fmt.Sprintf("Draws: %d", score.Draw),
	}
}

func Render(session *entity.Session) Board {
	return Board{
		SessionID:  session.ID,
		Cells:      Cells(session.Game),
		Status:     Status(session.Game),
		Over:       session.Game.IsOver(),
		Score:      session.Score,
		Scoreboard: ScoreLine(session.Score),
	}
}

// WriteText draws the board as a 3x3 grid. Empty cells show their key (1-9).
func WriteText(w io.Writer, board Board) error {
	var sb strings.Builder

	sb.WriteString(board.Status)
	sb.WriteString("\n\n")

	for row := 0; row < 3; row++ {
		cells := make([]string, 3)
		for col := 0; col < 3; col++ {
			cell := board.Cells[row*3+col]
			if cell.Mark.IsEmpty() {
				cells[col] = fmt.Sprintf("%d", cell.Index+1)
			} else {
				cells[col] = string(cell.Mark)
			}
		}

		sb.WriteString(" " + strings.Join(cells, " | ") + "\n")
		if row < 2 {
			sb.WriteString("---+---+---\n")
		}
	}

	fmt.Fprintf(&sb, "\n%s   %s   %s\n", board.X, board.O, board.Draw)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("failed to write board: %w", err)
	}

	return nil
}
