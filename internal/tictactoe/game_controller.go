package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-local/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

// WinCombos are checked in this order; the first complete line decides the winner.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// GameController applies moves to a game it does not own and keeps the score in step.
type GameController struct {
	game  *entity.Game
	score *entity.Score
}

func NewGameController(game *entity.Game, score *entity.Score) *GameController {
	return &GameController{
		game:  game,
		score: score,
	}
}

// ApplyMove places the active player's mark on cell.
// A rejected move returns an error and leaves game and score untouched.
func (that *GameController) ApplyMove(cell int) error {
	if cell < 0 || cell >= entity.BoardSize {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.game.IsOver() {
		return apperror.ErrGameFinished
	}

	if that.game.IsOccupied(cell) {
		return apperror.ErrCellOccupied
	}

	that.game.Board[cell] = that.game.Turn

	if result := DetermineResult(that.game.Board); result != entity.ResultNone {
		that.game.Over = true
		that.game.Winner = result
		that.score.Record(result)
	}

	// toggled on terminal moves too; Over masks it until the next reset
	that.game.Turn = that.game.Turn.Opponent()

	return nil
}

// ResetGame starts a new round. The score is kept.
func (that *GameController) ResetGame() {
	*that.game = entity.NewGame()
}

// DetermineResult maps a board to a winner, a draw or no result.
func DetermineResult(board entity.Board) entity.Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if !a.IsEmpty() && a == b && b == c {
			return entity.ResultFor(a)
		}
	}

	// the game will continue until all the squares are full
	for _, cell := range board {
		if cell.IsEmpty() {
			return entity.ResultNone
		}
	}

	return entity.ResultDraw
}
