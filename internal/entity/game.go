package entity

import "time"

type Mark string

const (
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
	EmptyCell Mark = ""
)

type Result string

const (
	ResultNone Result = ""
	ResultX    Result = "X"
	ResultO    Result = "O"
	ResultDraw Result = "draw"
)

const BoardSize = 9

type Board [BoardSize]Mark

// Game is the state of a single round.
type Game struct {
	Board  Board  `json:"board"`
	Turn   Mark   `json:"turn"`
	Over   bool   `json:"over"`
	Winner Result `json:"winner"`
}

// Score counts finished rounds of a session.
type Score struct {
	X    int `json:"x"`
	O    int `json:"o"`
	Draw int `json:"draw"`
}

// Session is the state owned by one page load or one terminal run.
type Session struct {
	ID        string    `json:"id"`
	Game      Game      `json:"game"`
	Score     Score     `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func NewGame() Game {
	return Game{
		Turn:   PlayerX,
		Winner: ResultNone,
	}
}

func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Game:      NewGame(),
		CreatedAt: now,
	}
}

func (that Mark) Opponent() Mark {
	if that == PlayerX {
		return PlayerO
	}
	return PlayerX
}

func (that Mark) IsEmpty() bool {
	return that == EmptyCell
}

// ResultFor converts a winning mark into a Result.
func ResultFor(mark Mark) Result {
	switch mark {
	case PlayerX:
		return ResultX
	case PlayerO:
		return ResultO
	default:
		return ResultNone
	}
}

func (that *Game) IsOver() bool {
	return that.Over
}

func (that *Game) IsDraw() bool {
	return that.Winner == ResultDraw
}

// IsOccupied reports whether cell holds a mark. The index must be valid.
func (that *Game) IsOccupied(cell int) bool {
	return !that.Board[cell].IsEmpty()
}

// Record bumps the counter matching a terminal result.
func (that *Score) Record(result Result) {
	switch result {
	case ResultX:
		that.X++
	case ResultO:
		that.O++
	case ResultDraw:
		that.Draw++
	case ResultNone:
	}
}
