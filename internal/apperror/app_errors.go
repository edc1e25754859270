package apperror

import "errors"

var (
	ErrGameFinished    = errors.New("game is already finished")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidCell     = errors.New("invalid cell index")
	ErrSessionNotFound = errors.New("session not found")
)

// IsIgnoredMove reports whether err is a move the board silently rejects.
func IsIgnoredMove(err error) bool {
	return errors.Is(err, ErrGameFinished) || errors.Is(err, ErrCellOccupied)
}
