package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// IsValidMove reports whether (row, col) addresses a cell inside the board
// that is still empty. Coordinates are unsigned; beyond that only the linear
// index is bounds-checked.
func IsValidMove(row, col int, board entity.Board) bool {
	// bounding both first keeps row*width+col from overflowing
	if row < 0 || col < 0 || row >= entity.BoardSize || col >= entity.BoardSize {
		return false
	}

	index := entity.Index(row, col)
	if index >= len(board) {
		return false
	}

	return board[index] == entity.EmptyCell
}
