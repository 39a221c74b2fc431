package tictactoe

import "github.com/rocketscienceinc/tictactoe-engine/internal/entity"

// allMarks is the AND seed for a line: 0b11 keeps any single mark intact.
const allMarks = entity.Cell(0b11)

// Evaluate determines the winner of a board.
//
// Every line is reduced with a bitwise AND of its cells. A line made only of
// host marks stays 1, a line made only of challenger marks stays 2, and any
// mix or empty cell drops it to 0. Lines are inspected in a fixed order:
// the "\" diagonal, the "/" diagonal, columns left to right, rows top to
// bottom. The first completed line decides the winner.
func Evaluate(board entity.Board) entity.Winner {
	backslash, slash := allMarks, allMarks

	var columns, rows [entity.BoardWidth]entity.Cell
	for i := range columns {
		columns[i] = allMarks
		rows[i] = allMarks
	}

	for i, cell := range board {
		row, col := i/entity.BoardWidth, i%entity.BoardWidth

		rows[row] &= cell
		columns[col] &= cell

		if row == col {
			backslash &= cell
		}

		if row+col == entity.BoardWidth-1 {
			slash &= cell
		}
	}

	lines := make([]entity.Cell, 0, 2+2*entity.BoardWidth)
	lines = append(lines, backslash, slash)
	lines = append(lines, columns[:]...)
	lines = append(lines, rows[:]...)

	for _, line := range lines {
		switch line {
		case entity.HostMark:
			return entity.WinnerHost
		case entity.ChallengerMark:
			return entity.WinnerChallenger
		}
	}

	// the game continues until every cell is taken
	if board.IsFull() {
		return entity.WinnerDraw
	}

	return entity.WinnerNone
}
