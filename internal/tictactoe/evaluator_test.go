package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	e = entity.EmptyCell
	h = entity.HostMark
	c = entity.ChallengerMark
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name  string
		board entity.Board
		want  entity.Winner
	}{
		{
			name:  "empty board continues",
			board: entity.Board{},
			want:  entity.WinnerNone,
		},
		{
			name: "host completes top row",
			board: entity.Board{
				h, h, h,
				e, c, e,
				c, e, e,
			},
			want: entity.WinnerHost,
		},
		{
			name: "challenger completes middle column",
			board: entity.Board{
				h, c, e,
				h, c, e,
				e, c, h,
			},
			want: entity.WinnerChallenger,
		},
		{
			name: "host completes backslash diagonal",
			board: entity.Board{
				h, c, e,
				c, h, e,
				e, e, h,
			},
			want: entity.WinnerHost,
		},
		{
			name: "challenger completes slash diagonal",
			board: entity.Board{
				h, h, c,
				e, c, h,
				c, e, e,
			},
			want: entity.WinnerChallenger,
		},
		{
			name: "full board without a line is a draw",
			board: entity.Board{
				h, c, h,
				c, h, c,
				c, h, c,
			},
			want: entity.WinnerDraw,
		},
		{
			name: "full board with a line is a win, not a draw",
			board: entity.Board{
				h, c, h,
				c, h, c,
				c, c, h,
			},
			want: entity.WinnerHost,
		},
		{
			name: "unfinished board without a line continues",
			board: entity.Board{
				h, c, e,
				e, h, e,
				e, e, c,
			},
			want: entity.WinnerNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.board))
		})
	}
}

func TestEvaluate_ScanOrder(t *testing.T) {
	t.Run("Columns are scanned left to right", func(t *testing.T) {
		// Given: challenger owns column 0 and host owns column 2
		board := entity.Board{
			c, e, h,
			c, e, h,
			c, e, h,
		}

		// When: evaluating
		winner := Evaluate(board)

		// Then: the leftmost completed column decides
		assert.Equal(t, entity.WinnerChallenger, winner)
	})

	t.Run("Rows are scanned top to bottom", func(t *testing.T) {
		// Given: host owns row 0 and challenger owns row 2
		board := entity.Board{
			h, h, h,
			e, e, e,
			c, c, c,
		}

		// When: evaluating
		winner := Evaluate(board)

		// Then: the top completed row decides
		assert.Equal(t, entity.WinnerHost, winner)
	})

	t.Run("A mark completing two lines is reported once", func(t *testing.T) {
		// Given: host owns both the "\\" diagonal and the top row
		board := entity.Board{
			h, h, h,
			c, h, c,
			c, e, h,
		}

		// When: evaluating
		winner := Evaluate(board)

		// Then: host wins
		assert.Equal(t, entity.WinnerHost, winner)
	})
}

func TestEvaluate_DrawIffFullWithoutLine(t *testing.T) {
	// Given: every board reachable by assigning each cell one of three values
	total := 1
	for range entity.BoardSize {
		total *= 3
	}

	for n := range total {
		var board entity.Board
		rest := n
		for i := range board {
			board[i] = entity.Cell(rest % 3)
			rest /= 3
		}

		// When: evaluating
		winner := Evaluate(board)

		// Then: a draw is reported exactly when the board is full and no line is complete
		wantDraw := board.IsFull() && !hasCompleteLine(board)
		assert.Equal(t, wantDraw, winner == entity.WinnerDraw, "board %v", board)
	}
}

func hasCompleteLine(board entity.Board) bool {
	lines := [][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}

	for _, line := range lines {
		first, second, third := board[line[0]], board[line[1]], board[line[2]]
		if first != entity.EmptyCell && first == second && second == third {
			return true
		}
	}

	return false
}
