package entity

// Cell is the value of one board square. The numeric values are load-bearing:
// the win evaluator ANDs them together.
type Cell uint8

const (
	EmptyCell      Cell = 0
	HostMark       Cell = 1
	ChallengerMark Cell = 2
)

const (
	BoardWidth  = 3
	BoardHeight = BoardWidth
	BoardSize   = BoardWidth * BoardHeight
)

// Board is a row-major 3x3 grid. It performs no validation.
type Board [BoardSize]Cell

// Index maps a row and column to the linear cell index.
func Index(row, col int) int {
	return row*BoardWidth + col
}

func (that *Board) CellAt(row, col int) Cell {
	return that[Index(row, col)]
}

func (that *Board) SetCell(row, col int, value Cell) {
	that[Index(row, col)] = value
}

// IsFull reports whether no cell is empty.
func (that *Board) IsFull() bool {
	for _, cell := range that {
		if cell == EmptyCell {
			return false
		}
	}

	return true
}

func (that *Board) Reset() {
	*that = Board{}
}
