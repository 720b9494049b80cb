package booking

import (
	"strconv"
	"strings"
)

const (
	DefaultRows = 5
	DefaultCols = 10
	maxRows     = 26
)

// SeatLabel identifies a seat by row letter and column number, e.g. "B7".
type SeatLabel string

func (l SeatLabel) String() string {
	return string(l)
}

// Grid is the seat layout of a screening. Seats are numbered 1..Capacity
// left to right, top to bottom; the last row may be partial.
type Grid struct {
	Rows     int
	Cols     int
	Capacity int
}

// DefaultGrid is the 5x10 hall every schedule used before per-schedule sizing.
var DefaultGrid = Grid{Rows: DefaultRows, Cols: DefaultCols, Capacity: DefaultRows * DefaultCols}

// GridFor lays out totalSeats in rows of DefaultCols. A non-positive count
// falls back to DefaultGrid.
func GridFor(totalSeats int) Grid {
	if totalSeats <= 0 {
		return DefaultGrid
	}
	if totalSeats > maxRows*DefaultCols {
		totalSeats = maxRows * DefaultCols
	}
	rows := (totalSeats + DefaultCols - 1) / DefaultCols
	return Grid{Rows: rows, Cols: DefaultCols, Capacity: totalSeats}
}

// Label returns the label of the 1-based seat index i.
func (g Grid) Label(i int) (SeatLabel, bool) {
	if g.Cols <= 0 || i < 1 || i > g.Capacity {
		return "", false
	}
	row := (i + g.Cols - 1) / g.Cols
	col := (i-1)%g.Cols + 1
	if row > maxRows {
		return "", false
	}
	return SeatLabel(string(rune('A'+row-1)) + strconv.Itoa(col)), true
}

// Index is the inverse of Label.
func (g Grid) Index(label SeatLabel) (int, bool) {
	row, col, ok := ParseSeatLabel(string(label))
	if !ok || col > g.Cols {
		return 0, false
	}
	i := (row-1)*g.Cols + col
	if i > g.Capacity {
		return 0, false
	}
	return i, true
}

func (g Grid) Contains(label SeatLabel) bool {
	_, ok := g.Index(label)
	return ok
}

// ToSeatLabel maps an index on DefaultGrid to its label.
func ToSeatLabel(i int) (SeatLabel, bool) {
	return DefaultGrid.Label(i)
}

// ParseSeatLabel splits a label into its 1-based row and column.
func ParseSeatLabel(s string) (row int, col int, ok bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, 0, false
	}
	letter := s[0]
	if letter < 'A' || letter > 'Z' {
		return 0, 0, false
	}
	digits := s[1:]
	if digits[0] == '0' {
		return 0, 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, 0, false
	}
	return int(letter-'A') + 1, n, true
}
