package booking

// SeatCell is one rendered seat of a grid.
type SeatCell struct {
	Index  int
	Label  SeatLabel
	Row    int
	Col    int
	Booked bool
}

// Available seats are the interactive ones.
func (c SeatCell) Available() bool {
	return !c.Booked
}

// Render classifies every seat of grid as booked or available. A nil
// bookedSeats means nothing is booked; entries that are not labels on the
// grid are ignored.
func Render(grid Grid, bookedSeats []string) []SeatCell {
	booked := bookedSet(grid, bookedSeats)
	cells := make([]SeatCell, 0, grid.Capacity)
	for i := 1; i <= grid.Capacity; i++ {
		label, ok := grid.Label(i)
		if !ok {
			break
		}
		cells = append(cells, SeatCell{
			Index:  i,
			Label:  label,
			Row:    (i-1)/grid.Cols + 1,
			Col:    (i-1)%grid.Cols + 1,
			Booked: booked[label],
		})
	}
	return cells
}

// Rows groups rendered cells by row, preserving order.
func Rows(cells []SeatCell) [][]SeatCell {
	var rows [][]SeatCell
	for _, cell := range cells {
		for len(rows) < cell.Row {
			rows = append(rows, nil)
		}
		rows[cell.Row-1] = append(rows[cell.Row-1], cell)
	}
	return rows
}

func bookedSet(grid Grid, bookedSeats []string) map[SeatLabel]bool {
	set := make(map[SeatLabel]bool, len(bookedSeats))
	for _, raw := range bookedSeats {
		label := SeatLabel(raw)
		if grid.Contains(label) {
			set[label] = true
		}
	}
	return set
}
