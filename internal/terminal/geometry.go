package terminal

import "fmt"

const (
	// MinRows and MinCols are the smallest window the session draws.
	MinRows = 12
	MinCols = 44

	marginRows = 3
	marginCols = 10
)

// Rect is a screen rectangle; Row and Col are zero-based.
type Rect struct {
	Row, Col   int
	Rows, Cols int
}

// Geometry holds the two nested rectangles of a session: the bordered
// outer window and the content area inside it.
type Geometry struct {
	Outer Rect
	Inner Rect
}

// ComputeGeometry centers the window on a width x height terminal. The
// window keeps a margin on every side when the terminal is large enough
// and falls back to the minimum size otherwise.
func ComputeGeometry(width, height int) (Geometry, error) {
	if height < MinRows || width < MinCols {
		return Geometry{}, fmt.Errorf("%w: %dx%d, need at least %dx%d",
			ErrTerminalTooSmall, height, width, MinRows, MinCols)
	}

	rows := MinRows
	if height > 2*marginRows+MinRows {
		rows = height - 2*marginRows
	}
	cols := MinCols
	if width > 2*marginCols+MinCols {
		cols = width - 2*marginCols
	}

	outer := Rect{
		Row:  (height - rows) / 2,
		Col:  (width - cols) / 2,
		Rows: rows,
		Cols: cols,
	}
	return Geometry{
		Outer: outer,
		Inner: Rect{
			Row:  outer.Row + 1,
			Col:  outer.Col + 2,
			Rows: outer.Rows - 2,
			Cols: outer.Cols - 4,
		},
	}, nil
}
