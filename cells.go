/*
Copyright © 2024 the gridtools authors.
This file is part of gridtools.

gridtools is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gridtools is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gridtools.  If not, see <http://www.gnu.org/licenses/>.
*/

package gridtools

import "fmt"

// GEFDC cell codes.
const (
	LandCell       = 0 // inactive: masked, or missing a corner node
	WaterCell      = 1 // active, all four edge neighbors active
	RowEdgeCell    = 2 // active, exposed only across rows j±1
	ColumnEdgeCell = 3 // active, exposed only across columns i±1
	CornerCell     = 5 // active, exposed across both rows and columns
)

// Neighbor bits of the exposure pattern. A bit is set when the edge
// neighbor on that side is inactive or off the grid.
const (
	exposedPrevRow = 1 << iota // j-1
	exposedNextCol             // i+1
	exposedNextRow             // j+1
	exposedPrevCol             // i-1
)

// cellCodeLookup maps a 4-bit exposure pattern to a cell code.
var cellCodeLookup = func() [16]int {
	var t [16]int
	for p := range t {
		rows := p&(exposedPrevRow|exposedNextRow) != 0
		cols := p&(exposedPrevCol|exposedNextCol) != 0
		switch {
		case rows && cols:
			t[p] = CornerCell
		case rows:
			t[p] = RowEdgeCell
		case cols:
			t[p] = ColumnEdgeCell
		default:
			t[p] = WaterCell
		}
	}
	return t
}()

// MakeGEFDCCells encodes the cells of a grid as GEFDC cell codes.
// nodeValid has the node shape (J, I) and is true where a node has
// coordinates; cellMask has the cell shape (J-1, I-1) and is true where a
// cell is excluded. A nil cellMask excludes nothing. A cell with any
// invalid corner is inactive. Triangular cells are not supported: when
// triangles is set, ErrNotImplemented is returned.
// The result is top-down, in the row order of the inputs.
func MakeGEFDCCells(nodeValid, cellMask *Mask, triangles bool) ([][]int, error) {
	if triangles {
		return nil, fmt.Errorf("%w: triangular cells", ErrNotImplemented)
	}
	nr, nc := nodeValid.Dims()
	if nr < 2 || nc < 2 {
		return nil, valueErrorf("node_mask", "need at least 2x2 nodes, got (%d, %d)", nr, nc)
	}
	cr, cc := nr-1, nc-1
	if cellMask == nil {
		cellMask = NewMask(cr, cc)
	}
	if mr, mc := cellMask.Dims(); mr != cr || mc != cc {
		return nil, valueErrorf("cell_mask", "shape (%d, %d) does not match cells (%d, %d)", mr, mc, cr, cc)
	}

	active := NewMask(cr, cc)
	for j := 0; j < cr; j++ {
		for i := 0; i < cc; i++ {
			active.Set(j, i, !cellMask.At(j, i) &&
				nodeValid.At(j, i) && nodeValid.At(j, i+1) &&
				nodeValid.At(j+1, i) && nodeValid.At(j+1, i+1))
		}
	}
	isActive := func(j, i int) bool {
		return j >= 0 && j < cr && i >= 0 && i < cc && active.At(j, i)
	}

	cells := make([][]int, cr)
	for j := range cells {
		cells[j] = make([]int, cc)
		for i := range cells[j] {
			if !active.At(j, i) {
				cells[j][i] = LandCell
				continue
			}
			var p int
			if !isActive(j-1, i) {
				p |= exposedPrevRow
			}
			if !isActive(j, i+1) {
				p |= exposedNextCol
			}
			if !isActive(j+1, i) {
				p |= exposedNextRow
			}
			if !isActive(j, i-1) {
				p |= exposedPrevCol
			}
			cells[j][i] = cellCodeLookup[p]
		}
	}
	return cells, nil
}

// CellCodes encodes the grid's cells; see MakeGEFDCCells.
func (g *ModelGrid) CellCodes(triangles bool) ([][]int, error) {
	return MakeGEFDCCells(g.NodeMask(), g.cellMask, triangles)
}
