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

import (
	"fmt"
	"math"
	"strings"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// Which selects the nodes or the cell centers of a grid.
type Which int

const (
	// Nodes selects the grid nodes.
	Nodes Which = iota
	// Cells selects the cell centers.
	Cells
)

// ParseWhich converts "nodes" or "cells" (any case) to a Which.
func ParseWhich(s string) (Which, error) {
	switch strings.ToLower(s) {
	case "nodes":
		return Nodes, nil
	case "cells":
		return Cells, nil
	default:
		return 0, valueErrorf("which", `must be either "nodes" or "cells", got %q`, s)
	}
}

func (w Which) String() string {
	if w == Cells {
		return "cells"
	}
	return "nodes"
}

// NodeRecord is one entry of the tabular form of a grid: the coordinates
// at column I and row J.
type NodeRecord struct {
	I, J int
	X, Y float64
}

// Valid reports whether both coordinates are non-NaN.
func (r NodeRecord) Valid() bool { return !math.IsNaN(r.X) && !math.IsNaN(r.Y) }

// xy returns the node or cell-center arrays. With useMask, masked cells
// are set to NaN.
func (g *ModelGrid) xy(which Which, useMask bool) (x, y *mat.Dense, err error) {
	switch which {
	case Nodes:
		if useMask {
			return nil, nil, valueErrorf("usemask", "can only mask cells, not nodes")
		}
		return g.XN(), g.YN(), nil
	case Cells:
		x, y = g.XC(), g.YC()
		if useMask {
			r, c := x.Dims()
			for j := 0; j < r; j++ {
				for i := 0; i < c; i++ {
					if g.cellMask.At(j, i) {
						x.Set(j, i, math.NaN())
						y.Set(j, i, math.NaN())
					}
				}
			}
		}
		return x, y, nil
	default:
		return nil, nil, valueErrorf("which", "unknown selection %d", which)
	}
}

// Records flattens the nodes or cell centers into records ordered by row
// J, then column I. Masked cells, when useMask is set, and missing nodes
// carry NaN coordinates.
func (g *ModelGrid) Records(which Which, useMask bool) ([]NodeRecord, error) {
	x, y, err := g.xy(which, useMask)
	if err != nil {
		return nil, err
	}
	r, c := x.Dims()
	o := make([]NodeRecord, 0, r*c)
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			o = append(o, NodeRecord{I: i, J: j, X: x.At(j, i), Y: y.At(j, i)})
		}
	}
	return o, nil
}

// CoordPairs flattens the nodes or cell centers into points in row-major
// order.
func (g *ModelGrid) CoordPairs(which Which, useMask bool) ([]geom.Point, error) {
	x, y, err := g.xy(which, useMask)
	if err != nil {
		return nil, err
	}
	r, c := x.Dims()
	o := make([]geom.Point, 0, r*c)
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			o = append(o, geom.Point{X: x.At(j, i), Y: y.At(j, i)})
		}
	}
	return o, nil
}

// DropMissing returns the records with valid coordinates, in order.
func DropMissing(recs []NodeRecord) []NodeRecord {
	var o []NodeRecord
	for _, r := range recs {
		if r.Valid() {
			o = append(o, r)
		}
	}
	return o
}

// FromRecords rebuilds a grid from records. Indices are shifted so that
// the smallest I and J become zero; positions with no record are NaN.
// Duplicate positions are an error.
func FromRecords(recs []NodeRecord) (*ModelGrid, error) {
	if len(recs) == 0 {
		return nil, valueErrorf("records", "no records")
	}
	iMin, jMin := recs[0].I, recs[0].J
	iMax, jMax := iMin, jMin
	for _, r := range recs[1:] {
		if r.I < iMin {
			iMin = r.I
		}
		if r.I > iMax {
			iMax = r.I
		}
		if r.J < jMin {
			jMin = r.J
		}
		if r.J > jMax {
			jMax = r.J
		}
	}
	rows, cols := jMax-jMin+1, iMax-iMin+1
	x, y := nanDense(rows, cols), nanDense(rows, cols)
	seen := NewMask(rows, cols)
	for _, r := range recs {
		j, i := r.J-jMin, r.I-iMin
		if seen.At(j, i) {
			return nil, valueErrorf("records", "duplicate record for i=%d, j=%d", r.I, r.J)
		}
		seen.Set(j, i, true)
		x.Set(j, i, r.X)
		y.Set(j, i, r.Y)
	}
	g, err := NewModelGrid(x, y)
	if err != nil {
		return nil, fmt.Errorf("gridtools: building grid from records: %w", err)
	}
	return g, nil
}

func nanDense(rows, cols int) *mat.Dense {
	data := make([]float64, rows*cols)
	for k := range data {
		data[k] = math.NaN()
	}
	return mat.NewDense(rows, cols, data)
}
