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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Transformer is a pure function from one 2D array to another. It may
// change the shape of the array but not its rank.
type Transformer func(m *mat.Dense) *mat.Dense

// Direction selects the axis along which two arrays are merged.
type Direction int

const (
	// Vertical stacks rows: the second array adds rows.
	Vertical Direction = iota
	// Horizontal stacks columns: the second array adds columns.
	Horizontal
)

// Side selects whether the other array goes after or before the receiver.
type Side int

const (
	// After appends the other array after the receiver ("+").
	After Side = iota
	// Before inserts the other array before the receiver ("-").
	Before
)

// PointSet holds one coordinate component (x or y) of a grid's nodes as a
// (J, I) array.
type PointSet struct {
	points *mat.Dense
}

// NewPointSet wraps points. The PointSet takes ownership of the array.
func NewPointSet(points *mat.Dense) *PointSet {
	return &PointSet{points: points}
}

// Points returns the underlying array.
func (ps *PointSet) Points() *mat.Dense { return ps.points }

// Shape returns the number of rows (J) and columns (I).
func (ps *PointSet) Shape() (rows, cols int) { return ps.points.Dims() }

// Transform replaces the points with fn(points) and returns the receiver.
func (ps *PointSet) Transform(fn Transformer) *PointSet {
	ps.points = fn(ps.points)
	return ps
}

// Transpose swaps the rows and columns of the points.
func (ps *PointSet) Transpose() *PointSet { return ps.Transform(Transpose) }

// Merge stitches other onto the receiver. how selects the axis, where
// selects whether other is placed after or before the receiver, and shift
// is the offset of other's first column (for Vertical) or row (for
// Horizontal) relative to the receiver's. Positions not covered by
// either array are filled with NaN. Unlike plain padding, a shift that
// leaves the two arrays with no column (or row) in common is rejected
// with a *ValueError. The receiver is unchanged if an error is returned.
func (ps *PointSet) Merge(other *PointSet, how Direction, where Side, shift int) error {
	if err := checkOverlap(ps.points, other.points, how, shift); err != nil {
		return err
	}
	m, err := paddedStack(ps.points, other.points, how, where, shift, math.NaN(), 0)
	if err != nil {
		return err
	}
	ps.points = m
	return nil
}

// Transpose returns the transpose of m.
func Transpose(m *mat.Dense) *mat.Dense {
	return mat.DenseCopyOf(m.T())
}

// FlipLR returns a copy of m with the column order reversed.
func FlipLR(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			o.Set(j, c-1-i, m.At(j, i))
		}
	}
	return o
}

// FlipUD returns a copy of m with the row order reversed.
func FlipUD(m *mat.Dense) *mat.Dense {
	r, c := m.Dims()
	o := mat.NewDense(r, c, nil)
	for j := 0; j < r; j++ {
		o.SetRow(r-1-j, m.RawRowView(j))
	}
	return o
}

// checkOverlap makes sure that, after shifting, b spans at least one
// column (row, for Horizontal) of a.
func checkOverlap(a, b *mat.Dense, how Direction, shift int) error {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	switch how {
	case Vertical:
	case Horizontal:
		ac, bc = ar, br
	default:
		return valueErrorf("how", "unknown merge direction %d", how)
	}
	if shift >= ac || shift+bc <= 0 {
		return valueErrorf("shift", "shift %d leaves no overlap between widths %d and %d", shift, ac, bc)
	}
	return nil
}

// paddedStack joins a and b along how. gap rows (or columns) of padval
// are inserted between the two; merging cell arrays uses a gap of one for
// the seam of cells spanning the join.
func paddedStack(a, b *mat.Dense, how Direction, where Side, shift int, padval float64, gap int) (*mat.Dense, error) {
	if how == Horizontal {
		o, err := paddedStack(Transpose(a), Transpose(b), Vertical, where, shift, padval, gap)
		if err != nil {
			return nil, err
		}
		return Transpose(o), nil
	}
	if how != Vertical {
		return nil, valueErrorf("how", "unknown merge direction %d", how)
	}
	ar, ac := a.Dims()
	br, bc := b.Dims()
	lo, hi := 0, ac
	if shift < lo {
		lo = shift
	}
	if shift+bc > hi {
		hi = shift + bc
	}
	aOff, bOff := -lo, shift-lo

	o := mat.NewDense(ar+br+gap, hi-lo, nil)
	r, c := o.Dims()
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			o.Set(j, i, padval)
		}
	}
	place := func(m *mat.Dense, row0, col0 int) {
		mr, mc := m.Dims()
		for j := 0; j < mr; j++ {
			for i := 0; i < mc; i++ {
				o.Set(row0+j, col0+i, m.At(j, i))
			}
		}
	}
	switch where {
	case After:
		place(a, 0, aOff)
		place(b, ar+gap, bOff)
	case Before:
		place(b, 0, bOff)
		place(a, br+gap, aOff)
	default:
		return nil, valueErrorf("where", "unknown merge side %d", where)
	}
	return o, nil
}
