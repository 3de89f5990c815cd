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

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"gonum.org/v1/gonum/mat"
)

// Mask is a two-dimensional boolean array. As a cell mask, true marks a
// cell excluded from the model; as a node mask, true marks a valid node.
type Mask struct {
	rows, cols int
	data       []bool
}

// NewMask returns an all-false mask with the given shape.
func NewMask(rows, cols int) *Mask {
	return &Mask{rows: rows, cols: cols, data: make([]bool, rows*cols)}
}

// NewMaskFrom builds a mask from nested rows, which must all be the same
// length.
func NewMaskFrom(rows [][]bool) (*Mask, error) {
	if len(rows) == 0 {
		return nil, valueErrorf("mask", "no rows")
	}
	m := NewMask(len(rows), len(rows[0]))
	for j, row := range rows {
		if len(row) != m.cols {
			return nil, valueErrorf("mask", "row %d has %d columns, want %d", j, len(row), m.cols)
		}
		copy(m.data[j*m.cols:], row)
	}
	return m, nil
}

// Dims returns the shape of the mask.
func (m *Mask) Dims() (rows, cols int) { return m.rows, m.cols }

// At returns the value at row j, column i.
func (m *Mask) At(j, i int) bool { return m.data[j*m.cols+i] }

// Set sets the value at row j, column i.
func (m *Mask) Set(j, i int, v bool) { m.data[j*m.cols+i] = v }

// Count returns the number of true entries.
func (m *Mask) Count() int {
	var n int
	for _, v := range m.data {
		if v {
			n++
		}
	}
	return n
}

// Any reports whether any entry is true.
func (m *Mask) Any() bool { return m.Count() > 0 }

// Clone returns a copy of m.
func (m *Mask) Clone() *Mask {
	o := NewMask(m.rows, m.cols)
	copy(o.data, m.data)
	return o
}

// Invert returns a new mask with every entry negated.
func (m *Mask) Invert() *Mask {
	o := NewMask(m.rows, m.cols)
	for k, v := range m.data {
		o.data[k] = !v
	}
	return o
}

// UnionMasks returns the element-wise OR of a and b. It is the only way a
// ModelGrid's cell mask changes, so a cell once excluded stays excluded.
func UnionMasks(a, b *Mask) (*Mask, error) {
	if a.rows != b.rows || a.cols != b.cols {
		return nil, valueErrorf("mask", "shapes (%d, %d) and (%d, %d) differ", a.rows, a.cols, b.rows, b.cols)
	}
	o := NewMask(a.rows, a.cols)
	for k := range o.data {
		o.data[k] = a.data[k] || b.data[k]
	}
	return o, nil
}

// dense converts the mask to a 0/1 array.
func (m *Mask) dense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	for j := 0; j < m.rows; j++ {
		for i := 0; i < m.cols; i++ {
			if m.At(j, i) {
				d.Set(j, i, 1)
			}
		}
	}
	return d
}

// maskFromDense is the inverse of dense: entries above one half are true.
func maskFromDense(d *mat.Dense) *Mask {
	r, c := d.Dims()
	m := NewMask(r, c)
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			m.Set(j, i, d.At(j, i) > 0.5)
		}
	}
	return m
}

// validNodes returns a node mask that is true where neither x nor y is NaN.
func validNodes(x, y *mat.Dense) *Mask {
	r, c := x.Dims()
	m := NewMask(r, c)
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			m.Set(j, i, !math.IsNaN(x.At(j, i)) && !math.IsNaN(y.At(j, i)))
		}
	}
	return m
}

type indexedPoint struct {
	geom.Point
	k int
}

// PointsInPolygon reports, for every point in pts, whether it lies inside
// poly. Points on an edge or a vertex of the polygon count as inside.
// Points with a NaN coordinate are never inside. Candidates are first
// narrowed with a spatial index over the polygon bounds.
func PointsInPolygon(pts []geom.Point, poly geom.Polygon) []bool {
	in := make([]bool, len(pts))
	index := rtree.NewTree(25, 50)
	for k, p := range pts {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}
		index.Insert(&indexedPoint{Point: p, k: k})
	}
	for _, pI := range index.SearchIntersect(poly.Bounds()) {
		p := pI.(*indexedPoint)
		in[p.k] = p.Within(poly) != geom.Outside
	}
	return in
}

// polygonFromVerts checks that polyverts is an N×2 array with N ≥ 3 and
// converts it to a single-ring polygon.
func polygonFromVerts(polyverts [][]float64) (geom.Polygon, error) {
	if len(polyverts) < 3 {
		return nil, valueErrorf("polyverts", "need at least 3 points, got %d", len(polyverts))
	}
	ring := make([]geom.Point, len(polyverts))
	for k, v := range polyverts {
		if len(v) != 2 {
			return nil, valueErrorf("polyverts", "must be two columns of points; row %d has %d", k, len(v))
		}
		ring[k] = geom.Point{X: v[0], Y: v[1]}
	}
	return geom.Polygon{ring}, nil
}
