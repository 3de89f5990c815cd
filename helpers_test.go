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
	"testing"

	"gonum.org/v1/gonum/mat"
)

// regularNodes returns node arrays with x = i*dx and y = j*dy.
func regularNodes(rows, cols int, dx, dy float64) (x, y *mat.Dense) {
	x = mat.NewDense(rows, cols, nil)
	y = mat.NewDense(rows, cols, nil)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			x.Set(j, i, float64(i)*dx)
			y.Set(j, i, float64(j)*dy)
		}
	}
	return x, y
}

func regularGrid(t *testing.T, rows, cols int) *ModelGrid {
	x, y := regularNodes(rows, cols, 1, 1)
	g, err := NewModelGrid(x, y)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// denseEqual compares two arrays, treating NaNs in the same place as
// equal.
func denseEqual(a, b mat.Matrix) bool {
	ar, ac := a.Dims()
	br, bc := b.Dims()
	if ar != br || ac != bc {
		return false
	}
	for j := 0; j < ar; j++ {
		for i := 0; i < ac; i++ {
			va, vb := a.At(j, i), b.At(j, i)
			if math.IsNaN(va) && math.IsNaN(vb) {
				continue
			}
			if math.Abs(va-vb) > 1e-12 {
				return false
			}
		}
	}
	return true
}

func maskRows(m *Mask) [][]bool {
	r, c := m.Dims()
	o := make([][]bool, r)
	for j := range o {
		o[j] = make([]bool, c)
		for i := range o[j] {
			o[j][i] = m.At(j, i)
		}
	}
	return o
}
