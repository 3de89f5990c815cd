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
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

func TestUnionMasks(t *testing.T) {
	a, _ := NewMaskFrom([][]bool{{true, false}, {false, false}})
	b, _ := NewMaskFrom([][]bool{{false, false}, {false, true}})
	u, err := UnionMasks(a, b)
	if err != nil {
		t.Fatal(err)
	}
	want := [][]bool{{true, false}, {false, true}}
	if !reflect.DeepEqual(maskRows(u), want) {
		t.Errorf("have %v, want %v", maskRows(u), want)
	}
	if a.Count() != 1 || b.Count() != 1 {
		t.Error("inputs were modified")
	}
	if _, err := UnionMasks(a, NewMask(3, 2)); !IsValueError(err) {
		t.Errorf("want a ValueError for mismatched shapes, got %v", err)
	}
}

func TestNewMaskFrom(t *testing.T) {
	if _, err := NewMaskFrom([][]bool{{true}, {true, false}}); !IsValueError(err) {
		t.Errorf("want a ValueError for ragged rows, got %v", err)
	}
	m, err := NewMaskFrom([][]bool{{true, false, true}})
	if err != nil {
		t.Fatal(err)
	}
	if inv := m.Invert(); !reflect.DeepEqual(maskRows(inv), [][]bool{{false, true, false}}) {
		t.Errorf("invert: %v", maskRows(inv))
	}
	if !m.Any() || m.Count() != 2 {
		t.Errorf("count %d", m.Count())
	}
}

func TestPointsInPolygon(t *testing.T) {
	square := geom.Polygon{{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}}
	pts := []geom.Point{
		{X: 1, Y: 1},
		{X: 3, Y: 3},
		{X: 2, Y: 1}, // edge
		{X: 0, Y: 0}, // vertex
		{X: math.NaN(), Y: 1},
		{X: 1, Y: -0.5},
	}
	want := []bool{true, false, true, true, false, false}
	have := PointsInPolygon(pts, square)
	if !reflect.DeepEqual(have, want) {
		t.Errorf("have %v, want %v", have, want)
	}
}

func TestPolygonFromVerts(t *testing.T) {
	t.Run("too few", func(t *testing.T) {
		_, err := polygonFromVerts([][]float64{{0, 0}, {1, 1}})
		if !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
	t.Run("three columns", func(t *testing.T) {
		_, err := polygonFromVerts([][]float64{{0, 0}, {1, 1, 1}, {1, 0}})
		if !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
	t.Run("ok", func(t *testing.T) {
		p, err := polygonFromVerts([][]float64{{0, 0}, {1, 1}, {1, 0}})
		if err != nil {
			t.Fatal(err)
		}
		if len(p) != 1 || len(p[0]) != 3 {
			t.Errorf("polygon %v", p)
		}
	})
}
