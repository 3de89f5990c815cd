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
)

func TestExpressionTransform(t *testing.T) {
	fn, err := ExpressionTransform("x + 10", "y * 2")
	if err != nil {
		t.Fatal(err)
	}
	x, y, err := fn(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if x != 11 || y != 4 {
		t.Errorf("have (%g, %g), want (11, 4)", x, y)
	}

	t.Run("rotate", func(t *testing.T) {
		fn, err := ExpressionTransform("x*cos(rad(90)) - y*sin(rad(90))", "x*sin(rad(90)) + y*cos(rad(90))")
		if err != nil {
			t.Fatal(err)
		}
		x, y, err := fn(1, 0)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(x) > 1e-12 || math.Abs(y-1) > 1e-12 {
			t.Errorf("have (%g, %g), want (0, 1)", x, y)
		}
	})
	t.Run("identity", func(t *testing.T) {
		fn, err := ExpressionTransform("", "y - 1")
		if err != nil {
			t.Fatal(err)
		}
		x, y, _ := fn(3, 3)
		if x != 3 || y != 2 {
			t.Errorf("have (%g, %g), want (3, 2)", x, y)
		}
	})
	t.Run("unknown variable", func(t *testing.T) {
		if _, err := ExpressionTransform("z + 1", ""); !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
	t.Run("syntax", func(t *testing.T) {
		if _, err := ExpressionTransform("(x + 1", ""); !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
}

func TestTransformCoords(t *testing.T) {
	x, y := regularNodes(2, 2, 1, 1)
	x.Set(1, 1, math.NaN())
	g, err := NewModelGrid(x, y)
	if err != nil {
		t.Fatal(err)
	}
	fn, err := ExpressionTransform("x + 100", "y + 200")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.TransformCoords(fn); err != nil {
		t.Fatal(err)
	}
	if g.XN().At(0, 1) != 101 || g.YN().At(1, 0) != 201 {
		t.Errorf("nodes %v %v", g.XN(), g.YN())
	}
	if !math.IsNaN(g.XN().At(1, 1)) || g.YN().At(1, 1) != 1 {
		t.Errorf("missing node changed to (%g, %g)", g.XN().At(1, 1), g.YN().At(1, 1))
	}
}
