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
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

func TestMakeQuadCoords(t *testing.T) {
	x := Quad{Values: [2][2]float64{{1, 2}, {1, 2}}}
	y := Quad{Values: [2][2]float64{{4, 4}, {3, 3}}}

	t.Run("base", func(t *testing.T) {
		want := [][]float64{{1, 4}, {2, 4}, {2, 3}, {1, 3}}
		if have := MakeQuadCoords(x, y); !reflect.DeepEqual(have, want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})
	t.Run("z", func(t *testing.T) {
		want := [][]float64{{1, 4, 5}, {2, 4, 5}, {2, 3, 5}, {1, 3, 5}}
		if have := MakeQuadCoordsZ(x, y, 5); !reflect.DeepEqual(have, want) {
			t.Errorf("have %v, want %v", have, want)
		}
	})
	t.Run("masked", func(t *testing.T) {
		mx := x
		mx.Mask = [2][2]bool{{false, false}, {true, true}}
		if have := MakeQuadCoords(mx, y); have != nil {
			t.Errorf("want nil, have %v", have)
		}
		if have := MakeQuadCoordsZ(x, mx, 5); have != nil {
			t.Errorf("want nil, have %v", have)
		}
	})
}

func TestMakeRecord(t *testing.T) {
	props := map[string]interface{}{"river": "test"}
	t.Run("point", func(t *testing.T) {
		r, err := MakeRecord(1, [][]float64{{1, 2}}, PointGeom, props)
		if err != nil {
			t.Fatal(err)
		}
		if r.Geometry != (geom.Point{X: 1, Y: 2}) || r.ID != 1 || r.Properties["river"] != "test" {
			t.Errorf("record %+v", r)
		}
	})
	t.Run("point with two coordinates", func(t *testing.T) {
		_, err := MakeRecord(1, [][]float64{{1, 2}, {3, 4}}, PointGeom, props)
		if !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
	coords := [][]float64{{1, 4}, {2, 4}, {2, 3}, {1, 3}}
	t.Run("linestring", func(t *testing.T) {
		r, err := MakeRecord(2, coords, LineStringGeom, props)
		if err != nil {
			t.Fatal(err)
		}
		want := geom.MultiLineString{geom.LineString{{X: 1, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 3}, {X: 1, Y: 3}}}
		if !reflect.DeepEqual(r.Geometry, want) {
			t.Errorf("have %v, want %v", r.Geometry, want)
		}
	})
	t.Run("polygon", func(t *testing.T) {
		r, err := MakeRecord(3, coords, PolygonGeom, props)
		if err != nil {
			t.Fatal(err)
		}
		want := geom.Polygon{{{X: 1, Y: 4}, {X: 2, Y: 4}, {X: 2, Y: 3}, {X: 1, Y: 3}}}
		if !reflect.DeepEqual(r.Geometry, want) {
			t.Errorf("have %v, want %v", r.Geometry, want)
		}
	})
	t.Run("bad kind", func(t *testing.T) {
		_, err := MakeRecord(4, coords, GeomKind(99), props)
		if !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
}

func TestParseGeomKind(t *testing.T) {
	for s, want := range map[string]GeomKind{
		"point":   PointGeom,
		"Polygon": PolygonGeom,
		"cell":    PolygonGeom,
		"cells":   PolygonGeom,
		"grid":    PolygonGeom,
	} {
		have, err := ParseGeomKind(s)
		if err != nil {
			t.Errorf("%s: %v", s, err)
		} else if have != want {
			t.Errorf("%s: have %v, want %v", s, have, want)
		}
	}
	if _, err := ParseGeomKind("circle"); !IsValueError(err) {
		t.Errorf("want a ValueError, got %v", err)
	}
}
