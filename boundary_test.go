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
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

var testBoundary = Boundary{
	{X: 0, Y: 0, Beta: 0.25, Order: 1, Reach: 1},
	{X: 10, Y: 0, Beta: 0.25, Order: 2, Reach: 1},
	{X: 10, Y: 5, Beta: 0.25, Order: 3, Reach: 2},
	{X: 0, Y: 5, Beta: 0.25, Order: 4, Reach: 2},
}

func writeBoundaryShapefile(t *testing.T, path string, b Boundary, fields ...goshp.Field) {
	if len(fields) == 0 {
		fields = []goshp.Field{
			goshp.FloatField("beta", 10, 4),
			goshp.NumberField("order", 5),
			goshp.NumberField("reach", 5),
		}
	}
	e, err := shp.NewEncoderFromFields(path, goshp.POINT, fields...)
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	for _, p := range b {
		vals := []interface{}{p.Beta, p.Order, p.Reach}[:len(fields)]
		if err := e.EncodeFields(geom.Point{X: p.X, Y: p.Y}, vals...); err != nil {
			t.Fatal(err)
		}
	}
}

func TestBoundaryValidate(t *testing.T) {
	if err := testBoundary.Validate(); err != nil {
		t.Error(err)
	}
	if err := testBoundary[:2].Validate(); !IsValueError(err) {
		t.Errorf("want a ValueError for two points, got %v", err)
	}
	b := append(Boundary(nil), testBoundary...)
	b[0].Beta = 1
	if err := b.Validate(); !IsValueError(err) {
		t.Errorf("want a ValueError for beta summing to 1.75, got %v", err)
	}
}

func TestLoadBoundaryFromShapefile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boundary.shp")
	writeBoundaryShapefile(t, path, testBoundary)

	t.Run("no filter", func(t *testing.T) {
		b, err := LoadBoundaryFromShapefile(path, nil)
		if err != nil {
			t.Fatal(err)
		}
		if len(b) != len(testBoundary) {
			t.Fatalf("%d points, want %d", len(b), len(testBoundary))
		}
		for k := range b {
			if b[k] != testBoundary[k] {
				t.Errorf("point %d: have %+v, want %+v", k, b[k], testBoundary[k])
			}
		}
		if err := b.Validate(); err != nil {
			t.Error(err)
		}
	})
	t.Run("filter", func(t *testing.T) {
		b, err := LoadBoundaryFromShapefile(path, func(p BoundaryPoint) bool { return p.Reach == 1 })
		if err != nil {
			t.Fatal(err)
		}
		if len(b) != 2 {
			t.Errorf("%d points, want 2", len(b))
		}
	})
	t.Run("bad file", func(t *testing.T) {
		_, err := LoadBoundaryFromShapefile(filepath.Join(dir, "junk.shp"), nil)
		if !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
	t.Run("missing field", func(t *testing.T) {
		path := filepath.Join(dir, "nobeta.shp")
		writeBoundaryShapefile(t, path, testBoundary, goshp.FloatField("depth", 10, 4))
		_, err := LoadBoundaryFromShapefile(path, nil)
		if !IsValueError(err) {
			t.Errorf("want a ValueError, got %v", err)
		}
	})
}

func TestBoundaryXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "boundary.xlsx")
	if err := WriteBoundaryXLSX(path, testBoundary); err != nil {
		t.Fatal(err)
	}
	b, err := LoadBoundaryFromXLSX(path, "", nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != len(testBoundary) {
		t.Fatalf("%d points, want %d", len(b), len(testBoundary))
	}
	for k := range b {
		if b[k] != testBoundary[k] {
			t.Errorf("point %d: have %+v, want %+v", k, b[k], testBoundary[k])
		}
	}

	b, err = LoadBoundaryFromXLSX(path, "boundary", func(p BoundaryPoint) bool { return p.Reach == 2 })
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 2 || b[0].Order != 3 {
		t.Errorf("filtered boundary %+v", b)
	}

	if _, err := LoadBoundaryFromXLSX(path, "other", nil); !IsValueError(err) {
		t.Errorf("want a ValueError for a missing sheet, got %v", err)
	}
	if _, err := LoadBoundaryFromXLSX(filepath.Join(dir, "missing.xlsx"), "", nil); !IsValueError(err) {
		t.Errorf("want a ValueError for a missing file, got %v", err)
	}
}
