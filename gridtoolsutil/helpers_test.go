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

package gridtoolsutil

import (
	"path/filepath"
	"testing"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/spatialmodel/gridtools"
	"gonum.org/v1/gonum/mat"
)

// writeNodes writes a regular rows×cols grid of unit spacing to a node
// shapefile in dir and returns its path.
func writeNodes(t *testing.T, dir string, rows, cols int) string {
	x := mat.NewDense(rows, cols, nil)
	y := mat.NewDense(rows, cols, nil)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			x.Set(j, i, float64(i))
			y.Set(j, i, float64(j))
		}
	}
	path := filepath.Join(dir, "nodes.shp")
	err := gridtools.SavePointShapefile(x, y, nil, nil, path, gridtools.ModeWrite, gridtools.ShapeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// writeMask writes a single square polygon with lower-left corner
// (x0, y0) and side length d.
func writeMask(t *testing.T, dir string, x0, y0, d float64) string {
	path := filepath.Join(dir, "mask.shp")
	e, err := shp.NewEncoderFromFields(path, goshp.POLYGON, goshp.NumberField("id", 5))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	p := geom.Polygon{{
		{X: x0, Y: y0}, {X: x0, Y: y0 + d}, {X: x0 + d, Y: y0 + d}, {X: x0 + d, Y: y0}, {X: x0, Y: y0},
	}}
	if err := e.EncodeFields(p, 1); err != nil {
		t.Fatal(err)
	}
	return path
}
