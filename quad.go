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
	"strings"

	"github.com/ctessum/geom"
	"gonum.org/v1/gonum/mat"
)

// Quad holds one coordinate component of the four corners of a cell,
// indexed [row][column], with an optional mask of missing corners.
type Quad struct {
	Values [2][2]float64
	Mask   [2][2]bool
}

// masked reports whether any corner is masked.
func (q Quad) masked() bool {
	return q.Mask[0][0] || q.Mask[0][1] || q.Mask[1][0] || q.Mask[1][1]
}

// quadAt extracts the corners of cell (j, i) from a node array. NaN
// corners are masked.
func quadAt(n *mat.Dense, j, i int) Quad {
	var q Quad
	for dj := 0; dj < 2; dj++ {
		for di := 0; di < 2; di++ {
			v := n.At(j+dj, i+di)
			q.Values[dj][di] = v
			q.Mask[dj][di] = math.IsNaN(v)
		}
	}
	return q
}

// MakeQuadCoords returns the four vertices of a cell in ring order:
// (x[0][0], y[0][0]), (x[0][1], y[0][1]), (x[1][1], y[1][1]),
// (x[1][0], y[1][0]). If either quad has a masked corner the cell is
// undefined and nil is returned.
func MakeQuadCoords(x, y Quad) [][]float64 {
	if x.masked() || y.masked() {
		return nil
	}
	return [][]float64{
		{x.Values[0][0], y.Values[0][0]},
		{x.Values[0][1], y.Values[0][1]},
		{x.Values[1][1], y.Values[1][1]},
		{x.Values[1][0], y.Values[1][0]},
	}
}

// MakeQuadCoordsZ is MakeQuadCoords with z appended to every vertex.
func MakeQuadCoordsZ(x, y Quad, z float64) [][]float64 {
	coords := MakeQuadCoords(x, y)
	for k := range coords {
		coords[k] = append(coords[k], z)
	}
	return coords
}

// GeomKind is the geometry type of an exported record.
type GeomKind int

const (
	// PointGeom is a single point.
	PointGeom GeomKind = iota
	// LineStringGeom is a line.
	LineStringGeom
	// PolygonGeom is a polygon with one ring.
	PolygonGeom
)

func (k GeomKind) String() string {
	switch k {
	case PointGeom:
		return "Point"
	case LineStringGeom:
		return "LineString"
	case PolygonGeom:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// ParseGeomKind resolves a geometry name. "cell", "cells" and "grid" are
// accepted as synonyms for "polygon". Case is ignored.
func ParseGeomKind(s string) (GeomKind, error) {
	switch strings.ToLower(s) {
	case "point":
		return PointGeom, nil
	case "linestring":
		return LineStringGeom, nil
	case "polygon", "cell", "cells", "grid":
		return PolygonGeom, nil
	default:
		return 0, valueErrorf("geom", "unknown geometry kind %q", s)
	}
}

// Record is one feature ready for a shapefile: a geometry and its
// attributes.
type Record struct {
	ID         int
	Geometry   geom.Geom
	Properties map[string]interface{}
}

// MakeRecord wraps coords in a Record. A Point takes exactly one
// coordinate of two (or more) values. A LineString becomes a
// MultiLineString holding that one line, and a Polygon a polygon with
// that one ring; both need at least two coordinates. Values past the
// second in each coordinate are dropped.
func MakeRecord(id int, coords [][]float64, kind GeomKind, props map[string]interface{}) (Record, error) {
	pts := make([]geom.Point, len(coords))
	for k, c := range coords {
		if len(c) < 2 {
			return Record{}, valueErrorf("coords", "coordinate %d has %d values", k, len(c))
		}
		pts[k] = geom.Point{X: c[0], Y: c[1]}
	}
	r := Record{ID: id, Properties: props}
	switch kind {
	case PointGeom:
		if len(pts) != 1 {
			return Record{}, valueErrorf("coords", "a Point needs one coordinate, got %d", len(pts))
		}
		r.Geometry = pts[0]
	case LineStringGeom:
		if len(pts) < 2 {
			return Record{}, valueErrorf("coords", "a LineString needs at least 2 coordinates, got %d", len(pts))
		}
		r.Geometry = geom.MultiLineString{geom.LineString(pts)}
	case PolygonGeom:
		if len(pts) < 2 {
			return Record{}, valueErrorf("coords", "a Polygon needs at least 2 coordinates, got %d", len(pts))
		}
		r.Geometry = geom.Polygon{pts}
	default:
		return Record{}, valueErrorf("geom", "unknown geometry kind %d", kind)
	}
	return r, nil
}
