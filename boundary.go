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
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/tealeg/xlsx"
	"gonum.org/v1/gonum/floats"
)

// BoundaryPoint is a vertex of a grid-generation boundary. Beta is the
// turning value at the vertex, Order its position along the boundary and
// Reach the river reach it belongs to.
type BoundaryPoint struct {
	X, Y  float64
	Beta  float64
	Order int
	Reach int
}

// Boundary is an ordered polygon with turning values.
type Boundary []BoundaryPoint

// boundaryTolerance is the allowed deviation of the sum of the turning
// values from 1.
const boundaryTolerance = 1e-8

// Validate checks that b has at least three vertices and that its
// turning values sum to 1.
func (b Boundary) Validate() error {
	if len(b) < 3 {
		return valueErrorf("boundary", "need at least 3 points, got %d", len(b))
	}
	beta := make([]float64, len(b))
	for i, p := range b {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Beta) {
			return valueErrorf("boundary", "point %d has a missing value", i)
		}
		beta[i] = p.Beta
	}
	if s := floats.Sum(beta); math.Abs(s-1) > boundaryTolerance {
		return valueErrorf("boundary", "beta values sum to %g, not 1", s)
	}
	return nil
}

// XY returns the boundary vertex coordinates.
func (b Boundary) XY() (x, y []float64) {
	x = make([]float64, len(b))
	y = make([]float64, len(b))
	for i, p := range b {
		x[i], y[i] = p.X, p.Y
	}
	return x, y
}

// boundaryRecord is a row of a boundary shapefile.
type boundaryRecord struct {
	geom.Geom
	Beta  float64 `shp:"beta"`
	Order int     `shp:"order"`
	Reach int     `shp:"reach"`
}

// LoadBoundaryFromShapefile reads boundary vertices from a point
// shapefile with beta, order and reach fields. If filter is not nil,
// only the points for which it returns true are kept.
func LoadBoundaryFromShapefile(path string, filter func(BoundaryPoint) bool) (Boundary, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, valueErrorf("boundary", "reading %s: %v", path, err)
	}
	defer d.Close()

	have := make(map[string]bool)
	for _, f := range d.Fields() {
		have[fieldName(f)] = true
	}
	for _, name := range []string{"beta", "order", "reach"} {
		if !have[name] {
			return nil, valueErrorf("boundary", "%s has no %s field", path, name)
		}
	}

	var b Boundary
	for {
		var rec boundaryRecord
		if ok := d.DecodeRow(&rec); !ok {
			break
		}
		p, ok := rec.Geom.(geom.Point)
		if !ok {
			return nil, valueErrorf("boundary", "%s: boundary vertices must be points, found %T", path, rec.Geom)
		}
		bp := BoundaryPoint{X: p.X, Y: p.Y, Beta: rec.Beta, Order: rec.Order, Reach: rec.Reach}
		if filter == nil || filter(bp) {
			b = append(b, bp)
		}
	}
	if err := d.Error(); err != nil {
		return nil, valueErrorf("boundary", "reading %s: %v", path, err)
	}
	Log.WithField("file", path).Debugf("gridtools: loaded %d boundary points", len(b))
	return b, nil
}

var boundaryColumns = []string{"x", "y", "beta", "order", "reach"}

// LoadBoundaryFromXLSX reads boundary vertices from a sheet of an Excel
// workbook. The first row must name the columns x, y, beta, order and
// reach, in any order. An empty sheet name selects the first sheet.
func LoadBoundaryFromXLSX(path, sheet string, filter func(BoundaryPoint) bool) (Boundary, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, valueErrorf("boundary", "reading %s: %v", path, err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, valueErrorf("boundary", "%s has no sheets", path)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, valueErrorf("boundary", "%s has no sheet %s", path, sheet)
		}
	}
	if len(s.Rows) == 0 {
		return nil, valueErrorf("boundary", "%s: sheet %s is empty", path, s.Name)
	}

	col := make(map[string]int)
	for i, c := range s.Rows[0].Cells {
		col[strings.ToLower(strings.TrimSpace(c.Value))] = i
	}
	for _, name := range boundaryColumns {
		if _, ok := col[name]; !ok {
			return nil, valueErrorf("boundary", "%s: no %s column", path, name)
		}
	}

	var b Boundary
	for r, row := range s.Rows[1:] {
		if rowEmpty(row) {
			continue
		}
		v := make(map[string]float64, len(boundaryColumns))
		for _, name := range boundaryColumns {
			var cell string
			if i := col[name]; i < len(row.Cells) {
				cell = strings.TrimSpace(row.Cells[i].Value)
			}
			x, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, valueErrorf("boundary", "%s: row %d, column %s: %v", path, r+2, name, err)
			}
			v[name] = x
		}
		bp := BoundaryPoint{
			X:     v["x"],
			Y:     v["y"],
			Beta:  v["beta"],
			Order: int(v["order"]),
			Reach: int(v["reach"]),
		}
		if filter == nil || filter(bp) {
			b = append(b, bp)
		}
	}
	Log.WithField("file", path).Debugf("gridtools: loaded %d boundary points", len(b))
	return b, nil
}

func rowEmpty(row *xlsx.Row) bool {
	for _, c := range row.Cells {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}

// WriteBoundaryXLSX writes b to a new workbook with a single sheet, in
// the layout read by LoadBoundaryFromXLSX.
func WriteBoundaryXLSX(path string, b Boundary) error {
	f := xlsx.NewFile()
	s, err := f.AddSheet("boundary")
	if err != nil {
		return fmt.Errorf("gridtools: writing %s: %w", path, err)
	}
	hdr := s.AddRow()
	for _, name := range boundaryColumns {
		hdr.AddCell().Value = name
	}
	for _, p := range b {
		row := s.AddRow()
		for _, v := range []float64{p.X, p.Y, p.Beta, float64(p.Order), float64(p.Reach)} {
			row.AddCell().SetFloat(v)
		}
	}
	if err := f.Save(path); err != nil {
		return fmt.Errorf("gridtools: writing %s: %w", path, err)
	}
	return nil
}
