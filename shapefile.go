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
	"bufio"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// WriteMode selects whether a shapefile is replaced or extended.
type WriteMode int

const (
	// ModeWrite replaces any existing shapefile ("w").
	ModeWrite WriteMode = iota
	// ModeAppend adds records after those already in the shapefile ("a").
	ModeAppend
)

// ParseWriteMode converts "w" or "a" to a WriteMode.
func ParseWriteMode(s string) (WriteMode, error) {
	switch s {
	case "w":
		return ModeWrite, nil
	case "a":
		return ModeAppend, nil
	default:
		return 0, valueErrorf("mode", `must be "w" or "a", got %q`, s)
	}
}

// ShapeOptions holds the attributes shared by the records of an export.
type ShapeOptions struct {
	River string
	Reach int

	// Elev, if not nil, gives an elevation per exported point (the shape
	// of x) or per cell (the cell shape).
	Elev *mat.Dense
}

func shapeType(kind GeomKind) (goshp.ShapeType, error) {
	switch kind {
	case PointGeom:
		return goshp.POINT, nil
	case LineStringGeom:
		return goshp.POLYLINE, nil
	case PolygonGeom:
		return goshp.POLYGON, nil
	default:
		return goshp.NULL, valueErrorf("geom", "unknown geometry kind %d", kind)
	}
}

// WriteRecords writes recs to the shapefile at path, with attributes
// ordered by tmpl. In ModeAppend, records already in the file are kept
// ahead of recs.
func WriteRecords(path string, kind GeomKind, tmpl *Template, recs []Record, mode WriteMode) error {
	t, err := shapeType(kind)
	if err != nil {
		return err
	}
	if mode != ModeWrite && mode != ModeAppend {
		return valueErrorf("mode", "unknown write mode %d", mode)
	}
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	path = strings.TrimSuffix(path, ".shp") + ".shp"
	if mode == ModeAppend {
		if _, err := os.Stat(path); err == nil {
			existing, err := ReadRecords(path, tmpl)
			if err != nil {
				return err
			}
			recs = append(existing, recs...)
		}
	}

	e, err := shp.NewEncoderFromFields(path, t, tmpl.Fields...)
	if err != nil {
		return fmt.Errorf("gridtools: creating shapefile %s: %w", path, err)
	}
	defer e.Close()
	for _, r := range recs {
		vals, err := tmpl.values(r.Properties)
		if err != nil {
			return err
		}
		if err := e.EncodeFields(r.Geometry, vals...); err != nil {
			return fmt.Errorf("gridtools: writing shapefile %s: %w", path, err)
		}
	}
	if tmpl.Proj != "" {
		prj := strings.TrimSuffix(path, ".shp") + ".prj"
		if err := ioutil.WriteFile(prj, []byte(tmpl.Proj), 0644); err != nil {
			return fmt.Errorf("gridtools: writing %s: %w", prj, err)
		}
	}
	Log.WithFields(logrus.Fields{
		"file":    path,
		"geom":    kind,
		"records": len(recs),
	}).Debug("gridtools: wrote shapefile")
	return nil
}

// ReadRecords reads every record of the shapefile at path. Attributes
// named in tmpl are read and converted to the template field types; a nil
// tmpl reads the fields of the file itself.
func ReadRecords(path string, tmpl *Template) ([]Record, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, valueErrorf("shapefile", "reading %s: %v", path, err)
	}
	defer d.Close()
	if tmpl == nil {
		tmpl = &Template{Fields: d.Fields()}
	}
	names := tmpl.FieldNames()
	var recs []Record
	for {
		g, fields, more := d.DecodeRowFields(names...)
		if !more {
			break
		}
		props := make(map[string]interface{}, len(fields))
		for i, f := range tmpl.Fields {
			v, err := parseValue(f, fields[names[i]])
			if err != nil {
				return nil, valueErrorf("shapefile", "%s: field %s: %v", path, names[i], err)
			}
			props[names[i]] = v
		}
		recs = append(recs, Record{ID: len(recs) + 1, Geometry: g, Properties: props})
	}
	if err := d.Error(); err != nil {
		return nil, valueErrorf("shapefile", "reading %s: %v", path, err)
	}
	return recs, nil
}

func nodeProps(id, i, j int, opts ShapeOptions, elev float64) map[string]interface{} {
	ii, jj := i+DefaultShift, j+DefaultShift
	return map[string]interface{}{
		"id":    id,
		"river": opts.River,
		"reach": opts.Reach,
		"ii":    ii,
		"jj":    jj,
		"elev":  elev,
		"ii_jj": fmt.Sprintf("%03d_%03d", ii, jj),
	}
}

func checkElev(elev *mat.Dense, rows, cols int) error {
	if elev == nil {
		return nil
	}
	if r, c := elev.Dims(); r != rows || c != cols {
		return valueErrorf("elev", "shape (%d, %d) does not match (%d, %d)", r, c, rows, cols)
	}
	return nil
}

func elevAt(elev *mat.Dense, j, i int) float64 {
	if elev == nil {
		return 0
	}
	return elev.At(j, i)
}

// SavePointShapefile writes one point per (x, y) pair. Points that are
// masked (mask may be nil) or NaN are skipped. Indices ii and jj are
// written with DefaultShift added.
func SavePointShapefile(x, y *mat.Dense, mask *Mask, tmpl *Template, path string, mode WriteMode, opts ShapeOptions) error {
	r, c := x.Dims()
	if yr, yc := y.Dims(); yr != r || yc != c {
		return valueErrorf("y", "shape (%d, %d) does not match x (%d, %d)", yr, yc, r, c)
	}
	if mask != nil {
		if mr, mc := mask.Dims(); mr != r || mc != c {
			return valueErrorf("mask", "shape (%d, %d) does not match x (%d, %d)", mr, mc, r, c)
		}
	}
	if err := checkElev(opts.Elev, r, c); err != nil {
		return err
	}
	var recs []Record
	for j := 0; j < r; j++ {
		for i := 0; i < c; i++ {
			xx, yy := x.At(j, i), y.At(j, i)
			if (mask != nil && mask.At(j, i)) || !(NodeRecord{X: xx, Y: yy}).Valid() {
				continue
			}
			id := len(recs) + 1
			rec, err := MakeRecord(id, [][]float64{{xx, yy}}, PointGeom,
				nodeProps(id, i, j, opts, elevAt(opts.Elev, j, i)))
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
	}
	return WriteRecords(path, PointGeom, tmpl, recs, mode)
}

// SaveGridShapefile writes one quadrilateral per cell of the node arrays
// x and y. Cells set in cellMask (which may be nil) or with a NaN corner
// are skipped.
func SaveGridShapefile(x, y *mat.Dense, cellMask *Mask, tmpl *Template, path string, mode WriteMode, opts ShapeOptions) error {
	r, c := x.Dims()
	if yr, yc := y.Dims(); yr != r || yc != c {
		return valueErrorf("y", "shape (%d, %d) does not match x (%d, %d)", yr, yc, r, c)
	}
	if r < 2 || c < 2 {
		return valueErrorf("x", "need at least 2x2 nodes, got (%d, %d)", r, c)
	}
	if cellMask != nil {
		if mr, mc := cellMask.Dims(); mr != r-1 || mc != c-1 {
			return valueErrorf("mask", "shape (%d, %d) does not match cells (%d, %d)", mr, mc, r-1, c-1)
		}
	}
	if err := checkElev(opts.Elev, r-1, c-1); err != nil {
		return err
	}
	var recs []Record
	for j := 0; j < r-1; j++ {
		for i := 0; i < c-1; i++ {
			if cellMask != nil && cellMask.At(j, i) {
				continue
			}
			coords := MakeQuadCoords(quadAt(x, j, i), quadAt(y, j, i))
			if coords == nil {
				continue
			}
			// Close the ring.
			coords = append(coords, coords[0])
			id := len(recs) + 1
			rec, err := MakeRecord(id, coords, PolygonGeom,
				nodeProps(id, i, j, opts, elevAt(opts.Elev, j, i)))
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
	}
	return WriteRecords(path, PolygonGeom, tmpl, recs, mode)
}

// ExportOptions configures ModelGrid.ToShapefile.
type ExportOptions struct {
	Geom    GeomKind
	Which   Which
	UseMask bool
	Mode    WriteMode

	// Template overrides the grid's own template. If both are nil,
	// DefaultTemplate is used.
	Template *Template

	ShapeOptions
}

// ToShapefile exports the grid as points (nodes or cell centers) or as
// cell polygons. Polygons are always built from the nodes.
func (g *ModelGrid) ToShapefile(path string, opts ExportOptions) error {
	tmpl := opts.Template
	if tmpl == nil {
		tmpl = g.Template
	}
	switch opts.Geom {
	case PointGeom:
		x, y, err := g.xy(opts.Which, opts.UseMask)
		if err != nil {
			return err
		}
		return SavePointShapefile(x, y, nil, tmpl, path, opts.Mode, opts.ShapeOptions)
	case PolygonGeom:
		var mask *Mask
		if opts.UseMask {
			mask = g.CellMask()
		}
		if opts.Which == Cells {
			Log.Warn("gridtools: polygons are always constructed from nodes")
		}
		return SaveGridShapefile(g.XN(), g.YN(), mask, tmpl, path, opts.Mode, opts.ShapeOptions)
	default:
		return valueErrorf("geom", "must be either Point or Polygon, got %v", opts.Geom)
	}
}

// ReadGridShapefile reads the nodes of a grid from a point shapefile in
// which the integer fields icol and jcol give each node's column and row.
func ReadGridShapefile(path, icol, jcol string) ([]NodeRecord, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, valueErrorf("shapefile", "reading %s: %v", path, err)
	}
	defer d.Close()
	var recs []NodeRecord
	for {
		g, fields, more := d.DecodeRowFields(icol, jcol)
		if !more {
			break
		}
		p, ok := g.(geom.Point)
		if !ok {
			return nil, valueErrorf("shapefile", "%s: grid nodes must be points, found %T", path, g)
		}
		i, err := strconv.Atoi(strings.TrimSpace(fields[icol]))
		if err != nil {
			return nil, valueErrorf("shapefile", "%s: field %s: %v", path, icol, err)
		}
		j, err := strconv.Atoi(strings.TrimSpace(fields[jcol]))
		if err != nil {
			return nil, valueErrorf("shapefile", "%s: field %s: %v", path, jcol, err)
		}
		recs = append(recs, NodeRecord{I: i, J: j, X: p.X, Y: p.Y})
	}
	if err := d.Error(); err != nil {
		return nil, valueErrorf("shapefile", "reading %s: %v", path, err)
	}
	return recs, nil
}

// FromShapefile builds a grid from a node shapefile; see
// ReadGridShapefile.
func FromShapefile(path, icol, jcol string) (*ModelGrid, error) {
	recs, err := ReadGridShapefile(path, icol, jcol)
	if err != nil {
		return nil, err
	}
	return FromRecords(recs)
}

// ReadGridext parses gridext.inp lines of the form "i j x y". Blank lines
// are skipped.
func ReadGridext(r io.Reader) ([]NodeRecord, error) {
	var recs []NodeRecord
	s := bufio.NewScanner(r)
	line := 0
	for s.Scan() {
		line++
		f := strings.Fields(s.Text())
		if len(f) == 0 {
			continue
		}
		if len(f) != 4 {
			return nil, valueErrorf("gridextfile", "line %d: want 4 columns, got %d", line, len(f))
		}
		var rec NodeRecord
		var err error
		if rec.I, err = strconv.Atoi(f[0]); err != nil {
			return nil, valueErrorf("gridextfile", "line %d: %v", line, err)
		}
		if rec.J, err = strconv.Atoi(f[1]); err != nil {
			return nil, valueErrorf("gridextfile", "line %d: %v", line, err)
		}
		if rec.X, err = strconv.ParseFloat(f[2], 64); err != nil {
			return nil, valueErrorf("gridextfile", "line %d: %v", line, err)
		}
		if rec.Y, err = strconv.ParseFloat(f[3], 64); err != nil {
			return nil, valueErrorf("gridextfile", "line %d: %v", line, err)
		}
		recs = append(recs, rec)
	}
	if err := s.Err(); err != nil {
		return nil, valueErrorf("gridextfile", "%v", err)
	}
	return recs, nil
}

// GridextToShapefile converts a gridext.inp file to a point shapefile
// whose ii and jj fields hold the indices as written in the file. An
// empty templatePath selects DefaultTemplate. Both inputs are read before
// the output is created.
func GridextToShapefile(gridextPath, outputPath, templatePath, river string, reach int) error {
	f, err := os.Open(gridextPath)
	if err != nil {
		return valueErrorf("gridextfile", "%v", err)
	}
	recs, err := ReadGridext(f)
	f.Close()
	if err != nil {
		return err
	}
	tmpl, err := LoadTemplate(templatePath)
	if err != nil {
		return err
	}
	out := make([]Record, len(recs))
	for k, r := range recs {
		out[k], err = MakeRecord(k+1, [][]float64{{r.X, r.Y}}, PointGeom, map[string]interface{}{
			"id":    k + 1,
			"river": river,
			"reach": reach,
			"ii":    r.I,
			"jj":    r.J,
			"ii_jj": fmt.Sprintf("%03d_%03d", r.I, r.J),
		})
		if err != nil {
			return err
		}
	}
	return WriteRecords(outputPath, PointGeom, tmpl, out, ModeWrite)
}
