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
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridtools"
	"github.com/spf13/cast"
)

// expand expands environment variables in a path.
func expand(s string) string { return os.ExpandEnv(s) }

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`gridtools: you need to specify an output file (for example: --output="grid.shp")`)
	}
	f = expand(f)
	if _, err := os.Stat(filepath.Dir(f)); err != nil {
		return f, fmt.Errorf("gridtools: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// maskOptions reads the polygon masking settings.
func maskOptions(cfg *viper.Viper) (gridtools.MaskOptions, error) {
	opts := gridtools.MaskOptions{
		Invert:   cast.ToBool(cfg.Get("mask_invert")),
		MinNodes: cast.ToInt(cfg.Get("min_nodes")),
	}
	switch p := strings.ToLower(cast.ToString(cfg.Get("mask_policy"))); p {
	case "center", "centre", "":
		opts.Policy = gridtools.CellCenterPolicy
	case "nodes":
		opts.Policy = gridtools.NodeCoveragePolicy
	default:
		return opts, fmt.Errorf(`gridtools: mask_policy must be "center" or "nodes", got %q`, p)
	}
	return opts, nil
}

// loadMaskPolygons reads the outer rings of every polygon in a
// shapefile as vertex lists.
func loadMaskPolygons(path string) ([][][]float64, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("gridtools: opening mask shapefile: %v", err)
	}
	defer d.Close()
	var polys [][][]float64
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		var pp []geom.Polygon
		switch t := g.(type) {
		case geom.Polygon:
			pp = []geom.Polygon{t}
		case geom.MultiPolygon:
			pp = t
		default:
			return nil, fmt.Errorf("gridtools: mask shapefile %s: unsupported geometry %T", path, g)
		}
		for _, p := range pp {
			if len(p) == 0 {
				continue
			}
			verts := make([][]float64, len(p[0]))
			for i, pt := range p[0] {
				verts[i] = []float64{pt.X, pt.Y}
			}
			polys = append(polys, verts)
		}
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("gridtools: reading mask shapefile %s: %v", path, err)
	}
	return polys, nil
}

// loadGrid reads the grid named by the nodes option, applies any
// coordinate expressions and masks it with any mask polygons.
func loadGrid(cfg *viper.Viper) (*gridtools.ModelGrid, error) {
	nodes := expand(cast.ToString(cfg.Get("nodes")))
	if nodes == "" {
		return nil, fmt.Errorf("gridtools: you need to specify a node shapefile (--nodes)")
	}
	g, err := gridtools.FromShapefile(nodes, cast.ToString(cfg.Get("icol")), cast.ToString(cfg.Get("jcol")))
	if err != nil {
		return nil, err
	}

	xExpr, yExpr := cast.ToString(cfg.Get("x_expr")), cast.ToString(cfg.Get("y_expr"))
	if xExpr != "" || yExpr != "" {
		fn, err := gridtools.ExpressionTransform(xExpr, yExpr)
		if err != nil {
			return nil, err
		}
		if err := g.TransformCoords(fn); err != nil {
			return nil, err
		}
	}

	if mask := expand(cast.ToString(cfg.Get("mask"))); mask != "" {
		opts, err := maskOptions(cfg)
		if err != nil {
			return nil, err
		}
		polys, err := loadMaskPolygons(mask)
		if err != nil {
			return nil, err
		}
		for _, p := range polys {
			if err := g.MaskCellsWithPolygon(p, opts); err != nil {
				return nil, err
			}
		}
		gridtools.Log.WithFields(logrus.Fields{
			"polygons": len(polys),
			"masked":   g.CellMask().Count(),
		}).Info("gridtools: masked cells")
	}
	return g, nil
}

// exportOptions reads the shapefile export settings.
func exportOptions(cfg *viper.Viper) (gridtools.ExportOptions, error) {
	var opts gridtools.ExportOptions
	var err error
	if opts.Geom, err = gridtools.ParseGeomKind(cast.ToString(cfg.Get("geom"))); err != nil {
		return opts, err
	}
	if opts.Which, err = gridtools.ParseWhich(cast.ToString(cfg.Get("which"))); err != nil {
		return opts, err
	}
	if opts.Mode, err = gridtools.ParseWriteMode(cast.ToString(cfg.Get("mode"))); err != nil {
		return opts, err
	}
	if opts.Template, err = gridtools.LoadTemplate(expand(cast.ToString(cfg.Get("template")))); err != nil {
		return opts, err
	}
	opts.UseMask = cast.ToBool(cfg.Get("use_mask"))
	if opts.Which == gridtools.Nodes {
		// Node exports cannot apply the cell mask.
		opts.UseMask = opts.UseMask && opts.Geom == gridtools.PolygonGeom
	}
	opts.River = cast.ToString(cfg.Get("river"))
	opts.Reach = cast.ToInt(cfg.Get("reach"))
	return opts, nil
}

// loadBoundary reads the boundary named by the boundary option, keeping
// only the reach named by boundary_reach unless it is negative or unset.
func loadBoundary(cfg *viper.Viper) (gridtools.Boundary, error) {
	path := expand(cast.ToString(cfg.Get("boundary")))
	if path == "" {
		return nil, fmt.Errorf("gridtools: you need to specify a boundary file (--boundary)")
	}
	var filter func(gridtools.BoundaryPoint) bool
	reach := -1
	if cfg.IsSet("boundary_reach") {
		reach = cast.ToInt(cfg.Get("boundary_reach"))
	}
	if reach >= 0 {
		filter = func(p gridtools.BoundaryPoint) bool { return p.Reach == reach }
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return gridtools.LoadBoundaryFromXLSX(path, cast.ToString(cfg.Get("sheet")), filter)
	}
	return gridtools.LoadBoundaryFromShapefile(path, filter)
}

// GEFDCConfig holds the settings of the gefdc command.
type GEFDCConfig struct {
	OutputDir string
	Title     string
	BathyRows int
	MaxCols   int
	Gridext   bool
	Shift     int
	Manifest  string

	// Nodes and Mask are recorded in the manifest.
	Nodes, Mask string
}

// GEFDC writes the GEFDC input files for g and, if c.Manifest is set, a
// manifest of the run. It returns the manifest.
func GEFDC(g *gridtools.ModelGrid, c GEFDCConfig) (*Manifest, error) {
	dir := expand(c.OutputDir)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("gridtools: creating output directory: %v", err)
	}
	if err := g.WriteGEFDCGridFile(dir, ""); err != nil {
		return nil, err
	}
	cells, err := g.WriteGEFDCCellFile(dir, "", false, c.MaxCols)
	if err != nil {
		return nil, err
	}
	if _, err := g.WriteGEFDCControlFile(dir, "", c.BathyRows, c.Title); err != nil {
		return nil, err
	}
	files := []string{gridtools.GridOutFile, gridtools.CellInpFile, gridtools.ControlFile}
	if c.Gridext {
		if _, err := g.WriteGEFDCGridextFile(dir, c.Shift, ""); err != nil {
			return nil, err
		}
		files = append(files, gridtools.GridextFile)
	}

	m := newManifest(g, cells)
	m.Title = c.Title
	m.Nodes = c.Nodes
	m.Mask = c.Mask
	m.Files = files
	if c.Manifest != "" {
		if err := WriteManifest(filepath.Join(dir, c.Manifest), m); err != nil {
			return nil, err
		}
	}
	gridtools.Log.WithFields(logrus.Fields{
		"dir":   dir,
		"files": len(files),
	}).Info("gridtools: wrote GEFDC input files")
	return m, nil
}
