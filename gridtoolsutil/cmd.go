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

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/gridtools"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

type option struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

var options []option

func init() {
	// Options are the configuration options available to gridtools.
	options = []option{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose turns on debug logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "nodes",
			usage: `
              nodes is the path to a point shapefile holding the grid
              nodes, with integer column and row index fields.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "icol",
			usage: `
              icol is the name of the node shapefile field holding the
              column index of each node.`,
			defaultVal: "ii",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "jcol",
			usage: `
              jcol is the name of the node shapefile field holding the
              row index of each node.`,
			defaultVal: "jj",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "x_expr",
			usage: `
              x_expr is an optional expression in x and y giving new node
              x coordinates, for example "x + 1000".`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "y_expr",
			usage: `
              y_expr is an optional expression in x and y giving new node
              y coordinates.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "mask",
			usage: `
              mask is an optional polygon shapefile. Cells are masked
              according to mask_policy for every polygon in it.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "mask_policy",
			usage: `
              mask_policy is either "center", which masks cells whose
              center falls inside a mask polygon, or "nodes", which masks
              cells with fewer than min_nodes corners inside.`,
			defaultVal: "center",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "mask_invert",
			usage: `
              mask_invert inverts each polygon mask before it is applied,
              so that cells outside the polygons are masked.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "min_nodes",
			usage: `
              min_nodes is the number of cell corners that must fall
              inside a polygon for the "nodes" mask policy.`,
			defaultVal: gridtools.DefaultMinNodes,
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags(), exportCmd.Flags()},
		},
		{
			name: "output_dir",
			usage: `
              output_dir is the directory the GEFDC input files are
              written to.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "title",
			usage: `
              title is the title card of the gefdc.inp control file.`,
			defaultVal: "Grid created by gridtools",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "bathy_rows",
			usage: `
              bathy_rows is the number of rows in the depdat.inp
              bathymetry file referenced by gefdc.inp.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "maxcols",
			usage: `
              maxcols is the number of cells per line in cell.inp. Wider
              grids are written in bands.`,
			defaultVal: gridtools.DefaultMaxCols,
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "gridext",
			usage: `
              gridext specifies whether to also write gridext.inp.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "shift",
			usage: `
              shift is added to the node indices written to gridext.inp.`,
			defaultVal: gridtools.DefaultShift,
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "manifest",
			usage: `
              manifest is the name of a TOML file written into output_dir
              describing the run. Leave empty to skip it.`,
			defaultVal: "gridtools.toml",
			flagsets:   []*pflag.FlagSet{gefdcCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path of the shapefile to write.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags(), gridextCmd.Flags()},
		},
		{
			name: "geom",
			usage: `
              geom is the geometry to export: "point" or "polygon".`,
			defaultVal: "polygon",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "which",
			usage: `
              which selects the grid "nodes" or the cell centers ("cells")
              for point exports.`,
			defaultVal: "nodes",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "use_mask",
			usage: `
              use_mask specifies whether masked cells are left out of the
              export.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "mode",
			usage: `
              mode is "w" to replace the output shapefile or "a" to append
              to it.`,
			defaultVal: "w",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags()},
		},
		{
			name: "template",
			usage: `
              template is an optional shapefile whose fields and
              projection are copied to the output.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags(), gridextCmd.Flags()},
		},
		{
			name: "river",
			usage: `
              river is written to the river field of every record.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{exportCmd.Flags(), gridextCmd.Flags()},
		},
		{
			name: "reach",
			usage: `
              reach is written to the reach field of every record.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{exportCmd.Flags(), gridextCmd.Flags()},
		},
		{
			name: "gridextfile",
			usage: `
              gridextfile is the gridext.inp file to convert.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{gridextCmd.Flags()},
		},
		{
			name: "boundary",
			usage: `
              boundary is a point shapefile or an Excel workbook (.xlsx)
              of boundary vertices with x, y, beta, order and reach.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{boundaryCmd.Flags()},
		},
		{
			name: "boundary_reach",
			usage: `
              boundary_reach keeps only the boundary vertices of a single
              reach. Negative values keep all of them.`,
			defaultVal: -1,
			flagsets:   []*pflag.FlagSet{boundaryCmd.Flags()},
		},
		{
			name: "sheet",
			usage: `
              sheet is the workbook sheet holding the boundary. The first
              sheet is used if it is empty.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{boundaryCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GRIDTOOLS")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(gefdcCmd)
	Root.AddCommand(exportCmd)
	Root.AddCommand(gridextCmd)
	Root.AddCommand(boundaryCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets the log level.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gridtools: problem reading configuration file: %v", err)
		}
	}
	if Cfg.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gridtools",
	Short: "Curvilinear grid tools for the GEFDC hydrodynamic model.",
	Long: `gridtools builds, masks and exports structured curvilinear grids and
writes the input files of the GEFDC grid preprocessor.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GRIDTOOLS_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of gridtools.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("gridtools v%s\n", gridtools.Version)
	},
	DisableAutoGenTag: true,
}

var gefdcCmd = &cobra.Command{
	Use:   "gefdc",
	Short: "Write GEFDC input files for a grid.",
	Long: `gefdc reads the grid nodes from a point shapefile, optionally
transforms and masks them, and writes grid.out, cell.inp and gefdc.inp
(and optionally gridext.inp) to output_dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(Cfg)
		if err != nil {
			return err
		}
		_, err = GEFDC(g, GEFDCConfig{
			OutputDir: Cfg.GetString("output_dir"),
			Title:     Cfg.GetString("title"),
			BathyRows: Cfg.GetInt("bathy_rows"),
			MaxCols:   Cfg.GetInt("maxcols"),
			Gridext:   Cfg.GetBool("gridext"),
			Shift:     Cfg.GetInt("shift"),
			Manifest:  Cfg.GetString("manifest"),
			Nodes:     Cfg.GetString("nodes"),
			Mask:      Cfg.GetString("mask"),
		})
		return err
	},
	DisableAutoGenTag: true,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a grid as a point or polygon shapefile.",
	Long: `export reads the grid nodes from a point shapefile, optionally
transforms and masks them, and writes the nodes, the cell centers or the
cell polygons to a new shapefile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := loadGrid(Cfg)
		if err != nil {
			return err
		}
		opts, err := exportOptions(Cfg)
		if err != nil {
			return err
		}
		out, err := checkOutputFile(Cfg.GetString("output"))
		if err != nil {
			return err
		}
		return g.ToShapefile(out, opts)
	},
	DisableAutoGenTag: true,
}

var gridextCmd = &cobra.Command{
	Use:   "gridext",
	Short: "Convert a gridext.inp file to a point shapefile.",
	Long:  `gridext converts the nodes listed in a gridext.inp file to a point shapefile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := checkOutputFile(Cfg.GetString("output"))
		if err != nil {
			return err
		}
		return gridtools.GridextToShapefile(
			expand(Cfg.GetString("gridextfile")),
			out,
			expand(Cfg.GetString("template")),
			Cfg.GetString("river"),
			Cfg.GetInt("reach"),
		)
	},
	DisableAutoGenTag: true,
}

var boundaryCmd = &cobra.Command{
	Use:   "boundary",
	Short: "Check a grid-generation boundary.",
	Long: `boundary loads the vertices of a grid-generation boundary from a
shapefile or Excel workbook, checks that it is usable, and prints a summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := loadBoundary(Cfg)
		if err != nil {
			return err
		}
		if err := b.Validate(); err != nil {
			return err
		}
		cmd.Printf("%d boundary points, beta sums to 1\n", len(b))
		return nil
	},
	DisableAutoGenTag: true,
}
