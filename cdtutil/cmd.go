/*
Copyright © 2026 the CDT authors.
This file is part of CDT.

CDT is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

CDT is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with CDT.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package cdtutil provides the command-line interface to the spatial
// indexing routines in package cdt.
package cdtutil

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/climdata/cdt"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to CDT.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "LogLevel",
			usage: `
              LogLevel sets the minimum severity of log messages. Valid options
              are "debug", "info", "warning", and "error".`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "rows",
			usage: `
              rows specifies the number of latitude rows in the sinusoidal
              bin grid, for example 180, 2160, or 4320. For binind2latlon,
              0 means the number of rows is inferred from the largest bin
              index, which is unreliable when the data are sparse.`,
			shorthand:  "r",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{binToLatLonCmd.Flags(), latLonToBinCmd.Flags()},
		},
		{
			name: "values",
			usage: `
              values is the list of 1-D coordinates to be searched by near1.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{near1Cmd.Flags()},
		},
		{
			name: "grid",
			usage: `
              grid is the path to a TOML file holding the 2-D coordinate
              arrays X and Y and, optionally, a boolean array Mask with the
              same shape. The path can include environment variables.`,
			shorthand:  "g",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{near2Cmd.Flags(), outlineCmd.Flags()},
		},
		{
			name: "qx",
			usage: `
              qx is the list of query X coordinates for near2.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{near2Cmd.Flags()},
		},
		{
			name: "qy",
			usage: `
              qy is the list of query Y coordinates for near2. It must have
              the same length as qx.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{near2Cmd.Flags()},
		},
		{
			name: "usemask",
			usage: `
              usemask specifies whether the Mask in the grid file should be
              used. If false, or if the grid file has no Mask, every cell
              is used.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{near2Cmd.Flags(), outlineCmd.Flags()},
		},
		{
			name: "buffer",
			usage: `
              buffer is the distance, in grid coordinate units, by which
              outlines are grown (if positive) or shrunk (if negative).`,
			shorthand:  "b",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{outlineCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output is the path where outlines should be written. It can
              include environment variables.`,
			shorthand:  "o",
			defaultVal: "outline.geojson",
			flagsets:   []*pflag.FlagSet{outlineCmd.Flags()},
		},
		{
			name: "OutputFormat",
			usage: `
              OutputFormat is the format of the outline output file. Valid
              options are "shp", "geojson", "text", and "auto", which
              chooses based on the output file extension.`,
			defaultVal: "auto",
			flagsets:   []*pflag.FlagSet{outlineCmd.Flags()},
		},
	}

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
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
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
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			default:
				panic("invalid argument type")
			}
		}
	}
	Cfg = newConfig()
}

// newConfig returns a configuration bound to the command-line flags.
func newConfig() *viper.Viper {
	cfg := viper.New()

	// Set the prefix for configuration environment variables.
	cfg.SetEnvPrefix("CDT")
	cfg.AutomaticEnv()

	for _, option := range options {
		cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name))
	}
	return cfg
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(binToLatLonCmd)
	Root.AddCommand(latLonToBinCmd)
	Root.AddCommand(near1Cmd)
	Root.AddCommand(near2Cmd)
	Root.AddCommand(outlineCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("cdt: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Log is the logger used by the commands. Its level is set from the
// LogLevel option each time a command runs.
var Log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}
	return l
}

// setLogLevel applies the LogLevel option to Log.
func setLogLevel() error {
	lvl, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("cdt: invalid LogLevel: %v", err)
	}
	Log.Level = lvl
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "cdt",
	Short: "Spatial indexing tools for gridded climate data.",
	Long: `cdt converts sinusoidal-grid bin indices to geographic coordinates,
finds the grid cells nearest to query points, and traces the outlines
of masked regions of 2-D grids. Use the subcommands specified below to
access this functionality.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'CDT_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		return setLogLevel()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of CDT.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "CDT v%s\n", cdt.Version)
	},
	DisableAutoGenTag: true,
}

// binToLatLonCmd converts bin indices to latitude and longitude.
var binToLatLonCmd = &cobra.Command{
	Use:   "binind2latlon BIN...",
	Short: "Convert sinusoidal-grid bin indices to latitude and longitude",
	Long: `binind2latlon prints the latitude and longitude of the center of each
of the given 1-based bins of a sinusoidal equal-area grid, one
"lat lon" pair per line. Set --rows to the number of latitude rows in
the grid; if it is 0 the number of rows is guessed from the largest bin.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bins, err := parseInts(args)
		if err != nil {
			return err
		}
		lat, lon, err := cdt.BinIndexToLatLon(bins, Cfg.GetInt("rows"), Log)
		if err != nil {
			return err
		}
		for i := range lat {
			fmt.Fprintf(cmd.OutOrStdout(), "%g %g\n", lat[i], lon[i])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// latLonToBinCmd converts latitude and longitude to bin indices.
var latLonToBinCmd = &cobra.Command{
	Use:   "latlon2binind LAT LON [LAT LON...]",
	Short: "Convert latitude and longitude to sinusoidal-grid bin indices",
	Long: `latlon2binind prints the 1-based index of the sinusoidal-grid bin
containing each latitude and longitude pair, one per line. --rows is
required.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("cdt: latlon2binind needs pairs of latitude and longitude, got %d values", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		rows := Cfg.GetInt("rows")
		if rows == 0 {
			return fmt.Errorf("cdt: latlon2binind needs the number of grid rows (--rows)")
		}
		g, err := cdt.NewBinGrid(rows)
		if err != nil {
			return err
		}
		v, err := parseFloats(args)
		if err != nil {
			return err
		}
		for i := 0; i < len(v); i += 2 {
			bin, err := g.Encode(v[i], v[i+1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\n", bin)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// near1Cmd finds nearest values in a 1-D array.
var near1Cmd = &cobra.Command{
	Use:   "near1 Q...",
	Short: "Find the nearest element of a 1-D array",
	Long: `near1 prints the 0-based index of the element of --values closest to
each query and the distance to it, one "index distance" pair per line.
When two elements are equally close the first one is chosen.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := floatOption("values")
		if err != nil {
			return err
		}
		q, err := parseFloats(args)
		if err != nil {
			return err
		}
		indices, dists, err := cdt.Near1Many(x, q)
		if err != nil {
			return err
		}
		for i := range indices {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %g\n", indices[i], dists[i])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// near2Cmd finds nearest cells in a 2-D grid.
var near2Cmd = &cobra.Command{
	Use:   "near2",
	Short: "Find the nearest cell of a 2-D grid",
	Long: `near2 prints the 0-based row and column of the cell of the grid in the
--grid file that is closest to each (--qx, --qy) query point, along with
the distance, one "row col distance" line per query. Cells excluded by the
grid's Mask are skipped unless --usemask=false.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		gf, err := loadGrid(Cfg.GetString("grid"), Log)
		if err != nil {
			return err
		}
		qx, err := floatOption("qx")
		if err != nil {
			return err
		}
		qy, err := floatOption("qy")
		if err != nil {
			return err
		}
		if len(qx) == 0 {
			return fmt.Errorf("cdt: near2 needs at least one query point (--qx and --qy)")
		}
		idx, err := cdt.NewPointIndex(gf.grid(), gf.mask(Cfg.GetBool("usemask")))
		if err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"cells":   idx.Len(),
			"queries": len(qx),
		}).Debug("searching grid")
		rows, cols, dists, err := idx.NearestMany(qx, qy)
		if err != nil {
			return err
		}
		for i := range rows {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d %g\n", rows[i], cols[i], dists[i])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// outlineCmd traces the outline of a grid mask.
var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Trace the outlines of a grid mask",
	Long: `outline traces the outlines of the regions where the Mask in the --grid
file is true and writes them to --output as a shapefile, GeoJSON, or
text file, as set by OutputFormat. Each outline can be grown or shrunk
using --buffer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := outputFormat(Cfg.GetString("OutputFormat"), Cfg.GetString("output"))
		if err != nil {
			return err
		}
		output, err := checkOutputFile(Cfg.GetString("output"))
		if err != nil {
			return err
		}
		gf, err := loadGrid(Cfg.GetString("grid"), Log)
		if err != nil {
			return err
		}
		mask := gf.mask(Cfg.GetBool("usemask"))
		if mask == nil {
			return fmt.Errorf("cdt: outline needs a Mask in the grid file")
		}
		buffer := Cfg.GetFloat64("buffer")
		outlines, err := cdt.MaskToOutline(gf.grid(), mask, buffer)
		if err != nil {
			return err
		}
		Log.WithFields(logrus.Fields{
			"outlines": len(outlines),
			"buffer":   buffer,
			"output":   output,
			"format":   format,
		}).Info("writing outlines")
		return writeOutlines(outlines, output, format, Log)
	},
	DisableAutoGenTag: true,
}

// parseInts converts command-line arguments to integers.
func parseInts(args []string) ([]int, error) {
	o := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("cdt: invalid integer argument %q", a)
		}
		o[i] = v
	}
	return o, nil
}

// parseFloats converts command-line arguments to floating point numbers.
func parseFloats(args []string) ([]float64, error) {
	o := make([]float64, len(args))
	for i, a := range args {
		v, err := cast.ToFloat64E(a)
		if err != nil {
			return nil, fmt.Errorf("cdt: invalid numeric argument %q: %v", a, err)
		}
		o[i] = v
	}
	return o, nil
}

// floatOption returns the named list option as floating point numbers.
// Values may come from flags, environment variables, or a configuration
// file, where they may be given as a TOML array of numbers.
func floatOption(name string) ([]float64, error) {
	var vals []interface{}
	switch v := Cfg.Get(name).(type) {
	case []interface{}:
		vals = v
	default:
		s, err := cast.ToStringSliceE(v)
		if err != nil {
			return nil, fmt.Errorf("cdt: reading '%s': %v", name, err)
		}
		for _, ss := range s {
			vals = append(vals, ss)
		}
	}
	o := make([]float64, len(vals))
	for i, v := range vals {
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("cdt: reading '%s': %v", name, err)
		}
		o[i] = f
	}
	return o, nil
}
