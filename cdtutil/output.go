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

package cdtutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/climdata/cdt"
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/sirupsen/logrus"
)

// outputFormat checks the requested format, choosing one from the file
// extension if format is "auto".
func outputFormat(format, path string) (string, error) {
	switch strings.ToLower(format) {
	case "shp", "geojson", "text":
		return strings.ToLower(format), nil
	case "auto", "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".shp":
			return "shp", nil
		case ".geojson", ".json":
			return "geojson", nil
		case ".txt":
			return "text", nil
		}
		return "", fmt.Errorf("cdt: can't choose an output format for file %q; set OutputFormat", path)
	}
	return "", fmt.Errorf("cdt: OutputFormat must be one of shp, geojson, text, or auto; got %q", format)
}

// checkOutputFile makes sure that the output file is specified and its
// directory exists, and expands any environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`cdt: you need to specify an output file (for example: --output="outline.shp")`)
	}
	f = os.ExpandEnv(f)
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("cdt: the output directory doesn't exist: %v", err)
	}
	return f, nil
}

// writeOutlines writes outlines to path in the given format.
func writeOutlines(outlines []cdt.Outline, path, format string, log logrus.FieldLogger) error {
	switch format {
	case "shp":
		return writeShapefile(outlines, path, log)
	case "geojson":
		return writeGeoJSON(outlines, path)
	case "text":
		return writeText(outlines, path)
	}
	return fmt.Errorf("cdt: unknown output format %q", format)
}

// outlineRecord is a shapefile record.
type outlineRecord struct {
	geom.Polygon
	Component int
	Area      float64
}

// writeShapefile writes outlines as polygon shapefile records. Shapefiles
// can't hold empty polygons, so outlines that were eroded away are left
// out. The file extension is changed to .shp if necessary.
func writeShapefile(outlines []cdt.Outline, path string, log logrus.FieldLogger) error {
	path = strings.TrimSuffix(path, filepath.Ext(path)) + ".shp"
	e, err := shp.NewEncoder(path, outlineRecord{})
	if err != nil {
		return fmt.Errorf("cdt: creating shapefile: %v", err)
	}
	defer e.Close()
	for _, o := range outlines {
		if o.Empty() {
			log.WithField("component", o.Component).Warn("component eroded away; not written to shapefile")
			continue
		}
		rec := outlineRecord{Polygon: o.Polygon, Component: o.Component, Area: o.Area()}
		if err := e.Encode(&rec); err != nil {
			return fmt.Errorf("cdt: writing shapefile: %v", err)
		}
	}
	return nil
}

type feature struct {
	Type       string                 `json:"type"`
	Geometry   *geojson.Geometry      `json:"geometry"`
	Properties map[string]interface{} `json:"properties"`
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features []*feature `json:"features"`
}

// writeGeoJSON writes outlines as a GeoJSON FeatureCollection. Outlines
// that were eroded away have a null geometry.
func writeGeoJSON(outlines []cdt.Outline, path string) error {
	fc := featureCollection{
		Type:     "FeatureCollection",
		Features: make([]*feature, len(outlines)),
	}
	for i, o := range outlines {
		f := &feature{
			Type: "Feature",
			Properties: map[string]interface{}{
				"component": o.Component,
				"area":      o.Area(),
			},
		}
		if !o.Empty() {
			g, err := geojson.ToGeoJSON(o.Polygon)
			if err != nil {
				return fmt.Errorf("cdt: converting outline to GeoJSON: %v", err)
			}
			f.Geometry = g
		}
		fc.Features[i] = f
	}
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cdt: creating GeoJSON file: %v", err)
	}
	if err := json.NewEncoder(w).Encode(fc); err != nil {
		w.Close()
		return fmt.Errorf("cdt: writing GeoJSON file: %v", err)
	}
	return w.Close()
}

// writeText writes the outline vertices as "x y" lines, with a "NaN NaN"
// line between consecutive rings.
func writeText(outlines []cdt.Outline, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cdt: creating text file: %v", err)
	}
	w := bufio.NewWriter(f)
	x, y := cdt.Flatten(outlines)
	for i := range x {
		fmt.Fprintf(w, "%g %g\n", x[i], y[i])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("cdt: writing text file: %v", err)
	}
	return f.Close()
}
