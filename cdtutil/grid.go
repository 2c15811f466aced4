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
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/climdata/cdt"
	"github.com/climdata/cdt/internal/hash"
	"github.com/sirupsen/logrus"
)

// gridFile is the contents of a grid file. For example:
//
//	X = [[-10.0, 0.0, 10.0], [-10.0, 0.0, 10.0]]
//	Y = [[40.0, 40.0, 40.0], [45.0, 45.0, 45.0]]
//	Mask = [[false, true, true], [false, true, false]]
type gridFile struct {
	X, Y [][]float64
	Mask [][]bool
}

// loadGrid reads the grid file at path, which can include environment
// variables, and checks that its arrays have matching shapes.
func loadGrid(path string, log logrus.FieldLogger) (*gridFile, error) {
	if path == "" {
		return nil, fmt.Errorf("cdt: you need to specify a grid file (--grid)")
	}
	path = os.ExpandEnv(path)
	gf := new(gridFile)
	if _, err := toml.DecodeFile(path, gf); err != nil {
		return nil, fmt.Errorf("cdt: problem reading grid file: %v", err)
	}
	g, err := cdt.NewGrid(gf.X, gf.Y)
	if err != nil {
		return nil, fmt.Errorf("cdt: grid file %s: %v", path, err)
	}
	rows, cols := g.Shape()
	if gf.Mask != nil {
		if len(gf.Mask) != rows {
			return nil, fmt.Errorf("cdt: grid file %s: Mask has %d rows but X and Y have %d", path, len(gf.Mask), rows)
		}
		for i, r := range gf.Mask {
			if len(r) != cols {
				return nil, fmt.Errorf("cdt: grid file %s: Mask row %d has %d columns but X and Y have %d", path, i, len(r), cols)
			}
		}
	}
	log.WithFields(logrus.Fields{
		"file":        path,
		"rows":        rows,
		"cols":        cols,
		"mask":        gf.Mask != nil,
		"fingerprint": hash.Of(gf),
	}).Info("loaded grid")
	return gf, nil
}

func (gf *gridFile) grid() cdt.Grid { return cdt.Grid{X: gf.X, Y: gf.Y} }

// mask returns the grid mask, or nil if use is false.
func (gf *gridFile) mask(use bool) [][]bool {
	if !use {
		return nil
	}
	return gf.Mask
}
