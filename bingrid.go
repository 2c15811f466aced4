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

package cdt

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// StandardRowCounts are the numbers of latitude rows of the sinusoidal
// bin grids in common use (roughly 1°, 9 km and 4.6 km resolution),
// in increasing order. They are the candidates searched by InferNumRows.
var StandardRowCounts = []int{180, 2160, 4320}

// BinGrid is a sinusoidal equal-area grid as used by level-3 binned
// ocean color products. The grid has NumRows latitude rows of equal
// height; each row is split into a number of longitude bins proportional
// to the cosine of its center latitude. Bins are numbered starting at 1
// in the southernmost row, west to east, then row by row northward.
type BinGrid struct {
	numRows int

	latBin  []float64 // center latitude of each row
	numBin  []int     // number of longitude bins in each row
	baseBin []int     // index of the first bin in each row
	total   int
}

// NewBinGrid creates the row tables for a grid with numRows rows.
// numRows must be a positive even number.
func NewBinGrid(numRows int) (*BinGrid, error) {
	if numRows <= 0 || numRows%2 != 0 {
		return nil, fmt.Errorf("cdt: the number of bin grid rows must be a positive even integer; got %d", numRows)
	}
	g := &BinGrid{
		numRows: numRows,
		latBin:  make([]float64, numRows),
		numBin:  make([]int, numRows),
		baseBin: make([]int, numRows),
	}
	base := 1
	for i := 0; i < numRows; i++ {
		lat := -90 + (float64(i)+0.5)*180/float64(numRows)
		n := int(math.Floor(2*float64(numRows)*math.Cos(lat*math.Pi/180) + 0.5))
		if n < 1 {
			n = 1
		}
		g.latBin[i] = lat
		g.numBin[i] = n
		g.baseBin[i] = base
		base += n
	}
	g.total = base - 1
	return g, nil
}

var (
	binGridCache   = make(map[int]*BinGrid)
	binGridCacheMu sync.Mutex
)

// binGrid returns a shared, read-only grid for numRows, creating it
// if necessary.
func binGrid(numRows int) (*BinGrid, error) {
	binGridCacheMu.Lock()
	defer binGridCacheMu.Unlock()
	if g, ok := binGridCache[numRows]; ok {
		return g, nil
	}
	g, err := NewBinGrid(numRows)
	if err != nil {
		return nil, err
	}
	binGridCache[numRows] = g
	return g, nil
}

// NumRows returns the number of latitude rows in the grid.
func (g *BinGrid) NumRows() int { return g.numRows }

// TotalBins returns the number of bins in the grid, which is also the
// largest valid bin index.
func (g *BinGrid) TotalBins() int { return g.total }

// BinsInRow returns the number of longitude bins in row.
func (g *BinGrid) BinsInRow(row int) int { return g.numBin[row] }

// RowStart returns the index of the first (westernmost) bin in row.
func (g *BinGrid) RowStart(row int) int { return g.baseBin[row] }

// RowLatitude returns the center latitude of row.
func (g *BinGrid) RowLatitude(row int) float64 { return g.latBin[row] }

func (g *BinGrid) checkBin(bin int) error {
	if bin < 1 || bin > g.total {
		return &OutOfRangeError{What: "bin index", Value: float64(bin), Min: 1, Max: float64(g.total)}
	}
	return nil
}

// Row returns the 0-based row that bin falls in.
func (g *BinGrid) Row(bin int) (int, error) {
	if err := g.checkBin(bin); err != nil {
		return -1, err
	}
	return g.row(bin), nil
}

// row finds the first row whose cumulative bin count reaches bin.
func (g *BinGrid) row(bin int) int {
	return sort.Search(g.numRows, func(i int) bool {
		return g.baseBin[i]+g.numBin[i]-1 >= bin
	})
}

// DecodeOne returns the latitude and longitude of the center of bin.
func (g *BinGrid) DecodeOne(bin int) (lat, lon float64, err error) {
	if err = g.checkBin(bin); err != nil {
		return math.NaN(), math.NaN(), err
	}
	r := g.row(bin)
	lat = g.latBin[r]
	lon = -180 + 360*(float64(bin-g.baseBin[r])+0.5)/float64(g.numBin[r])
	return lat, lon, nil
}

// Decode returns the center latitudes and longitudes of bins, in the
// same order as bins. If any bin is out of range, no coordinates are
// returned.
func (g *BinGrid) Decode(bins []int) (lat, lon []float64, err error) {
	lat = make([]float64, len(bins))
	lon = make([]float64, len(bins))
	for i, b := range bins {
		lat[i], lon[i], err = g.DecodeOne(b)
		if err != nil {
			return nil, nil, err
		}
	}
	return lat, lon, nil
}

// DecodeGrid is the same as Decode but keeps the 2-D shape of bins.
func (g *BinGrid) DecodeGrid(bins [][]int) (lat, lon [][]float64, err error) {
	lat = make([][]float64, len(bins))
	lon = make([][]float64, len(bins))
	for i, row := range bins {
		lat[i], lon[i], err = g.Decode(row)
		if err != nil {
			return nil, nil, err
		}
	}
	return lat, lon, nil
}

// Encode returns the index of the bin containing (lat, lon).
// Longitudes are wrapped into [-180, 180).
func (g *BinGrid) Encode(lat, lon float64) (int, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return 0, &OutOfRangeError{What: "latitude", Value: lat, Min: -90, Max: 90}
	}
	if math.IsNaN(lon) || math.IsInf(lon, 0) {
		return 0, &OutOfRangeError{What: "longitude", Value: lon, Min: -180, Max: 180}
	}
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	r := int(math.Floor((lat + 90) * float64(g.numRows) / 180))
	if r >= g.numRows {
		r = g.numRows - 1
	}
	n := g.numBin[r]
	c := int(math.Floor(lon * float64(n) / 360))
	if c >= n {
		c = n - 1
	} else if c < 0 {
		c = 0
	}
	return g.baseBin[r] + c, nil
}

// InferNumRows guesses the number of rows of the grid that maxBin was
// taken from, choosing the smallest of StandardRowCounts that can hold
// maxBin. certain is false when maxBin is less than half of the chosen
// grid's capacity, in which case the data could as well come from a
// larger grid that happens to have no data in its northern part.
func InferNumRows(maxBin int) (numRows int, certain bool, err error) {
	if maxBin < 1 {
		return 0, false, &OutOfRangeError{What: "bin index", Value: float64(maxBin), Min: 1, Max: math.Inf(1)}
	}
	for i, r := range StandardRowCounts {
		g, err := binGrid(r)
		if err != nil {
			return 0, false, err
		}
		if maxBin <= g.total {
			largest := i == len(StandardRowCounts)-1
			return r, largest || 2*maxBin >= g.total, nil
		}
	}
	return 0, false, &AmbiguousGridError{MaxBin: maxBin, Candidates: StandardRowCounts}
}

// BinIndexToLatLon returns the center coordinates of bins on a grid with
// numRows rows. If numRows is 0 it is inferred from the largest bin
// index with InferNumRows, and a warning is logged to log if the guess
// is uncertain. If log is nil the standard logger is used.
func BinIndexToLatLon(bins []int, numRows int, log logrus.FieldLogger) (lat, lon []float64, err error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if numRows == 0 {
		if len(bins) == 0 {
			return []float64{}, []float64{}, nil
		}
		maxBin := 0
		for _, b := range bins {
			if b > maxBin {
				maxBin = b
			}
		}
		var certain bool
		numRows, certain, err = InferNumRows(maxBin)
		if err != nil {
			return nil, nil, err
		}
		fields := logrus.Fields{"maxBin": maxBin, "numRows": numRows}
		if !certain {
			log.WithFields(fields).Warn("cdt: the number of bin grid rows was inferred from " +
				"the bin indices and may be wrong; specify it explicitly")
		} else {
			log.WithFields(fields).Debug("cdt: inferred number of bin grid rows")
		}
	}
	g, err := binGrid(numRows)
	if err != nil {
		return nil, nil, err
	}
	return g.Decode(bins)
}
