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

import "fmt"

// OutOfRangeError is returned when a bin index or coordinate falls
// outside of the capacity of a bin grid.
type OutOfRangeError struct {
	// Value is the offending input, either a bin index or a latitude.
	Value float64

	// Min and Max are the inclusive valid bounds.
	Min, Max float64

	// What names the kind of input, e.g. "bin index" or "latitude".
	What string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("cdt: %s %g is outside of the valid range [%g, %g]",
		e.What, e.Value, e.Min, e.Max)
}

// AmbiguousGridError is returned when the number of rows of a bin grid
// cannot be inferred from the largest bin index.
type AmbiguousGridError struct {
	MaxBin     int
	Candidates []int
}

func (e *AmbiguousGridError) Error() string {
	return fmt.Sprintf("cdt: cannot infer the number of grid rows for maximum bin index %d "+
		"(candidate row counts: %v); specify the number of rows explicitly", e.MaxBin, e.Candidates)
}

// ShapeMismatchError is returned when arrays that should be aligned
// cell-for-cell have different shapes, or when a grid is too small to
// be used.
type ShapeMismatchError struct {
	Name       string
	Want, Have [2]int
	Reason     string
}

func (e *ShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cdt: %s has shape %dx%d: %s", e.Name, e.Have[0], e.Have[1], e.Reason)
	}
	return fmt.Sprintf("cdt: %s has shape %dx%d but should be %dx%d",
		e.Name, e.Have[0], e.Have[1], e.Want[0], e.Want[1])
}

// NoValidCellError is returned by nearest-point searches when there are
// no candidate points, because the input is empty, every value is NaN,
// or the mask excludes everything.
type NoValidCellError struct {
	N int // number of points that were considered
}

func (e *NoValidCellError) Error() string {
	return fmt.Sprintf("cdt: none of the %d points are valid search candidates", e.N)
}
