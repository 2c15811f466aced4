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

// Package cdt holds the spatial indexing routines of the climate data
// toolbox: conversion between sinusoidal-grid bin indices and geographic
// coordinates, nearest-point lookups over 1-D and 2-D coordinate arrays,
// and conversion of raster masks to polygon outlines.
package cdt

// Version gives the version number.
const Version = "0.1.0"

// Grid holds a pair of 2-D coordinate arrays, for example longitude and
// latitude, indexed as [row][column]. X and Y must have the same shape.
// The grid may be arranged either way around: routines in this package
// do not assume that X varies along rows or along columns.
type Grid struct {
	X, Y [][]float64
}

// NewGrid returns a grid holding x and y after checking that they have
// identical, rectangular shapes.
func NewGrid(x, y [][]float64) (Grid, error) {
	g := Grid{X: x, Y: y}
	if err := g.check(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

// MeshGrid creates a grid from 1-D coordinate vectors where X varies
// along columns and Y varies along rows.
func MeshGrid(x, y []float64) Grid {
	g := Grid{
		X: make([][]float64, len(y)),
		Y: make([][]float64, len(y)),
	}
	for i, yy := range y {
		g.X[i] = make([]float64, len(x))
		g.Y[i] = make([]float64, len(x))
		copy(g.X[i], x)
		for j := range x {
			g.Y[i][j] = yy
		}
	}
	return g
}

// Shape returns the number of rows and columns in the grid.
func (g Grid) Shape() (rows, cols int) {
	return shape2(g.X)
}

func shape2(a [][]float64) (rows, cols int) {
	if len(a) == 0 {
		return 0, 0
	}
	return len(a), len(a[0])
}

func (g Grid) check() error {
	r, c := g.Shape()
	for i, row := range g.X {
		if len(row) != c {
			return &ShapeMismatchError{Name: "X", Want: [2]int{r, c}, Have: [2]int{i + 1, len(row)},
				Reason: "rows have different lengths"}
		}
	}
	yr, yc := shape2(g.Y)
	if yr != r || yc != c {
		return &ShapeMismatchError{Name: "Y", Want: [2]int{r, c}, Have: [2]int{yr, yc}}
	}
	for i, row := range g.Y {
		if len(row) != c {
			return &ShapeMismatchError{Name: "Y", Want: [2]int{r, c}, Have: [2]int{i + 1, len(row)},
				Reason: "rows have different lengths"}
		}
	}
	return nil
}

// checkMask makes sure mask is either nil or has the same shape as g.
func (g Grid) checkMask(mask [][]bool) error {
	if mask == nil {
		return nil
	}
	r, c := g.Shape()
	if len(mask) != r {
		mc := 0
		if len(mask) > 0 {
			mc = len(mask[0])
		}
		return &ShapeMismatchError{Name: "mask", Want: [2]int{r, c}, Have: [2]int{len(mask), mc}}
	}
	for _, row := range mask {
		if len(row) != c {
			return &ShapeMismatchError{Name: "mask", Want: [2]int{r, c}, Have: [2]int{len(mask), len(row)}}
		}
	}
	return nil
}

// Swap returns the grid with X and Y exchanged.
func (g Grid) Swap() Grid {
	return Grid{X: g.Y, Y: g.X}
}
