/*
Copyright © 2026 the LDAR-Sim-Go authors.
This file is part of ldarsim.

ldarsim is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

ldarsim is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with ldarsim.  If not, see <http://www.gnu.org/licenses/>.
*/

package report

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// palette cycles a small set of distinguishable line colors across an
// arbitrary number of compared programs, assigning one color per
// program rather than relying on a plotting library default.
var palette = []color.Color{
	color.NRGBA{R: 0, G: 0, B: 0, A: 255},
	color.NRGBA{R: 200, G: 30, B: 30, A: 255},
	color.NRGBA{R: 30, G: 90, B: 200, A: 255},
	color.NRGBA{R: 30, G: 150, B: 60, A: 255},
	color.NRGBA{R: 180, G: 120, B: 0, A: 255},
}

// SaveMeanEmissionsPlot renders one line per program of mean daily
// emissions over the simulation horizon and saves it as a PNG at
// path, the comparison plot a reviewer looks at first.
func SaveMeanEmissionsPlot(summaries []ProgramSummary, path string) error {
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("report: creating plot: %w", err)
	}
	p.Title.Text = "Mean daily emissions by program"
	p.X.Label.Text = "Day"
	p.Y.Label.Text = "Emissions (kg/day)"

	for i, s := range summaries {
		pts := make(plotter.XYs, len(s.Daily))
		for d, day := range s.Daily {
			pts[d].X = float64(day.Day)
			pts[d].Y = day.MeanEmissionsKg
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("report: building emissions line for %s: %w", s.Program, err)
		}
		line.Color = palette[i%len(palette)]
		p.Add(line)
		p.Legend.Add(s.Program, line)
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
