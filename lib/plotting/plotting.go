// Package plotting renders a branch's stability data as a chart: the
// measured edge stabilities per cluster count plus the fitted decay curve.
package plotting

import (
	"image/color"
	"math"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/kpaschen/cluststab/lib/graph"
	"github.com/kpaschen/cluststab/lib/regression"
)

// The factor a plot axis is extended beyond the maximum value.
const axisExtension = 1.03

// How many individual points are used to draw the regression curve.
const regressionSteps = 1000

// PlotBranch writes an svg chart of the branch and its fitted stability
// curve to the given path. The output format follows the file extension.
func PlotBranch(branch []*graph.ResolutionNode, reg *regression.StabilityRegression,
	plotPath string) error {
	p := plot.New()
	p.Title.Text = "Cluster stability"
	p.X.Label.Text = "number of clusters"
	p.Y.Label.Text = "stability"

	maxX := 0.0
	measured := make(plotter.XYs, 0, len(branch))
	for _, node := range branch {
		if float64(node.NumberOfClusters()) > maxX {
			maxX = float64(node.NumberOfClusters())
		}
		if stability, ok := node.OptimalStability(); ok {
			measured = append(measured, plotter.XY{
				X: float64(node.NumberOfClusters()),
				Y: stability,
			})
		}
	}
	sort.Slice(measured, func(i, j int) bool { return measured[i].X < measured[j].X })

	if len(measured) > 0 {
		measuredLine, err := plotter.NewLine(measured)
		if err != nil {
			return err
		}
		measuredLine.Color = color.Black
		p.Add(measuredLine)
		p.Legend.Add("measured", measuredLine)
	}

	// The fitted curve has a pole where the model denominator crosses
	// zero; skip the non-finite samples around it.
	curve := make(plotter.XYs, 0, regressionSteps+1)
	for i := 0; i <= regressionSteps; i++ {
		x := float64(i) / float64(regressionSteps) * maxX
		y := reg.Predict(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		curve = append(curve, plotter.XY{X: x, Y: y})
	}
	if len(curve) > 0 {
		curveLine, err := plotter.NewLine(curve)
		if err != nil {
			return err
		}
		curveLine.Color = color.RGBA{R: 255, A: 255}
		p.Add(curveLine)
		p.Legend.Add("fitted", curveLine)
	}

	p.X.Min = 0
	p.X.Max = maxX * axisExtension
	p.Y.Min = 0
	p.Y.Max = 1.0 * axisExtension

	return p.Save(45*vg.Centimeter, 30*vg.Centimeter, plotPath)
}
