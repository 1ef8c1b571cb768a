package regression

import (
	"math"
	"testing"

	"github.com/kpaschen/cluststab/lib/datatypes"
	"github.com/kpaschen/cluststab/lib/graph"
)

const epsilon = 0.000001

func TestModelFunction(t *testing.T) {
	p := [4]float64{2.0, 1.0, 2.0, 0.25}
	// 2 / (2*1 + 2) + 0.25 = 0.75
	y := modelFunction(p, 2.0)
	if math.Abs(y-0.75) > epsilon {
		t.Errorf("expected model value 0.75 but got %f", y)
	}
}

func TestModelGradient(t *testing.T) {
	p := [4]float64{1.5, 0.8, 0.5, 0.4}
	x := 3.0
	gradient := modelGradient(p, x)
	// Compare against central finite differences.
	h := 1e-6
	for d := 0; d < 4; d++ {
		upper := p
		lower := p
		upper[d] += h
		lower[d] -= h
		numeric := (modelFunction(upper, x) - modelFunction(lower, x)) / (2 * h)
		if math.Abs(gradient[d]-numeric) > 1e-4 {
			t.Errorf("expected gradient %f for parameter %d but got %f",
				numeric, d, gradient[d])
		}
	}
}

func TestLevenbergMarquardtExactInitialFit(t *testing.T) {
	// Data generated exactly from the initial estimates: the solver has
	// nothing to improve and must return the initial parameters.
	initial := initialParameterEstimates
	xs := []float64{2, 3, 4, 5, 6}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = modelFunction(initial, x)
	}
	fitted := levenbergMarquardt(xs, ys, initial, DefaultMaxIterations)
	for d := 0; d < 4; d++ {
		if math.Abs(fitted[d]-initial[d]) > epsilon {
			t.Errorf("expected parameter %d to stay at %f but got %f",
				d, initial[d], fitted[d])
		}
	}
}

func TestLevenbergMarquardtReducesResiduals(t *testing.T) {
	target := [4]float64{1.5, 0.8, 0.5, 0.4}
	xs := []float64{2, 3, 4, 5, 6, 7, 8, 9}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = modelFunction(target, x)
	}
	before := sumSquaredResiduals(initialParameterEstimates, xs, ys)
	fitted := levenbergMarquardt(xs, ys, initialParameterEstimates, DefaultMaxIterations)
	after := sumSquaredResiduals(fitted, xs, ys)
	if math.IsNaN(after) || math.IsInf(after, 0) {
		t.Errorf("expected a finite residual but got %f", after)
	}
	if after >= before {
		t.Errorf("expected the fit to reduce the residual %f but got %f", before, after)
	}
}

func TestLevenbergMarquardtNoData(t *testing.T) {
	fitted := levenbergMarquardt(nil, nil, initialParameterEstimates, DefaultMaxIterations)
	if fitted != initialParameterEstimates {
		t.Errorf("expected the initial estimates for an empty fit but got %v", fitted)
	}
}

func makeResolution(resolution float64, clusterOf []int) datatypes.ResolutionData {
	cells := make([]datatypes.CellSample, len(clusterOf))
	for i, cluster := range clusterOf {
		cells[i] = datatypes.CellSample{ID: i + 1, Cluster: cluster}
	}
	return datatypes.NewResolutionData(resolution, cells)
}

func TestNewStabilityRegressionFromBranch(t *testing.T) {
	resolutions := []datatypes.ResolutionData{
		makeResolution(0.1, []int{0, 0, 0, 0, 0, 0, 0, 0}),
		makeResolution(0.2, []int{0, 0, 0, 0, 1, 1, 1, 1}),
		makeResolution(0.3, []int{0, 0, 1, 1, 2, 2, 3, 3}),
	}
	g, err := graph.BuildGraph(resolutions)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	branch := g.BestBranch()
	if len(branch) != 3 {
		t.Errorf("expected a branch of length 3 but got %d", len(branch))
	}
	reg := NewStabilityRegression(branch, DefaultMaxIterations)
	for _, x := range []float64{2, 3, 4} {
		y := reg.Predict(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			t.Errorf("expected a finite prediction at %f but got %f", x, y)
		}
	}
}

func TestNewStabilityRegressionEmptyBranch(t *testing.T) {
	reg := NewStabilityRegression(nil, DefaultMaxIterations)
	if reg.Parameters() != initialParameterEstimates {
		t.Errorf("expected the initial estimates without data but got %v", reg.Parameters())
	}
	// 1 / (2*1 - 1) + 0.5
	if math.Abs(reg.Predict(2.0)-1.5) > epsilon {
		t.Errorf("expected prediction 1.5 at x=2 but got %f", reg.Predict(2.0))
	}
}
