// Package regression fits the empirical stability decay curve
//
//	f(x) = p0 / (x*p1 + p2) + p3
//
// to the edge stabilities of a branch, with x the number of clusters.
// The functional form is an empirical fit to observed stability decay,
// not a mechanistic model.
package regression

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/kpaschen/cluststab/lib/graph"
)

// The initial parameter estimates to use for model fitting.
var initialParameterEstimates = [4]float64{1.0, 1.0, -1.0, 0.5}

// DefaultMaxIterations caps the solver's iteration count.
const DefaultMaxIterations = 50

// StabilityRegression is a fitted stability-vs-cluster-count curve.
type StabilityRegression struct {
	parameters [4]float64
}

// NewStabilityRegression fits the model to the branch's non-root nodes.
// Root nodes carry no edge stability and contribute no data point.
func NewStabilityRegression(branch []*graph.ResolutionNode, maxIterations int) *StabilityRegression {
	var xs, ys []float64
	for _, node := range branch {
		if stability, ok := node.OptimalStability(); ok {
			xs = append(xs, float64(node.NumberOfClusters()))
			ys = append(ys, stability)
		}
	}
	return &StabilityRegression{
		parameters: levenbergMarquardt(xs, ys, initialParameterEstimates, maxIterations),
	}
}

// Predict evaluates the fitted curve at the given number of clusters.
func (r *StabilityRegression) Predict(x float64) float64 {
	return modelFunction(r.parameters, x)
}

// Parameters returns the fitted model parameters.
func (r *StabilityRegression) Parameters() [4]float64 {
	return r.parameters
}

func modelFunction(p [4]float64, x float64) float64 {
	return p[0]/(x*p[1]+p[2]) + p[3]
}

// modelGradient returns the partial derivatives of the model with respect
// to the four parameters, evaluated at x.
func modelGradient(p [4]float64, x float64) [4]float64 {
	denominator := x*p[1] + p[2]
	return [4]float64{
		1.0 / denominator,
		-p[0] * x / (denominator * denominator),
		-p[0] / (denominator * denominator),
		1.0,
	}
}

func sumSquaredResiduals(p [4]float64, xs []float64, ys []float64) float64 {
	sum := 0.0
	for i := range xs {
		residual := ys[i] - modelFunction(p, xs[i])
		sum += residual * residual
	}
	return sum
}

// levenbergMarquardt minimises the sum of squared residuals of the model
// over the data, starting from the initial estimate. Each iteration solves
// the damped normal equations (J^T J + lambda*diag(J^T J)) step = J^T r;
// steps that reduce the residual are accepted and relax the damping, all
// others tighten it. The iteration budget is a hard cap.
func levenbergMarquardt(xs []float64, ys []float64, initial [4]float64, maxIterations int) [4]float64 {
	if len(xs) == 0 {
		return initial
	}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	parameters := initial
	lambda := 0.001
	sse := sumSquaredResiduals(parameters, xs, ys)

	jacobian := mat.NewDense(len(xs), 4, nil)
	residuals := mat.NewVecDense(len(xs), nil)
	for iteration := 0; iteration < maxIterations; iteration++ {
		for i, x := range xs {
			gradient := modelGradient(parameters, x)
			jacobian.SetRow(i, gradient[:])
			residuals.SetVec(i, ys[i]-modelFunction(parameters, x))
		}
		var jtj mat.Dense
		jtj.Mul(jacobian.T(), jacobian)
		var jtr mat.VecDense
		jtr.MulVec(jacobian.T(), residuals)
		var damped mat.Dense
		damped.CloneFrom(&jtj)
		for d := 0; d < 4; d++ {
			damped.Set(d, d, jtj.At(d, d)*(1.0+lambda))
		}
		var step mat.VecDense
		if err := step.SolveVec(&damped, &jtr); err != nil {
			// Singular system; tighten the damping and retry.
			lambda *= 10.0
			continue
		}
		var trial [4]float64
		for d := 0; d < 4; d++ {
			trial[d] = parameters[d] + step.AtVec(d)
		}
		trialSSE := sumSquaredResiduals(trial, xs, ys)
		if !math.IsNaN(trialSSE) && trialSSE < sse {
			improvement := sse - trialSSE
			parameters = trial
			sse = trialSSE
			lambda /= 10.0
			if improvement < 1e-12 {
				break
			}
		} else {
			lambda *= 10.0
		}
	}
	return parameters
}
