// Package settings contains all the parameters for the cluster stability
// pipeline.
package settings

// StabilitySettings configures one stability analysis run.
type StabilitySettings struct {
	// The minimum regressed stability a clustering must keep to stay in
	// the trimmed branch.
	StabilityThreshold float64

	// Cap on the curve fitter's iterations.
	MaxIterations int

	// The directory the result files get written to.
	ResultsDirectory string
}

func (s StabilitySettings) ComputeSettingsFields() StabilitySettings {
	if s.StabilityThreshold == 0 {
		s.StabilityThreshold = 0.95
	}
	if s.MaxIterations == 0 {
		s.MaxIterations = 50
	}
	if s.ResultsDirectory == "" {
		s.ResultsDirectory = "/tmp/cluststabResults"
	}
	return s
}
