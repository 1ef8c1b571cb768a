// Package lib wires the stages of the stability pipeline together:
// resolution graph, best branch, curve fit, trimming and genealogy.
package lib

import (
	"log"

	"github.com/kpaschen/cluststab/lib/datatypes"
	"github.com/kpaschen/cluststab/lib/genealogy"
	"github.com/kpaschen/cluststab/lib/graph"
	"github.com/kpaschen/cluststab/lib/regression"
	"github.com/kpaschen/cluststab/lib/settings"
)

// StabilityProcessor runs the full analysis for one batch of clustering
// runs. A processor is stateless between calls; every Process call is an
// independent run over its own input.
type StabilityProcessor struct {
	Settings settings.StabilitySettings
}

// StabilityResult holds everything the reporters and the plotting code
// need: the best branch, the curve fitted to it, the retained prefix and
// the cluster lineage of the retained resolutions.
type StabilityResult struct {
	Branch        []*graph.ResolutionNode
	Regression    *regression.StabilityRegression
	TrimmedBranch []*graph.ResolutionNode
	Genealogy     []genealogy.GenealogyEntry
}

// Process runs the pipeline over the given clustering runs. Any failure
// aborts the whole run; there is no partial output. An empty input yields
// an empty result.
func (p *StabilityProcessor) Process(resolutions []datatypes.ResolutionData) (*StabilityResult, error) {
	g, err := graph.BuildGraph(resolutions)
	if err != nil {
		return nil, err
	}
	branch := g.BestBranch()
	if branch == nil {
		log.Printf("no resolutions to process\n")
		return &StabilityResult{}, nil
	}
	reg := regression.NewStabilityRegression(branch, p.Settings.MaxIterations)
	trimmed := genealogy.TrimBranch(branch, p.Settings.StabilityThreshold, reg)
	log.Printf("retained %d of %d resolutions at stability threshold %g\n",
		len(trimmed), len(branch), p.Settings.StabilityThreshold)
	trimmedData, err := genealogy.BranchResolutionData(trimmed, resolutions)
	if err != nil {
		return nil, err
	}
	entries, err := genealogy.FromResolutionData(trimmedData)
	if err != nil {
		return nil, err
	}
	return &StabilityResult{
		Branch:        branch,
		Regression:    reg,
		TrimmedBranch: trimmed,
		Genealogy:     entries,
	}, nil
}
