package genealogy

import (
	"sort"

	"github.com/kpaschen/cluststab/lib/graph"
	"github.com/kpaschen/cluststab/lib/regression"
)

// TrimBranch retains the prefix of the branch, in ascending cluster count
// order, whose regressed stability stays at or above the threshold. The
// scan stops permanently at the first violation: a later node whose
// predicted value clears the threshold again is still discarded.
func TrimBranch(branch []*graph.ResolutionNode, threshold float64,
	reg *regression.StabilityRegression) []*graph.ResolutionNode {
	return trimWithPredictor(branch, threshold, reg.Predict)
}

func trimWithPredictor(branch []*graph.ResolutionNode, threshold float64,
	predict func(float64) float64) []*graph.ResolutionNode {
	ordered := make([]*graph.ResolutionNode, len(branch))
	copy(ordered, branch)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].NumberOfClusters() < ordered[j].NumberOfClusters()
	})
	var trimmed []*graph.ResolutionNode
	for _, node := range ordered {
		if predict(float64(node.NumberOfClusters())) < threshold {
			// Once the threshold is crossed, all finer clusterings
			// are discarded.
			break
		}
		trimmed = append(trimmed, node)
	}
	return trimmed
}
