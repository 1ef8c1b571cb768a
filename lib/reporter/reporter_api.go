package reporter

import (
	"github.com/kpaschen/cluststab/lib/genealogy"
	"github.com/kpaschen/cluststab/lib/graph"
)

// Reporter is implemented by the result serializers. A reporter may handle
// only one of the two record types and ignore the other.
type Reporter interface {
	// RecordBranch writes the best branch's per-node stability data.
	RecordBranch(branch []*graph.ResolutionNode) error

	// RecordGenealogy writes the cluster lineage of the retained
	// resolutions.
	RecordGenealogy(entries []genealogy.GenealogyEntry) error

	Flush() error
}
