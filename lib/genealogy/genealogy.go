// Package genealogy re-derives, for the resolutions retained after
// trimming, an explicit parent to child cluster lineage for reporting.
package genealogy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/kpaschen/cluststab/lib/datatypes"
	"github.com/kpaschen/cluststab/lib/graph"
	"github.com/kpaschen/cluststab/lib/overlap"
)

// ErrNoMatchingParent is returned when a best-parent search runs against
// a resolution without any clusters.
var ErrNoMatchingParent = errors.New("no parent cluster candidates available")

// ErrMissingResolution is returned when a branch resolution is absent
// from the resolution pool.
var ErrMissingResolution = errors.New("the resolution pool does not contain all branch resolutions")

// GenealogyNode records one cluster and the ids of the finer clusters
// that map onto it. The fields are public because this struct gets
// json-encoded.
type GenealogyNode struct {
	ClusterID     int   `json:"cluster_id"`
	ChildClusters []int `json:"child_clusters"`
}

// GenealogyEntry records the cluster relation data of all clusters sampled
// at one resolution.
type GenealogyEntry struct {
	NumberOfClusters int             `json:"number_of_clusters"`
	Resolution       float64         `json:"resolution"`
	Nodes            []GenealogyNode `json:"nodes"`
}

// BranchResolutionData looks up the resolution data for every node of a
// branch in the full resolution pool. The lookup uses exact floating-point
// equality on purpose: resolution values flow unchanged through the
// pipeline and are never rounded or recomputed.
func BranchResolutionData(branch []*graph.ResolutionNode,
	pool []datatypes.ResolutionData) ([]datatypes.ResolutionData, error) {
	data := make([]datatypes.ResolutionData, 0, len(branch))
	for _, node := range branch {
		found := false
		for _, resolution := range pool {
			if resolution.Resolution == node.Resolution() {
				data = append(data, resolution)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("resolution %g: %w", node.Resolution(), ErrMissingResolution)
		}
	}
	return data, nil
}

// FromResolutionData builds the cluster lineage over the given resolutions.
// Entries come back ordered ascending by cluster count, with nodes sorted
// by cluster id and children sorted by child id.
func FromResolutionData(data []datatypes.ResolutionData) ([]GenealogyEntry, error) {
	if len(data) == 0 {
		return nil, nil
	}
	// Order by decreasing cluster count, finest clustering first.
	ordered := make([]datatypes.ResolutionData, len(data))
	copy(ordered, data)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].NumberOfClusters() > ordered[j].NumberOfClusters()
	})

	entries := make([]GenealogyEntry, 0, len(ordered))
	// The previous (finer) level's clusters become children of the
	// current level's best-matching parents.
	var previousClusters []datatypes.Cluster
	for levelIndex, resolution := range ordered {
		nodes := make(map[int]*GenealogyNode, resolution.NumberOfClusters())
		for _, cluster := range resolution.Clusters {
			nodes[cluster.ClusterID] = &GenealogyNode{
				ClusterID:     cluster.ClusterID,
				ChildClusters: []int{},
			}
		}
		if levelIndex > 0 {
			for _, child := range previousClusters {
				parentID, err := bestParent(child, resolution.Clusters)
				if err != nil {
					return nil, fmt.Errorf("attaching cluster %d of resolution %g: %w",
						child.ClusterID, ordered[levelIndex-1].Resolution, err)
				}
				parent, ok := nodes[parentID]
				if !ok {
					return nil, fmt.Errorf("parent cluster %d not found at resolution %g",
						parentID, resolution.Resolution)
				}
				parent.ChildClusters = append(parent.ChildClusters, child.ClusterID)
			}
		}
		entries = append(entries, newEntry(resolution, nodes))
		previousClusters = resolution.Clusters
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NumberOfClusters < entries[j].NumberOfClusters
	})
	return entries, nil
}

// newEntry materialises an entry with deterministic node and child order.
func newEntry(resolution datatypes.ResolutionData, nodes map[int]*GenealogyNode) GenealogyEntry {
	entryNodes := make([]GenealogyNode, 0, len(nodes))
	for _, node := range nodes {
		sort.Ints(node.ChildClusters)
		entryNodes = append(entryNodes, *node)
	}
	sort.Slice(entryNodes, func(i, j int) bool {
		return entryNodes[i].ClusterID < entryNodes[j].ClusterID
	})
	return GenealogyEntry{
		NumberOfClusters: resolution.NumberOfClusters(),
		Resolution:       resolution.Resolution,
		Nodes:            entryNodes,
	}
}

// bestParent returns the id of the parent cluster with the highest relative
// overlap against the child's cells. Parents arrive sorted by cluster id,
// and only a strictly greater overlap displaces the current best, so ties
// resolve to the smallest matching cluster id.
func bestParent(child datatypes.Cluster, parents []datatypes.Cluster) (int, error) {
	if len(parents) == 0 {
		return 0, ErrNoMatchingParent
	}
	parentSets := make([]datatypes.CellSet, len(parents))
	for i, parent := range parents {
		parentSets[i] = parent.Cells
	}
	overlaps, err := overlap.RelativeToAll(parentSets, child.Cells)
	if err != nil {
		return 0, err
	}
	best := 0
	for i := 1; i < len(overlaps); i++ {
		if overlaps[i] > overlaps[best] {
			best = i
		}
	}
	return parents[best].ClusterID, nil
}
