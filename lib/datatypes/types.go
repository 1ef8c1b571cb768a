// Package datatypes holds the clustering data model that the stability
// pipeline operates on.
package datatypes

import (
	"sort"
)

// CellSet is a set of cell ids.
type CellSet map[int]struct{}

// NewCellSet builds a set from a list of cell ids.
func NewCellSet(ids ...int) CellSet {
	set := make(CellSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// CellSample is a single cell with its cluster assignment at one resolution.
// Samples are transient; they get consumed into ResolutionData immediately.
type CellSample struct {
	// The unique id of the cell. For csv input this is the column index.
	ID int
	// The cluster the cell was assigned to.
	Cluster int
}

// Cluster is a group of cells sharing a label at one resolution.
type Cluster struct {
	// The original cluster label.
	ClusterID int
	// The ids of the cells in this cluster.
	Cells CellSet
	// The total number of cells at this resolution, across all clusters.
	TotalCellCount int
}

// ResolutionData is one clustering run: the cells grouped by cluster,
// together with the resolution parameter that produced the grouping.
// Treat it as immutable after construction.
type ResolutionData struct {
	Resolution float64
	// The clusters, sorted ascending by cluster id. The sorting keeps
	// every downstream candidate iteration deterministic.
	Clusters []Cluster
}

// NewResolutionData groups the cells by cluster id.
func NewResolutionData(resolution float64, cells []CellSample) ResolutionData {
	grouped := make(map[int]CellSet)
	for _, cell := range cells {
		set, ok := grouped[cell.Cluster]
		if !ok {
			set = make(CellSet)
			grouped[cell.Cluster] = set
		}
		set[cell.ID] = struct{}{}
	}
	clusters := make([]Cluster, 0, len(grouped))
	for clusterID, set := range grouped {
		clusters = append(clusters, Cluster{
			ClusterID:      clusterID,
			Cells:          set,
			TotalCellCount: len(cells),
		})
	}
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].ClusterID < clusters[j].ClusterID
	})
	return ResolutionData{Resolution: resolution, Clusters: clusters}
}

// NumberOfClusters returns how many clusters this resolution produced.
func (r ResolutionData) NumberOfClusters() int {
	return len(r.Clusters)
}

// CellSets returns the cell sets of all clusters, in cluster id order.
func (r ResolutionData) CellSets() []CellSet {
	sets := make([]CellSet, len(r.Clusters))
	for i, cluster := range r.Clusters {
		sets[i] = cluster.Cells
	}
	return sets
}
