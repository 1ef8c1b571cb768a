// Package overlap computes overlap and stability statistics between
// clusters represented as cell-id sets.
//
// A child cluster (taken from a resolution with more clusters) is compared
// against the clusters of a coarser parent resolution. The stability of a
// child is the sum of its squared relative overlaps with all parents; it is
// 1.0 exactly when the child is wholly contained in a single parent and
// drops towards 1/k for an even k-way split.
package overlap

import (
	"errors"
	"fmt"

	"github.com/kpaschen/cluststab/lib/datatypes"
)

// ErrEmptyChildCluster is returned when a stability computation is handed
// a child cluster without any cells. That indicates malformed grouping
// upstream, so callers should abort the whole run.
var ErrEmptyChildCluster = errors.New("the child cluster is empty")

// ErrEqualClusterCounts is returned when two resolutions with the same
// number of clusters are compared. The parent/child direction is undefined
// in that case.
var ErrEqualClusterCounts = errors.New("the resolutions have equal cluster counts")

// Absolute returns the number of cells shared by the two clusters.
func Absolute(clusterA datatypes.CellSet, clusterB datatypes.CellSet) int {
	// Iterate over the smaller set.
	if len(clusterB) < len(clusterA) {
		clusterA, clusterB = clusterB, clusterA
	}
	count := 0
	for cell := range clusterA {
		if _, ok := clusterB[cell]; ok {
			count++
		}
	}
	return count
}

// Relative returns the fraction of the child cluster's cells that are also
// in the parent cluster.
func Relative(parent datatypes.CellSet, child datatypes.CellSet) (float64, error) {
	if len(child) == 0 {
		return 0, ErrEmptyChildCluster
	}
	return float64(Absolute(parent, child)) / float64(len(child)), nil
}

// RelativeToAll returns the relative overlap of the child cluster with every
// parent cluster, in parent order. The empty-child check happens once for
// the whole batch.
func RelativeToAll(parents []datatypes.CellSet, child datatypes.CellSet) ([]float64, error) {
	if len(child) == 0 {
		return nil, ErrEmptyChildCluster
	}
	overlaps := make([]float64, len(parents))
	for i, parent := range parents {
		overlaps[i] = float64(Absolute(parent, child)) / float64(len(child))
	}
	return overlaps, nil
}

// Stability returns the sum of the squared relative overlaps of the child
// cluster with the parent clusters. The result is in [0, 1]: squaring
// rewards concentration of the child in few parents over mere presence.
func Stability(parents []datatypes.CellSet, child datatypes.CellSet) (float64, error) {
	overlaps, err := RelativeToAll(parents, child)
	if err != nil {
		return 0, err
	}
	stability := 0.0
	for _, o := range overlaps {
		stability += o * o
	}
	return stability, nil
}

// MeanStability compares two resolutions with different cluster counts and
// returns the arithmetic mean, over all clusters of the finer resolution,
// of each cluster's stability against the coarser resolution's clusters.
// Which argument is finer is determined by cluster count, not position.
func MeanStability(a datatypes.ResolutionData, b datatypes.ResolutionData) (float64, error) {
	pair, err := NewStabilityPair(a, b)
	if err != nil {
		return 0, err
	}
	return pair.MeanStability(), nil
}

// StabilityPair holds the per-child-cluster stability values between a
// parent resolution and a child resolution with strictly more clusters.
type StabilityPair struct {
	parentResolution float64
	childResolution  float64
	stabilities      []float64
}

// NewStabilityPair computes the stability of every cluster of the finer of
// the two resolutions against the clusters of the coarser one.
func NewStabilityPair(a datatypes.ResolutionData, b datatypes.ResolutionData) (*StabilityPair, error) {
	if a.NumberOfClusters() == b.NumberOfClusters() {
		return nil, fmt.Errorf("cannot compare resolutions %g and %g with %d clusters each: %w",
			a.Resolution, b.Resolution, a.NumberOfClusters(), ErrEqualClusterCounts)
	}
	parent, child := a, b
	if parent.NumberOfClusters() > child.NumberOfClusters() {
		parent, child = child, parent
	}
	parentSets := parent.CellSets()
	stabilities := make([]float64, 0, child.NumberOfClusters())
	for _, cluster := range child.Clusters {
		stability, err := Stability(parentSets, cluster.Cells)
		if err != nil {
			return nil, fmt.Errorf("stability of cluster %d at resolution %g: %w",
				cluster.ClusterID, child.Resolution, err)
		}
		stabilities = append(stabilities, stability)
	}
	return &StabilityPair{
		parentResolution: parent.Resolution,
		childResolution:  child.Resolution,
		stabilities:      stabilities,
	}, nil
}

// MeanStability returns the arithmetic mean of the per-cluster stabilities.
func (s *StabilityPair) MeanStability() float64 {
	if len(s.stabilities) == 0 {
		return 0
	}
	sum := 0.0
	for _, stability := range s.stabilities {
		sum += stability
	}
	return sum / float64(len(s.stabilities))
}

// Stabilities returns one stability value per child cluster, in cluster
// id order.
func (s *StabilityPair) Stabilities() []float64 {
	return s.stabilities
}
