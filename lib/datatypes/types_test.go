package datatypes

import (
	"testing"
)

func TestNewCellSet(t *testing.T) {
	set := NewCellSet(1, 2, 2, 5)
	if len(set) != 3 {
		t.Errorf("expected set of size 3 but got %d", len(set))
	}
	if _, ok := set[5]; !ok {
		t.Errorf("expected set to contain 5")
	}
}

func TestNewResolutionData(t *testing.T) {
	cells := []CellSample{
		{ID: 1, Cluster: 2},
		{ID: 2, Cluster: 0},
		{ID: 3, Cluster: 2},
		{ID: 4, Cluster: 1},
		{ID: 5, Cluster: 0},
	}
	data := NewResolutionData(0.42, cells)
	if data.Resolution != 0.42 {
		t.Errorf("expected resolution 0.42 but got %f", data.Resolution)
	}
	if data.NumberOfClusters() != 3 {
		t.Errorf("expected 3 clusters but got %d", data.NumberOfClusters())
	}
	for i, cluster := range data.Clusters {
		if cluster.ClusterID != i {
			t.Errorf("expected clusters sorted by id, but position %d holds id %d",
				i, cluster.ClusterID)
		}
		if cluster.TotalCellCount != len(cells) {
			t.Errorf("expected total cell count %d but got %d", len(cells),
				cluster.TotalCellCount)
		}
	}
	if len(data.Clusters[2].Cells) != 2 {
		t.Errorf("expected cluster 2 to hold two cells but got %d",
			len(data.Clusters[2].Cells))
	}
	if _, ok := data.Clusters[2].Cells[3]; !ok {
		t.Errorf("expected cluster 2 to contain cell 3")
	}
}

func TestNewResolutionDataEmpty(t *testing.T) {
	data := NewResolutionData(1.0, nil)
	if data.NumberOfClusters() != 0 {
		t.Errorf("expected no clusters for empty input but got %d",
			data.NumberOfClusters())
	}
}

func TestCellSets(t *testing.T) {
	cells := []CellSample{
		{ID: 1, Cluster: 7},
		{ID: 2, Cluster: 3},
	}
	data := NewResolutionData(0.1, cells)
	sets := data.CellSets()
	if len(sets) != 2 {
		t.Errorf("expected 2 cell sets but got %d", len(sets))
	}
	if _, ok := sets[0][2]; !ok {
		t.Errorf("expected first set to belong to cluster 3 and contain cell 2")
	}
}
