package reporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kpaschen/cluststab/lib/datatypes"
	"github.com/kpaschen/cluststab/lib/genealogy"
	"github.com/kpaschen/cluststab/lib/graph"
)

func makeResolution(resolution float64, clusterOf []int) datatypes.ResolutionData {
	cells := make([]datatypes.CellSample, len(clusterOf))
	for i, cluster := range clusterOf {
		cells[i] = datatypes.CellSample{ID: i + 1, Cluster: cluster}
	}
	return datatypes.NewResolutionData(resolution, cells)
}

func testBranch(t *testing.T) []*graph.ResolutionNode {
	resolutions := []datatypes.ResolutionData{
		makeResolution(0.1, []int{0, 0, 0, 0}),
		makeResolution(0.2, []int{0, 0, 1, 1}),
	}
	g, err := graph.BuildGraph(resolutions)
	if err != nil {
		t.Fatalf("failed to build graph: %v", err)
	}
	return g.BestBranch()
}

func TestCsvReporterRecordBranch(t *testing.T) {
	dir := t.TempDir()
	reporter := NewCsvReporter(dir, "sample")
	if err := reporter.RecordBranch(testBranch(t)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "stability_branch_sample.csv"))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 csv rows but got %d", len(lines))
	}
	// The root row comes first and has an empty stability column.
	rootFields := strings.Split(lines[0], ",")
	if rootFields[0] != "1" || rootFields[2] != "" {
		t.Errorf("expected the root row first with an empty stability, got %q", lines[0])
	}
	leafFields := strings.Split(lines[1], ",")
	if leafFields[0] != "2" || leafFields[2] == "" {
		t.Errorf("expected the leaf row with an edge stability, got %q", lines[1])
	}
}

func TestJsonReporterRecordGenealogy(t *testing.T) {
	dir := t.TempDir()
	reporter := NewJsonReporter(dir, "sample")
	entries := []genealogy.GenealogyEntry{
		{
			NumberOfClusters: 1,
			Resolution:       0.1,
			Nodes: []genealogy.GenealogyNode{
				{ClusterID: 0, ChildClusters: []int{0, 1}},
			},
		},
	}
	if err := reporter.RecordGenealogy(entries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "genealogy_sample.json"))
	if err != nil {
		t.Fatalf("failed to read report: %v", err)
	}
	var decoded []genealogy.GenealogyEntry
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Resolution != 0.1 {
		t.Errorf("expected the entry to round trip, got %v", decoded)
	}
	if !strings.Contains(string(content), "\"cluster_id\"") ||
		!strings.Contains(string(content), "\"child_clusters\"") {
		t.Errorf("expected the documented field names in the output: %s", content)
	}
}
