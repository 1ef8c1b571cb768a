package lib

import (
	"testing"

	"github.com/kpaschen/cluststab/lib/datatypes"
	"github.com/kpaschen/cluststab/lib/settings"
)

func makeResolution(resolution float64, clusterOf []int) datatypes.ResolutionData {
	cells := make([]datatypes.CellSample, len(clusterOf))
	for i, cluster := range clusterOf {
		cells[i] = datatypes.CellSample{ID: i + 1, Cluster: cluster}
	}
	return datatypes.NewResolutionData(resolution, cells)
}

func TestProcessEmpty(t *testing.T) {
	processor := &StabilityProcessor{
		Settings: settings.StabilitySettings{}.ComputeSettingsFields(),
	}
	result, err := processor.Process(nil)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if result.Branch != nil || result.Genealogy != nil {
		t.Errorf("expected an empty result for empty input")
	}
}

func TestProcessNestedClusterings(t *testing.T) {
	// Perfectly nested clusterings: every split is fully stable, so the
	// whole branch survives trimming.
	resolutions := []datatypes.ResolutionData{
		makeResolution(0.1, []int{0, 0, 0, 0, 0, 0, 0, 0}),
		makeResolution(0.2, []int{0, 0, 0, 0, 1, 1, 1, 1}),
		makeResolution(0.3, []int{0, 0, 1, 1, 2, 2, 3, 3}),
	}
	processor := &StabilityProcessor{
		Settings: settings.StabilitySettings{}.ComputeSettingsFields(),
	}
	result, err := processor.Process(resolutions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Branch) != 3 {
		t.Errorf("expected a branch of length 3 but got %d", len(result.Branch))
	}
	if result.Regression == nil {
		t.Errorf("expected a fitted regression")
	}
	if len(result.TrimmedBranch) > len(result.Branch) {
		t.Errorf("the trimmed branch cannot exceed the branch")
	}
	if len(result.Genealogy) != len(result.TrimmedBranch) {
		t.Errorf("expected one genealogy entry per retained resolution, got %d for %d",
			len(result.Genealogy), len(result.TrimmedBranch))
	}
	// Entries come back ordered ascending by cluster count.
	for i := 1; i < len(result.Genealogy); i++ {
		if result.Genealogy[i].NumberOfClusters <= result.Genealogy[i-1].NumberOfClusters {
			t.Errorf("expected entries ordered by cluster count")
		}
	}
}
