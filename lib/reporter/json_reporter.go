package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kpaschen/cluststab/lib/genealogy"
	"github.com/kpaschen/cluststab/lib/graph"
)

// JsonReporter writes the genealogy entry list as a json document. The
// field names (cluster_id, child_clusters, number_of_clusters, resolution,
// nodes) are a reporting contract; downstream tooling parses them.
type JsonReporter struct {
	filenameBase string
	sampleName   string
}

func NewJsonReporter(filenameBase string, sampleName string) *JsonReporter {
	return &JsonReporter{
		filenameBase: filenameBase,
		sampleName:   sampleName,
	}
}

func (j *JsonReporter) RecordBranch(_ []*graph.ResolutionNode) error {
	// The branch goes to the csv reporter.
	return nil
}

func (j *JsonReporter) RecordGenealogy(entries []genealogy.GenealogyEntry) error {
	filename := fmt.Sprintf("genealogy_%s.json", j.sampleName)
	resultsPath := filepath.Join(j.filenameBase, filename)
	file, err := os.OpenFile(resultsPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return err
	}
	defer file.Close()
	return json.NewEncoder(file).Encode(entries)
}

func (j *JsonReporter) Flush() error {
	// This reporter does no internal buffering, so Flush is a noop.
	return nil
}
