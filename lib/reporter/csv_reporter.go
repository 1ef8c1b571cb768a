package reporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/kpaschen/cluststab/lib/genealogy"
	"github.com/kpaschen/cluststab/lib/graph"
)

// CsvReporter writes the branch stability data as csv, one row per node,
// ordered ascending by cluster count.
type CsvReporter struct {
	filenameBase string
	sampleName   string
}

func NewCsvReporter(filenameBase string, sampleName string) *CsvReporter {
	return &CsvReporter{
		filenameBase: filenameBase,
		sampleName:   sampleName,
	}
}

func (c *CsvReporter) RecordBranch(branch []*graph.ResolutionNode) error {
	filename := fmt.Sprintf("stability_branch_%s.csv", c.sampleName)
	resultsPath := filepath.Join(c.filenameBase, filename)
	file, err := os.OpenFile(resultsPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0640)
	if err != nil {
		return err
	}
	defer file.Close()

	ordered := make([]*graph.ResolutionNode, len(branch))
	copy(ordered, branch)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].NumberOfClusters() < ordered[j].NumberOfClusters()
	})

	writer := csv.NewWriter(file)
	for _, node := range ordered {
		// The root has no edge stability; its column stays empty.
		stabilityField := ""
		if stability, ok := node.OptimalStability(); ok {
			stabilityField = fmt.Sprintf("%f", stability)
		}
		record := []string{
			fmt.Sprintf("%d", node.NumberOfClusters()),
			fmt.Sprintf("%g", node.Resolution()),
			stabilityField,
			fmt.Sprintf("%f", node.TotalStability()),
		}
		if err = writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func (c *CsvReporter) RecordGenealogy(_ []genealogy.GenealogyEntry) error {
	// The genealogy tree is nested; it goes to the json reporter.
	return nil
}

func (c *CsvReporter) Flush() error {
	// This reporter does no internal buffering, so Flush is a noop.
	return nil
}
