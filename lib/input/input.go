// Package input parses clustering tables into resolution data.
//
// The expected format is a headerless, comma delimited csv file where every
// row holds one clustering run: the resolution parameter in the first
// column, followed by one cluster id per cell. Cell ids are the 1-based
// column indices, so the same cell keeps the same id across all rows.
package input

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kpaschen/cluststab/lib/datatypes"
)

// ParseCSV reads the clustering table in the named file.
func ParseCSV(path string) ([]datatypes.ResolutionData, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	resolutions, err := ParseReader(file)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return resolutions, nil
}

// ParseReader reads a clustering table from the given reader. All rows
// must have the same number of columns.
func ParseReader(r io.Reader) ([]datatypes.ResolutionData, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	var resolutions []datatypes.ResolutionData
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row++
		data, err := rowToResolutionData(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		resolutions = append(resolutions, data)
	}
	return resolutions, nil
}

func rowToResolutionData(record []string) (datatypes.ResolutionData, error) {
	if len(record) == 0 {
		return datatypes.ResolutionData{}, fmt.Errorf("the row is empty")
	}
	resolution, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return datatypes.ResolutionData{},
			fmt.Errorf("failed to parse %q as a resolution: %v", record[0], err)
	}
	cells := make([]datatypes.CellSample, 0, len(record)-1)
	for column := 1; column < len(record); column++ {
		cluster, err := strconv.Atoi(strings.TrimSpace(record[column]))
		if err != nil {
			return datatypes.ResolutionData{},
				fmt.Errorf("failed to parse cluster id %q of cell %d: %v",
					record[column], column, err)
		}
		cells = append(cells, datatypes.CellSample{ID: column, Cluster: cluster})
	}
	if len(cells) == 0 {
		return datatypes.ResolutionData{},
			fmt.Errorf("no cell data present for resolution %g", resolution)
	}
	return datatypes.NewResolutionData(resolution, cells), nil
}
