package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/kpaschen/cluststab/lib"
	"github.com/kpaschen/cluststab/lib/input"
	"github.com/kpaschen/cluststab/lib/plotting"
	"github.com/kpaschen/cluststab/lib/reporter"
	"github.com/kpaschen/cluststab/lib/settings"
)

func main() {
	filename := flag.String("filename", "", "Name of the csv file with the clustering runs")
	resultsDirectory := flag.String("resultsDirectory", "/tmp/cluststabResults", "The directory to write the results to")
	stabilityThreshold := flag.Int("stabilityThreshold", 95, "stability threshold in percent")
	maxIterations := flag.Int("maxIterations", 50, "iteration cap for the curve fitter")
	noPlot := flag.Bool("noPlot", false, "If true, skip rendering the stability chart")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile here")
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			panic(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *filename == "" {
		fmt.Printf("missing required -filename argument\n")
		os.Exit(1)
	}
	resolutions, err := input.ParseCSV(*filename)
	if err != nil {
		panic(err)
	}
	log.Printf("parsed %d clustering runs from %s\n", len(resolutions), *filename)

	config := settings.StabilitySettings{
		StabilityThreshold: float64(*stabilityThreshold) / 100.0,
		MaxIterations:      *maxIterations,
		ResultsDirectory:   *resultsDirectory,
	}
	config = config.ComputeSettingsFields()

	processor := &lib.StabilityProcessor{Settings: config}
	result, err := processor.Process(resolutions)
	if err != nil {
		fmt.Printf("caught error: %v\n", err)
		os.Exit(1)
	}
	if result.Branch == nil {
		log.Printf("input %s held no clustering runs, nothing to report\n", *filename)
		return
	}

	if err = os.MkdirAll(config.ResultsDirectory, 0750); err != nil {
		panic(err)
	}
	sampleName := strings.TrimSuffix(filepath.Base(*filename), filepath.Ext(*filename))

	if !*noPlot {
		plotPath := filepath.Join(config.ResultsDirectory,
			fmt.Sprintf("stability_graph_%s.svg", sampleName))
		if err = plotting.PlotBranch(result.Branch, result.Regression, plotPath); err != nil {
			fmt.Printf("caught error: %v\n", err)
			os.Exit(1)
		}
		log.Printf("wrote stability chart to %s\n", plotPath)
	}

	reporters := []reporter.Reporter{
		reporter.NewCsvReporter(config.ResultsDirectory, sampleName),
		reporter.NewJsonReporter(config.ResultsDirectory, sampleName),
	}
	for _, r := range reporters {
		if err = r.RecordBranch(result.Branch); err != nil {
			fmt.Printf("caught error: %v\n", err)
			os.Exit(1)
		}
		if err = r.RecordGenealogy(result.Genealogy); err != nil {
			fmt.Printf("caught error: %v\n", err)
			os.Exit(1)
		}
		if err = r.Flush(); err != nil {
			fmt.Printf("caught error: %v\n", err)
			os.Exit(1)
		}
	}
	log.Printf("retained %d of %d resolutions, wrote reports to %s\n",
		len(result.TrimmedBranch), len(result.Branch), config.ResultsDirectory)
}
