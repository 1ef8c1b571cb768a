package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/collectors/version"

	"github.com/kpaschen/cluststab/lib"
	"github.com/kpaschen/cluststab/lib/input"
	"github.com/kpaschen/cluststab/lib/settings"
)

var (
	analysesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cluststab_analyses_total",
			Help: "Total number of stability analyses served.",
		},
	)
	analysisErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cluststab_analysis_errors_total",
			Help: "Total number of failed stability analyses.",
		},
	)
	analysisDurationHist = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cluststab_analysis_duration_milliseconds_histogram",
			Help:    "Duration of stability analysis calls.",
			Buckets: prometheus.DefBuckets,
		},
	)
	branchLength = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cluststab_branch_length",
			Help: "Number of nodes on the most recent best branch.",
		},
	)
	retainedResolutions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cluststab_retained_resolutions",
			Help: "Number of resolutions retained after the most recent trim.",
		},
	)
)

func init() {
	prometheus.MustRegister(analysesTotal)
	prometheus.MustRegister(analysisErrors)
	prometheus.MustRegister(analysisDurationHist)
	prometheus.MustRegister(branchLength)
	prometheus.MustRegister(retainedResolutions)
	prometheus.MustRegister(version.NewCollector("cluststab"))
}

type stabilityServer struct {
	config settings.StabilitySettings
}

// Analyze accepts a clustering csv in the request body and responds with
// the genealogy of the retained resolutions as json.
func (s *stabilityServer) Analyze(w http.ResponseWriter, r *http.Request) {
	started := time.Now()
	analysesTotal.Inc()
	resolutions, err := input.ParseReader(r.Body)
	if err != nil {
		analysisErrors.Inc()
		log.Printf("failed to parse analysis request: %v\n", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	processor := &lib.StabilityProcessor{Settings: s.config}
	result, err := processor.Process(resolutions)
	if err != nil {
		analysisErrors.Inc()
		log.Printf("analysis failed: %v\n", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	branchLength.Set(float64(len(result.Branch)))
	retainedResolutions.Set(float64(len(result.TrimmedBranch)))
	analysisDurationHist.Observe(float64(time.Since(started).Milliseconds()))

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result.Genealogy); err != nil {
		log.Printf("failed to write analysis response: %v\n", err)
	}
}

func (s *stabilityServer) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func main() {
	var listenAddr string
	var metricsAddr string
	var stabilityThreshold int
	var maxIterations int

	flag.StringVar(&listenAddr, "listen-address", ":9207", "The address the analysis endpoint binds to.")
	flag.StringVar(&metricsAddr, "metrics-address", ":9203", "The address the metrics endpoint binds to.")
	flag.IntVar(&stabilityThreshold, "stabilityThreshold", 95, "stability threshold in percent")
	flag.IntVar(&maxIterations, "maxIterations", 50, "iteration cap for the curve fitter")
	flag.Parse()

	config := settings.StabilitySettings{
		StabilityThreshold: float64(stabilityThreshold) / 100.0,
		MaxIterations:      maxIterations,
	}
	config = config.ComputeSettingsFields()

	server := &stabilityServer{config: config}
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/analyze", server.Analyze).Methods("POST")
	router.HandleFunc("/healthz", server.Healthz).Methods("GET")

	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(metricsAddr, nil)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	analysisServer := &http.Server{
		Addr:    listenAddr,
		Handler: router,
	}
	go func() {
		log.Printf("stability service listening on port %s\n", listenAddr)
		if err := analysisServer.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				log.Fatal(err)
			}
		}
	}()

	<-stop
	log.Println("stability service shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := analysisServer.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
