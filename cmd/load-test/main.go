package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/mcr/internal/loadtest"
	"github.com/okian/mcr/pkg/logger"
)

// Default configuration constants.
const (
	defaultConfigurations = 1000
	defaultMaxParameters  = 6
	defaultTopN           = 50
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:9080", "Base URL of the service")
		configurations = flag.Int("configurations", defaultConfigurations, "Number of random configurations to exercise")
		maxParameters  = flag.Int("max-parameters", defaultMaxParameters, "Most parameters per configuration")
		topN           = flag.Int("top", defaultTopN, "Number of ranking entries to fetch per configuration")
		workers        = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent requests")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile     = flag.String("output", "", "Write generated configurations and share strings to this file")
		cleanup        = flag.Bool("cleanup", true, "Delete created shares when done")
		seed           = flag.Uint64("seed", 0, "Generator seed (0 picks one)")
		jsonLogs       = flag.Bool("json", false, "Log JSON lines")
	)
	flag.Parse()

	if err := logger.Init(logger.WithJSON(*jsonLogs)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err := loadtest.Run(ctx, &loadtest.Config{
		BaseURL:        *baseURL,
		Configurations: *configurations,
		MaxParameters:  *maxParameters,
		TopN:           *topN,
		Workers:        *workers,
		Timeout:        *timeout,
		OutputFile:     *outputFile,
		Cleanup:        *cleanup,
		Seed:           *seed,
	})
	if err != nil {
		logger.Get().Error(ctx, "load test failed", logger.Error(err))
		cancel()
		os.Exit(1)
	}
}
