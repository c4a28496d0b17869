// Command smoke exercises a running catbreeds server.
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/catbreeds/internal/smoke"
	"github.com/okian/catbreeds/pkg/logger"
	"github.com/spf13/pflag"
)

// Default configuration constants.
const (
	defaultRounds  = 10
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultTimeout = 15 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	var (
		baseURL = pflag.String("url", "http://localhost:9080", "Base URL of the service")
		breeds  = pflag.StringSlice("breed", smoke.DefaultBreeds, "Breeds to check on the detail routes")
		rounds  = pflag.Int("rounds", defaultRounds, "Times each route is requested")
		workers = pflag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout = pflag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		format  = pflag.String("log-format", logger.FormatText, "Log format: text or json")
		verbose = pflag.BoolP("verbose", "v", false, "Log every check")
	)
	pflag.Parse()

	log, err := logger.New(os.Stderr, *format)
	if err != nil {
		os.Stderr.WriteString("failed to setup logging: " + err.Error() + "\n")
		os.Exit(2)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTime)
	defer cancel()

	cfg := &smoke.Config{
		BaseURL: *baseURL,
		Breeds:  *breeds,
		Rounds:  *rounds,
		Workers: *workers,
		Timeout: *timeout,
		Verbose: *verbose,
	}
	if _, err := smoke.Run(ctx, cfg, log); err != nil {
		log.Error(ctx, "smoke run failed", logger.Error(err))
		cancel()
		stop()
		os.Exit(1)
	}
}
