// Command recordcopy copies every interview and survey from one record backend to
// another, e.g. from the JSON file tree to a Supabase project:
//
//	DATABASE_URL=postgres://... recordcopy --from file --to supabase
//
// Backend settings are read from the same environment as the service.
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"github.com/virginearth/survey-backend/internal/config"
	"github.com/virginearth/survey-backend/internal/record/repository"
	"github.com/virginearth/survey-backend/internal/record/service"
	"github.com/virginearth/survey-backend/pkg/logger"
)

func main() {
	from := pflag.String("from", "file", "source backend ("+strings.Join(config.Backends, ", ")+")")
	to := pflag.String("to", "", "destination backend")
	dataDir := pflag.String("data-dir", "", "override DATA_DIR for file/sqlite backends")
	logLevel := pflag.String("log-level", "info", "debug|info|warn|error")
	pflag.Parse()

	logger.Init(*logLevel)

	if *to == "" || *to == *from {
		logger.Fatalf("--to must name a backend different from --from (%s)", *from)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if *dataDir != "" {
		cfg.Store.DataDir = *dataDir
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, closeSrc, err := repository.Open(ctx, *from, cfg)
	if err != nil {
		logger.Fatalf("open source %s: %v", *from, err)
	}
	defer closeSrc()

	dst, closeDst, err := repository.Open(ctx, *to, cfg)
	if err != nil {
		logger.Fatalf("open destination %s: %v", *to, err)
	}
	defer closeDst()

	stats, err := service.CopyRecords(ctx, src, dst)
	if err != nil {
		logger.Errorf("copy %s -> %s failed after %d interviews, %d surveys: %v", *from, *to, stats.Interviews, stats.Surveys, err)
		closeDst()
		closeSrc()
		os.Exit(1)
	}
	logger.Infof("copied %d interviews and %d surveys from %s to %s (%d skipped)", stats.Interviews, stats.Surveys, *from, *to, stats.Skipped)
}
