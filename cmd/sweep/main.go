// Reconciliation job runner. Runs one or more named sweeps once and
// exits, or keeps running them on a cron schedule with -schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"studio-booking/internal/data/repository"
	"studio-booking/internal/jobs"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/database"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/metrics"
	"studio-booking/pkg/utils"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 10 * time.Minute

func main() {
	var (
		schedule = flag.String("schedule", "",
			"cron expression; when set, run the selected jobs on this schedule instead of once")
		dryRun = flag.Bool("dry-run", false,
			"log what each job would do without mutating or emailing")
		inactivityMonths = flag.Int("inactivity-months", jobs.DefaultStudentInactivityMonths,
			"months without an attended class before the regular student flag is revoked")
		metricsAddr = flag.String("metrics-addr", ":9090",
			"listen address for the /metrics endpoint in -schedule mode, empty to disable")
	)
	flag.Parse()

	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	sender, err := mailer.New(config.Email)
	if err != nil {
		logger.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	repos := repository.NewRepository(db, logger)

	deps := &jobs.Deps{
		Repo:                    repos,
		Notifier:                usecase.NewNotifier(sender, config.Studio, repos.ActivityLog, logger),
		Metrics:                 metrics.New(config.App.Name),
		Log:                     logger,
		DryRun:                  *dryRun,
		StudentInactivityMonths: *inactivityMonths,
	}

	selected, err := selectJobs(deps, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\navailable jobs: %s\n",
			err, strings.Join(jobs.Names(deps), ", "))
		os.Exit(2)
	}

	if *schedule != "" {
		serveMetrics(*metricsAddr, logger)
		runScheduled(deps, selected, *schedule, logger)
		return
	}

	failed := false
	for _, job := range selected {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		if err := jobs.Run(ctx, deps, job); err != nil {
			failed = true
		}
		cancel()
	}
	if failed {
		os.Exit(1)
	}
}

// selectJobs resolves the positional arguments to jobs; no arguments
// selects every job.
func selectJobs(deps *jobs.Deps, names []string) ([]jobs.Job, error) {
	if len(names) == 0 {
		return jobs.All(deps), nil
	}

	var selected []jobs.Job
	for _, name := range names {
		job := jobs.ByName(deps, name)
		if job == nil {
			return nil, fmt.Errorf("unknown job %q", name)
		}
		selected = append(selected, job)
	}
	return selected, nil
}

// serveMetrics exposes the job counters for scraping while the scheduler
// runs. One-shot invocations exit too quickly to be scraped and skip this.
func serveMetrics(addr string, logger *zap.Logger) {
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("Metrics listener stopped", zap.Error(err))
		}
	}()
	logger.Info("Metrics listening", zap.String("addr", addr))
}

// runScheduled runs the selected jobs on the cron schedule until
// interrupted. A slow run is skipped rather than stacked.
func runScheduled(deps *jobs.Deps, selected []jobs.Job, schedule string, logger *zap.Logger) {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	_, err := c.AddFunc(schedule, func() {
		for _, job := range selected {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			jobs.Run(ctx, deps, job)
			cancel()
		}
	})
	if err != nil {
		logger.Fatal("Invalid cron schedule",
			zap.String("schedule", schedule),
			zap.Error(err),
		)
	}

	logger.Info("Sweep scheduler starting",
		zap.String("schedule", schedule),
		zap.Int("jobs", len(selected)),
	)
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Sweep scheduler stopping")
	<-c.Stop().Done()
}
