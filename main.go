package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"netflix-dashboard/config"
	"netflix-dashboard/models"
	"netflix-dashboard/server"
	"netflix-dashboard/services"
	"netflix-dashboard/snapshot"
	"netflix-dashboard/storage"
	"netflix-dashboard/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, cfg, logger)
	stop()

	if err != nil {
		logger.Error("%v", err)
		switch {
		case errors.Is(err, storage.ErrDataUnavailable):
			logger.Error("Check CSV_INPUT_PATH, or the Postgres settings when DATA_SOURCE=postgres")
		case errors.Is(err, storage.ErrSchemaMismatch):
			logger.Error("The source must provide columns: %v", storage.RequiredColumns)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	logger.Info("=== Netflix Content Dashboard starting ===")
	logger.Info("Config — source: %s | range: %d-%d | top: %d | http: %q",
		cfg.DataSource, cfg.YearFrom, cfg.YearTo, cfg.TopK, cfg.HTTPAddr)

	source, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	loaded, err := source.Load(ctx)
	if cerr := source.Close(); cerr != nil {
		logger.Warn("Closing title source: %v", cerr)
	}
	if err != nil {
		return fmt.Errorf("load titles: %w", err)
	}

	base := &models.LoadResult{
		Titles:  services.NewEnricher(logger).Enrich(loaded.Titles),
		Skipped: loaded.Skipped,
	}

	dashboard := services.NewDashboardService(logger, cfg.TopK)
	dashboard.Print(os.Stdout, dashboard.Build(base.Titles, cfg.DefaultRange()))

	if cfg.HTTPAddr == "" {
		logger.Info("HTTP_ADDR is empty, not serving the dashboard")
		if cfg.SnapshotDir != "" {
			logger.Warn("SNAPSHOT_DIR is set but snapshots need the HTTP server; none taken")
		}
		return nil
	}

	ln, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPAddr, err)
	}

	srv := server.New(base, dashboard, logger, server.Options{
		DefaultRange: cfg.DefaultRange(),
		RateLimit:    cfg.APIRateLimit,
	})

	if cfg.SnapshotDir != "" {
		go takeSnapshots(ctx, cfg, logger, localURL(ln.Addr()))
	}

	return srv.Run(ctx, ln)
}

func openSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (storage.TitleSource, error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		return storage.NewCSVReader(cfg.CSVInputPath, logger), nil
	case config.SourcePostgres:
		pg, err := storage.NewPostgresReader(ctx, cfg.DSN(), cfg.PostgresTable, logger)
		if err != nil {
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown DATA_SOURCE %q (want %q or %q)",
			cfg.DataSource, config.SourceCSV, config.SourcePostgres)
	}
}

func takeSnapshots(ctx context.Context, cfg *config.Config, logger *utils.Logger, baseURL string) {
	results, err := snapshot.New(cfg, logger).CaptureAll(ctx, baseURL, cfg.SnapshotRanges)
	if err != nil {
		logger.Error("Snapshots failed: %v", err)
		return
	}

	saved := 0
	for _, r := range results {
		if r.Err == nil {
			saved++
		}
	}
	logger.Info("Snapshots done: %d of %d saved to %s", saved, len(results), cfg.SnapshotDir)
}

// localURL turns a listener address into a URL reachable from this host.
func localURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String()
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
