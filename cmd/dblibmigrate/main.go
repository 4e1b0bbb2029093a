// Package main contains the cli implementation of the tool. It uses cobra
// package for cli tool implementation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dblibmigrate/internal/config"
	"dblibmigrate/internal/migrateerr"
	"dblibmigrate/internal/orchestrator"
)

type migrateFlags struct {
	configFile  string
	outputDir   string
	dbName      string
	dblibName   string
	workers     int
	batchSize   int
	noParallel  bool
	noCache     bool
	cacheDir    string
	verbose     bool
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "dblibmigrate",
		Short: "Migrate a DbLib component library into a database library",
	}

	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	flags := &migrateFlags{}
	cmd := &cobra.Command{
		Use:   "migrate <dblib-config-file>",
		Short: "Migrate a source DbLib configuration into a target database library",
		Long: `Migrate parses a DbLib configuration file, extracts every enabled
table from the referenced source database, maps each row to the target
symbol/footprint/field schema, classifies it, and writes a self-contained
target store plus a library descriptor and migration report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runMigrate(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.configFile, "options", "c", "", "Path to a migration options file (TOML)")
	cmd.Flags().StringVarP(&flags.outputDir, "output", "o", "", "Output directory for the target store, descriptor, and report")
	cmd.Flags().StringVar(&flags.dbName, "database-name", "", "File name for the generated target store")
	cmd.Flags().StringVar(&flags.dblibName, "dblib-name", "", "File name for the generated library descriptor")
	cmd.Flags().IntVarP(&flags.workers, "workers", "w", 0, "Worker threads for the mapping fan-out (0 keeps the options default)")
	cmd.Flags().IntVarP(&flags.batchSize, "batch-size", "b", 0, "Rows per extractor batch (0 keeps the options default)")
	cmd.Flags().BoolVar(&flags.noParallel, "no-parallel", false, "Disable parallel mapping, forcing a single worker")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "Disable the on-disk mapping cache (results are still cached in memory for the run)")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "Directory for the on-disk mapping cache")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Emit debug-level log output")

	return cmd
}

func runMigrate(sourceConfigPath string, flags *migrateFlags) error {
	logger := logrus.New()
	if flags.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	opts, err := resolveOptions(flags)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orch := orchestrator.New(sourceConfigPath, opts)
	orch.Logger = logrus.NewEntry(logger)
	orch.Observer = progressLogger{logger: orch.Logger}

	result := orch.Run(ctx)

	fmt.Printf("status: %s\n", result.Status)
	fmt.Printf("total components: %d (high %d, medium %d, low %d)\n",
		result.Report.TotalComponents, result.Report.Bands.High, result.Report.Bands.Medium, result.Report.Bands.Low)
	for _, rec := range result.Report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}

	if result.Err != nil {
		severity := migrateerr.SeverityOf(result.Err)
		fmt.Fprintf(os.Stderr, "migration failed (%s): %v\n", severity, result.Err)
		return result.Err
	}
	return nil
}

func resolveOptions(flags *migrateFlags) (config.Options, error) {
	opts := config.Defaults()
	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			return config.Options{}, err
		}
		opts = loaded
	}

	if flags.outputDir != "" {
		opts.OutputDirectory = flags.outputDir
	}
	if flags.dbName != "" {
		opts.DatabaseName = flags.dbName
	}
	if flags.dblibName != "" {
		opts.DblibName = flags.dblibName
	}
	if flags.workers > 0 {
		opts.MaxWorkerThreads = flags.workers
	}
	if flags.batchSize > 0 {
		opts.BatchSize = flags.batchSize
	}
	if flags.noParallel {
		opts.EnableParallelProcessing = false
	}
	if flags.noCache {
		opts.EnableCaching = false
	}
	if flags.cacheDir != "" {
		opts.CacheDirectory = flags.cacheDir
	}

	if err := config.Validate(opts); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}

// progressLogger adapts orchestrator.Progress events onto the CLI's
// logger, one line per event; the orchestrator limits periodic events to
// one per second and adds one completion event per table.
type progressLogger struct {
	logger *logrus.Entry
}

func (p progressLogger) OnProgress(pr orchestrator.Progress) {
	p.logger.WithFields(logrus.Fields{
		"table":     pr.Table,
		"completed": pr.Completed,
		"total":     pr.Total,
		"elapsed":   pr.Elapsed,
	}).Info("migration progress")
}
