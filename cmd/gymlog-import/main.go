package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/meltforce/gymlog/internal/importer"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Gymlog server URL (e.g. https://gymlog.tail1234.ts.net)")
	apiKey := flag.String("api-key", os.Getenv("GYMLOG_IMPORT_API_KEY"), "import API key (or set GYMLOG_IMPORT_API_KEY)")
	path := flag.String("path", "", "directory containing CSV exports")
	userID := flag.Int("user", 0, "target user ID (server default when omitted)")
	dryRun := flag.Bool("dry-run", false, "parse and validate but don't send to server")
	batchSize := flag.Int("batch-size", 500, "sets per request")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymlog-import", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *path == "" {
		fmt.Fprintf(os.Stderr, "Usage: gymlog-import -server <URL> -api-key <key> -path <csv dir> [-dry-run] [-batch-size N]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if !*dryRun {
		if *serverURL == "" {
			fmt.Fprintf(os.Stderr, "Error: -server is required (or use -dry-run)\n")
			os.Exit(1)
		}
		if *apiKey == "" {
			fmt.Fprintf(os.Stderr, "Error: -api-key is required (or use -dry-run)\n")
			os.Exit(1)
		}
	}
	*serverURL = strings.TrimRight(*serverURL, "/")

	info, err := os.Stat(*path)
	if err != nil || !info.IsDir() {
		log.Error("CSV directory not found", "path", *path)
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Error("failed to get home directory", "error", err)
		os.Exit(1)
	}
	stateDir := filepath.Join(homeDir, ".gymlog-import")

	state, err := importer.OpenStateDB(stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode — files will be parsed and validated but not sent")
	}

	client := importer.NewClient(*serverURL, *apiKey, *userID)
	imp := importer.New(client, state, log, *dryRun, *batchSize)
	stats, err := imp.Run(*path)
	if err != nil {
		log.Error("import failed", "error", err)
		printStats(stats)
		os.Exit(1)
	}

	printStats(stats)
	if stats.FilesErrored > 0 {
		os.Exit(1)
	}
	if total, err := state.TotalRows(); err == nil {
		log.Info("import complete", "rows_on_record", total)
	} else {
		log.Info("import complete")
	}
}

func printStats(stats *importer.Stats) {
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("  Files total:     %d\n", stats.FilesTotal)
	fmt.Printf("  Files imported:  %d\n", stats.FilesImported)
	fmt.Printf("  Files skipped:   %d (already imported)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:   %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Rows parsed:     %d\n", stats.RowsParsed)
	fmt.Printf("  Sets inserted:   %d\n", stats.SetsInserted)
	fmt.Printf("  Sets skipped:    %d (duplicates)\n", stats.SetsSkipped)
	fmt.Println()
}
