package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/meltforce/gymlog/internal/config"
	gymlogmcp "github.com/meltforce/gymlog/internal/mcp"
	"github.com/meltforce/gymlog/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Gymlog server URL for remote mode (e.g. https://gymlog.tail1234.ts.net)")
	configPath := flag.String("config", "", "config file for local database mode")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("gymlog-mcp", Version)
		return
	}

	// MCP speaks JSON-RPC on stdout; logs must stay on stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds gymlogmcp.DataSource
	switch {
	case *serverURL != "":
		ds = gymlogmcp.NewHTTPClient(*serverURL)
		log.Info("remote mode", "server", *serverURL)
	case *configPath != "":
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		db, err := storage.New(context.Background(), cfg.Database.DSN())
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		ds = &gymlogmcp.LocalSource{DB: db}
		log.Info("local mode", "database", cfg.Database.Name)
	default:
		fmt.Fprintf(os.Stderr, "Usage: gymlog-mcp -server <URL> | -config config.yaml\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := gymlogmcp.New(ds, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
