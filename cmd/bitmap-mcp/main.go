package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/bitmap-tools-mcp/internal/config"
	"github.com/ironsheep/bitmap-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("bitmap-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("bitmap-tools-mcp - MCP server for 24-bit bitmap transformations")
			fmt.Println()
			fmt.Println("Usage: bitmap-tools-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  BITMAP_MCP_CONFIG=/path/config.yaml   YAML settings file")
			fmt.Println("  BITMAP_MCP_LOG_LEVEL=debug            trace, debug, info, warn, error")
			fmt.Println("  BITMAP_MCP_LOG_FORMAT=json            text or json")
			fmt.Println("  BITMAP_MCP_BATCH_CONCURRENCY=4        Files transformed at once by batches")
			fmt.Println("  BITMAP_MCP_PREVIEW_MAX_SIZE=512       Default preview size in pixels")
			fmt.Println("  BITMAP_MCP_DEFAULT_MODE=blur          Mode used when a call names none")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	// Log to stderr (stdout is for MCP protocol)
	log := logrus.New()
	log.SetOutput(os.Stderr)

	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := configureLogger(log, cfg); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	log.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"commit":     GitCommit,
	}).Debug("Bitmap MCP Server starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server.Version = Version
	srv := server.New(cfg, log)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		log.WithError(err).Fatal("Server error")
	}
}

// configureLogger applies the configured level and format.
func configureLogger(log *logrus.Logger, cfg config.Config) error {
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if strings.EqualFold(cfg.LogFormat, "json") {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
