// cmd/statharvester/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/valpere/StatHarvester/internal/browser"
	"github.com/valpere/StatHarvester/internal/catalog"
	"github.com/valpere/StatHarvester/internal/config"
	"github.com/valpere/StatHarvester/internal/monitoring"
	"github.com/valpere/StatHarvester/internal/output"
	"github.com/valpere/StatHarvester/internal/scraper"
	"github.com/valpere/StatHarvester/internal/utils"

	"github.com/prometheus/client_golang/prometheus"
)

// Version information (set by build flags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch command := os.Args[1]; command {
	case "run":
		runHarvest(os.Args[2:])

	case "validate":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Error: config file required")
			fmt.Fprintln(os.Stderr, "Usage: statharvester validate <config.yaml>")
			os.Exit(1)
		}
		validateConfig(os.Args[2])

	case "template":
		printTemplate()

	case "catalog":
		printCatalog(os.Args[2:])

	case "version", "--version":
		printVersion()

	case "help", "--help", "-h":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command '%s'\n", command)
		printUsage()
		os.Exit(1)
	}
}

// runHarvest executes one scraping run: args are an optional config file and
// an optional free-text query.
func runHarvest(args []string) {
	logger := utils.NewLoggerWithLevel(utils.ParseLevel(os.Getenv("STATHARVESTER_LOG_LEVEL")))

	var configFile, query string
	rest := args
	if len(rest) > 0 && !isFlag(rest[0]) && looksLikeConfig(rest[0]) {
		configFile = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 && !isFlag(rest[0]) {
		query = rest[0]
	}

	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.LoadFromFile(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	cat := catalog.Default()
	if cfg.CatalogFile != "" {
		loaded, err := catalog.LoadFromFile(cfg.CatalogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		cat = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []scraper.Option{scraper.WithLogger(logger)}

	var metrics *monitoring.Metrics
	if cfg.Metrics.Enabled {
		metrics = monitoring.NewMetrics(prometheus.DefaultRegisterer)
		opts = append(opts, scraper.WithMetrics(metrics))

		server := monitoring.NewServer(cfg.Metrics.ListenAddress, cfg.Metrics.MetricsPath)
		go func() {
			if err := server.Start(ctx); err != nil {
				logger.Warnf("metrics server stopped: %v", err)
			}
		}()
	}

	if cfg.Browser != nil && cfg.Browser.Enabled {
		renderer, err := browser.NewRenderer(cfg.Browser)
		if err != nil {
			logger.Warnf("browser rendering unavailable: %v", err)
		} else {
			defer renderer.Close()
			opts = append(opts, scraper.WithRenderer(renderer))
		}
	}

	engine, err := scraper.NewEngine(cfg, cat, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	rs, err := engine.Run(ctx, query)
	if err != nil {
		logger.Warnf("run interrupted: %v", err)
	}
	if metrics != nil {
		metrics.ObserveRun(rs.Duration)
	}

	if rs.Empty() {
		fmt.Println("No records extracted.")
	}

	manager, err := output.NewManager(&cfg.Output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	manager.SetLogger(logger)
	if cfg.Output.Upload != nil && cfg.Output.Upload.Enabled {
		manager.SetUploader(output.DirUploader{Dir: cfg.Output.Upload.Folder})
	}

	if err := manager.Write(ctx, rs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Harvest complete: %d records, %d tables from %d sources. Results in %s\n",
		len(rs.Records), len(rs.Tables), len(rs.Log), cfg.Output.File)
}

func validateConfig(configFile string) {
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if cfg.CatalogFile != "" {
		if _, err := catalog.LoadFromFile(cfg.CatalogFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: catalog: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("Configuration file '%s' is valid\n", configFile)
}

func printTemplate() {
	data, err := yaml.Marshal(config.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(string(data))
}

// printCatalog lists the built-in sources, optionally filtered by category.
func printCatalog(args []string) {
	var categories []string
	if len(args) > 0 {
		categories = args
	}

	sources := catalog.Default().Select(categories, 0)
	if len(sources) == 0 {
		fmt.Println("No sources match.")
		return
	}

	for _, s := range sources {
		fmt.Printf("%-28s %-12s %-8s %s\n", s.Name, s.Category, s.Method, s.URL)
	}
}

func isFlag(arg string) bool {
	return len(arg) > 0 && arg[0] == '-'
}

// looksLikeConfig distinguishes a config path from a query term.
func looksLikeConfig(arg string) bool {
	if _, err := os.Stat(arg); err == nil {
		return true
	}
	return false
}

func printUsage() {
	fmt.Println("StatHarvester - Nigerian Statistics Harvester")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  statharvester run [config.yaml] [query]   Scrape the catalog, optionally filtered by query")
	fmt.Println("  statharvester validate <config.yaml>      Validate a configuration file")
	fmt.Println("  statharvester template                    Print a default configuration template")
	fmt.Println("  statharvester catalog [category...]       List the built-in sources")
	fmt.Println("  statharvester version                     Show version information")
	fmt.Println("  statharvester help                        Show this help message")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  STATHARVESTER_LOG_LEVEL                   debug, info, warn or error (default info)")
}

func printVersion() {
	fmt.Printf("StatHarvester %s\n", version)
	fmt.Printf("Build time: %s\n", buildTime)
	fmt.Printf("Git commit: %s\n", gitCommit)
}
