// Command shopper compares a product across Indian e-commerce sites and
// reports the most trustworthy deal.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidyavasavigunturu/trusted-shopper/internal/fetch"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/fingerprint"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/metrics"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/pipeline"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/report"
	"github.com/vidyavasavigunturu/trusted-shopper/internal/source"
	"github.com/vidyavasavigunturu/trusted-shopper/pkg/ratelimit"
	"github.com/vidyavasavigunturu/trusted-shopper/pkg/useragent"
)

var (
	maxPerSite    int
	sourcesFlag   string
	sourcesFile   string
	sourceTimeout time.Duration
	outputFormat  string
	outputPath    string
	metricsPort   int
	chromeBin     string
	noBrowser     bool
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "shopper",
	Short: "Compare a product across e-commerce sites and pick the best deal",
}

var compareCmd = &cobra.Command{
	Use:   "compare <product name>",
	Short: "Search configured sources and report the most trustworthy deal",
	Long: `Searches a set of e-commerce sites for a product, extracts candidate
listings, analyzes each page for price, return policy, warranty, hidden
costs and trust signals, and reports the listings ranked by price along
with a best-deal pick that weighs trust over price.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return run(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	compareCmd.Flags().IntVar(&maxPerSite, "max-per-site", 3, "max product listings per site")
	compareCmd.Flags().StringVar(&sourcesFlag, "sources", "", "comma-separated source names to query (default: priority list)")
	compareCmd.Flags().StringVar(&sourcesFile, "sources-file", "", "YAML file overriding the built-in source table")
	compareCmd.Flags().DurationVar(&sourceTimeout, "timeout", 90*time.Second, "per-source time budget")
	compareCmd.Flags().StringVar(&outputFormat, "format", "json", "output format: json or text")
	compareCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	compareCmd.Flags().IntVar(&metricsPort, "metrics-port", 0, "expose Prometheus metrics on this port (0 disables)")
	compareCmd.Flags().StringVar(&chromeBin, "chrome-bin", "", "path to the Chrome/Chromium binary")
	compareCmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip headless rendering, lightweight fetches only")
	compareCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(compareCmd)
}

func run(ctx context.Context, product string) error {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	format, err := report.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	registry := source.NewRegistry(nil)
	if sourcesFile != "" {
		registry, err = source.LoadRegistry(sourcesFile)
		if err != nil {
			return fmt.Errorf("loading source table: %w", err)
		}
	}

	var priority []string
	maxSources := 0
	if sourcesFlag != "" {
		for _, name := range strings.Split(sourcesFlag, ",") {
			if name = strings.TrimSpace(name); name != "" {
				priority = append(priority, name)
			}
		}
		maxSources = len(priority)
	}

	if metricsPort > 0 {
		srv := metrics.Start(metricsPort)
		defer srv.Stop(context.Background())
		logger.Info("metrics server started", "port", metricsPort)
	}

	lightweight, err := fetch.NewClient(fetch.ClientConfig{
		Timeout:       30 * time.Second,
		MaxRedirects:  5,
		UseCookieJar:  true,
		Fingerprint:   fingerprint.ProfileChrome,
		Agents:        useragent.NewPool(nil),
		Limiter:       ratelimit.New(500*time.Millisecond, 0.5),
		RespectRobots: true,
	})
	if err != nil {
		return fmt.Errorf("building fetcher: %w", err)
	}

	var rendering fetch.Fetcher
	if !noBrowser {
		browser := fetch.NewBrowser(ctx, fetch.BrowserConfig{ChromeBin: chromeBin}, logger)
		defer browser.Close()
		rendering = browser
	}

	runner := pipeline.NewRunner(pipeline.Config{
		MaxPerSource:  maxPerSite,
		SourceTimeout: sourceTimeout,
		Priority:      priority,
		MaxSources:    maxSources,
	}, registry, lightweight, rendering, logger)

	rep, err := runner.Run(ctx, product)
	if err != nil {
		return fmt.Errorf("comparison run: %w", err)
	}

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	if format == "text" {
		return report.WriteText(out, rep)
	}
	return report.WriteJSON(out, rep)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
