package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/maltedev/amazon-seller-scraper/internal/browser"
	"github.com/maltedev/amazon-seller-scraper/internal/config"
	"github.com/maltedev/amazon-seller-scraper/internal/display"
	"github.com/maltedev/amazon-seller-scraper/internal/exchange"
	"github.com/maltedev/amazon-seller-scraper/internal/fetch"
	"github.com/maltedev/amazon-seller-scraper/internal/scraper"
)

var (
	outPath    string
	useBrowser bool
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "scraper <product-url>",
		Short: "Scrape an Amazon product page and its seller profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runScrape,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.Flags().StringVarP(&outPath, "out", "o", "product_data.json", "path for the JSON output file")
	root.Flags().BoolVar(&useBrowser, "browser", false, "render pages with a headless browser")
	root.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runScrape(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := config.DefaultSettings()
	cfg.UseBrowser = useBrowser

	var fetcher fetch.Fetcher
	if cfg.UseBrowser {
		b, err := browser.New(&browser.Options{
			Headless: true,
			Timeout:  cfg.RequestTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize browser: %w", err)
		}
		defer b.Close()
		fetcher = b
	} else {
		fetcher = fetch.NewClient(cfg)
	}

	rates := exchange.NewClient(cfg, nil)
	s := scraper.New(cfg, fetcher, rates)

	product, err := s.Scrape(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	display.Render(os.Stdout, product)

	if err := product.SaveJSON(outPath); err != nil {
		return err
	}
	fmt.Printf("\nData saved to %s\n", outPath)

	return nil
}
