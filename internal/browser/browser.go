package browser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Browser is the playwright-backed page fetcher, used when the plain HTTP
// client keeps hitting Amazon's bot wall.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	logger  *slog.Logger
}

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	AcceptLanguage string
	TimezoneID     string
	Locale         string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		AcceptLanguage: "en-US,en;q=0.9",
		TimezoneID:     "America/New_York",
		Locale:         "en-US",
	}
}

func New(opts *Options) (*Browser, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--user-agent=" + opts.UserAgent,
		},
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:  &opts.UserAgent,
		Locale:     &opts.Locale,
		TimezoneId: &opts.TimezoneID,
		Viewport: &playwright.Size{
			Width:  opts.ViewportWidth,
			Height: opts.ViewportHeight,
		},
		ExtraHttpHeaders: map[string]string{
			"Accept-Language": opts.AcceptLanguage,
		},
	})
	if err != nil {
		b.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	return &Browser{
		pw:      pw,
		browser: b,
		context: bctx,
		logger:  slog.Default().With("component", "browser"),
	}, nil
}

// Fetch renders the page in the browser and returns its HTML. Satisfies
// the fetch.Fetcher interface.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	page, err := b.context.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(30000),
	}); err != nil {
		return "", fmt.Errorf("failed to navigate: %w", err)
	}

	if err := b.passBotWall(page); err != nil {
		return "", err
	}

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}

	return content, nil
}

// passBotWall clicks through the interstitial Amazon shows bot-suspected
// sessions. Captcha pages cannot be passed and are reported as errors.
func (b *Browser) passBotWall(page playwright.Page) error {
	content, err := page.Content()
	if err != nil {
		return fmt.Errorf("failed to get page content: %w", err)
	}

	if strings.Contains(content, "Enter the characters you see below") ||
		strings.Contains(content, "Type the characters you see in this image") {
		return fmt.Errorf("captcha page detected")
	}

	if !strings.Contains(content, "Continue shopping") {
		return nil
	}

	b.logger.Info("bot wall detected, attempting to continue")

	buttonSelectors := []string{
		`button:has-text("Continue shopping")`,
		`input[type="submit"][value*="Continue"]`,
		`.a-button-primary`,
	}

	for _, selector := range buttonSelectors {
		button := page.Locator(selector).First()
		if count, err := button.Count(); err != nil || count == 0 {
			continue
		}

		if err := button.Click(); err != nil {
			b.logger.Warn("failed to click bot wall button", "selector", selector, "error", err)
			continue
		}

		time.Sleep(2 * time.Second)

		newContent, _ := page.Content()
		if !strings.Contains(newContent, "Continue shopping") {
			b.logger.Info("passed bot wall")
			return nil
		}
	}

	return fmt.Errorf("could not pass bot wall")
}

func (b *Browser) Close() error {
	var errs []error

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close context: %w", err))
		}
	}

	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close browser: %w", err))
		}
	}

	if b.pw != nil {
		if err := b.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop playwright: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}
