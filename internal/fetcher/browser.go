package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/config"
	"github.com/MidTennSol/true-essentials-affiliate-storefront/internal/types"
)

// serverlessEnvVars marks execution environments where launching a
// rendering engine is not possible. The browser tier is skipped entirely
// when any of these are set.
var serverlessEnvVars = []string{
	"AWS_LAMBDA_FUNCTION_NAME",
	"VERCEL",
	"NETLIFY",
	"FUNCTION_TARGET",
	"K_SERVICE",
}

// RenderingAvailable reports whether the headless rendering capability can
// be used in the current execution environment. Checked once per resolution.
func RenderingAvailable(cfg *config.Config) bool {
	if !cfg.Browser.Enabled {
		return false
	}
	for _, name := range serverlessEnvVars {
		if os.Getenv(name) != "" {
			return false
		}
	}
	return true
}

// BrowserRenderer implements Renderer using a headless browser via Rod.
// It is a scoped resource: open one per resolution attempt and close it
// on every exit path.
type BrowserRenderer struct {
	browser *rod.Browser
	cfg     *config.BrowserConfig
	logger  *slog.Logger
}

// OpenRenderer launches a headless browser instance.
func OpenRenderer(cfg *config.Config, logger *slog.Logger) (*BrowserRenderer, error) {
	if !RenderingAvailable(cfg) {
		return nil, types.ErrRendererUnavailable
	}

	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-setuid-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	if cfg.Browser.UserDataDir != "" {
		l = l.UserDataDir(cfg.Browser.UserDataDir)
	}

	launchURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(launchURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	return &BrowserRenderer{
		browser: browser,
		cfg:     &cfg.Browser,
		logger:  logger.With("component", "browser_renderer"),
	}, nil
}

// RenderAttr navigates to url, waits for the page to settle, and returns
// the named attribute of the first element matching any selector in order.
func (r *BrowserRenderer) RenderAttr(ctx context.Context, rawURL string, selectors []string, attr string) (string, error) {
	start := time.Now()

	var page *rod.Page
	var err error
	if r.cfg.Stealth {
		page, err = stealth.Page(r.browser)
	} else {
		page, err = r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		return "", fmt.Errorf("open page: %w", err)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Timeout(r.cfg.NavTimeout).Navigate(rawURL); err != nil {
		return "", &types.FetchError{URL: rawURL, Err: err, Retryable: true}
	}

	if err := page.Timeout(r.cfg.NavTimeout).WaitStable(r.cfg.StableWait); err != nil {
		r.logger.Warn("page stability timeout, continuing", "url", rawURL, "error", err)
	}

	for _, sel := range selectors {
		el, err := page.Timeout(5 * time.Second).Element(sel)
		if err != nil {
			continue
		}
		val, err := el.Attribute(attr)
		if err != nil || val == nil || *val == "" {
			continue
		}
		r.logger.Debug("render extract hit",
			"url", rawURL,
			"selector", sel,
			"duration", time.Since(start),
		)
		return *val, nil
	}

	return "", fmt.Errorf("no selector matched on %s", rawURL)
}

// Close shuts down the browser and releases its process.
func (r *BrowserRenderer) Close() error {
	if r.browser != nil {
		return r.browser.Close()
	}
	return nil
}
