package snapshot

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"netflix-dashboard/config"
	"netflix-dashboard/models"
	"netflix-dashboard/utils"
)

// readySelector matches once the page has drawn every chart.
const readySelector = `body[data-ready="1"]`

// Result records one captured range.
type Result struct {
	Range models.YearRange
	Path  string
	Err   error
}

// Capturer renders the dashboard page in a headless browser and saves a
// full-page PNG per year range.
type Capturer struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	retry  *utils.RetryConfig
}

// New creates a ready-to-use Capturer.
func New(cfg *config.Config, logger *utils.Logger) *Capturer {
	return &Capturer{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
	}
}

// CaptureAll captures baseURL once per distinct range into cfg.SnapshotDir.
// Failures are reported per range; the returned error covers setup only.
func (c *Capturer) CaptureAll(ctx context.Context, baseURL string, ranges []models.YearRange) ([]Result, error) {
	if err := os.MkdirAll(c.cfg.SnapshotDir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: create output dir: %w", err)
	}

	chromeBin := c.cfg.ChromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	c.logger.Info("[snapshot] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1440, 2200),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelBrowser()

	// Start the browser before fanning out so tabs share one process.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, fmt.Errorf("snapshot: start browser: %w", err)
	}

	targets := Dedupe(ranges)

	var mu sync.Mutex
	results := make([]Result, 0, len(targets))
	for _, r := range targets {
		r := r
		c.pool.Submit(func() {
			res := Result{Range: r, Path: filepath.Join(c.cfg.SnapshotDir, FileName(r))}
			res.Err = c.capture(browserCtx, PageURL(baseURL, r), res.Path)
			if res.Err != nil {
				c.logger.Error("[snapshot] %d-%d failed: %v", r.From, r.To, res.Err)
			} else {
				c.logger.Info("[snapshot] Saved %s", res.Path)
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
		})
	}
	c.pool.Wait()

	return results, nil
}

func (c *Capturer) capture(browserCtx context.Context, pageURL, path string) error {
	return c.retry.Do(browserCtx, "snapshot "+pageURL, func() error {
		ctx, cancel := chromedp.NewContext(browserCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		var buf []byte
		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.WaitVisible(readySelector, chromedp.ByQuery),
			chromedp.FullScreenshot(&buf, 90),
		)
		if err != nil {
			return fmt.Errorf("chromedp capture: %w", err)
		}
		return os.WriteFile(path, buf, 0o644)
	})
}

// Dedupe drops repeated ranges, keeping first occurrences in order.
// Ranges are normalized first, so 2021-2015 and 2015-2021 are the same.
func Dedupe(ranges []models.YearRange) []models.YearRange {
	seen := utils.NewKeySet()
	out := make([]models.YearRange, 0, len(ranges))
	for _, r := range ranges {
		r = r.Normalize()
		if seen.Add(FileName(r)) {
			out = append(out, r)
		}
	}
	return out
}

// FileName is the PNG name used for a range.
func FileName(r models.YearRange) string {
	r = r.Normalize()
	return fmt.Sprintf("dashboard_%d-%d.png", r.From, r.To)
}

// PageURL points the dashboard page at a range.
func PageURL(baseURL string, r models.YearRange) string {
	q := url.Values{}
	q.Set("from", fmt.Sprint(r.From))
	q.Set("to", fmt.Sprint(r.To))
	return baseURL + "/?" + q.Encode()
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
