// Package browser owns the headless-Chrome session used to issue
// availability checks that look like they come from a real browser.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// stealthScript clears the automation marker before any page script runs.
const stealthScript = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// Config controls session behavior.
type Config struct {
	UserAgent     string
	Headless      bool
	NavTimeout    time.Duration
	NavQPS        float64
	WarmupSettle  time.Duration
	ProductSettle time.Duration
}

// CheckRequest carries the three URLs one availability check visits in order.
type CheckRequest struct {
	WarmupURL   string
	ProductURL  string
	EndpointURL string
}

// Session is a live browser handle. It is created fresh for every monitor
// cycle and torn down afterwards; reuse across cycles is deliberately avoided.
type Session struct {
	cfg           Config
	logger        *zap.Logger
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	limiter       *rate.Limiter
}

// NewSession launches a headless Chrome with anti-detection options. Failure
// here (Chrome missing, sandbox problems) is returned to the caller; the
// monitor logs it and retries on the next cycle.
func NewSession(ctx context.Context, cfg Config, logger *zap.Logger) (*Session, error) {
	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 45 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(cfg.UserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser now so a missing Chrome fails the cycle up front.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("chromedp warmup: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.NavQPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.NavQPS), 1)
	}

	logger.Debug("browser session created", zap.Bool("headless", cfg.Headless))
	return &Session{
		cfg:           cfg,
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		limiter:       limiter,
	}, nil
}

// FetchAvailability navigates the warm-up page and the product page to build
// browsing context, then executes an in-page fetch of the fulfillment
// endpoint and returns the raw response body. Any browser, navigation, or
// script error is returned as-is; the caller treats it as "no data".
func (s *Session) FetchAvailability(ctx context.Context, req CheckRequest) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()

	taskCtx, cancelTask := context.WithTimeout(tabCtx, s.cfg.NavTimeout)
	defer cancelTask()

	stopForward := forwardCancel(ctx, cancelTask)
	defer stopForward()

	var body string
	tasks := chromedp.Tasks{
		s.setupAction(),
		s.paceAction(),
		chromedp.Navigate(req.WarmupURL),
		chromedp.Sleep(s.cfg.WarmupSettle),
		s.paceAction(),
		chromedp.Navigate(req.ProductURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(s.cfg.ProductSettle),
		chromedp.Evaluate(fetchScript(req.EndpointURL), &body, awaitPromise),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp run: %w", err)
	}
	return []byte(body), nil
}

// Close tears down the browser and allocator contexts. Safe on a nil session.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.browserCancel()
	s.allocCancel()
	s.logger.Debug("browser session closed")
}

func (s *Session) setupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := network.Enable().Do(ctx); err != nil {
			return fmt.Errorf("enable network domain: %w", err)
		}
		if _, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx); err != nil {
			return fmt.Errorf("install stealth script: %w", err)
		}
		headers := network.Headers{
			"Accept-Language": "en-US,en;q=0.9",
		}
		if err := network.SetExtraHTTPHeaders(headers).Do(ctx); err != nil {
			return fmt.Errorf("set extra headers: %w", err)
		}
		return nil
	})
}

// paceAction spaces navigations out so back-to-back page loads do not look
// scripted.
func (s *Session) paceAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if s.limiter == nil {
			return nil
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("navigation pacing: %w", err)
		}
		return nil
	})
}

// fetchScript builds the in-page availability call. Referer and Origin are
// forbidden fetch headers; the browser supplies them from the product page
// context, which is the point of navigating there first.
func fetchScript(endpointURL string) string {
	return fmt.Sprintf(`fetch(%q, {
	method: 'GET',
	headers: {
		'Accept': 'application/json, text/plain, */*',
		'Cache-Control': 'no-cache',
		'Pragma': 'no-cache'
	},
	credentials: 'include'
}).then(r => r.text())`, endpointURL)
}

func awaitPromise(p *runtime.EvaluateParams) *runtime.EvaluateParams {
	return p.WithAwaitPromise(true)
}

func forwardCancel(parent context.Context, cancel context.CancelFunc) func() {
	if parent == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-parent.Done():
			cancel()
		case <-done:
		}
	}()
	return func() { close(done) }
}
