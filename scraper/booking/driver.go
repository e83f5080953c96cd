package booking

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"

	"booking-scraper/config"
	"booking-scraper/utils"

	"github.com/chromedp/chromedp"
)

// Session owns one isolated browser instance: a unique profile directory, a
// unique remote-debugging port and the chromedp contexts driving it. Sessions
// are never reused across iterations.
type Session struct {
	TempDir   string
	DebugPort int

	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
	logger      *utils.Logger
	closeOnce   sync.Once
}

// NewSession starts a browser with a fresh profile directory and an
// OS-assigned debug port. On any failure during startup the partially
// created resources are cleaned up before the error is returned.
func NewSession(cfg *config.Config, logger *utils.Logger, proxy string) (*Session, error) {
	port, err := freePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate debug port: %w", err)
	}

	if err := os.MkdirAll(cfg.TempDirBase, 0755); err != nil {
		return nil, fmt.Errorf("failed to create temp base directory: %w", err)
	}
	tempDir, err := os.MkdirTemp(cfg.TempDirBase, "tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.HeadlessMode),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("remote-debugging-port", strconv.Itoa(port)),
		chromedp.Flag("log-level", "3"), // suppress Chrome logs
		chromedp.UserAgent(cfg.ChromeUserAgent),
		chromedp.UserDataDir(tempDir),
		chromedp.WindowSize(1280, 900),
	)
	if proxy != "" {
		opts = append(opts, chromedp.Flag("proxy-server", StripProxyCredentials(proxy)))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	s := &Session{
		TempDir:     tempDir,
		DebugPort:   port,
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
		logger:      logger,
	}

	// Start the browser now so startup failures surface here, with the
	// profile directory already removed, instead of on first navigation.
	if err := chromedp.Run(ctx,
		chromedp.Evaluate(`Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`, nil),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug("Browser session started (port %d, profile %s)", port, tempDir)
	return s, nil
}

// Context returns the browser tab context for chromedp actions
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close tears the session down: browser contexts are cancelled (chromedp
// waits for the process and escalates to a kill itself), any process still
// referencing the profile directory is killed, and the directory is removed.
// Safe to call multiple times and never returns an error; cleanup must not
// become the cause of a cascading failure.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancelCtx != nil {
			s.cancelCtx()
		}
		if s.cancelAlloc != nil {
			s.cancelAlloc()
		}
		if s.TempDir != "" {
			killProcessesByProfileDir(s.TempDir, s.logger)
			if err := os.RemoveAll(s.TempDir); err != nil {
				s.logger.Debug("Profile directory removal failed: %v", err)
			}
		}
	})
}

// StripProxyCredentials reduces a proxy URL, possibly carrying a scheme and
// embedded credentials, to the bare host:port the browser expects.
func StripProxyCredentials(proxy string) string {
	p := strings.TrimPrefix(proxy, "http://")
	p = strings.TrimPrefix(p, "https://")
	if idx := strings.LastIndex(p, "@"); idx >= 0 {
		p = p[idx+1:]
	}
	return p
}

// freePort asks the OS for an unused TCP port and releases it so the browser
// can bind it. Avoids debug-port collisions across quick successive sessions.
func freePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	port := l.Addr().(*net.TCPAddr).Port
	if err := l.Close(); err != nil {
		return 0, err
	}
	return port, nil
}
