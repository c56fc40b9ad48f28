// Package browser owns the Playwright lifecycle for a single scenario
// run. Handlers installed on a Session (the page-error suppression
// hook, the dialog recorder) live exactly as long as the session, so
// one run can never leak tolerance policy into the next.
package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/sshyran/derex.runner/internal/config"
)

// Dialog records a native dialog raised by the page.
type Dialog struct {
	Type    string
	Message string
}

// Session is one browser session driving one scenario.
type Session struct {
	Playwright *playwright.Playwright
	Browser    playwright.Browser
	Context    playwright.BrowserContext
	Page       playwright.Page
	Config     *config.Config
	RunID      string

	mu          sync.Mutex
	suppressing bool
	pageErrors  []string
	capturing   bool
	dialogs     []Dialog
}

// NewSession creates a session bound to the given configuration. Call
// Launch before using it.
func NewSession(cfg *config.Config) *Session {
	return &Session{
		Config: cfg,
		RunID:  uuid.NewString(),
	}
}

// Launch initializes Playwright, starts a browser and opens a page.
func (s *Session) Launch() error {
	var pw *playwright.Playwright
	var err error
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err = playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	// First attempt
	pw, err = playwright.Run()
	if err != nil {
		// Fallback: attempt install driver explicitly then retry
		_ = playwright.Install()
		pw, err = playwright.Run()
		if err != nil {
			return fmt.Errorf("could not start playwright after retry: %w", err)
		}
	}
	s.Playwright = pw

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.Config.Headless),
		SlowMo:   playwright.Float(float64(s.Config.SlowMo.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("could not launch browser: %w", err)
	}
	s.Browser = browser

	context, err := browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
	})
	if err != nil {
		return fmt.Errorf("could not create context: %w", err)
	}
	s.Context = context

	page, err := context.NewPage()
	if err != nil {
		return fmt.Errorf("could not create page: %w", err)
	}
	s.Page = page

	page.SetDefaultTimeout(float64(s.Config.Timeout.Milliseconds()))

	return nil
}

// Close shuts down the page, context, browser and driver.
func (s *Session) Close() {
	if s.Page != nil {
		_ = s.Page.Close()
	}
	if s.Context != nil {
		_ = s.Context.Close()
	}
	if s.Browser != nil {
		_ = s.Browser.Close()
	}
	if s.Playwright != nil {
		_ = s.Playwright.Stop()
	}
}

// CaptureScreenshot writes a page screenshot into the artifacts
// directory, named after the label and the session's run ID.
func (s *Session) CaptureScreenshot(label string) {
	if s.Page == nil || !s.Config.Screenshots {
		return
	}
	path := filepath.Join(s.Config.ArtifactsDir, "screenshots",
		fmt.Sprintf("%s_%s.png", label, s.RunID))
	if _, err := s.Page.Screenshot(playwright.PageScreenshotOptions{
		Path: playwright.String(path),
	}); err != nil {
		log.Printf("[browser] screenshot failed: %v", err)
	}
}

// NavigateTo navigates to a path relative to the base URL.
func (s *Session) NavigateTo(path string) error {
	_, err := s.Page.Goto(s.Config.LMSURL + path)
	return err
}

// WaitForSettle waits for in-flight page requests to complete.
func (s *Session) WaitForSettle() error {
	return s.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// SuppressPageErrors installs the uncaught-exception hook: every page
// error raised after this call is recorded and discarded instead of
// surfacing to the scenario. Installing twice has the same effect as
// installing once; the hook stays active until the session closes.
func (s *Session) SuppressPageErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suppressing {
		return
	}
	s.suppressing = true
	s.Page.OnPageError(func(err error) {
		s.mu.Lock()
		s.pageErrors = append(s.pageErrors, err.Error())
		s.mu.Unlock()
		log.Printf("[browser] suppressed page error: %v", err)
	})
}

// Suppressing reports whether the uncaught-exception hook is installed.
func (s *Session) Suppressing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suppressing
}

// PageErrors returns the page errors swallowed so far.
func (s *Session) PageErrors() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.pageErrors))
	copy(out, s.pageErrors)
	return out
}

// CaptureDialogs records native dialogs and accepts them, so headless
// runs are never left blocked on an alert. Idempotent.
func (s *Session) CaptureDialogs() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.capturing {
		return
	}
	s.capturing = true
	s.Page.OnDialog(func(dialog playwright.Dialog) {
		s.mu.Lock()
		s.dialogs = append(s.dialogs, Dialog{
			Type:    dialog.Type(),
			Message: dialog.Message(),
		})
		s.mu.Unlock()
		_ = dialog.Accept()
	})
}

// Dialogs returns the dialogs recorded so far.
func (s *Session) Dialogs() []Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Dialog, len(s.dialogs))
	copy(out, s.dialogs)
	return out
}

// RaiseAlert triggers a native alert on the current page and waits for
// the dialog recorder to observe it. The alert is scheduled via
// setTimeout so the evaluation itself does not block on the dialog.
func (s *Session) RaiseAlert(message string) error {
	before := len(s.Dialogs())
	if _, err := s.Page.Evaluate(`msg => setTimeout(() => window.alert(msg), 0)`, message); err != nil {
		return fmt.Errorf("could not raise alert: %w", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if len(s.Dialogs()) > before {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("alert %q was not observed", message)
}
