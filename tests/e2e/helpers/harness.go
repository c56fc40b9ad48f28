// Package helpers provides browser setup and teardown for E2E tests.
package helpers

import (
	"testing"

	"github.com/sshyran/derex.runner/internal/browser"
	"github.com/sshyran/derex.runner/internal/config"
)

// Harness binds a browser session to a test, skipping the test when no
// Playwright driver is available and capturing a screenshot on failure.
type Harness struct {
	Session *browser.Session
	Config  *config.Config
	t       *testing.T
}

// New creates a harness for the given configuration.
func New(t *testing.T, cfg *config.Config) *Harness {
	return &Harness{
		Session: browser.NewSession(cfg),
		Config:  cfg,
		t:       t,
	}
}

// Setup launches the browser. Tests are skipped, not failed, when the
// Playwright driver or browsers are unavailable on the host.
func (h *Harness) Setup() {
	h.t.Helper()
	if err := h.Session.Launch(); err != nil {
		h.t.Skipf("playwright unavailable: %v", err)
	}
}

// TearDown captures a screenshot if the test failed, then closes the session.
func (h *Harness) TearDown() {
	if h.t.Failed() && h.Session.Page != nil {
		h.Session.CaptureScreenshot(h.t.Name())
	}
	h.Session.Close()
}
