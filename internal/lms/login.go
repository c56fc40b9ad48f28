// Package lms contains page objects for the LMS surfaces the harness
// drives: the login form and the learner dashboard.
package lms

import (
	"fmt"
	"strings"

	"github.com/sshyran/derex.runner/internal/browser"
)

// LoginPage drives the LMS login form.
type LoginPage struct {
	session *browser.Session
}

// NewLoginPage creates a login page object for the session.
func NewLoginPage(session *browser.Session) *LoginPage {
	return &LoginPage{session: session}
}

// Login authenticates with the given credentials. It returns an error
// if the form cannot be driven or the LMS reports a login failure; on
// success the session is authenticated before Login returns.
func (p *LoginPage) Login(email, password string) error {
	if err := p.session.NavigateTo("/login"); err != nil {
		return fmt.Errorf("failed to navigate to login: %w", err)
	}

	emailInput := p.session.Page.Locator("input#email")
	if err := emailInput.WaitFor(); err != nil {
		return fmt.Errorf("email input not found: %w", err)
	}

	if err := emailInput.Fill(email); err != nil {
		return fmt.Errorf("failed to fill email: %w", err)
	}

	passwordInput := p.session.Page.Locator("input#password")
	if err := passwordInput.Fill(password); err != nil {
		return fmt.Errorf("failed to fill password: %w", err)
	}

	submitButton := p.session.Page.Locator("button[type='submit']")
	if err := submitButton.Click(); err != nil {
		return fmt.Errorf("failed to click submit: %w", err)
	}

	if err := p.session.WaitForSettle(); err != nil {
		return fmt.Errorf("failed waiting for login response: %w", err)
	}

	url := p.session.Page.URL()
	if url == p.session.Config.LMSURL+"/dashboard" {
		return nil
	}

	errorMsg := p.session.Page.Locator("#error-message")
	if count, _ := errorMsg.Count(); count > 0 {
		text, _ := errorMsg.TextContent()
		return fmt.Errorf("login failed: %s", text)
	}

	return nil
}

// IsLoggedIn checks if the session currently holds an authenticated user.
func (p *LoginPage) IsLoggedIn() bool {
	dashboard := p.session.Page.Locator("[data-page='dashboard']")
	if count, _ := dashboard.Count(); count > 0 {
		return true
	}

	url := p.session.Page.URL()
	if url == "" || strings.HasPrefix(url, "about:") || !strings.HasPrefix(url, p.session.Config.LMSURL) {
		return false
	}
	return url != p.session.Config.LMSURL+"/login" &&
		url != p.session.Config.LMSURL+"/"
}
