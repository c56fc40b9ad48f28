// Package scenario implements the browser-driven test scenarios the
// harness can run. Each scenario is a straight-line procedure over one
// exclusively owned browser session.
package scenario

import (
	"fmt"

	"github.com/sshyran/derex.runner/internal/browser"
	"github.com/sshyran/derex.runner/internal/config"
	"github.com/sshyran/derex.runner/internal/lms"
)

// emptyListingAlert is raised when the dashboard lists no courses.
// Deliberately a dialog rather than a failure: an empty listing is a
// signal for a human, not a broken LMS.
const emptyListingAlert = "No courses found on the dashboard"

// Result captures what a course-search run observed.
type Result struct {
	CourseCount      int
	Query            string
	Searched         bool
	AlertRaised      bool
	SuppressedErrors []string
}

// CourseSearch logs in, opens the learner dashboard and exercises the
// dashboard search box with the first listed course's title. If the
// listing is empty it raises an alert and ends without searching.
type CourseSearch struct {
	session *browser.Session
	cfg     *config.Config
}

// New creates a course-search scenario over the given session.
func New(session *browser.Session, cfg *config.Config) *CourseSearch {
	return &CourseSearch{session: session, cfg: cfg}
}

// Run executes the scenario. Uncaught page exceptions raised by the
// LMS are suppressed for the whole run; they are reported in the
// result instead of failing it.
func (s *CourseSearch) Run() (*Result, error) {
	s.session.SuppressPageErrors()
	s.session.CaptureDialogs()

	login := lms.NewLoginPage(s.session)
	if err := login.Login(s.cfg.UserEmail, s.cfg.UserPassword); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !login.IsLoggedIn() {
		return nil, fmt.Errorf("login did not authenticate the session")
	}

	dashboard := lms.NewDashboardPage(s.session)
	if err := dashboard.Open(); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	count, err := dashboard.CourseCount()
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	result := &Result{CourseCount: count}

	if count > 0 {
		if err := dashboard.AssertCoursesVisible(); err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		title, err := dashboard.FirstCourseTitle()
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		result.Query = title
		if err := dashboard.Search(title); err != nil {
			return nil, fmt.Errorf("search: %w", err)
		}
		result.Searched = true
	} else {
		if err := s.session.RaiseAlert(emptyListingAlert); err != nil {
			return nil, fmt.Errorf("empty listing: %w", err)
		}
		result.AlertRaised = true
	}

	result.SuppressedErrors = s.session.PageErrors()
	return result, nil
}

// Plan returns the scenario's step list without touching a browser.
// Used by the CLI's dry-run mode.
func Plan() []string {
	return []string{
		"install page-error suppression hook (session scoped)",
		"install dialog recorder",
		"log in with the configured credentials",
		"open /dashboard and locate " + lms.CourseListingSelector,
		"count " + lms.CourseItemSelector + " entries",
		"if courses listed: assert visibility, read the first " + lms.CourseTitleSelector + ", type it into " + lms.SearchInputSelector + " and click " + lms.SearchButtonSelector,
		"if no courses listed: raise an alert and end the run",
	}
}
