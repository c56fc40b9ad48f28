package lms

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/sshyran/derex.runner/internal/browser"
)

// Selectors for the dashboard DOM. The markup is assumed stable; a
// structural change in the LMS theme breaks these on purpose.
const (
	CourseListingSelector = "ul.listing-courses"
	CourseItemSelector    = "li.course-item"
	CourseTitleSelector   = "h3.course-title"
	SearchInputSelector   = "#dashboard-search-input"
	SearchButtonSelector  = ".search-button"
)

// firstCourseTitleSelector resolves the title of the first course item.
const firstCourseTitleSelector = CourseListingSelector + " " + CourseItemSelector + ":first-child " + CourseTitleSelector

// DashboardPage drives the learner dashboard: the course listing and
// the dashboard search box.
type DashboardPage struct {
	session *browser.Session
}

// NewDashboardPage creates a dashboard page object for the session.
func NewDashboardPage(session *browser.Session) *DashboardPage {
	return &DashboardPage{session: session}
}

// Open loads the dashboard route and waits for the course listing
// container to be attached. The container may be empty, so visibility
// is not required here.
func (p *DashboardPage) Open() error {
	if err := p.session.NavigateTo("/dashboard"); err != nil {
		return fmt.Errorf("failed to navigate to dashboard: %w", err)
	}
	listing := p.session.Page.Locator(CourseListingSelector)
	if err := listing.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateAttached,
	}); err != nil {
		return fmt.Errorf("course listing not found: %w", err)
	}
	return nil
}

// CourseCount returns the number of course items in the listing.
func (p *DashboardPage) CourseCount() (int, error) {
	count, err := p.session.Page.Locator(CourseListingSelector).Locator(CourseItemSelector).Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count course items: %w", err)
	}
	return count, nil
}

// AssertCoursesVisible waits for the first course item to be visible.
func (p *DashboardPage) AssertCoursesVisible() error {
	first := p.session.Page.Locator(CourseListingSelector).Locator(CourseItemSelector).First()
	if err := first.WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}); err != nil {
		return fmt.Errorf("course items not visible: %w", err)
	}
	return nil
}

// FirstCourseTitle returns the title text of the first course item,
// exactly as it appears in the DOM. No trimming: the search must
// receive the text losslessly.
func (p *DashboardPage) FirstCourseTitle() (string, error) {
	title, err := p.session.Page.Locator(firstCourseTitleSelector).TextContent()
	if err != nil {
		return "", fmt.Errorf("failed to read first course title: %w", err)
	}
	return title, nil
}

// Search types the query into the dashboard search input, clicks the
// search button and waits for the results to settle.
func (p *DashboardPage) Search(query string) error {
	input := p.session.Page.Locator(SearchInputSelector)
	if err := input.Fill(query); err != nil {
		return fmt.Errorf("failed to fill search input: %w", err)
	}
	button := p.session.Page.Locator(SearchButtonSelector)
	if err := button.Click(); err != nil {
		return fmt.Errorf("failed to click search button: %w", err)
	}
	if err := p.session.WaitForSettle(); err != nil {
		return fmt.Errorf("failed waiting for search results: %w", err)
	}
	return nil
}
