package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshyran/derex.runner/internal/fixture"
	"github.com/sshyran/derex.runner/internal/lms"
	"github.com/sshyran/derex.runner/internal/scenario"
)

func TestCourseSearchTypesFirstCourseTitle(t *testing.T) {
	h, fx := newHarness(t, fixture.Options{
		Courses: []fixture.Course{
			{ID: "course-v1:demo+BIO101+2026", Title: "Intro to Biology"},
			{ID: "course-v1:demo+CS50+2026", Title: "Introduction to Computer Science"},
		},
	})

	result, err := scenario.New(h.Session, h.Config).Run()
	require.NoError(t, err)

	assert.Equal(t, 2, result.CourseCount)
	assert.True(t, result.Searched)
	assert.False(t, result.AlertRaised)
	assert.Equal(t, "Intro to Biology", result.Query,
		"query must be the first course's title, extracted losslessly")

	// The search input received exactly the title text.
	value, err := h.Session.Page.Locator(lms.SearchInputSelector).InputValue()
	require.NoError(t, err)
	assert.Equal(t, "Intro to Biology", value)

	// The search button click reached the LMS exactly once.
	assert.Equal(t, 1, fx.SearchCount())
	assert.Equal(t, []string{"Intro to Biology"}, fx.Searches())
}

func TestCourseSearchEmptyListingRaisesAlert(t *testing.T) {
	h, fx := newHarness(t, fixture.Options{})

	result, err := scenario.New(h.Session, h.Config).Run()
	require.NoError(t, err)

	assert.Equal(t, 0, result.CourseCount)
	assert.False(t, result.Searched)
	assert.True(t, result.AlertRaised)

	// One alert, nothing typed, nothing clicked.
	dialogs := h.Session.Dialogs()
	require.Len(t, dialogs, 1)
	assert.Equal(t, "alert", dialogs[0].Type)
	assert.Equal(t, "No courses found on the dashboard", dialogs[0].Message)

	value, err := h.Session.Page.Locator(lms.SearchInputSelector).InputValue()
	require.NoError(t, err)
	assert.Empty(t, value, "no typing may occur on the empty-listing path")
	assert.Equal(t, 0, fx.SearchCount(), "no search click may occur on the empty-listing path")
}
