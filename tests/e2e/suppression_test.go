package e2e

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sshyran/derex.runner/internal/fixture"
	"github.com/sshyran/derex.runner/internal/lms"
)

func TestPageErrorSuppressionRecordsAndContinues(t *testing.T) {
	h, fx := newHarness(t, fixture.Options{
		Courses: []fixture.Course{
			{ID: "course-v1:demo+BIO101+2026", Title: "Intro to Biology"},
		},
		ThrowScriptError: true,
	})

	h.Session.SuppressPageErrors()
	h.Session.SuppressPageErrors() // installing twice has the same effect as once
	h.Session.CaptureDialogs()
	require.True(t, h.Session.Suppressing())

	login := lms.NewLoginPage(h.Session)
	require.NoError(t, login.Login(fixtureEmail, fixturePassword))

	// Login lands on the dashboard, which throws shortly after load;
	// the hook must swallow it.
	require.Eventually(t, func() bool {
		return len(h.Session.PageErrors()) > 0
	}, 10*time.Second, 100*time.Millisecond, "page error should be recorded by the hook")

	errs := h.Session.PageErrors()
	require.Len(t, errs, 1, "a doubly-installed hook would record the error twice")
	assert.Contains(t, errs[0], "dashboard widget exploded")

	// Suppression applies to every subsequent step: the run continues.
	dashboard := lms.NewDashboardPage(h.Session)
	require.NoError(t, dashboard.Search("Biology"))
	assert.Equal(t, 1, fx.SearchCount())
}
