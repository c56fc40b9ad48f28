package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sshyran/derex.runner/internal/browser"
	"github.com/sshyran/derex.runner/internal/config"
	"github.com/sshyran/derex.runner/internal/fixture"
	"github.com/sshyran/derex.runner/internal/scenario"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "derex",
	Short: "Derex - browser-driven quality harness for LMS dashboards",
	Long: `Derex drives a real browser against an Open edX style LMS:
it signs in, opens the learner dashboard, inspects the course listing
and exercises the dashboard search box.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the harness is configured and the LMS is reachable",
	RunE:  runCheck,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the course-search scenario against the configured LMS",
	RunE:  runScenario,
}

var fixtureCmd = &cobra.Command{
	Use:   "fixture",
	Short: "Serve the fixture LMS for manual runs",
	RunE:  runFixture,
}

var (
	dryRunFlag       bool
	fixtureAddrFlag  string
	fixtureErrorFlag bool
)

func init() {
	runCmd.Flags().BoolVar(&dryRunFlag, "dry-run", false, "Don't actually do anything, just print what would have been run")
	fixtureCmd.Flags().StringVar(&fixtureAddrFlag, "addr", "localhost:8000", "Address for the fixture LMS to listen on")
	fixtureCmd.Flags().BoolVar(&fixtureErrorFlag, "throw-script-error", false, "Make the fixture dashboard raise an uncaught page error")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(fixtureCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	fmt.Printf("LMS URL:       %s\n", cfg.LMSURL)
	fmt.Printf("User email:    %s\n", orUnset(cfg.UserEmail))
	fmt.Printf("User password: %s\n", maskSecret(cfg.UserPassword))
	fmt.Printf("Headless:      %v\n", cfg.Headless)
	fmt.Printf("Timeout:       %s\n", cfg.Timeout)

	if cfg.UserEmail == "" || cfg.UserPassword == "" {
		return fmt.Errorf("credentials not configured: set DEREX_USER_EMAIL and DEREX_USER_PASSWORD")
	}
	if !config.Reachable(cfg.LMSURL) {
		return fmt.Errorf("could not connect to the LMS at %s\nIs it running? Make sure %s answers and try again", cfg.LMSURL, cfg.LMSURL)
	}
	fmt.Println("LMS is reachable and credentials are configured.")
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	if dryRunFlag {
		fmt.Println("Would have run:")
		for i, step := range scenario.Plan() {
			fmt.Printf("  %d. %s\n", i+1, step)
		}
		return nil
	}

	if cfg.UserEmail == "" || cfg.UserPassword == "" {
		return fmt.Errorf("credentials not configured: set DEREX_USER_EMAIL and DEREX_USER_PASSWORD")
	}

	session := browser.NewSession(cfg)
	if err := session.Launch(); err != nil {
		return fmt.Errorf("browser: %w", err)
	}
	defer session.Close()

	result, err := scenario.New(session, cfg).Run()
	if err != nil {
		session.CaptureScreenshot("course-search-failed")
		return err
	}

	fmt.Printf("Courses listed:    %d\n", result.CourseCount)
	if result.Searched {
		fmt.Printf("Searched for:      %q\n", result.Query)
	}
	if result.AlertRaised {
		fmt.Println("Listing was empty; an alert was raised.")
	}
	if len(result.SuppressedErrors) > 0 {
		fmt.Printf("Suppressed %d page error(s):\n", len(result.SuppressedErrors))
		for _, msg := range result.SuppressedErrors {
			fmt.Printf("  - %s\n", strings.TrimSpace(msg))
		}
	}
	return nil
}

func runFixture(cmd *cobra.Command, args []string) error {
	srv := fixture.New(fixture.Options{
		Email:    "staff@example.com",
		Password: "secret",
		Courses: []fixture.Course{
			{ID: "course-v1:demo+BIO101+2026", Title: "Intro to Biology"},
			{ID: "course-v1:demo+CS50+2026", Title: "Introduction to Computer Science"},
		},
		ThrowScriptError: fixtureErrorFlag,
	})
	log.Printf("[fixture] serving fixture LMS on http://%s (staff@example.com / secret)", fixtureAddrFlag)
	return http.ListenAndServe(fixtureAddrFlag, srv.Handler())
}

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func maskSecret(value string) string {
	if value == "" {
		return "(not set)"
	}
	return "[configured]"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
