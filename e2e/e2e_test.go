package e2e

import (
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the black-box suite against a live server. Set
// LEXSCREEN_BASE_URL (e.g. http://localhost:8080) before running.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("LEXSCREEN_BASE_URL")
	if baseURL == "" {
		t.Skip("LEXSCREEN_BASE_URL not set, skipping e2e suite")
	}

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			RegisterSteps(ctx, NewTestContext(baseURL))
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("e2e suite failed")
	}
}
