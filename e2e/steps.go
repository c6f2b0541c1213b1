package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/gofrs/uuid"
)

// TestContext carries HTTP state between steps of one scenario.
type TestContext struct {
	baseURL string
	client  *http.Client

	lastStatus int
	lastBody   map[string]any
	runID      string
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RegisterSteps registers all screening step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the service is available$`, tc.serviceIsAvailable)
	ctx.Step(`^I start a screening run with a complete profile$`, tc.startCompleteRun)
	ctx.Step(`^I start a screening run with only core fields$`, tc.startCoreOnlyRun)
	ctx.Step(`^the run is accepted with recommended complexity "([^"]*)"$`, tc.runAccepted)
	ctx.Step(`^the run eventually completes with (\d+) phases$`, tc.runCompletes)
	ctx.Step(`^I report changed fields "([^"]*)"$`, tc.reportChangedFields)
	ctx.Step(`^the impact level is "([^"]*)"$`, tc.impactLevelIs)
	ctx.Step(`^a re-screening run is started$`, tc.rescreeningStarted)
	ctx.Step(`^no re-screening run is started$`, tc.noRescreeningStarted)
}

func (tc *TestContext) post(path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := tc.client.Post(tc.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	return tc.capture(resp)
}

func (tc *TestContext) get(path string) error {
	resp, err := tc.client.Get(tc.baseURL + path)
	if err != nil {
		return err
	}
	return tc.capture(resp)
}

func (tc *TestContext) capture(resp *http.Response) error {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &tc.lastBody); err != nil {
			return fmt.Errorf("non-JSON response (%d): %s", resp.StatusCode, raw)
		}
	}
	return nil
}

func completeProfile() map[string]any {
	return map[string]any{
		"organization_name":   "Harborline Foods Ltd",
		"organization_type":   "limited_company",
		"headquarters_region": "england",
		"industry_sector":     "manufacturing",
		"employee_count":      85,
		"annual_turnover":     12000000,
		"operational_regions": []string{"england", "wales"},
		"business_activities": []string{"food_production"},
		"legal_structure":     "ltd",
		"founding_year":       2003,
		"regulatory_history":  []string{"fsa-2021-102"},
		"website":             "https://harborline.example",
		"public_contact":      "hello@harborline.example",
	}
}

func coreOnlyProfile() map[string]any {
	return map[string]any{
		"organization_name":   "Quietwater Consulting",
		"organization_type":   "partnership",
		"headquarters_region": "scotland",
		"industry_sector":     "professional_services",
	}
}

func (tc *TestContext) serviceIsAvailable() error {
	if err := tc.get("/healthz"); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusOK {
		return fmt.Errorf("healthz returned %d", tc.lastStatus)
	}
	return nil
}

func (tc *TestContext) startRun(profile map[string]any) error {
	orgID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	return tc.post("/screening/runs", map[string]any{
		"organization_id": orgID.String(),
		"profile":         profile,
		"options":         map[string]any{"trigger": "manual"},
	})
}

func (tc *TestContext) startCompleteRun() error { return tc.startRun(completeProfile()) }
func (tc *TestContext) startCoreOnlyRun() error { return tc.startRun(coreOnlyProfile()) }

func (tc *TestContext) runAccepted(level string) error {
	if tc.lastStatus != http.StatusAccepted {
		return fmt.Errorf("expected 202, got %d: %v", tc.lastStatus, tc.lastBody)
	}
	runID, _ := tc.lastBody["run_id"].(string)
	if runID == "" {
		return fmt.Errorf("no run_id in response: %v", tc.lastBody)
	}
	tc.runID = runID
	if got, _ := tc.lastBody["recommended_complexity"].(string); got != level {
		return fmt.Errorf("expected recommended complexity %q, got %q", level, got)
	}
	return nil
}

func (tc *TestContext) runCompletes(phases int) error {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if err := tc.get("/screening/runs/" + tc.runID); err != nil {
			return err
		}
		if status, _ := tc.lastBody["status"].(string); status == "completed" {
			if got, _ := tc.lastBody["phases_run"].(float64); int(got) != phases {
				return fmt.Errorf("expected %d phases, got %v", phases, got)
			}
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("run %s did not complete in time, last: %v", tc.runID, tc.lastBody)
}

func (tc *TestContext) reportChangedFields(fields string) error {
	orgID, err := uuid.NewV4()
	if err != nil {
		return err
	}
	return tc.post("/screening/profile-changes", map[string]any{
		"organization_id": orgID.String(),
		"changed_fields":  strings.Split(fields, ","),
		"profile":         completeProfile(),
	})
}

func (tc *TestContext) impactLevelIs(level string) error {
	impact, _ := tc.lastBody["impact"].(map[string]any)
	if got, _ := impact["impact_level"].(string); got != level {
		return fmt.Errorf("expected impact level %q, got %q (%v)", level, got, tc.lastBody)
	}
	return nil
}

func (tc *TestContext) rescreeningStarted() error {
	run, ok := tc.lastBody["run"].(map[string]any)
	if !ok {
		return fmt.Errorf("expected a run in response: %v", tc.lastBody)
	}
	if runID, _ := run["run_id"].(string); runID == "" {
		return fmt.Errorf("re-screening run has no run_id: %v", run)
	}
	return nil
}

func (tc *TestContext) noRescreeningStarted() error {
	if _, ok := tc.lastBody["run"]; ok {
		return fmt.Errorf("did not expect a run in response: %v", tc.lastBody)
	}
	return nil
}
