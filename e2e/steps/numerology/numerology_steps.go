package numerology

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	GetLastResponseStatus() int
	Save(key, value string)
	Saved(key string) string
}

// RegisterSteps registers calculation and report step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &numerologySteps{tc: tc}

	ctx.Step(`^I calculate numerology for "([^"]*)"$`, steps.calculate)
	ctx.Step(`^I calculate numerology for "([^"]*)" with gender "([^"]*)"$`, steps.calculateWithGender)
	ctx.Step(`^I request a report for "([^"]*)"$`, steps.requestReport)
	ctx.Step(`^I save the report id$`, steps.saveReportID)
	ctx.Step(`^I fetch the saved report$`, steps.fetchSavedReport)
	ctx.Step(`^I share the saved report$`, steps.shareSavedReport)
	ctx.Step(`^I open the share link$`, steps.openShareLink)
}

type numerologySteps struct {
	tc TestContext
}

func (s *numerologySteps) calculate(ctx context.Context, birthday string) error {
	return s.tc.POST("/api/numerology", map[string]any{"birthday": birthday})
}

func (s *numerologySteps) calculateWithGender(ctx context.Context, birthday, gender string) error {
	return s.tc.POST("/api/numerology", map[string]any{"birthday": birthday, "gender": gender})
}

func (s *numerologySteps) requestReport(ctx context.Context, birthday string) error {
	return s.tc.POST("/api/generate-report", map[string]any{"birthday": birthday})
}

func (s *numerologySteps) saveReportID(ctx context.Context) error {
	return s.saveField("id", "report_id")
}

func (s *numerologySteps) fetchSavedReport(ctx context.Context) error {
	return s.tc.GET("/api/reports/"+s.tc.Saved("report_id"), nil)
}

func (s *numerologySteps) shareSavedReport(ctx context.Context) error {
	if err := s.tc.POST("/api/reports/"+s.tc.Saved("report_id")+"/share", nil); err != nil {
		return err
	}
	return s.saveField("token", "share_token")
}

func (s *numerologySteps) openShareLink(ctx context.Context) error {
	return s.tc.GET("/api/shared/"+s.tc.Saved("share_token"), nil)
}

func (s *numerologySteps) saveField(field, key string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	str, ok := value.(string)
	if !ok || str == "" {
		return fmt.Errorf("field %s is not a non-empty string: %v", field, value)
	}
	s.tc.Save(key, str)
	return nil
}
