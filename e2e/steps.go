package e2e

import (
	"github.com/cucumber/godog"

	"lifepath/e2e/steps/common"
	"lifepath/e2e/steps/numerology"
	"lifepath/e2e/steps/ratelimit"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	numerology.RegisterSteps(ctx, tc)
	ratelimit.RegisterSteps(ctx, tc)
}
