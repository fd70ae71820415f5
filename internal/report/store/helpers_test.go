package store_test

import (
	"time"

	"github.com/google/uuid"

	"lifepath/internal/numerology"
	"lifepath/internal/report"
)

func newRecord(fingerprint string, createdAt time.Time) report.Record {
	calc := numerology.NewCalculator(numerology.WithReferenceYear(2025))
	result, err := calc.Calculate("2018-05-15", nil)
	if err != nil {
		panic(err)
	}
	return report.Record{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		BirthYear:   2018,
		Language:    report.DefaultLanguage,
		Model:       "gemini-2.5-pro",
		Report: &report.Report{
			InnerTeam: report.InnerTeam{
				TeamCaptain: report.TeamCaptain{Archetype: "大建筑师"},
			},
			Conclusion: "每个孩子都是独一无二的。",
		},
		Calculations: result,
		Usage:        report.Usage{PromptTokens: 1000, CandidateTokens: 2000, ThoughtTokens: 3000, TotalTokens: 6000},
		Cost:         report.Cost{Amount: 0.230625, Currency: "MYR"},
		CreatedAt:    createdAt.UTC().Truncate(time.Microsecond),
	}
}
