package handler

import (
	"time"

	"lifepath/internal/numerology"
	"lifepath/internal/report"
	"lifepath/internal/report/service"
)

// NumerologyResponse is the response for POST /api/numerology.
type NumerologyResponse struct {
	Calculations numerology.Result `json:"calculations"`
	Elements     ElementsResponse  `json:"elements"`
}

// ElementsResponse maps the headline numbers to their Wu Xing phase.
type ElementsResponse struct {
	LifePath     ElementResponse `json:"lifePath"`
	Birthday     ElementResponse `json:"birthday"`
	PersonalYear ElementResponse `json:"personalYear"`
}

type ElementResponse struct {
	Element string `json:"element"`
	Name    string `json:"name"`
}

// ReportResponse is the response for generated, stored and shared reports.
type ReportResponse struct {
	ID           string            `json:"id"`
	Report       *report.Report    `json:"report"`
	Calculations numerology.Result `json:"calculations"`
	Usage        report.Usage      `json:"usage"`
	Cost         report.Cost       `json:"cost"`
	Model        string            `json:"model"`
	Cached       bool              `json:"cached"`
	CreatedAt    time.Time         `json:"created_at"`
}

// ShareResponse is the response for POST /api/reports/{id}/share.
type ShareResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	URL       string    `json:"url"`
}

func toElement(n int) ElementResponse {
	e := numerology.ElementOf(n)
	return ElementResponse{Element: string(e), Name: e.English()}
}

func FromCalculation(r numerology.Result) *NumerologyResponse {
	return &NumerologyResponse{
		Calculations: r,
		Elements: ElementsResponse{
			LifePath:     toElement(r.LifePath.Number),
			Birthday:     toElement(r.Birthday),
			PersonalYear: toElement(r.PersonalYear),
		},
	}
}

func FromResult(r *service.GenerateResult) *ReportResponse {
	return &ReportResponse{
		ID:           r.ID,
		Report:       r.Report,
		Calculations: r.Calculations,
		Usage:        r.Usage,
		Cost:         r.Cost,
		Model:        r.Model,
		Cached:       r.Cached,
		CreatedAt:    r.CreatedAt,
	}
}

func FromShareLink(l *service.ShareLink) *ShareResponse {
	return &ShareResponse{Token: l.Token, ExpiresAt: l.ExpiresAt, URL: l.URL}
}
