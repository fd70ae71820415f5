// Package report defines the parenting report produced by the language model,
// the prompt that requests it and the accounting around each generation.
package report

import (
	"errors"
	"fmt"
)

// Report is the structured document returned by the model. Field names match
// the response schema sent with every request.
type Report struct {
	InnerTeam       InnerTeam       `json:"chapter1_innerTeam"`
	InnerWorld      InnerWorld      `json:"chapter2_innerWorld"`
	ParentsPlaybook ParentsPlaybook `json:"chapter3_parentsPlaybook"`
	IgnitingPassion IgnitingPassion `json:"chapter4_ignitingPassions"`
	Conclusion      string          `json:"conclusion"`
}

type InnerTeam struct {
	PolygonChart        PolygonChart `json:"polygonChart"`
	Introduction        string       `json:"introduction"`
	TeamCaptain         TeamCaptain  `json:"teamCaptain"`
	SupportingCast      []Supporting `json:"supportingCast"`
	CoreDynamic         string       `json:"coreDynamic"`
	ReflectionQuestions []string     `json:"reflectionQuestions"`
}

// PolygonChart holds the six 1-10 axis scores of the personality chart.
type PolygonChart struct {
	LeadershipAndIndependence     float64 `json:"LeadershipAndIndependence"`
	EmpathyAndConnection          float64 `json:"EmpathyAndConnection"`
	CreativityAndExpression       float64 `json:"CreativityAndExpression"`
	AnalyticalAndStrategicMind    float64 `json:"AnalyticalAndStrategicMind"`
	DiligenceAndReliability       float64 `json:"DiligenceAndReliability"`
	AdventurousAndAdaptableSpirit float64 `json:"AdventurousAndAdaptableSpirit"`
}

type TeamCaptain struct {
	Archetype       string `json:"archetype"`
	Description     string `json:"description"`
	WhatItLooksLike string `json:"whatItLooksLike"`
	TheWhyBehindIt  string `json:"theWhyBehindIt"`
}

type Supporting struct {
	Archetype    string `json:"archetype"`
	Description  string `json:"description"`
	SourceNumber string `json:"sourceNumber"`
}

type InnerWorld struct {
	GreatestStrength    Named    `json:"greatestStrength"`
	CoreChallenge       Named    `json:"coreChallenge"`
	HiddenFear          Named    `json:"hiddenFear"`
	ReflectionQuestions []string `json:"reflectionQuestions"`
}

// Named is a titled paragraph.
type Named struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ParentsPlaybook struct {
	Introduction        string              `json:"introduction"`
	ParentingMindset    Named               `json:"parentingMindset"`
	LearningEnvironment LearningEnvironment `json:"learningEnvironmentAndStyle"`
	Guidance            Guidance            `json:"guidanceCommunicationAndBoundaries"`
	FriendshipAndFocus  FriendshipAndFocus  `json:"friendshipAndCurrentFocus"`
	KarmicLessonFocus   *KarmicLessonFocus  `json:"karmicLessonFocus"`
	ReflectionQuestions []string            `json:"reflectionQuestions"`
}

type LearningEnvironment struct {
	EnvironmentKeys   EnvironmentKeys `json:"environmentKeys"`
	CommunicationKeys []Phrase        `json:"communicationKeys_Potential"`
}

type EnvironmentKeys struct {
	Name   string   `json:"name"`
	Points []string `json:"points"`
}

// Phrase is an "instead of ... try this" communication tip.
type Phrase struct {
	InsteadOf  string `json:"insteadOf"`
	TryThis    string `json:"tryThis"`
	WhyItWorks string `json:"whyItWorks"`
}

type Guidance struct {
	DisciplineAndBoundaries string   `json:"disciplineAndBoundaries"`
	CommunicationKeys       []Phrase `json:"communicationKeys_Boundaries"`
}

type FriendshipAndFocus struct {
	SocialAndFriendshipStyle string `json:"socialAndFriendshipStyle"`
	NavigatingTheYearAhead   string `json:"navigatingTheYearAhead"`
}

// KarmicLessonFocus is present only when the life path carries a karmic debt.
type KarmicLessonFocus struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type IgnitingPassion struct {
	RecommendedHobbies  []HobbyTier  `json:"recommendedHobbies"`
	RecommendedCareers  []CareerTier `json:"recommendedCareers"`
	ReflectionQuestions []string     `json:"reflectionQuestions"`
}

type HobbyTier struct {
	Tier  string   `json:"tier"`
	Theme string   `json:"theme"`
	Items []string `json:"items"`
}

type CareerTier struct {
	Tier  string   `json:"tier"`
	Items []string `json:"items"`
}

// Axes returns the chart scores in display order.
func (p PolygonChart) Axes() []float64 {
	return []float64{
		p.LeadershipAndIndependence,
		p.EmpathyAndConnection,
		p.CreativityAndExpression,
		p.AnalyticalAndStrategicMind,
		p.DiligenceAndReliability,
		p.AdventurousAndAdaptableSpirit,
	}
}

// ErrMalformedReport marks a structurally inconsistent report.
var ErrMalformedReport = errors.New("malformed report")

// Check reports the first structural deviation from the requested shape.
// Model output is advisory, so callers usually log rather than reject.
func (r *Report) Check() error {
	for i, score := range r.InnerTeam.PolygonChart.Axes() {
		if score < 1 || score > 10 {
			return fmt.Errorf("%w: chart axis %d score %.1f outside 1-10", ErrMalformedReport, i, score)
		}
	}
	counts := []struct {
		name      string
		got, want int
	}{
		{"supportingCast", len(r.InnerTeam.SupportingCast), 2},
		{"chapter1 reflectionQuestions", len(r.InnerTeam.ReflectionQuestions), 3},
		{"chapter2 reflectionQuestions", len(r.InnerWorld.ReflectionQuestions), 3},
		{"environmentKeys.points", len(r.ParentsPlaybook.LearningEnvironment.EnvironmentKeys.Points), 4},
		{"communicationKeys_Potential", len(r.ParentsPlaybook.LearningEnvironment.CommunicationKeys), 4},
		{"communicationKeys_Boundaries", len(r.ParentsPlaybook.Guidance.CommunicationKeys), 4},
		{"chapter3 reflectionQuestions", len(r.ParentsPlaybook.ReflectionQuestions), 3},
		{"recommendedHobbies", len(r.IgnitingPassion.RecommendedHobbies), 3},
		{"recommendedCareers", len(r.IgnitingPassion.RecommendedCareers), 3},
		{"chapter4 reflectionQuestions", len(r.IgnitingPassion.ReflectionQuestions), 2},
	}
	for _, c := range counts {
		if c.got != c.want {
			return fmt.Errorf("%w: %s has %d items, want %d", ErrMalformedReport, c.name, c.got, c.want)
		}
	}
	return nil
}
