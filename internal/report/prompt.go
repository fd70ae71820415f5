package report

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"lifepath/internal/numerology"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// UnspecifiedGender is substituted when the caller gives no gender.
const UnspecifiedGender = "of unspecified gender"

// Prompt is the system instruction and user content of one generation request.
type Prompt struct {
	System string `json:"system"`
	User   string `json:"user"`
}

type promptData struct {
	Language         string
	MainPersonality  int
	LifePath         int
	IsMaster         bool
	KarmicDebtOrigin string
	Birthday         int
	ChallengeMain    int
	ChallengeCurrent int
	ChallengePeriod  numerology.Period
	PersonalYear     int
	Age              int
	Gender           string
}

// BuildPrompt renders the prompt for r. language is a display name such as
// "Mandarin"; see LanguageName for BCP 47 input.
func BuildPrompt(r numerology.Result, language string) (Prompt, error) {
	data := promptData{
		Language:         language,
		MainPersonality:  r.MainPersonality,
		LifePath:         r.LifePath.Number,
		IsMaster:         r.LifePath.IsMaster,
		KarmicDebtOrigin: "null",
		Birthday:         r.Birthday,
		ChallengeMain:    r.Challenges.Main,
		ChallengeCurrent: r.Challenges.Current.Number,
		ChallengePeriod:  r.Challenges.Current.Period,
		PersonalYear:     r.PersonalYear,
		Age:              r.Age,
		Gender:           UnspecifiedGender,
	}
	if r.LifePath.KarmicDebtOrigin != nil {
		data.KarmicDebtOrigin = strconv.Itoa(*r.LifePath.KarmicDebtOrigin)
	}
	if g := strings.TrimSpace(r.GenderValue()); g != "" {
		data.Gender = g
	}

	system, err := render("system.tmpl", data)
	if err != nil {
		return Prompt{}, err
	}
	user, err := render("user.tmpl", data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: system, User: user}, nil
}

func render(name string, data promptData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
