package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"lifepath/internal/numerology"
)

// ValidFormats are the output formats of the calculate command.
var ValidFormats = []string{"text", "json", "yaml"}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// calculationView is the machine-readable rendering of a Result.
type calculationView struct {
	Age              int          `json:"age"              yaml:"age"`
	MainPersonality  int          `json:"mainPersonality"  yaml:"mainPersonality"`
	LifePath         int          `json:"lifePath"         yaml:"lifePath"`
	IsMaster         bool         `json:"isMaster"         yaml:"isMaster"`
	KarmicDebtOrigin *int         `json:"karmicDebtOrigin" yaml:"karmicDebtOrigin"`
	Birthday         int          `json:"birthday"         yaml:"birthday"`
	ChallengeMain    int          `json:"challengeMain"    yaml:"challengeMain"`
	CurrentChallenge int          `json:"currentChallenge" yaml:"currentChallenge"`
	ChallengePeriod  string       `json:"challengePeriod"  yaml:"challengePeriod"`
	PersonalYear     int          `json:"personalYear"     yaml:"personalYear"`
	Gender           *string      `json:"gender"           yaml:"gender"`
	Elements         elementsView `json:"elements"         yaml:"elements"`
}

type elementsView struct {
	LifePath     string `json:"lifePath"     yaml:"lifePath"`
	Birthday     string `json:"birthday"     yaml:"birthday"`
	PersonalYear string `json:"personalYear" yaml:"personalYear"`
}

func newCalculationView(r numerology.Result) calculationView {
	v := calculationView{
		Age:              r.Age,
		MainPersonality:  r.MainPersonality,
		LifePath:         r.LifePath.Number,
		IsMaster:         r.LifePath.IsMaster,
		KarmicDebtOrigin: r.LifePath.KarmicDebtOrigin,
		Birthday:         r.Birthday,
		ChallengeMain:    r.Challenges.Main,
		CurrentChallenge: r.Challenges.Current.Number,
		ChallengePeriod:  string(r.Challenges.Current.Period),
		PersonalYear:     r.PersonalYear,
		Elements: elementsView{
			LifePath:     elementLabel(r.LifePath.Number),
			Birthday:     elementLabel(r.Birthday),
			PersonalYear: elementLabel(r.PersonalYear),
		},
	}
	if r.Gender != nil {
		g := string(*r.Gender)
		v.Gender = &g
	}
	return v
}

func elementLabel(n int) string {
	e := numerology.ElementOf(n)
	return fmt.Sprintf("%s (%s)", e, e.English())
}

func writeCalculation(w io.Writer, format, birthDate string, r numerology.Result) error {
	view := newCalculationView(r)
	switch format {
	case "json":
		return writeJSON(w, view)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(view); err != nil {
			return err
		}
		return enc.Close()
	default:
		return writeCalculationText(w, birthDate, view)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func writeCalculationText(w io.Writer, birthDate string, v calculationView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	lifePath := fmt.Sprint(v.LifePath)
	if v.IsMaster {
		lifePath += " (master)"
	}
	if v.KarmicDebtOrigin != nil {
		lifePath += fmt.Sprintf(" (karmic debt %d)", *v.KarmicDebtOrigin)
	}
	rows := [][2]string{
		{"Birth date", birthDate},
		{"Age", fmt.Sprint(v.Age)},
		{"Main personality", fmt.Sprint(v.MainPersonality)},
		{"Life path", lifePath},
		{"Birthday", fmt.Sprint(v.Birthday)},
		{"Main challenge", fmt.Sprint(v.ChallengeMain)},
		{"Current challenge", fmt.Sprintf("%d (%s period)", v.CurrentChallenge, v.ChallengePeriod)},
		{"Personal year", fmt.Sprint(v.PersonalYear)},
		{"Elements", fmt.Sprintf("life path %s, birthday %s, personal year %s",
			v.Elements.LifePath, v.Elements.Birthday, v.Elements.PersonalYear)},
	}
	if v.Gender != nil {
		rows = append(rows, [2]string{"Gender", *v.Gender})
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
