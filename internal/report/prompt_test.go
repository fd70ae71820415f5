package report

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifepath/internal/numerology"
)

func calculate(t *testing.T, date string, gender *numerology.Gender) numerology.Result {
	t.Helper()
	r, err := numerology.NewCalculator(numerology.WithReferenceYear(2025)).Calculate(date, gender)
	require.NoError(t, err)
	return r
}

// TestBuildPrompt_Golden pins the exact user content sent to the model.
// Regenerate with: go test ./internal/report -run Golden -update
func TestBuildPrompt_Golden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"))
	girl := numerology.Gender("女")

	t.Run("master life path with gender", func(t *testing.T) {
		p, err := BuildPrompt(calculate(t, "2018-05-15", &girl), DefaultLanguage)
		require.NoError(t, err)
		g.Assert(t, "user_master_life_path", []byte(p.User))
	})

	t.Run("karmic debt without gender", func(t *testing.T) {
		p, err := BuildPrompt(calculate(t, "2021-04-04", nil), DefaultLanguage)
		require.NoError(t, err)
		g.Assert(t, "user_karmic_debt", []byte(p.User))
	})

	t.Run("system instruction carries language", func(t *testing.T) {
		p, err := BuildPrompt(calculate(t, "2021-04-04", nil), "Malay")
		require.NoError(t, err)
		g.Assert(t, "system_malay", []byte(p.System))
	})
}

func TestBuildPrompt_BlankGenderIsUnspecified(t *testing.T) {
	blank := numerology.Gender("   ")
	p, err := BuildPrompt(calculate(t, "2018-05-15", &blank), DefaultLanguage)
	require.NoError(t, err)
	assert.Contains(t, p.User, "is "+UnspecifiedGender+".")
	assert.Contains(t, p.System, "MUST use Mandarin for all text")
}

func TestLanguageName(t *testing.T) {
	cases := map[string]string{
		"":         DefaultLanguage,
		"en":       "English",
		"ms":       "Malay",
		"Mandarin": "Mandarin",
		" Tamil ":  "Tamil",
		"x":        "x",
	}
	for in, want := range cases {
		assert.Equal(t, want, LanguageName(in), "LanguageName(%q)", in)
	}
}
