package report

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// DefaultLanguage is the report language when none is configured.
const DefaultLanguage = "Mandarin"

// LanguageName turns a BCP 47 tag ("ms", "zh-Hant", "en-GB") into its English
// display name for the prompt. Anything that is not a short tag, such as
// "Mandarin", is taken as a display name already and returned trimmed.
func LanguageName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultLanguage
	}
	primary, _, _ := strings.Cut(s, "-")
	if len(primary) < 2 || len(primary) > 3 {
		return s
	}
	tag, err := language.Parse(s)
	if err != nil {
		return s
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return s
}
