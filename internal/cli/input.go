package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"lifepath/internal/numerology"
)

// birthFlags are the inputs shared by every command that takes a birth date.
type birthFlags struct {
	gender   string
	asOfYear int
}

func (f *birthFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.gender, "gender", "", "gender passed through to the report")
	cmd.Flags().IntVar(&f.asOfYear, "as-of-year", 0, "reference year for age and personal year (default REFERENCE_YEAR or the current year)")
}

// calculate validates the date and computes its numbers. defaultYear is the
// configured reference year, 0 for the current year.
func (f *birthFlags) calculate(birthDate string, defaultYear int) (numerology.Result, error) {
	if f.asOfYear < 0 {
		return numerology.Result{}, usageError("--as-of-year must be positive", nil)
	}
	year := defaultYear
	if f.asOfYear > 0 {
		year = f.asOfYear
	}
	calc := numerology.NewCalculator(numerology.WithReferenceYear(year))

	var gender *numerology.Gender
	if g := strings.TrimSpace(f.gender); g != "" {
		value := numerology.Gender(g)
		gender = &value
	}

	result, err := calc.Calculate(birthDate, gender)
	if err != nil {
		var verr *numerology.ValidationError
		if errors.As(err, &verr) {
			return numerology.Result{}, usageError(verr.Message, nil)
		}
		return numerology.Result{}, failure("calculation failed", err)
	}
	return result, nil
}
