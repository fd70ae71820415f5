package numerology

// Period names the life period the current challenge belongs to.
type Period string

const (
	PeriodFirst  Period = "first"
	PeriodSecond Period = "second"
)

// Gender is carried through to the result untouched; it never affects arithmetic.
type Gender string

// Result is the full set of derived numbers for one birth date and reference year.
type Result struct {
	Age             int        `json:"age"`
	MainPersonality int        `json:"mainPersonality"`
	LifePath        LifePath   `json:"lifePath"`
	Birthday        int        `json:"birthday"`
	Challenges      Challenges `json:"challenges"`
	PersonalYear    int        `json:"personalYear"`
	Gender          *Gender    `json:"gender"`
}

type LifePath struct {
	Number   int  `json:"number"`
	IsMaster bool `json:"isMaster"`
	// KarmicDebtOrigin is the unreduced life path sum when it is 13, 14, 16 or 19.
	KarmicDebtOrigin *int `json:"karmicDebtOrigin"`
}

type Challenges struct {
	Main    int              `json:"main"`
	Current CurrentChallenge `json:"current"`
}

type CurrentChallenge struct {
	Number int    `json:"number"`
	Period Period `json:"period"`
}

// HasKarmicDebt reports whether the life path sum carries a karmic debt.
func (lp LifePath) HasKarmicDebt() bool {
	return lp.KarmicDebtOrigin != nil
}

// GenderValue returns the passthrough gender, or "" when absent.
func (r Result) GenderValue() string {
	if r.Gender == nil {
		return ""
	}
	return string(*r.Gender)
}

var karmicDebtSums = map[int]bool{13: true, 14: true, 16: true, 19: true}

// IsKarmicDebt reports whether an unreduced sum is a karmic debt number.
func IsKarmicDebt(sum int) bool {
	return karmicDebtSums[sum]
}
