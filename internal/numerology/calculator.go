// Package numerology computes Pythagorean numerology numbers from a birth date.
//
// Everything here is pure and safe for concurrent use. The only input besides
// the date is the reference year used for age and personal year; a Calculator
// either pins it or reads it from a clock.
package numerology

import (
	"time"
)

// firstPeriodBase is the age from which the life path digit is subtracted
// to find where the first challenge period ends.
const firstPeriodBase = 36

// Calculator computes Results. The zero value is not usable; call NewCalculator.
type Calculator struct {
	referenceYear int
	clock         func() time.Time
}

type Option func(*Calculator)

// WithReferenceYear pins the year used for age and personal year.
func WithReferenceYear(year int) Option {
	return func(c *Calculator) {
		c.referenceYear = year
	}
}

// WithClock sets the clock used when no reference year is pinned.
func WithClock(clock func() time.Time) Option {
	return func(c *Calculator) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{clock: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReferenceYear returns the pinned year, or the clock's current year.
func (c *Calculator) ReferenceYear() int {
	if c.referenceYear > 0 {
		return c.referenceYear
	}
	return c.clock().Year()
}

// Calculate parses birthDate and computes its numbers against ReferenceYear.
// gender may be nil.
func (c *Calculator) Calculate(birthDate string, gender *Gender) (Result, error) {
	return c.CalculateAsOf(birthDate, gender, c.ReferenceYear())
}

// CalculateAsOf is Calculate with an explicit reference year.
func (c *Calculator) CalculateAsOf(birthDate string, gender *Gender, referenceYear int) (Result, error) {
	d, err := ParseBirthDate(birthDate)
	if err != nil {
		return Result{}, err
	}
	return Compute(d, gender, referenceYear), nil
}

// Compute derives every number for an already validated date.
func Compute(d BirthDate, gender *Gender, referenceYear int) Result {
	month := ReducePreservingMasters(d.Month)
	day := ReducePreservingMasters(d.Day)
	year := ReducePreservingMasters(DigitSum(d.Year))

	lifePath := computeLifePath(month, day, year)
	age := referenceYear - d.Year

	return Result{
		Age:             age,
		MainPersonality: MainPersonality(d),
		LifePath:        lifePath,
		Birthday:        day,
		Challenges:      computeChallenges(month, day, year, lifePath.Number, age),
		PersonalYear:    PersonalYear(month, day, referenceYear),
		Gender:          copyGender(gender),
	}
}

func computeLifePath(month, day, year int) LifePath {
	sum := month + day + year
	number := ReducePreservingMasters(sum)
	lp := LifePath{
		Number:   number,
		IsMaster: IsMaster(number),
	}
	if IsKarmicDebt(sum) {
		origin := sum
		lp.KarmicDebtOrigin = &origin
	}
	return lp
}

// computeChallenges takes the preserving-reduced components and force-reduces
// them again, so master 11 and 22 count as 2 and 4.
func computeChallenges(month, day, year, lifePath, age int) Challenges {
	cm := ReduceForceSingleDigit(month)
	cd := ReduceForceSingleDigit(day)
	cy := ReduceForceSingleDigit(year)

	first := abs(cm - cd)
	second := abs(cd - cy)

	current := CurrentChallenge{Number: first, Period: PeriodFirst}
	if age > FirstPeriodEndAge(lifePath) {
		current = CurrentChallenge{Number: second, Period: PeriodSecond}
	}
	return Challenges{
		Main:    abs(first - second),
		Current: current,
	}
}

// FirstPeriodEndAge is the last age of the first challenge period.
func FirstPeriodEndAge(lifePath int) int {
	return firstPeriodBase - ReduceForceSingleDigit(lifePath)
}

// PersonalYear combines the reduced birth month and day with the reference year.
func PersonalYear(reducedMonth, reducedDay, referenceYear int) int {
	return ReducePreservingMasters(reducedMonth + reducedDay + ReducePreservingMasters(DigitSum(referenceYear)))
}

func copyGender(g *Gender) *Gender {
	if g == nil {
		return nil
	}
	v := *g
	return &v
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
