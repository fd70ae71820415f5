package numerology

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the only accepted birth date shape.
const DateLayout = "2006-01-02"

// BirthDate is a calendar date. ParseBirthDate validates one from text;
// a literal is used as given.
type BirthDate struct {
	Year  int
	Month int
	Day   int
}

// ParseBirthDate validates s as a real YYYY-MM-DD calendar date.
func ParseBirthDate(s string) (BirthDate, error) {
	if n := utf8.RuneCountInString(s); n != 10 {
		return BirthDate{}, lengthError(n)
	}
	if len(s) != 10 {
		return BirthDate{}, formatError("non-ASCII characters")
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return BirthDate{}, formatError("expected YYYY-MM-DD segments")
	}
	yearStr, monthStr, dayStr := parts[0], parts[1], parts[2]
	if len(yearStr) != 4 || len(monthStr) != 2 || len(dayStr) != 2 {
		return BirthDate{}, formatError("segment lengths must be 4-2-2")
	}

	year, ok := parseDigits(yearStr)
	if !ok {
		return BirthDate{}, formatError("year is not numeric")
	}
	month, ok := parseDigits(monthStr)
	if !ok {
		return BirthDate{}, formatError("month is not numeric")
	}
	day, ok := parseDigits(dayStr)
	if !ok {
		return BirthDate{}, formatError("day is not numeric")
	}

	if year < 1 {
		return BirthDate{}, formatError("year 0000 out of range")
	}
	if month < 1 || month > 12 {
		return BirthDate{}, formatError(fmt.Sprintf("month %d out of range", month))
	}
	if day < 1 || day > 31 {
		return BirthDate{}, formatError(fmt.Sprintf("day %d out of range", day))
	}
	if day > daysIn(year, month) {
		return BirthDate{}, formatError(fmt.Sprintf("%s does not exist", s))
	}

	return BirthDate{Year: year, Month: month, Day: day}, nil
}

// MustParseBirthDate is ParseBirthDate for literals in tests and fixtures.
func MustParseBirthDate(s string) BirthDate {
	d, err := ParseBirthDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d BirthDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// digits returns the eight raw digits: day d1 d2, month m1 m2, year y1..y4.
// Each field contributes its low decimal places, so any literal is safe.
func (d BirthDate) digits() [8]int {
	return [8]int{
		place(d.Day, 10), place(d.Day, 1),
		place(d.Month, 10), place(d.Month, 1),
		place(d.Year, 1000), place(d.Year, 100), place(d.Year, 10), place(d.Year, 1),
	}
}

func place(n, unit int) int {
	if n < 0 {
		n = -n
	}
	return n / unit % 10
}

func parseDigits(s string) (int, bool) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
