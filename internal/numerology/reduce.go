package numerology

import "strconv"

// Master numbers are exempt from reduction in preserving mode.
const (
	MasterEleven    = 11
	MasterTwentyTwo = 22
)

// IsMaster reports whether n is a master number.
func IsMaster(n int) bool {
	return n == MasterEleven || n == MasterTwentyTwo
}

// DigitSum returns the plain sum of the decimal digits of n.
// Negative inputs are summed by magnitude.
func DigitSum(n int) int {
	if n < 0 {
		n = -n
	}
	sum := 0
	for n > 0 {
		sum += n % 10
		n /= 10
	}
	return sum
}

// ReducePreservingMasters digit-sums n until it is a single digit, stopping
// early if any running sum is 11 or 22. Values 0..9, 11 and 22 are fixed points.
func ReducePreservingMasters(n int) int {
	if IsMaster(n) {
		return n
	}
	for n > 9 {
		n = DigitSum(n)
		if IsMaster(n) {
			return n
		}
	}
	return n
}

// ReduceForceSingleDigit digit-sums n until it is at most 9. 11 and 22 are not special.
func ReduceForceSingleDigit(n int) int {
	for n > 9 {
		n = DigitSum(n)
	}
	return n
}

// AddRule is the pairwise rule of the personality pyramid. Sums above 9 that
// are not master numbers collapse to the sum of their first two decimal
// digits in a single pass; everything else is returned unchanged.
func AddRule(a, b int) int {
	s := a + b
	if s <= 9 || IsMaster(s) {
		return s
	}
	digits := strconv.Itoa(s)
	return int(digits[0]-'0') + int(digits[1]-'0')
}
