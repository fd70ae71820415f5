package numerology

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthDate(t *testing.T) {
	t.Run("accepts valid dates", func(t *testing.T) {
		for _, s := range []string{"2018-05-15", "2024-02-29", "2000-02-29", "1999-12-31", "0001-01-01"} {
			d, err := ParseBirthDate(s)
			require.NoError(t, err, s)
			assert.Equal(t, s, d.String())
		}
	})

	t.Run("extracts fields", func(t *testing.T) {
		d, err := ParseBirthDate("2018-05-15")
		require.NoError(t, err)
		assert.Equal(t, 2018, d.Year)
		assert.Equal(t, 5, d.Month)
		assert.Equal(t, 15, d.Day)
		assert.Equal(t, [8]int{1, 5, 0, 5, 2, 0, 1, 8}, d.digits())
	})

	t.Run("literal dates carry the same digits", func(t *testing.T) {
		d := BirthDate{Year: 2018, Month: 5, Day: 15}
		assert.Equal(t, [8]int{1, 5, 0, 5, 2, 0, 1, 8}, d.digits())
		assert.Equal(t, "2018-05-15", d.String())
		assert.Equal(t, [8]int{0, 0, 0, 0, 0, 0, 0, 0}, BirthDate{}.digits())
	})

	t.Run("year zero rejected", func(t *testing.T) {
		_, err := ParseBirthDate("0000-01-01")
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("wrong length uses length message", func(t *testing.T) {
		for _, s := range []string{"", "2018-5-15", "2018-05-155", "20180515"} {
			_, err := ParseBirthDate(s)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), s)
			assert.Equal(t, msgLength, ve.Error(), s)
			assert.Equal(t, "birthday", ve.Field)
		}
	})

	t.Run("bad shape or range uses format message", func(t *testing.T) {
		for _, s := range []string{
			"2018-13-01", // month 13
			"2018-00-10",
			"2018-01-32",
			"2018-01-00",
			"2018/05/15",
			"18-05-2015",
			"2018-0a-15",
			"abcd-05-15",
			"2024-02-30",
			"2023-02-29",
			"1900-02-29",
			"2018-04-31",
			"２０18-05-15",
		} {
			_, err := ParseBirthDate(s)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), s)
			assert.Equal(t, msgFormat, ve.Error(), s)
			assert.NotEmpty(t, ve.Reason, s)
		}
	})
}

func TestMustParseBirthDatePanics(t *testing.T) {
	assert.Panics(t, func() { MustParseBirthDate("2018-13-01") })
	assert.NotPanics(t, func() { MustParseBirthDate("2018-12-01") })
}

func TestValidationErrorDetail(t *testing.T) {
	_, err := ParseBirthDate("2018-13-01")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "birthday: month 13 out of range", ve.Detail())
}
