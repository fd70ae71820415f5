package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	f, err := NewFingerprinter([]byte("test-key"))
	require.NoError(t, err)

	in := FingerprintInput{BirthDate: "2018-05-15", Gender: "女", Language: "Mandarin", ReferenceYear: 2025, Model: "gemini-2.5-pro"}
	fp := f.Fingerprint(in)

	assert.Len(t, fp, 64)
	assert.Equal(t, fp, f.Fingerprint(in), "fingerprint must be stable")
	assert.NotContains(t, fp, "2018")

	t.Run("every field participates", func(t *testing.T) {
		variants := []FingerprintInput{in, in, in, in, in}
		variants[0].BirthDate = "2018-05-16"
		variants[1].Gender = ""
		variants[2].Language = "English"
		variants[3].ReferenceYear = 2026
		variants[4].Model = "gemini-2.5-flash"
		for _, v := range variants {
			assert.NotEqual(t, fp, f.Fingerprint(v), "%+v", v)
		}
	})

	t.Run("field boundaries are unambiguous", func(t *testing.T) {
		a := FingerprintInput{Gender: "ab", Language: "c"}
		b := FingerprintInput{Gender: "a", Language: "bc"}
		assert.NotEqual(t, f.Fingerprint(a), f.Fingerprint(b))
	})

	t.Run("key changes output", func(t *testing.T) {
		other, err := NewFingerprinter([]byte("other-key"))
		require.NoError(t, err)
		assert.NotEqual(t, fp, other.Fingerprint(in))
	})
}

func TestNewFingerprinter_RejectsLongKey(t *testing.T) {
	_, err := NewFingerprinter([]byte(strings.Repeat("k", 65)))
	assert.Error(t, err)

	_, err = NewFingerprinter(nil)
	assert.NoError(t, err)
}
