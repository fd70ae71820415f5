package report

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	raw, err := os.ReadFile("testdata/report.json")
	require.NoError(t, err)
	return raw
}

func TestDecodeReport(t *testing.T) {
	t.Run("takes the first array element", func(t *testing.T) {
		r, err := DecodeReport(loadFixture(t))
		require.NoError(t, err)
		assert.Equal(t, "大建筑师", r.InnerTeam.TeamCaptain.Archetype)
		assert.Nil(t, r.ParentsPlaybook.KarmicLessonFocus)
		assert.Len(t, r.IgnitingPassion.RecommendedHobbies, 3)
		assert.NoError(t, r.Check())
	})

	t.Run("accepts a bare object", func(t *testing.T) {
		var items []json.RawMessage
		require.NoError(t, json.Unmarshal(loadFixture(t), &items))

		fromArray, err := DecodeReport(loadFixture(t))
		require.NoError(t, err)
		fromObject, err := DecodeReport(items[0])
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(fromArray, fromObject))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		for _, raw := range []string{"", "  ", "[]", "[", "not json"} {
			_, err := DecodeReport([]byte(raw))
			assert.True(t, errors.Is(err, ErrMalformedReport), "%q", raw)
		}
	})

	t.Run("round trips through JSON", func(t *testing.T) {
		r, err := DecodeReport(loadFixture(t))
		require.NoError(t, err)
		encoded, err := json.Marshal(r)
		require.NoError(t, err)
		again, err := DecodeReport(encoded)
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(r, again))
	})
}

func TestReportCheck(t *testing.T) {
	t.Run("score out of range", func(t *testing.T) {
		r, err := DecodeReport(loadFixture(t))
		require.NoError(t, err)
		r.InnerTeam.PolygonChart.EmpathyAndConnection = 11
		err = r.Check()
		require.ErrorIs(t, err, ErrMalformedReport)
		assert.Contains(t, err.Error(), "axis 1")
	})

	t.Run("wrong item count", func(t *testing.T) {
		r, err := DecodeReport(loadFixture(t))
		require.NoError(t, err)
		r.IgnitingPassion.ReflectionQuestions = r.IgnitingPassion.ReflectionQuestions[:1]
		err = r.Check()
		require.ErrorIs(t, err, ErrMalformedReport)
		assert.Contains(t, err.Error(), "chapter4 reflectionQuestions")
	})
}
