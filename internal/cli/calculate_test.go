package cli

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCalculate_Text(t *testing.T) {
	stdout, _, code := execute(t, []string{"calculate", "2018-05-15", "--as-of-year", "2025"})

	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "Age:")
	assert.Contains(t, stdout, "22 (master)")
	assert.Contains(t, stdout, "木 (wood)")
	assert.NotContains(t, stdout, "Gender:")
}

func TestCalculate_JSON(t *testing.T) {
	stdout, _, code := execute(t, []string{"calculate", "2018-05-15", "--as-of-year", "2025", "--format", "json", "--gender", "girl"})
	require.Equal(t, ExitSuccess, code)

	var got calculationView
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 7, got.Age)
	assert.Equal(t, 22, got.LifePath)
	assert.True(t, got.IsMaster)
	assert.Nil(t, got.KarmicDebtOrigin)
	assert.Equal(t, 6, got.Birthday)
	require.NotNil(t, got.Gender)
	assert.Equal(t, "girl", *got.Gender)
	assert.Equal(t, "木 (wood)", got.Elements.LifePath)
}

func TestCalculate_YAML(t *testing.T) {
	stdout, _, code := execute(t, []string{"calculate", "2018-05-15", "--as-of-year", "2025", "--format", "yaml"})
	require.Equal(t, ExitSuccess, code)

	assert.Contains(t, stdout, "lifePath: 22\n")
	var got calculationView
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, 7, got.Age)
	assert.Nil(t, got.Gender)
}

func TestCalculate_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"short date", []string{"calculate", "2018-5-15"}},
		{"impossible date", []string{"calculate", "2023-02-30"}},
		{"bad format", []string{"calculate", "2018-05-15", "--format", "xml"}},
		{"negative year", []string{"calculate", "2018-05-15", "--as-of-year", "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, code := execute(t, tt.args)
			assert.Equal(t, ExitUsage, code)
			assert.Empty(t, stdout)
		})
	}
}

func TestCalculate_ValidationMessageIsUserFacing(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"calculate", "2018-5-15"})
	cmd.SetOut(io.Discard)
	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "10位日期")
}
