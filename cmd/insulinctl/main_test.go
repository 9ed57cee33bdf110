package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalculateCommand(t *testing.T) {
	t.Setenv("CALCULATOR_CONFIG", "")
	out, err := runCommand(t, newCalculateCmd(), "--meal", "first", "--carbs", "30", "--bg", "10")
	require.NoError(t, err)

	assert.Contains(t, out, "Blood glucose:      10 mmol/L (180.0 mg/dL)")
	assert.Contains(t, out, "Meal insulin:       3.0 U")
	assert.Contains(t, out, "Correction insulin: 2.0 U (174 to 190 mg/dL = +2 units)")
	assert.Contains(t, out, "Total insulin:      5.0 U")
}

func TestCalculateCommandWithoutCarbs(t *testing.T) {
	out, err := runCommand(t, newCalculateCmd(), "--meal", "bedtime", "--bg", "3")
	require.NoError(t, err)

	assert.NotContains(t, out, "Carbs:")
	assert.Contains(t, out, "Total insulin:      -0.5 U")
}

func TestCalculateCommandUsesCalculatorConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calculator.yaml")
	require.NoError(t, os.WriteFile(path, []byte("first_meal_ratio: 5\n"), 0o600))
	t.Setenv("CALCULATOR_CONFIG", path)

	out, err := runCommand(t, newCalculateCmd(), "--meal", "first", "--carbs", "30", "--bg", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Meal insulin:       6.0 U")
}

func TestCalculateCommandRejectsBadInput(t *testing.T) {
	_, err := runCommand(t, newCalculateCmd(), "--meal", "lunch", "--bg", "6")
	assert.Error(t, err)

	_, err = runCommand(t, newCalculateCmd(), "--meal", "first", "--bg", "-1")
	assert.Error(t, err)

	_, err = runCommand(t, newCalculateCmd(), "--meal", "first")
	assert.Error(t, err)
}

func TestValidateConfigMasksSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456789:ABCDEFGHIJKLMNOP")
	t.Setenv("DB_PASSWORD", "supersecretpassword")

	out, err := runCommand(t, newValidateConfigCmd())
	require.NoError(t, err)

	assert.Contains(t, out, "✅ Конфигурация валидна!")
	assert.Contains(t, out, "1234...MNOP")
	assert.NotContains(t, out, "supersecretpassword")
	assert.Contains(t, out, "standard 20 rows, bedtime 14 rows")
}

func TestMaskToken(t *testing.T) {
	assert.Equal(t, "<не установлен>", maskToken(""))
	assert.Equal(t, "***", maskToken("short"))
	assert.Equal(t, "abcd...wxyz", maskToken("abcdefghijklmnopqrstuvwxyz"))
}
