package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goal-planner/backend/internal/integration/entrypoint/dto"
)

const planYAML = `
as_of: 2025-01-15
monthly_budget: 150
goals:
  - name: Trip
    category: travel
    target_date: 2026-01-01
    amount: 1200
    custom_rates: {high: 0, mid: 0, low: 0}
  - name: Laptop
    category: other
    target_date: 2025-07-01
    amount: 600
    custom_rates: {high: 0, mid: 0, low: 0}
`

func writePlan(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := newRootCmd()
	assert.Equal(t, "goalplan", cmd.Use)
	assert.NotEmpty(t, cmd.Short)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"plan", "validate", "phases", "pmt", "version"}, names)
}

func TestPlanCommand_JSON(t *testing.T) {
	out, err := run(t, "plan", writePlan(t, planYAML), "--format", "json")
	require.NoError(t, err)

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "waterfall", plan.FundingStyle)
	assert.Equal(t, "50.00", plan.Shortfall)
	assert.True(t, plan.InsufficientBudget)
	require.Len(t, plan.Allocations, 2)
	assert.Equal(t, "Laptop", plan.Allocations[0].GoalName)
	assert.Equal(t, "100.00", plan.Allocations[0].RequiredPMT)
}

func TestPlanCommand_StyleOverride(t *testing.T) {
	out, err := run(t, "plan", writePlan(t, planYAML), "--format", "json", "--style", "parallel")
	require.NoError(t, err)

	var plan dto.PlanResponse
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	assert.Equal(t, "parallel", plan.FundingStyle)

	_, err = run(t, "plan", writePlan(t, planYAML), "--style", "random")
	assert.ErrorContains(t, err, "unknown funding style")
}

func TestPlanCommand_CSV(t *testing.T) {
	out, err := run(t, "plan", writePlan(t, planYAML), "--format", "csv")
	require.NoError(t, err)

	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Goal", "Month", "Allocation", "Balance"}, rows[0])
	// 12 months for each of the two goals
	assert.Len(t, rows, 1+24)
	assert.Equal(t, []string{"Laptop", "2025-01", "100.00", "100.00"}, rows[1])
}

func TestPlanCommand_Console(t *testing.T) {
	out, err := run(t, "plan", writePlan(t, planYAML))
	require.NoError(t, err)

	assert.Contains(t, out, "Allocation plan from 2025-01 (waterfall, 12 months)")
	assert.Contains(t, out, "Laptop")
	assert.Contains(t, out, "Warning: the budget is 50.00 short")
}

func TestPlanCommand_UnknownFormat(t *testing.T) {
	_, err := run(t, "plan", writePlan(t, planYAML), "--format", "html")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestValidateCommand(t *testing.T) {
	path := writePlan(t, planYAML)
	out, err := run(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	_, err = run(t, "validate", writePlan(t, "monthly_budget: 10\ngoals: []"))
	assert.ErrorContains(t, err, "at least one goal is required")
}

func TestPhasesCommand(t *testing.T) {
	out, err := run(t, "phases", "--months", "120", "--profile", "growth", "--payment-period", "2")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[len(lines)-1], "drawdown")
	assert.Contains(t, lines[len(lines)-1], "24")

	_, err = run(t, "phases", "--months", "0")
	assert.Error(t, err)
}

func TestPmtCommand(t *testing.T) {
	out, err := run(t, "pmt", "--amount", "1200", "--months", "12", "--profile", "conservative")
	require.NoError(t, err)

	pmt, err := decimal.NewFromString(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.True(t, pmt.IsPositive())
	assert.True(t, pmt.LessThan(decimal.NewFromInt(100)), pmt.String())

	_, err = run(t, "pmt", "--amount", "lots", "--months", "12")
	assert.ErrorContains(t, err, "invalid amount")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "goalplan dev")
}
