package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ge0mant1s/soacframe-community/model"
)

func TestPolicyEvaluate(t *testing.T) {
	tests := []struct {
		name       string
		policy     Policy
		percentage float64
		passed     bool
		exitCode   int
	}{
		{"library at threshold", Library(), 80.0, true, ExitPass},
		{"library just below", Library(), 79.9, false, ExitFail},
		{"library above", Library(), 100, true, ExitPass},
		{"campaign at threshold", Campaign(), 70.0, true, ExitPass},
		{"campaign below", Campaign(), 69.9, false, ExitFail},
		{"campaign passes where library fails", Campaign(), 75.0, true, ExitPass},
		{"library fails at 75", Library(), 75.0, false, ExitFail},
		{"zero", Campaign(), 0, false, ExitFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.policy.Evaluate(tt.percentage)
			assert.Equal(t, tt.passed, v.Passed)
			assert.Equal(t, tt.exitCode, v.ExitCode)
			assert.Equal(t, tt.percentage, v.Percentage)
			assert.Equal(t, tt.policy, v.Policy)
		})
	}
}

func TestGateUsesUnroundedCoverage(t *testing.T) {
	report := model.CoverageReport{Covered: 323, Total: 404, Percentage: Percentage(323, 404)}
	assert.Equal(t, 80.0, report.Percentage)

	v := Gate(report, Library())
	assert.False(t, v.Passed)
	assert.Equal(t, ExitFail, v.ExitCode)
	assert.Less(t, v.Percentage, 80.0)

	report = model.CoverageReport{Covered: 4, Total: 5, Percentage: 80}
	assert.True(t, Gate(report, Library()).Passed)
	assert.False(t, Gate(model.CoverageReport{}, Campaign()).Passed)
}

func TestPoliciesAreIndependent(t *testing.T) {
	assert.Equal(t, "library", Library().Name)
	assert.Equal(t, 80.0, Library().Threshold)
	assert.Equal(t, "campaign", Campaign().Name)
	assert.Equal(t, 70.0, Campaign().Threshold)
}
