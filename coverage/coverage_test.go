package coverage

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ge0mant1s/soacframe-community/model"
)

func rule(name string, techniques ...string) model.DetectionRule {
	return model.DetectionRule{Path: "rules/" + name, Name: name, Techniques: techniques}
}

func TestCalculateEndToEnd(t *testing.T) {
	ref := model.ReferenceSet{Name: "test", Techniques: map[string]string{"T1": "A", "T2": "B"}}
	rules := []model.DetectionRule{rule("one.kql", "T1"), rule("two.kql", "T1")}

	report, err := Calculate(rules, ref)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Covered)
	assert.Equal(t, 50.0, report.Percentage)
	assert.Equal(t, 2, report.RulesScanned)
	require.Len(t, report.Techniques, 2)
	assert.Equal(t, model.TechniqueCoverage{ID: "T1", Name: "A", Covered: true, Rules: []string{"one.kql", "two.kql"}}, report.Techniques[0])

	uncovered := report.Uncovered()
	require.Len(t, uncovered, 1)
	assert.Equal(t, "T2", uncovered[0].ID)
	assert.Empty(t, uncovered[0].Rules)
}

func TestCalculateNormalizesCase(t *testing.T) {
	ref := model.ReferenceSet{Techniques: map[string]string{"T1505.003": "Web Shell", "T1190": "Exploit"}}
	report, err := Calculate([]model.DetectionRule{rule("a.kql", " t1505.003 ")}, ref)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Covered)
	assert.True(t, report.Techniques[1].Covered)
	assert.Equal(t, "T1505.003", report.Techniques[1].ID)
}

func TestCalculateZeroTotal(t *testing.T) {
	_, err := Calculate([]model.DetectionRule{rule("a.kql", "T1190")}, model.ReferenceSet{Name: "empty"})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestCalculateTotalOverride(t *testing.T) {
	techniques := map[string]string{"T1486": "Data Encrypted for Impact", "T1490": "Inhibit System Recovery"}

	report, err := Calculate([]model.DetectionRule{rule("a.kql", "T1486")}, model.ReferenceSet{Techniques: techniques, Total: 4})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 25.0, report.Percentage)

	_, err = Calculate(nil, model.ReferenceSet{Techniques: techniques, Total: 1})
	assert.ErrorIs(t, err, model.ErrConfig)

	_, err = Calculate(nil, model.ReferenceSet{Techniques: techniques, Total: -3})
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestCalculateDuplicateReferenceIDs(t *testing.T) {
	_, err := Calculate(nil, model.ReferenceSet{Techniques: map[string]string{"T1190": "a", "t1190": "b"}})
	assert.ErrorIs(t, err, model.ErrConfig)
}

func TestCalculateSideLists(t *testing.T) {
	ref := model.ReferenceSet{Techniques: map[string]string{"T1190": "Exploit"}}
	rules := []model.DetectionRule{
		rule("b.kql", "T1190", "T1059"),
		rule("a.kql"),
		{Path: "rules/c.kql", Name: "c.kql", Techniques: []string{"guidance"}, Suspect: []model.TechniqueMatch{{Line: 4, Technique: "guidance"}}},
		{Path: "rules/broken.yml", Name: "broken.yml", ParseError: "parsing rules/broken.yml: yaml: bad"},
		rule("d.kql", ""),
	}

	report, err := Calculate(rules, ref)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Covered)
	assert.Equal(t, 100.0, report.Percentage)
	assert.Equal(t, []string{"a.kql", "d.kql"}, report.Unmapped)
	assert.Equal(t, []string{"T1059"}, report.Extra)
	assert.Equal(t, []model.SuspectMatch{{Rule: "c.kql", Line: 4, Value: "guidance"}}, report.Suspect)
	assert.Equal(t, []model.FileError{{Path: "rules/broken.yml", Error: "parsing rules/broken.yml: yaml: bad"}}, report.ParseErrors)
	assert.Equal(t, 5, report.RulesScanned)
}

func TestCalculateRounding(t *testing.T) {
	ref := model.ReferenceSet{Techniques: map[string]string{"T1001": "", "T1002": "", "T1003": ""}}
	report, err := Calculate([]model.DetectionRule{rule("a.kql", "T1001")}, ref)
	require.NoError(t, err)
	assert.Equal(t, 33.3, report.Percentage)

	report, err = Calculate([]model.DetectionRule{rule("a.kql", "T1001", "T1002")}, ref)
	require.NoError(t, err)
	assert.Equal(t, 66.7, report.Percentage)
}

func TestCalculateProperties(t *testing.T) {
	ref := model.ReferenceSet{Techniques: map[string]string{
		"T1190": "", "T1133": "", "T1098": "", "T1040": "", "T1090": "",
	}}
	rules := []model.DetectionRule{
		rule("a.yml", "T1190", "T1133"),
		rule("b.yml", "T1190"),
		rule("c.yml", "T9999"),
		rule("d.yml", "T1040", "T1040"),
		rule("e.yml"),
	}

	first, err := Calculate(rules, ref)
	require.NoError(t, err)

	again, err := Calculate(rules, ref)
	require.NoError(t, err)
	assert.Equal(t, first, again, "calculation is idempotent")

	assert.LessOrEqual(t, first.Covered, first.Total)
	assert.GreaterOrEqual(t, first.Percentage, 0.0)
	assert.LessOrEqual(t, first.Percentage, 100.0)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		shuffled := append([]model.DetectionRule(nil), rules...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := Calculate(shuffled, ref)
		require.NoError(t, err)
		assert.Equal(t, first, got, "permuting rules does not change the report")
	}
}
