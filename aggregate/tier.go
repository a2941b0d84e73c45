package aggregate

import (
	"sort"

	"github.com/ge0mant1s/soacframe-community/model"
)

// TierGroup represents exposure findings grouped by tier.
type TierGroup struct {
	Tier     model.Tier
	Findings []model.ExposureFinding
}

// ByTier groups findings into one group per reportable tier, in tier order.
// Groups are always present, possibly empty; findings keep their input order.
func ByTier(findings []model.ExposureFinding) []TierGroup {
	index := make(map[model.Tier]int, len(model.Tiers))
	groups := make([]TierGroup, len(model.Tiers))
	for i, t := range model.Tiers {
		index[t] = i
		groups[i] = TierGroup{Tier: t}
	}

	for _, f := range findings {
		if i, ok := index[f.Tier]; ok {
			groups[i].Findings = append(groups[i].Findings, f)
		}
	}
	return groups
}

// Failures returns the invalid results sorted by path.
func Failures(results []model.ValidationResult) []model.ValidationResult {
	var failed []model.ValidationResult
	for _, r := range results {
		if !r.Valid() {
			failed = append(failed, r)
		}
	}
	sort.Slice(failed, func(i, j int) bool {
		return failed[i].Path < failed[j].Path
	})
	return failed
}

// TechniqueRules inverts a coverage report into rule name -> reference
// techniques it contributes, with both levels sorted.
func TechniqueRules(report model.CoverageReport) map[string][]string {
	byRule := make(map[string][]string)
	for _, t := range report.Techniques {
		for _, r := range t.Rules {
			byRule[r] = append(byRule[r], t.ID)
		}
	}
	for r := range byRule {
		sort.Strings(byRule[r])
	}
	return byRule
}
