// Package coverage measures a rule library against a reference technique set
// and gates the result on a named threshold policy.
package coverage

import (
	"fmt"
	"math"
	"sort"

	"github.com/ge0mant1s/soacframe-community/extract"
	"github.com/ge0mant1s/soacframe-community/model"
)

// Calculate builds the CoverageReport of rules against ref. A technique is
// covered when at least one rule declares it, compared case-insensitively.
// Rules are aggregated with set semantics, so input order does not change the
// result; contributing rule names are listed alphabetically.
func Calculate(rules []model.DetectionRule, ref model.ReferenceSet) (model.CoverageReport, error) {
	total, canonical, err := denominator(ref)
	if err != nil {
		return model.CoverageReport{}, err
	}

	contributors := make(map[string]map[string]struct{})
	report := model.CoverageReport{
		Reference:    ref.Name,
		Total:        total,
		RulesScanned: len(rules),
	}

	for _, rule := range rules {
		if rule.ParseError != "" {
			report.ParseErrors = append(report.ParseErrors, model.FileError{Path: rule.Path, Error: rule.ParseError})
			continue
		}

		declared := false
		for _, t := range rule.Techniques {
			id := extract.NormalizeTechnique(t)
			if id == "" {
				continue
			}
			declared = true
			if contributors[id] == nil {
				contributors[id] = make(map[string]struct{})
			}
			contributors[id][rule.Name] = struct{}{}
		}
		if !declared {
			report.Unmapped = append(report.Unmapped, rule.Name)
		}
		for _, s := range rule.Suspect {
			report.Suspect = append(report.Suspect, model.SuspectMatch{Rule: rule.Name, Line: s.Line, Value: s.Technique})
		}
	}

	for _, id := range ref.IDs() {
		tc := model.TechniqueCoverage{
			ID:    id,
			Name:  ref.Techniques[id],
			Rules: sortedKeys(contributors[extract.NormalizeTechnique(id)]),
		}
		if len(tc.Rules) > 0 {
			tc.Covered = true
			report.Covered++
		}
		report.Techniques = append(report.Techniques, tc)
	}

	for id := range contributors {
		if _, ok := canonical[id]; !ok && extract.IsTechniqueID(id) {
			report.Extra = append(report.Extra, id)
		}
	}

	report.Percentage = Percentage(report.Covered, report.Total)

	sort.Strings(report.Unmapped)
	sort.Strings(report.Extra)
	sort.Slice(report.ParseErrors, func(i, j int) bool {
		return report.ParseErrors[i].Path < report.ParseErrors[j].Path
	})
	sort.Slice(report.Suspect, func(i, j int) bool {
		a, b := report.Suspect[i], report.Suspect[j]
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Line < b.Line
	})

	return report, nil
}

// Percentage returns covered/total*100 rounded to one decimal place.
// total must be positive.
func Percentage(covered, total int) float64 {
	return math.Round(RawPercentage(covered, total)*10) / 10
}

// RawPercentage returns covered/total*100 without rounding. total must be
// positive.
func RawPercentage(covered, total int) float64 {
	return float64(covered) / float64(total) * 100
}

// denominator validates ref and returns the coverage denominator together with
// the set of normalized reference IDs.
func denominator(ref model.ReferenceSet) (int, map[string]struct{}, error) {
	listed := len(ref.Techniques)
	if listed == 0 {
		return 0, nil, &model.ConfigError{Reason: fmt.Sprintf("reference set %q has zero techniques", ref.Name)}
	}

	canonical := make(map[string]struct{}, listed)
	for id := range ref.Techniques {
		n := extract.NormalizeTechnique(id)
		if n == "" {
			return 0, nil, &model.ConfigError{Reason: fmt.Sprintf("reference set %q contains an empty technique id", ref.Name)}
		}
		if _, dup := canonical[n]; dup {
			return 0, nil, &model.ConfigError{Reason: fmt.Sprintf("reference set %q lists %s more than once", ref.Name, n)}
		}
		canonical[n] = struct{}{}
	}

	switch {
	case ref.Total == 0:
		return listed, canonical, nil
	case ref.Total < listed:
		return 0, nil, &model.ConfigError{Reason: fmt.Sprintf(
			"reference set %q declares %d total techniques but lists %d", ref.Name, ref.Total, listed)}
	default:
		return ref.Total, canonical, nil
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
