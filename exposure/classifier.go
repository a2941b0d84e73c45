// Package exposure triages inventory devices into exposure tiers from
// vulnerability applicability and device role.
package exposure

import (
	"strings"

	"github.com/ge0mant1s/soacframe-community/model"
)

const (
	ReasonVulnAndRole = "CVE exposure + high-risk role"
	ReasonVuln        = "CVE exposure"
	ReasonRole        = "High-risk role"
)

// Classifier holds the static reference data a classification runs against.
type Classifier struct {
	entries       []model.Vulnerability
	highRiskRoles map[string]struct{}
}

// NewClassifier copies catalog and roles into a Classifier.
func NewClassifier(catalog model.VulnerabilityCatalog, roles []string) *Classifier {
	c := &Classifier{
		entries:       catalog.Entries(),
		highRiskRoles: make(map[string]struct{}, len(roles)),
	}
	for _, r := range roles {
		c.highRiskRoles[r] = struct{}{}
	}
	return c
}

// Applicable returns the catalog entries whose product name contains the
// device vendor, case-insensitively. Versions are not compared, and an
// empty vendor is contained in every product.
func (c *Classifier) Applicable(d model.DeviceRecord) []model.Vulnerability {
	vendor := strings.ToLower(d.Vendor)
	var out []model.Vulnerability
	for _, v := range c.entries {
		if strings.Contains(strings.ToLower(v.Product), vendor) {
			out = append(out, v)
		}
	}
	return out
}

// IsHighRiskRole reports exact membership of role in the high-risk set.
func (c *Classifier) IsHighRiskRole(role string) bool {
	_, ok := c.highRiskRoles[role]
	return ok
}

// Classify assigns d to a tier.
func (c *Classifier) Classify(d model.DeviceRecord) model.ExposureFinding {
	vulns := c.Applicable(d)
	highRisk := c.IsHighRiskRole(d.Role)
	tier := DecideTier(len(vulns) > 0, highRisk)
	return model.ExposureFinding{
		Device:          d,
		Vulnerabilities: vulns,
		HighRiskRole:    highRisk,
		Tier:            tier,
		Reason:          Reason(tier),
	}
}

// Assess classifies every device and keeps those that landed in a tier, in
// inventory order.
func (c *Classifier) Assess(devices []model.DeviceRecord) model.ExposureAssessment {
	a := model.ExposureAssessment{Analyzed: len(devices), Findings: []model.ExposureFinding{}}
	for _, d := range devices {
		f := c.Classify(d)
		if f.Tier == model.TierNone {
			continue
		}
		a.Findings = append(a.Findings, f)
	}
	return a
}

// DecideTier is the tier decision table; the first matching row wins.
func DecideTier(hasVulns, highRiskRole bool) model.Tier {
	switch {
	case hasVulns && highRiskRole:
		return model.TierCritical
	case hasVulns:
		return model.TierHigh
	case highRiskRole:
		return model.TierMedium
	default:
		return model.TierNone
	}
}

// Reason returns the report wording for a tier.
func Reason(t model.Tier) string {
	switch t {
	case model.TierCritical:
		return ReasonVulnAndRole
	case model.TierHigh:
		return ReasonVuln
	case model.TierMedium:
		return ReasonRole
	default:
		return ""
	}
}
