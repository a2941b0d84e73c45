package model

import (
	"fmt"
	"sort"
	"strings"
)

// DeviceRecord is one entry of a network device inventory.
type DeviceRecord struct {
	Hostname  string `json:"hostname" yaml:"hostname"`
	IP        string `json:"ip" yaml:"ip"`
	Vendor    string `json:"vendor" yaml:"vendor"`
	Model     string `json:"model,omitempty" yaml:"model,omitempty"`
	OSVersion string `json:"os_version" yaml:"os_version"`
	Role      string `json:"role" yaml:"role"`
}

// Validate performs schema validation on a DeviceRecord.
func (d DeviceRecord) Validate() error {
	if strings.TrimSpace(d.Hostname) == "" {
		return fmt.Errorf("DeviceRecord: Hostname cannot be empty")
	}
	return nil
}

// Vulnerability is a catalog entry. AffectedVersions is carried for display only.
type Vulnerability struct {
	ID               string   `json:"id" yaml:"-"`
	Product          string   `json:"product" yaml:"product"`
	AffectedVersions []string `json:"affected_versions" yaml:"affected_versions"`
	Severity         string   `json:"severity" yaml:"severity"`
}

// VulnerabilityCatalog maps vulnerability ID to its catalog entry.
type VulnerabilityCatalog map[string]Vulnerability

// Entries returns the catalog entries sorted by ID, with ID populated.
func (c VulnerabilityCatalog) Entries() []Vulnerability {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Vulnerability, 0, len(ids))
	for _, id := range ids {
		v := c[id]
		v.ID = id
		out = append(out, v)
	}
	return out
}

// Tier is an exposure bucket. Lower is worse.
type Tier int

const (
	// TierNone marks a device with no risk signal; it is left out of the report.
	TierNone Tier = -1
	// TierCritical: applicable vulnerabilities on a high-risk role.
	TierCritical Tier = 0
	// TierHigh: applicable vulnerabilities only.
	TierHigh Tier = 1
	// TierMedium: high-risk role only.
	TierMedium Tier = 2
)

// Tiers lists the reportable tiers in report order.
var Tiers = []Tier{TierCritical, TierHigh, TierMedium}

func (t Tier) String() string {
	switch t {
	case TierCritical:
		return "Tier 0 (Critical)"
	case TierHigh:
		return "Tier 1 (High)"
	case TierMedium:
		return "Tier 2 (Medium)"
	default:
		return "none"
	}
}

// ExposureFinding is the classification of one device.
type ExposureFinding struct {
	Device          DeviceRecord    `json:"device"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	HighRiskRole    bool            `json:"high_risk_role"`
	Tier            Tier            `json:"tier"`
	Reason          string          `json:"reason,omitempty"`
}

// ExposureAssessment is the classification of a whole inventory.
// Findings only holds devices that landed in a tier, in inventory order.
type ExposureAssessment struct {
	Analyzed int               `json:"analyzed"`
	Findings []ExposureFinding `json:"findings"`
}

// Count returns the number of findings in tier t.
func (a ExposureAssessment) Count(t Tier) int {
	n := 0
	for _, f := range a.Findings {
		if f.Tier == t {
			n++
		}
	}
	return n
}
