// Package catalog provides the built-in Salt Typhoon reference data
// (advisory AA25-239A). Every accessor returns a fresh value so callers can
// never mutate shared state.
package catalog

import "github.com/ge0mant1s/soacframe-community/model"

// SaltTyphoon is the campaign descriptor used for tag checks.
func SaltTyphoon() model.Campaign {
	return model.Campaign{Name: "Salt Typhoon", Tag: "salt_typhoon"}
}

// SaltTyphoonTechniques returns the ATT&CK techniques attributed to the campaign.
func SaltTyphoonTechniques() model.ReferenceSet {
	return model.ReferenceSet{
		Name: "Salt Typhoon",
		Techniques: map[string]string{
			"T1190":     "Exploit Public-Facing Application",
			"T1133":     "External Remote Services",
			"T1505.003": "Web Shell",
			"T1543.003": "Create or Modify System Process",
			"T1098":     "Account Manipulation",
			"T1082":     "System Information Discovery",
			"T1590":     "Gather Victim Network Information",
			"T1040":     "Network Sniffing",
			"T1005":     "Data from Local System",
			"T1572":     "Protocol Tunneling",
			"T1090":     "Proxy",
			"T1020":     "Automated Exfiltration",
		},
	}
}

// SaltTyphoonVulnerabilities returns the CVEs exploited in the campaign.
func SaltTyphoonVulnerabilities() model.VulnerabilityCatalog {
	return model.VulnerabilityCatalog{
		"CVE-2024-20931": {
			Product:          "Cisco IOS XE",
			AffectedVersions: []string{"< 17.6.6", "< 17.9.4"},
			Severity:         "critical",
		},
		"CVE-2024-21887": {
			Product:          "Ivanti Connect Secure",
			AffectedVersions: []string{"< 9.1R14.4", "< 22.5R2.2"},
			Severity:         "critical",
		},
		"CVE-2023-46805": {
			Product:          "Ivanti Connect Secure",
			AffectedVersions: []string{"< 9.1R14.4", "< 22.5R2.2"},
			Severity:         "critical",
		},
	}
}

// HighRiskRoles returns the device roles treated as exposed by position.
func HighRiskRoles() []string {
	return []string{"internet-edge", "provider-edge", "vpn-gateway"}
}
