package input

import (
	"encoding/json"
	"fmt"

	"github.com/ge0mant1s/soacframe-community/catalog"
	"github.com/ge0mant1s/soacframe-community/model"
)

type catalogFile struct {
	Vulnerabilities map[string]model.Vulnerability `json:"vulnerabilities"`
	HighRiskRoles   []string                       `json:"high_risk_roles"`
}

// LoadCatalog returns the vulnerability catalog and high-risk roles. An empty
// path selects the built-in Salt Typhoon data; a file may override either
// section and falls back to the built-in data for the one it omits.
func LoadCatalog(path string) (model.VulnerabilityCatalog, []string, error) {
	vulns, roles := catalog.SaltTyphoonVulnerabilities(), catalog.HighRiskRoles()
	if path == "" {
		return vulns, roles, nil
	}

	doc, err := decodeFile(path, "Provide a vulnerability catalog with --catalog.")
	if err != nil {
		return nil, nil, err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, &model.ParseError{Path: path, Err: err}
	}
	var f catalogFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, nil, &model.ParseError{Path: path, Err: err}
	}

	if f.Vulnerabilities != nil {
		vulns = model.VulnerabilityCatalog{}
		for id, v := range f.Vulnerabilities {
			if v.Product == "" {
				return nil, nil, &model.ConfigError{Reason: fmt.Sprintf("%s: %s has no product", path, id)}
			}
			vulns[id] = v
		}
	}
	if f.HighRiskRoles != nil {
		roles = f.HighRiskRoles
	}
	return vulns, roles, nil
}
