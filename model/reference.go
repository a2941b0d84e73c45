package model

import "sort"

// ReferenceSet is the technique set a rule library is measured against.
// Techniques maps technique ID to a descriptive name. Total optionally
// overrides the coverage denominator; zero means len(Techniques).
type ReferenceSet struct {
	Name       string            `json:"name" yaml:"name"`
	Techniques map[string]string `json:"techniques" yaml:"techniques"`
	Total      int               `json:"total_techniques_covered,omitempty" yaml:"total_techniques_covered,omitempty"`
}

// IDs returns the technique IDs in sorted order.
func (r ReferenceSet) IDs() []string {
	ids := make([]string, 0, len(r.Techniques))
	for id := range r.Techniques {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
