package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ge0mant1s/soacframe-community/aggregate"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/model"
)

// MDWriter implements the Writer interface for Markdown output.
type MDWriter struct {
	filePath string
	mu       sync.Mutex
	file     *os.File
}

// NewMDWriter creates a new MDWriter and writes the report header.
func NewMDWriter(filePath string, meta model.Meta) (*MDWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create Markdown output file %s: %w", filePath, err)
	}
	w := &MDWriter{filePath: filePath, file: file}
	header := fmt.Sprintf("# soacframe %s report\n\n- Version: `%s`\n- Run: `%s`\n- Generated: `%s`\n\n",
		meta.Command, meta.Version, meta.RunID, meta.GeneratedAt.Format("2006-01-02T15:04:05Z07:00"))
	if err := w.write(header); err != nil {
		file.Close()
		return nil, err
	}
	return w, nil
}

func (w *MDWriter) write(s string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.file.WriteString(s); err != nil {
		return fmt.Errorf("failed to write to Markdown file: %w", err)
	}
	return nil
}

func (w *MDWriter) WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error {
	b := strings.Builder{}
	title := "ATT&CK Coverage"
	if report.Reference != "" {
		title = report.Reference + " " + title
	}
	b.WriteString(fmt.Sprintf("## %s\n\n", title))
	b.WriteString(fmt.Sprintf("**Coverage:** %d/%d (%.1f%%), %d rules scanned\n\n", report.Covered, report.Total, report.Percentage, report.RulesScanned))

	status := "PASS"
	if !verdict.Passed {
		status = "FAIL"
	}
	b.WriteString(fmt.Sprintf("**Gate:** `%s` threshold %g%%: **%s**\n\n", verdict.Policy.Name, verdict.Policy.Threshold, status))

	b.WriteString("| Technique | Name | Covered | Rules |\n|---|---|---|---|\n")
	for _, t := range report.Techniques {
		covered := "❌"
		if t.Covered {
			covered = "✅"
		}
		b.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n", t.ID, escapeCell(t.Name), covered, escapeCell(strings.Join(t.Rules, ", "))))
	}
	b.WriteString("\n")

	var uncovered []string
	for _, t := range report.Uncovered() {
		uncovered = append(uncovered, strings.TrimSpace(t.ID+" "+t.Name))
	}
	writeList(&b, "Uncovered techniques", uncovered)

	byRule := aggregate.TechniqueRules(report)
	if len(byRule) > 0 {
		rules := make([]string, 0, len(byRule))
		for r := range byRule {
			rules = append(rules, r)
		}
		sort.Strings(rules)
		b.WriteString("### Techniques by rule\n\n| Rule | Techniques |\n|---|---|\n")
		for _, r := range rules {
			b.WriteString(fmt.Sprintf("| `%s` | %s |\n", escapeCell(r), strings.Join(byRule[r], ", ")))
		}
		b.WriteString("\n")
	}

	writeList(&b, "Rules without a technique mapping", report.Unmapped)
	writeList(&b, "Techniques outside the reference set", report.Extra)
	if len(report.Suspect) > 0 {
		b.WriteString("### Suspect technique values\n\n")
		for _, s := range report.Suspect {
			b.WriteString(fmt.Sprintf("- `%s:%d` `%s`\n", s.Rule, s.Line, s.Value))
		}
		b.WriteString("\n")
	}
	if len(report.ParseErrors) > 0 {
		b.WriteString("### Unparsable rule files\n\n")
		for _, e := range report.ParseErrors {
			b.WriteString(fmt.Sprintf("- `%s`: %s\n", e.Path, e.Error))
		}
		b.WriteString("\n")
	}
	return w.write(b.String())
}

func (w *MDWriter) WriteValidation(results []model.ValidationResult) error {
	b := strings.Builder{}
	failed := aggregate.Failures(results)
	b.WriteString("## Rule Validation\n\n")
	b.WriteString(fmt.Sprintf("**Checked:** %d, **Failed:** %d\n\n", len(results), len(failed)))
	for _, r := range failed {
		if r.Title != "" {
			b.WriteString(fmt.Sprintf("### `%s` %s\n\n", r.Path, r.Title))
		} else {
			b.WriteString(fmt.Sprintf("### `%s`\n\n", r.Path))
		}
		for _, e := range r.Errors {
			b.WriteString(fmt.Sprintf("- %s\n", e))
		}
		b.WriteString("\n")
	}
	return w.write(b.String())
}

func (w *MDWriter) WriteHeaders(missing []string) error {
	b := strings.Builder{}
	b.WriteString("## Rule Headers\n\n")
	if len(missing) == 0 {
		b.WriteString("**PASS**: every query file carries a technique tag.\n\n")
	} else {
		writeList(&b, "Missing MITRE tags", missing)
	}
	return w.write(b.String())
}

func (w *MDWriter) WriteExposure(report ExposureReport) error {
	b := strings.Builder{}
	title := report.Title
	if title == "" {
		title = "Exposure Assessment"
	}
	a := report.Assessment
	b.WriteString(fmt.Sprintf("## %s\n\n", title))
	b.WriteString(fmt.Sprintf("**Devices analyzed:** %d\n\n", a.Analyzed))

	for _, g := range aggregate.ByTier(a.Findings) {
		b.WriteString(fmt.Sprintf("### %s: %d devices\n\n", g.Tier, len(g.Findings)))
		if len(g.Findings) == 0 {
			continue
		}
		b.WriteString("| Hostname | Role | IP | Vendor | Model | OS | Reason | CVEs |\n|---|---|---|---|---|---|---|---|\n")
		for _, f := range g.Findings {
			d := f.Device
			var cves []string
			for _, v := range f.Vulnerabilities {
				cves = append(cves, fmt.Sprintf("%s (%s)", v.ID, v.Severity))
			}
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				escapeCell(d.Hostname), escapeCell(d.Role), escapeCell(orNA(d.IP)), escapeCell(d.Vendor),
				escapeCell(orNA(d.Model)), escapeCell(orNA(d.OSVersion)), f.Reason, strings.Join(cves, ", ")))
		}
		b.WriteString("\n")
	}

	if a.Count(model.TierCritical) > 0 && report.Playbook != "" {
		b.WriteString(fmt.Sprintf("> **Immediate action required:** review `%s`, patch or isolate affected devices, and run detection rules against historical logs.\n\n", report.Playbook))
	}
	return w.write(b.String())
}

// Close closes the underlying file.
func (w *MDWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("### %s\n\n", heading))
	for _, item := range items {
		b.WriteString(fmt.Sprintf("- `%s`\n", item))
	}
	b.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
