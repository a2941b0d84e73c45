package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ge0mant1s/soacframe-community/aggregate"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

const (
	reportRule   = 60
	exposureRule = 70
)

// CLIWriter implements the Writer interface for console output.
type CLIWriter struct {
	out   io.Writer
	color *util.Colorizer
}

// NewCLIWriter creates a new CLIWriter. A nil out writes to stdout.
func NewCLIWriter(out io.Writer, colorize bool) *CLIWriter {
	if out == nil {
		out = os.Stdout
	}
	return &CLIWriter{out: out, color: &util.Colorizer{Enabled: colorize}}
}

func (w *CLIWriter) banner(title string, width int) {
	rule := strings.Repeat("=", width)
	fmt.Fprintf(w.out, "\n%s\n%s\n%s\n\n", rule, w.color.Bold(title), rule)
}

// WriteCoverage prints one line per reference technique with the rules that
// cover it, followed by the totals and the gate outcome.
func (w *CLIWriter) WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error {
	title := "ATT&CK Coverage Report"
	if report.Reference != "" {
		title = report.Reference + " " + title
	}
	w.banner(title, reportRule)

	for _, t := range report.Techniques {
		label := t.ID
		if t.Name != "" {
			label += " - " + t.Name
		}
		if t.Covered {
			fmt.Fprintf(w.out, "%s %s\n", w.color.Green("✅"), label)
			for _, r := range t.Rules {
				fmt.Fprintf(w.out, "   └─ %s\n", r)
			}
		} else {
			fmt.Fprintf(w.out, "%s %s %s\n", w.color.Red("❌"), label, w.color.Dim("[NO COVERAGE]"))
		}
	}

	fmt.Fprintf(w.out, "\nRules Scanned: %d\n", report.RulesScanned)
	fmt.Fprintf(w.out, "📊 Coverage: %d/%d (%.1f%%)\n", report.Covered, report.Total, report.Percentage)

	if uncovered := report.Uncovered(); len(uncovered) > 0 {
		fmt.Fprintf(w.out, "\n%s\n", w.color.Red(fmt.Sprintf("Uncovered techniques (%d):", len(uncovered))))
		for _, t := range uncovered {
			fmt.Fprintf(w.out, "  - %s\n", t.ID)
		}
	}

	if len(report.Unmapped) > 0 {
		fmt.Fprintf(w.out, "\n%s\n", w.color.Yellow("⚠️  Rules without a technique mapping:"))
		for _, r := range report.Unmapped {
			fmt.Fprintf(w.out, "  - %s\n", r)
		}
	}
	if len(report.Extra) > 0 {
		fmt.Fprintf(w.out, "\n%s\n", w.color.Yellow("⚠️  Techniques outside the reference set:"))
		for _, id := range report.Extra {
			fmt.Fprintf(w.out, "  - %s\n", id)
		}
	}
	if len(report.Suspect) > 0 {
		fmt.Fprintf(w.out, "\n%s\n", w.color.Yellow("⚠️  Suspect technique values:"))
		for _, s := range report.Suspect {
			fmt.Fprintf(w.out, "  - %s:%d %q\n", s.Rule, s.Line, s.Value)
		}
	}
	if len(report.ParseErrors) > 0 {
		fmt.Fprintf(w.out, "\n%s\n", w.color.Red("❌ Unparsable rule files:"))
		for _, e := range report.ParseErrors {
			fmt.Fprintf(w.out, "  - %s: %s\n", e.Path, e.Error)
		}
	}

	threshold := fmt.Sprintf("%g%%", verdict.Policy.Threshold)
	switch {
	case verdict.Policy.Name == coverage.PolicyCampaign && !verdict.Passed:
		fmt.Fprintf(w.out, "\n%s\n", w.color.Yellow("⚠️  Warning: Coverage below "+threshold))
	case verdict.Policy.Name == coverage.PolicyCampaign:
	case verdict.Passed:
		fmt.Fprintf(w.out, "\n%s\n", w.color.Green("✅ PASS: Coverage meets "+threshold+" threshold"))
	default:
		fmt.Fprintf(w.out, "\n%s\n", w.color.Red("❌ FAIL: Coverage below "+threshold+" threshold"))
	}
	return nil
}

// WriteValidation prints every failing rule with its errors, grouped by file.
func (w *CLIWriter) WriteValidation(results []model.ValidationResult) error {
	failed := aggregate.Failures(results)
	if len(failed) == 0 {
		fmt.Fprintln(w.out, w.color.Green("✅ All detection rules validated successfully"))
		return nil
	}

	fmt.Fprintf(w.out, "%s\n\n", w.color.Red("❌ Validation failed:"))
	for _, r := range failed {
		fmt.Fprintf(w.out, "%s:\n", w.color.Cyan(r.Path))
		for _, e := range r.Errors {
			fmt.Fprintf(w.out, "  - %s\n", e)
		}
	}
	return nil
}

// WriteHeaders prints the query files lacking the technique marker, or PASS.
func (w *CLIWriter) WriteHeaders(missing []string) error {
	if len(missing) == 0 {
		fmt.Fprintln(w.out, w.color.Green("PASS"))
		return nil
	}
	fmt.Fprintf(w.out, "%s %s\n", w.color.Red("Missing MITRE tags:"), strings.Join(missing, ", "))
	return nil
}

// WriteExposure prints the tiered device report and summary.
func (w *CLIWriter) WriteExposure(report ExposureReport) error {
	title := report.Title
	if title == "" {
		title = "Exposure Assessment"
	}
	w.banner(title, exposureRule)

	a := report.Assessment
	if a.Analyzed == 0 {
		fmt.Fprintln(w.out, w.color.Yellow("⚠️  No devices found in inventory"))
		return nil
	}
	fmt.Fprintf(w.out, "📊 Analyzing %d devices...\n\n", a.Analyzed)

	rule := strings.Repeat("-", exposureRule)
	groups := aggregate.ByTier(a.Findings)
	for _, g := range groups {
		if len(g.Findings) == 0 {
			continue
		}
		switch g.Tier {
		case model.TierCritical:
			fmt.Fprintf(w.out, "%s\n%s\n", w.color.Red("🚨 TIER 0 - CRITICAL EXPOSURE"), rule)
			for _, f := range g.Findings {
				d := f.Device
				fmt.Fprintf(w.out, "\n  Device: %s (%s)\n", w.color.Bold(d.Hostname), d.Role)
				fmt.Fprintf(w.out, "  IP: %s\n", orNA(d.IP))
				fmt.Fprintf(w.out, "  Vendor: %s %s\n", d.Vendor, orNA(d.Model))
				fmt.Fprintf(w.out, "  OS: %s\n", orNA(d.OSVersion))
				fmt.Fprintf(w.out, "  Reason: %s\n", f.Reason)
				if len(f.Vulnerabilities) > 0 {
					fmt.Fprintln(w.out, "  CVEs:")
					for _, v := range f.Vulnerabilities {
						fmt.Fprintf(w.out, "    - %s (%s)\n", v.ID, v.Severity)
					}
				}
			}
			fmt.Fprintln(w.out)
		case model.TierHigh:
			fmt.Fprintf(w.out, "\n%s\n%s\n", w.color.Yellow("⚠️  TIER 1 - HIGH EXPOSURE"), rule)
			w.oneLiners(g.Findings)
		case model.TierMedium:
			fmt.Fprintf(w.out, "\n%s\n%s\n", w.color.Cyan("📋 TIER 2 - MEDIUM EXPOSURE"), rule)
			w.oneLiners(g.Findings)
		}
	}

	w.banner("SUMMARY", exposureRule)
	fmt.Fprintf(w.out, "  Tier 0 (Critical): %d devices\n", a.Count(model.TierCritical))
	fmt.Fprintf(w.out, "  Tier 1 (High):     %d devices\n", a.Count(model.TierHigh))
	fmt.Fprintf(w.out, "  Tier 2 (Medium):   %d devices\n", a.Count(model.TierMedium))
	fmt.Fprintf(w.out, "  Total Analyzed:    %d devices\n\n", a.Analyzed)

	if a.Count(model.TierCritical) > 0 {
		fmt.Fprintln(w.out, w.color.Red("⚠️  IMMEDIATE ACTION REQUIRED for Tier 0 devices"))
		if report.Playbook != "" {
			fmt.Fprintf(w.out, "   1. Review %s\n", report.Playbook)
		} else {
			fmt.Fprintln(w.out, "   1. Review the edge compromise playbook")
		}
		fmt.Fprintln(w.out, "   2. Patch or isolate affected devices")
		fmt.Fprintln(w.out, "   3. Run detection rules against historical logs")
		fmt.Fprintln(w.out)
	}
	return nil
}

func (w *CLIWriter) oneLiners(findings []model.ExposureFinding) {
	for _, f := range findings {
		fmt.Fprintf(w.out, "  • %s - %s\n", f.Device.Hostname, f.Reason)
	}
}

// Close is a no-op for console output.
func (w *CLIWriter) Close() error {
	return nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}

// TXTWriter writes the console report without colors to a file.
type TXTWriter struct {
	*CLIWriter
	file *os.File
}

// NewTXTWriter creates a new TXTWriter.
func NewTXTWriter(filePath string) (*TXTWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create text output file %s: %w", filePath, err)
	}
	return &TXTWriter{CLIWriter: NewCLIWriter(file, false), file: file}, nil
}

// Close closes the output file.
func (w *TXTWriter) Close() error {
	return w.file.Close()
}
