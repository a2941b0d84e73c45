package output

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ge0mant1s/soacframe-community/aggregate"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/model"
)

// MetricsWriter implements the Writer interface by recording results as
// Prometheus gauges and writing them in the textfile collector format on Close.
type MetricsWriter struct {
	filePath string
	registry *prometheus.Registry

	CoveragePercent    *prometheus.GaugeVec
	TechniquesTotal    *prometheus.GaugeVec
	TechniquesCovered  *prometheus.GaugeVec
	RulesScanned       prometheus.Gauge
	RuleParseErrors    prometheus.Gauge
	SuspectValues      prometheus.Gauge
	GatePassed         *prometheus.GaugeVec
	ValidationChecked  prometheus.Gauge
	ValidationFailures prometheus.Gauge
	MissingMarker      prometheus.Gauge
	ExposureDevices    *prometheus.GaugeVec
	DevicesAnalyzed    prometheus.Gauge
}

// NewMetricsWriter creates a MetricsWriter backed by its own registry.
func NewMetricsWriter(filePath string) *MetricsWriter {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &MetricsWriter{
		filePath: filePath,
		registry: reg,
		CoveragePercent: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soacframe_coverage_percent",
			Help: "Technique coverage percentage, one decimal place",
		}, []string{"reference"}),
		TechniquesTotal: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soacframe_techniques_total",
			Help: "Coverage denominator for the reference set",
		}, []string{"reference"}),
		TechniquesCovered: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soacframe_techniques_covered",
			Help: "Reference techniques with at least one contributing rule",
		}, []string{"reference"}),
		RulesScanned: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_rules_scanned",
			Help: "Rule files scanned for techniques",
		}),
		RuleParseErrors: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_rule_parse_errors",
			Help: "Rule files that could not be parsed",
		}),
		SuspectValues: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_suspect_technique_values",
			Help: "Extracted values that do not look like technique IDs",
		}),
		GatePassed: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soacframe_gate_passed",
			Help: "1 when coverage met the policy threshold, 0 otherwise",
		}, []string{"policy"}),
		ValidationChecked: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_validation_rules_checked",
			Help: "Structured rules checked by the validator",
		}),
		ValidationFailures: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_validation_failures",
			Help: "Structured rules that failed validation",
		}),
		MissingMarker: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_rules_missing_marker",
			Help: "Query files without a technique marker",
		}),
		ExposureDevices: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soacframe_exposure_devices",
			Help: "Devices per exposure tier",
		}, []string{"tier"}),
		DevicesAnalyzed: f.NewGauge(prometheus.GaugeOpts{
			Name: "soacframe_devices_analyzed",
			Help: "Inventory devices analyzed",
		}),
	}
}

func (w *MetricsWriter) WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error {
	w.CoveragePercent.WithLabelValues(report.Reference).Set(report.Percentage)
	w.TechniquesTotal.WithLabelValues(report.Reference).Set(float64(report.Total))
	w.TechniquesCovered.WithLabelValues(report.Reference).Set(float64(report.Covered))
	w.RulesScanned.Set(float64(report.RulesScanned))
	w.RuleParseErrors.Set(float64(len(report.ParseErrors)))
	w.SuspectValues.Set(float64(len(report.Suspect)))
	passed := 0.0
	if verdict.Passed {
		passed = 1
	}
	w.GatePassed.WithLabelValues(verdict.Policy.Name).Set(passed)
	return nil
}

func (w *MetricsWriter) WriteValidation(results []model.ValidationResult) error {
	w.ValidationChecked.Set(float64(len(results)))
	w.ValidationFailures.Set(float64(len(aggregate.Failures(results))))
	return nil
}

func (w *MetricsWriter) WriteHeaders(missing []string) error {
	w.MissingMarker.Set(float64(len(missing)))
	return nil
}

func (w *MetricsWriter) WriteExposure(report ExposureReport) error {
	a := report.Assessment
	w.DevicesAnalyzed.Set(float64(a.Analyzed))
	for _, t := range model.Tiers {
		w.ExposureDevices.WithLabelValues(fmt.Sprintf("%d", int(t))).Set(float64(a.Count(t)))
	}
	return nil
}

// Close writes the gathered metrics to the textfile.
func (w *MetricsWriter) Close() error {
	if err := prometheus.WriteToTextfile(w.filePath, w.registry); err != nil {
		return fmt.Errorf("failed to write metrics file %s: %w", w.filePath, err)
	}
	return nil
}
