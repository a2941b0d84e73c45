package output

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/model"
)

// ExposureReport carries an assessment together with the context needed to
// present it.
type ExposureReport struct {
	Title      string // Salt Typhoon Exposure Assessment
	Assessment model.ExposureAssessment
	Playbook   string
}

// Writer defines the interface for outputting audit results. A writer is used
// for a single command and closed once.
type Writer interface {
	WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error
	WriteValidation(results []model.ValidationResult) error
	WriteHeaders(missing []string) error
	WriteExposure(report ExposureReport) error
	Close() error
}

// NewMeta describes one run of command.
func NewMeta(command, version string) model.Meta {
	return model.Meta{
		Tool:        "soacframe",
		Version:     version,
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Command:     command,
	}
}

// New returns the file writer for format.
func New(format, path string, meta model.Meta) (Writer, error) {
	switch format {
	case "json":
		return NewJSONWriter(path, meta)
	case "md":
		return NewMDWriter(path, meta)
	case "csv":
		return NewCSVWriter(path)
	case "txt":
		return NewTXTWriter(path)
	default:
		return nil, fmt.Errorf("unsupported output format for file: %s", format)
	}
}

// Multi fans every call out to all writers. The first error is returned after
// all writers have been called.
type Multi []Writer

func (m Multi) each(fn func(Writer) error) error {
	var first error
	for _, w := range m {
		if w == nil {
			continue
		}
		if err := fn(w); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m Multi) WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error {
	return m.each(func(w Writer) error { return w.WriteCoverage(report, verdict) })
}

func (m Multi) WriteValidation(results []model.ValidationResult) error {
	return m.each(func(w Writer) error { return w.WriteValidation(results) })
}

func (m Multi) WriteHeaders(missing []string) error {
	return m.each(func(w Writer) error { return w.WriteHeaders(missing) })
}

func (m Multi) WriteExposure(report ExposureReport) error {
	return m.each(func(w Writer) error { return w.WriteExposure(report) })
}

func (m Multi) Close() error {
	return m.each(func(w Writer) error { return w.Close() })
}
