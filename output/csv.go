package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ge0mant1s/soacframe-community/aggregate"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/model"
)

// CSVWriter implements the Writer interface for CSV output. Each command
// writes its own header row.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates a new CSVWriter.
func NewCSVWriter(filePath string) (*CSVWriter, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV output file %s: %w", filePath, err)
	}
	return &CSVWriter{file: file, writer: csv.NewWriter(file)}, nil
}

func (w *CSVWriter) writeAll(records [][]string) error {
	if err := w.writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write CSV records: %w", err)
	}
	return nil
}

func (w *CSVWriter) WriteCoverage(report model.CoverageReport, verdict coverage.Verdict) error {
	records := [][]string{{"technique", "name", "covered", "rules"}}
	for _, t := range report.Techniques {
		records = append(records, []string{t.ID, t.Name, strconv.FormatBool(t.Covered), strings.Join(t.Rules, ";")})
	}
	return w.writeAll(records)
}

func (w *CSVWriter) WriteValidation(results []model.ValidationResult) error {
	records := [][]string{{"path", "title", "error"}}
	for _, r := range aggregate.Failures(results) {
		for _, e := range r.Errors {
			records = append(records, []string{r.Path, r.Title, e})
		}
	}
	return w.writeAll(records)
}

func (w *CSVWriter) WriteHeaders(missing []string) error {
	records := [][]string{{"file"}}
	for _, m := range missing {
		records = append(records, []string{m})
	}
	return w.writeAll(records)
}

func (w *CSVWriter) WriteExposure(report ExposureReport) error {
	records := [][]string{{"tier", "hostname", "ip", "vendor", "model", "os_version", "role", "reason", "cves"}}
	for _, f := range report.Assessment.Findings {
		d := f.Device
		var cves []string
		for _, v := range f.Vulnerabilities {
			cves = append(cves, v.ID)
		}
		records = append(records, []string{
			strconv.Itoa(int(f.Tier)), d.Hostname, d.IP, d.Vendor, d.Model, d.OSVersion, d.Role, f.Reason, strings.Join(cves, ";"),
		})
	}
	return w.writeAll(records)
}

// Close flushes any buffered data and closes the underlying file.
func (w *CSVWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
