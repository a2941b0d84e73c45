package coverage

import "github.com/ge0mant1s/soacframe-community/model"

const (
	// LibraryThreshold is the minimum library-wide coverage percentage.
	LibraryThreshold = 80.0
	// CampaignThreshold is the minimum campaign-specific coverage percentage.
	CampaignThreshold = 70.0

	PolicyLibrary  = "library"
	PolicyCampaign = "campaign"

	ExitPass = 0
	ExitFail = 1
)

// Policy is a named pass/fail threshold.
type Policy struct {
	Name      string
	Threshold float64
}

// Library is the policy applied to a whole query library.
func Library() Policy {
	return Policy{Name: PolicyLibrary, Threshold: LibraryThreshold}
}

// Campaign is the policy applied to campaign-specific coverage.
func Campaign() Policy {
	return Policy{Name: PolicyCampaign, Threshold: CampaignThreshold}
}

// Verdict is the outcome of a Policy evaluation.
type Verdict struct {
	Policy     Policy
	Percentage float64
	Passed     bool
	ExitCode   int
}

// Gate evaluates p against the unrounded coverage of report, so 79.95% fails
// an 80% threshold even though it is reported as 80.0.
func Gate(report model.CoverageReport, p Policy) Verdict {
	if report.Total <= 0 {
		return p.Evaluate(0)
	}
	return p.Evaluate(RawPercentage(report.Covered, report.Total))
}

// Evaluate passes when percentage >= the threshold.
func (p Policy) Evaluate(percentage float64) Verdict {
	v := Verdict{Policy: p, Percentage: percentage, Passed: percentage >= p.Threshold}
	if !v.Passed {
		v.ExitCode = ExitFail
	}
	return v
}
