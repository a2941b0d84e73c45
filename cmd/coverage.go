package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ge0mant1s/soacframe-community/catalog"
	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

var coverageReference string

var coverageCmd = &cobra.Command{
	Use:   "coverage [rules-dir]",
	Short: "Measure campaign ATT&CK coverage of structured detection rules",
	Long: `Scans *.yml and *.yaml rules recursively, reads the attack.tXXXX tags and
reports which campaign techniques have at least one rule. Fails below 70%.
The built-in Salt Typhoon technique set is used unless --reference is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCoverage,
}

func runCoverage(cmd *cobra.Command, args []string) error {
	root := rootArg(args, cfg.DetectionsDir)

	ref := catalog.SaltTyphoonTechniques()
	if coverageReference != "" {
		var err error
		if ref, err = input.LoadReferenceSet(coverageReference); err != nil {
			return err
		}
	}

	rules, err := scanRules(cmd, root, input.StructuredPatterns, true)
	if err != nil {
		return err
	}
	return reportCoverage(cmd, model.CommandCoverage, rules, ref, coverage.Campaign())
}

// reportCoverage computes, gates and writes a coverage report.
func reportCoverage(cmd *cobra.Command, command string, rules []model.DetectionRule, ref model.ReferenceSet, policy coverage.Policy) error {
	report, err := coverage.Calculate(rules, ref)
	if err != nil {
		return err
	}
	verdict := coverage.Gate(report, policy)
	util.Debug("Coverage %.1f%% against %s policy (threshold %g%%)", report.Percentage, policy.Name, policy.Threshold)

	writers, err := openWriters(cmd, command)
	if err != nil {
		return err
	}
	if err := writers.WriteCoverage(report, verdict); err != nil {
		util.Warn("Error writing coverage report: %v", err)
	}
	return finish(writers, !verdict.Passed)
}

func init() {
	coverageCmd.Flags().StringVarP(&coverageReference, "reference", "r", "", "Technique reference file (JSON or YAML) instead of the built-in campaign set")
	rootCmd.AddCommand(coverageCmd)
}
