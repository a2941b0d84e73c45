package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ge0mant1s/soacframe-community/coverage"
	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
)

var (
	libraryMapping string
	libraryGlob    string
)

var libraryCmd = &cobra.Command{
	Use:   "library [rules-dir]",
	Short: "Measure technique coverage of a query rule library",
	Long: `Scans query files (default *.kql, not recursive) for "MITRE: T1234 - name"
comment lines and compares the distinct techniques with the mapping table.
Fails below 80%.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLibrary,
}

func runLibrary(cmd *cobra.Command, args []string) error {
	root := rootArg(args, cfg.QueryDir)
	mapping := libraryMapping
	if mapping == "" {
		mapping = cfg.AttackMapping
	}

	ref, err := input.LoadReferenceSet(mapping)
	if err != nil {
		return err
	}

	rules, err := scanRules(cmd, root, splitPatterns(libraryGlob), false)
	if err != nil {
		return err
	}
	return reportCoverage(cmd, model.CommandLibrary, rules, ref, coverage.Library())
}

func init() {
	libraryCmd.Flags().StringVarP(&libraryMapping, "mapping", "m", "", "Technique mapping table (default from SOACFRAME_ATTACK_MAPPING)")
	libraryCmd.Flags().StringVarP(&libraryGlob, "glob", "g", strings.Join(input.QueryPatterns, ","), "Comma separated file patterns for query rules")
	rootCmd.AddCommand(libraryCmd)
}
