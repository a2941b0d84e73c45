package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
	"github.com/ge0mant1s/soacframe-community/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate [rules-dir]",
	Short: "Validate structure and ATT&CK tagging of structured detection rules",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := rootArg(args, cfg.DetectionsDir)
		paths, err := discover(root, input.StructuredPatterns, true)
		if err != nil {
			return err
		}

		docs, results := input.LoadRuleDocuments(paths)
		schema := validate.DefaultSchema()
		failed := len(results) > 0
		for _, doc := range docs {
			r := schema.Validate(doc)
			if !r.Valid() {
				failed = true
			}
			results = append(results, r)
		}
		util.Debug("Validated %d rules", len(results))

		writers, err := openWriters(cmd, model.CommandValidate)
		if err != nil {
			return err
		}
		if err := writers.WriteValidation(results); err != nil {
			util.Warn("Error writing validation report: %v", err)
		}
		return finish(writers, failed)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
