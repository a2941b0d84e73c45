package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/util"
)

var headersGlob string

var headersCmd = &cobra.Command{
	Use:   "headers [rules-dir]",
	Short: "Check that every query rule carries a MITRE technique tag",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := rootArg(args, cfg.QueryDir)
		paths, err := discover(root, splitPatterns(headersGlob), false)
		if err != nil {
			return err
		}
		missing := input.MissingMarker(paths)

		writers, err := openWriters(cmd, model.CommandHeaders)
		if err != nil {
			return err
		}
		if err := writers.WriteHeaders(missing); err != nil {
			util.Warn("Error writing header report: %v", err)
		}
		return finish(writers, len(missing) > 0)
	},
}

func init() {
	headersCmd.Flags().StringVarP(&headersGlob, "glob", "g", strings.Join(input.QueryPatterns, ","), "Comma separated file patterns for query rules")
	rootCmd.AddCommand(headersCmd)
}
