package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/progress"
	"github.com/ge0mant1s/soacframe-community/util"
)

// discover lists the rule files under root, warning when nothing matched.
func discover(root string, patterns []string, recursive bool) ([]string, error) {
	paths, err := input.DiscoverRules(root, patterns, recursive)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		util.Warn("No rule files matching %s found in %s", strings.Join(patterns, ", "), root)
		return paths, nil
	}
	util.Info("Found %d rule files in %s", len(paths), root)
	return paths, nil
}

// scanRules discovers and extracts every rule under root, showing progress.
func scanRules(cmd *cobra.Command, root string, patterns []string, recursive bool) ([]model.DetectionRule, error) {
	paths, err := discover(root, patterns, recursive)
	if err != nil {
		return nil, err
	}

	tracker := progress.NewTracker(cmd.ErrOrStderr(), len(paths), silent, colorEnabled())
	rules := input.LoadRules(root, paths, tracker.Record)
	tracker.Done()

	parsed, failed := tracker.Counts()
	util.WithField("root", root).Debugf("Scanned %d rule files (parsed %d, failed %d)", len(paths), parsed, failed)
	return rules, nil
}

func splitPatterns(s string) []string {
	var patterns []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}

func rootArg(args []string, fallback string) string {
	if len(args) > 0 {
		return args[0]
	}
	return fallback
}
