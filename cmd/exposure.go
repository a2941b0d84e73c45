package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ge0mant1s/soacframe-community/catalog"
	"github.com/ge0mant1s/soacframe-community/exposure"
	"github.com/ge0mant1s/soacframe-community/input"
	"github.com/ge0mant1s/soacframe-community/model"
	"github.com/ge0mant1s/soacframe-community/output"
	"github.com/ge0mant1s/soacframe-community/util"
)

var (
	exposureInventory    string
	exposureCatalog      string
	exposurePlaybook     string
	exposureFailCritical bool
)

var exposureCmd = &cobra.Command{
	Use:   "exposure",
	Short: "Triage a device inventory into exposure tiers",
	Long: `Matches every inventory device against the vulnerability catalog by vendor
and checks its role against the high-risk roles:
  Tier 0 (Critical)  applicable CVEs on a high-risk role
  Tier 1 (High)      applicable CVEs
  Tier 2 (Medium)    high-risk role only`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inventory := firstNonEmpty(exposureInventory, cfg.Inventory)
		catalogPath := firstNonEmpty(exposureCatalog, cfg.Catalog)

		vulns, roles, err := input.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
		devices, err := input.LoadInventory(inventory)
		if err != nil {
			return err
		}
		util.Debug("Loaded %d devices from %s", len(devices), inventory)

		title := "Exposure Assessment"
		if catalogPath == "" {
			title = catalog.SaltTyphoon().Name + " " + title
		}
		assessment := exposure.NewClassifier(vulns, roles).Assess(devices)

		writers, err := openWriters(cmd, model.CommandExposure)
		if err != nil {
			return err
		}
		report := output.ExposureReport{
			Title:      title,
			Assessment: assessment,
			Playbook:   firstNonEmpty(exposurePlaybook, cfg.Playbook),
		}
		if err := writers.WriteExposure(report); err != nil {
			util.Warn("Error writing exposure report: %v", err)
		}
		return finish(writers, exposureFailCritical && assessment.Count(model.TierCritical) > 0)
	},
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	exposureCmd.Flags().StringVarP(&exposureInventory, "inventory", "i", "", "Device inventory YAML (default from SOACFRAME_INVENTORY)")
	exposureCmd.Flags().StringVar(&exposureCatalog, "catalog", "", "Vulnerability catalog file (default: built-in Salt Typhoon catalog)")
	exposureCmd.Flags().StringVar(&exposurePlaybook, "playbook", "", "Playbook named in the Tier 0 action block")
	exposureCmd.Flags().BoolVar(&exposureFailCritical, "fail-on-critical", false, "Exit 1 when any device lands in Tier 0")
	rootCmd.AddCommand(exposureCmd)
}
