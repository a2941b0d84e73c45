// Package config holds the build version and the environment-driven defaults
// used by the command line.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Version is overridden at build time with -ldflags "-X .../config.Version=...".
var Version = "0.3.0"

// Config carries the default input locations. Flags override each field.
type Config struct {
	DetectionsDir string // structured rules, scanned recursively
	QueryDir      string // free-text query rules
	AttackMapping string // library reference table
	Inventory     string // device inventory document
	Playbook      string // response playbook named in exposure reports
	Catalog       string // vulnerability catalog; empty selects the built-in one
}

// Defaults returns the layout of a SOaC content pack.
func Defaults() Config {
	return Config{
		DetectionsDir: "detections",
		QueryDir:      "detection-rules/sentinel-kql",
		AttackMapping: "mitre-attack/attack_mapping.json",
		Inventory:     "assets/device_inventory_template.yml",
		Playbook:      "playbooks/salt_typhoon_edge_compromise.yml",
	}
}

// Load reads the optional env files (".env" when none are given) and
// applies SOACFRAME_* variables over Defaults.
func Load(files ...string) Config {
	_ = godotenv.Load(files...)

	cfg := Defaults()
	override(&cfg.DetectionsDir, "SOACFRAME_DETECTIONS_DIR")
	override(&cfg.QueryDir, "SOACFRAME_QUERY_DIR")
	override(&cfg.AttackMapping, "SOACFRAME_ATTACK_MAPPING")
	override(&cfg.Inventory, "SOACFRAME_INVENTORY")
	override(&cfg.Playbook, "SOACFRAME_PLAYBOOK")
	override(&cfg.Catalog, "SOACFRAME_CATALOG")
	return cfg
}

func override(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
