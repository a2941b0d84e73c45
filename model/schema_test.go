package model_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ge0mant1s/soacframe-community/model"
)

func TestDeviceRecordSchema(t *testing.T) {
	tests := []struct {
		name    string
		input   model.DeviceRecord
		wantErr string
	}{
		{
			name: "Valid device",
			input: model.DeviceRecord{
				Hostname:  "edge-rtr-01",
				IP:        "10.0.0.1",
				Vendor:    "Cisco",
				OSVersion: "17.6.5",
				Role:      "internet-edge",
			},
		},
		{
			name:    "Missing hostname",
			input:   model.DeviceRecord{IP: "10.0.0.2", Vendor: "Juniper"},
			wantErr: "DeviceRecord: Hostname cannot be empty",
		},
		{
			name:    "Whitespace hostname",
			input:   model.DeviceRecord{Hostname: "   ", Vendor: "Juniper"},
			wantErr: "DeviceRecord: Hostname cannot be empty",
		},
		{
			name:  "Model is optional",
			input: model.DeviceRecord{Hostname: "core-sw-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

func TestRuleDocumentTags(t *testing.T) {
	doc := model.RuleDocument{Fields: map[string]any{
		"title": "  Edge exploit ",
		"tags":  []any{"attack.t1190", 42, "salt_typhoon"},
	}}
	assert.True(t, doc.Has("tags"))
	assert.False(t, doc.Has("detection"))
	assert.Equal(t, []string{"attack.t1190", "salt_typhoon"}, doc.Tags())
	assert.Equal(t, "Edge exploit", doc.Title())

	scalar := model.RuleDocument{Fields: map[string]any{"tags": "attack.t1190"}}
	assert.Nil(t, scalar.Tags())

	null := model.RuleDocument{Fields: map[string]any{"tags": nil}}
	assert.True(t, null.Has("tags"))
	assert.Nil(t, null.Tags())
}

func TestErrorTaxonomy(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	parseErr := fmt.Errorf("loading rules: %w", &model.ParseError{Path: "a.yml", Err: cause})

	assert.ErrorIs(t, parseErr, model.ErrParse)
	assert.ErrorIs(t, parseErr, cause)
	assert.NotErrorIs(t, parseErr, model.ErrConfig)

	var pe *model.ParseError
	require.ErrorAs(t, parseErr, &pe)
	assert.Equal(t, "a.yml", pe.Path)

	missing := &model.InputMissingError{Path: "inv.yml", Hint: "Please populate inv.yml"}
	assert.ErrorIs(t, missing, model.ErrInputMissing)
	assert.Equal(t, "inv.yml not found. Please populate inv.yml", missing.Error())

	cfg := &model.ConfigError{Reason: "reference set has zero techniques"}
	assert.ErrorIs(t, cfg, model.ErrConfig)
	assert.Equal(t, "invalid configuration: reference set has zero techniques", cfg.Error())
}

func TestCatalogEntriesSorted(t *testing.T) {
	cat := model.VulnerabilityCatalog{
		"CVE-2024-21887": {Product: "Ivanti Connect Secure"},
		"CVE-2023-46805": {Product: "Ivanti Connect Secure"},
		"CVE-2024-20931": {Product: "Cisco IOS XE"},
	}
	entries := cat.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "CVE-2023-46805", entries[0].ID)
	assert.Equal(t, "CVE-2024-20931", entries[1].ID)
	assert.Equal(t, "CVE-2024-21887", entries[2].ID)
}

func TestTierString(t *testing.T) {
	assert.Equal(t, "Tier 0 (Critical)", model.TierCritical.String())
	assert.Equal(t, "Tier 1 (High)", model.TierHigh.String())
	assert.Equal(t, "Tier 2 (Medium)", model.TierMedium.String())
	assert.Equal(t, "none", model.TierNone.String())
}
